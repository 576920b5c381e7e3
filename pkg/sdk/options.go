package hitreport

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	sequences SequenceResolver
	blobDir   string

	locale         string
	veryBigHits    int
	fastaLineWidth *int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis sets the Redis instance holding reports and sequences.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSequences replaces the Redis sequence store with r for FASTA exports
// and the sequence viewer.
func WithSequences(r SequenceResolver) Option {
	return optionFunc(func(c *clientConfig) {
		c.sequences = r
	})
}

// WithBlobDir sets the directory holding uploaded BLAST XML and dispatched
// downloads. Default: ./blobdata.
func WithBlobDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.blobDir = dir
	})
}

// WithLocale sets the BCP 47 locale used to format hit lengths. Default: en.
func WithLocale(locale string) Option {
	return optionFunc(func(c *clientConfig) {
		c.locale = locale
	})
}

// WithVeryBigHits sets the hit count above which a report is treated as very
// big. Default: 250.
func WithVeryBigHits(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.veryBigHits = n
	})
}

// WithFASTALineWidth sets the residue wrap width of FASTA downloads.
// Default: 60. Zero disables wrapping.
func WithFASTALineWidth(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.fastaLineWidth = &n
	})
}

// WithLogger enables structured logging of client operations.
// Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers operation counts and durations on reg.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
