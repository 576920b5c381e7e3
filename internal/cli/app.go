package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/blob"
	"github.com/kailas-cloud/hitreport/internal/config"
	dbRedis "github.com/kailas-cloud/hitreport/internal/db/redis"
	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
	"github.com/kailas-cloud/hitreport/internal/metrics"
	reportrepo "github.com/kailas-cloud/hitreport/internal/repository/report"
	"github.com/kailas-cloud/hitreport/internal/repository/seqcache"
	seqrepo "github.com/kailas-cloud/hitreport/internal/repository/sequence"
	"github.com/kailas-cloud/hitreport/internal/repository/sqlseq"
	"github.com/kailas-cloud/hitreport/internal/transport/blastdb"
	exportuc "github.com/kailas-cloud/hitreport/internal/usecase/export"
	healthuc "github.com/kailas-cloud/hitreport/internal/usecase/health"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
	reportuc "github.com/kailas-cloud/hitreport/internal/usecase/report"
	viewuc "github.com/kailas-cloud/hitreport/internal/usecase/view"
)

// sequenceWriter loads sequences into a writable backend.
type sequenceWriter interface {
	Put(ctx context.Context, seqs []domseq.Sequence) error
}

// sequenceBackend is the configured sequence source.
type sequenceBackend struct {
	resolver exportuc.SequenceResolver
	// writer is nil for read-only backends (blastdbcmd).
	writer sequenceWriter
	health healthuc.CheckFunc
	close  func() error
}

// app is the wired service graph shared by serve and the store-backed commands.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	store      *dbRedis.Store
	blobs      blob.Store
	sequences  sequenceBackend
	exports    *exportuc.Service
	reports    *reportuc.Service
	renderer   *render.Renderer
	dispatcher *render.Dispatcher
	views      *viewuc.Service
	health     *healthuc.Service
}

// newApp connects to the configured backends and wires the services.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Database ready", zap.Strings("addrs", cfg.Database.Addrs))

	a := &app{cfg: cfg, logger: logger, store: store}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg
	metrics.RegisterDomainMetrics()

	seqs, err := openSequences(ctx, cfg, a.store, a.logger)
	if err != nil {
		return err
	}
	a.sequences = seqs

	blobs, err := blob.Open(ctx, blob.Config{
		Driver: blob.Driver(cfg.Blob.Driver),
		Root:   cfg.Blob.Root,
		S3: blob.S3Config{
			Bucket:    cfg.Blob.Bucket,
			Region:    cfg.Blob.Region,
			Endpoint:  cfg.Blob.Endpoint,
			PathStyle: cfg.Blob.PathStyle,
			Prefix:    cfg.Blob.Prefix,
		},
	})
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	a.blobs = blobs

	a.exports = exportuc.New(seqs.resolver, cfg.Report.LineWidth()).WithMetrics(metrics.ExportsTotal)

	deriver, err := hitview.NewDeriver(cfg.Report.Locale)
	if err != nil {
		return fmt.Errorf("create deriver: %w", err)
	}
	renderer, err := render.New(deriver, cfg.Report.VeryBigHits, cfg.Report.RenderCacheSize)
	if err != nil {
		return err
	}
	a.renderer = renderer.WithMetrics(metrics.RenderMemoTotal)

	a.dispatcher = render.NewDispatcher(a.exports, blobs, a.exports,
		time.Duration(cfg.Report.ExportTimeoutSec)*time.Second,
	).WithMetrics(metrics.DispatchesTotal)

	reports, err := reportuc.New(
		reportrepo.New(a.store, time.Duration(cfg.Report.TTLSec)*time.Second),
		blobs,
		cfg.Report.ReportCacheSize,
	)
	if err != nil {
		return err
	}
	a.views = viewuc.New(reports, a.renderer, a.dispatcher, a.exports)
	a.reports = reports.OnForget(a.views.Forget)

	a.health = healthuc.New(a.store).With("sequences", seqs.health)
	return nil
}

// openSequences builds the sequence backend selected by sequences.driver,
// behind the redis cache when a cache TTL is set.
func openSequences(ctx context.Context, cfg config.Config, store *dbRedis.Store, logger *zap.Logger) (sequenceBackend, error) {
	var b sequenceBackend
	switch cfg.Sequences.Driver {
	case config.SequencesRedis:
		repo := seqrepo.New(store)
		b = sequenceBackend{resolver: repo, writer: repo}
	case config.SequencesSQLite, config.SequencesPostgres:
		repo, err := sqlseq.Open(ctx, sqlseq.Dialect(cfg.Sequences.Driver), cfg.Sequences.DSN)
		if err != nil {
			return sequenceBackend{}, fmt.Errorf("open sequence database: %w", err)
		}
		b = sequenceBackend{resolver: repo, writer: repo, health: repo.Ping, close: repo.Close}
	case config.SequencesBlastdbcmd:
		r := blastdb.NewResolver(&blastdb.Config{
			Binary:    cfg.Sequences.Blastdbcmd,
			Databases: cfg.Sequences.Databases,
			Logger:    logger,
		})
		b = sequenceBackend{resolver: r, health: r.HealthCheck}
	default:
		return sequenceBackend{}, fmt.Errorf("unknown sequences driver %q", cfg.Sequences.Driver)
	}

	if cfg.Sequences.CacheTTLSec > 0 {
		b.resolver = seqcache.New(b.resolver, store,
			time.Duration(cfg.Sequences.CacheTTLSec)*time.Second,
			metrics.SequenceCacheTotal, logger,
		)
	}
	logger.Info("Sequence backend ready",
		zap.String("driver", cfg.Sequences.Driver),
		zap.Bool("cached", cfg.Sequences.CacheTTLSec > 0),
	)
	return b, nil
}

// Close waits for dispatched actions and releases the backends.
func (a *app) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}
	if a.sequences.close != nil {
		if err := a.sequences.close(); err != nil {
			a.logger.Warn("Failed to close sequence backend", zap.Error(err))
		}
	}
	a.store.Close()
}
