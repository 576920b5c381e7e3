// Package seqcache puts a redis key-value cache in front of a sequence resolver.
package seqcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/domain"
	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
)

var cacheKeyPrefix = domain.KeyPrefix + "seq_cache:"

// Resolver is the decorated sequence source.
type Resolver interface {
	Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]domseq.Sequence, error)
}

// store is the consumer interface for the sequence cache (ISP).
type store interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Residues   string `json:"residues"`
	DatabaseID string `json:"database_id"`
}

// CachedResolver caches resolved sequences per database list and accession.
// Misses are not cached, so a sequence added later is picked up.
type CachedResolver struct {
	inner      Resolver
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner Resolver, s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *CachedResolver {
	return &CachedResolver{inner: inner, store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Resolve serves cached sequences and asks the inner resolver for the rest.
// Cache failures degrade to the inner resolver.
func (c *CachedResolver) Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]domseq.Sequence, error) {
	out := make(map[string]domseq.Sequence, len(accessions))
	if len(accessions) == 0 || len(databaseIDs) == 0 {
		return out, nil
	}

	scope := scopeKey(databaseIDs)
	keys := make([]string, len(accessions))
	for i, acc := range accessions {
		keys[i] = cacheKeyPrefix + scope + ":" + acc
	}

	cached, err := c.store.MGet(ctx, keys)
	if err != nil {
		c.logger.Warn("Failed to read sequence cache", zap.Error(err))
		cached = nil
	}

	var missing []string
	for i, acc := range accessions {
		if i < len(cached) && cached[i] != nil {
			if seq, ok := c.decode(keys[i], cached[i]); ok {
				c.incCache("hit")
				out[acc] = seq
				continue
			}
		}
		c.incCache("miss")
		missing = append(missing, acc)
	}
	if len(missing) == 0 {
		return out, nil
	}

	found, err := c.inner.Resolve(ctx, missing, databaseIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve uncached sequences: %w", err)
	}
	for acc, seq := range found {
		out[acc] = seq
		c.put(ctx, cacheKeyPrefix+scope+":"+acc, seq)
	}
	return out, nil
}

func (c *CachedResolver) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedResolver) decode(key string, data []byte) (domseq.Sequence, bool) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cached sequence", zap.String("key", key), zap.Error(err))
		return domseq.Sequence{}, false
	}
	return domseq.Reconstruct(e.ID, e.Title, e.Residues, e.DatabaseID), true
}

func (c *CachedResolver) put(ctx context.Context, key string, seq domseq.Sequence) {
	data, err := json.Marshal(entry{ID: seq.ID(), Title: seq.Title(), Residues: seq.Residues(), DatabaseID: seq.DatabaseID()})
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache sequence", zap.String("key", key), zap.Error(err))
	}
}

// scopeKey identifies an ordered database list. Order matters because the
// first database holding an accession wins.
func scopeKey(databaseIDs []string) string {
	h := sha256.Sum256([]byte(strings.Join(databaseIDs, ",")))
	return hex.EncodeToString(h[:8])
}
