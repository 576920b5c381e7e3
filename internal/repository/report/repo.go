// Package report stores search reports as JSON strings in redis.
package report

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/hitreport/internal/db"
	"github.com/kailas-cloud/hitreport/internal/domain"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
)

var keyPrefix = domain.KeyPrefix + "report:"

// store is the consumer interface for reports (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/report.Repository.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a report repository. Reports expire after ttl (0 keeps them).
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Save stores rep, replacing any report with the same id.
func (r *Repo) Save(ctx context.Context, rep *domrep.Report) error {
	data, err := Encode(rep)
	if err != nil {
		return err
	}
	key := reportKey(rep.ID())
	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get loads a report by id.
func (r *Repo) Get(ctx context.Context, id string) (*domrep.Report, error) {
	key := reportKey(id)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	rep, err := hydrate(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return rep, nil
}

// Delete removes a report.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := reportKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// List returns the ids of stored reports, sorted.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan reports: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, keyPrefix))
	}
	slices.Sort(ids)
	return ids, nil
}

func reportKey(id string) string { return keyPrefix + id }
