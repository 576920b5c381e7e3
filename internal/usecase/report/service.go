// Package report loads search reports and keeps decoded copies in memory so
// that every request for a report sees the same hit pointers.
package report

import (
	"bytes"
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/blastxml"
	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
)

// Service handles report loading and import.
type Service struct {
	repo   Repository
	blobs  BlobReader
	cache  *lru.Cache[string, *domrep.Report]
	forget func(*domrep.Report)
}

// New creates a Service that keeps up to cacheSize decoded reports.
func New(repo Repository, blobs BlobReader, cacheSize int) (*Service, error) {
	s := &Service{repo: repo, blobs: blobs}
	cache, err := lru.NewWithEvict(cacheSize, func(_ string, rep *domrep.Report) {
		if s.forget != nil {
			s.forget(rep)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("report cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// OnForget registers fn to run whenever a decoded report leaves the cache.
func (s *Service) OnForget(fn func(*domrep.Report)) *Service {
	s.forget = fn
	return s
}

// Get returns the report with the given id.
func (s *Service) Get(ctx context.Context, id string) (*domrep.Report, error) {
	if rep, ok := s.cache.Get(id); ok {
		return rep, nil
	}
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	// A concurrent load may have won; keep the first pointer.
	if prev, ok, _ := s.cache.PeekOrAdd(id, rep); ok {
		return prev, nil
	}
	return rep, nil
}

// FindHit resolves a container identifier such as "Query_1_hit_3".
func (s *Service) FindHit(ctx context.Context, reportID, hitID string) (*domrep.Report, *domrep.Query, *domrep.Hit, error) {
	qn, hn, err := hitview.ParseIdentifier(hitID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", domain.ErrHitNotFound, err)
	}
	rep, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, nil, nil, err
	}
	q, h, err := rep.Hit(qn, hn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("report %s: %w", reportID, err)
	}
	return rep, q, h, nil
}

// List returns the stored report ids.
func (s *Service) List(ctx context.Context) ([]string, error) {
	ids, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return ids, nil
}

// Save stores rep and replaces any cached copy.
func (s *Service) Save(ctx context.Context, rep *domrep.Report) error {
	if err := s.repo.Save(ctx, rep); err != nil {
		return fmt.Errorf("save report %s: %w", rep.ID(), err)
	}
	s.cache.Remove(rep.ID())
	s.cache.Add(rep.ID(), rep)
	return nil
}

// Import parses the BLAST XML stored under key and saves it as report id.
func (s *Service) Import(ctx context.Context, key, id string) (*domrep.Report, error) {
	obj, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	rep, err := blastxml.Parse(bytes.NewReader(obj.Body), id)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", key, err)
	}
	if err := s.Save(ctx, rep); err != nil {
		return nil, err
	}
	logpkg.FromContext(ctx).Info("report imported",
		zap.String("report", id),
		zap.String("source", key),
		zap.Int("queries", len(rep.Queries())),
		zap.Int("hits", rep.HitCount()),
	)
	return rep, nil
}
