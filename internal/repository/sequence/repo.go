// Package sequence stores database sequences as redis hashes keyed by
// database id and accession.
package sequence

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/hitreport/internal/db"
	"github.com/kailas-cloud/hitreport/internal/domain"
	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
)

var keyPrefix = domain.KeyPrefix + "seq:"

const (
	fieldID       = "id"
	fieldTitle    = "title"
	fieldResidues = "residues"
)

// store is the consumer interface for sequences (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo resolves accessions against sequences held in redis.
type Repo struct {
	store store
}

// New creates a sequence repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Resolve fetches every (database, accession) pair in one pipeline and keeps,
// per accession, the first database in databaseIDs order that holds it.
func (r *Repo) Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]domseq.Sequence, error) {
	if len(accessions) == 0 || len(databaseIDs) == 0 {
		return map[string]domseq.Sequence{}, nil
	}

	keys := make([]string, 0, len(accessions)*len(databaseIDs))
	for _, dbID := range databaseIDs {
		for _, acc := range accessions {
			keys = append(keys, seqKey(dbID, acc))
		}
	}

	hashes, err := r.fetch(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch sequences: %w", err)
	}

	out := make(map[string]domseq.Sequence, len(accessions))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		dbID := databaseIDs[i/len(accessions)]
		acc := accessions[i%len(accessions)]
		if _, done := out[acc]; done {
			continue
		}
		id := m[fieldID]
		if id == "" {
			id = acc
		}
		out[acc] = domseq.Reconstruct(id, m[fieldTitle], m[fieldResidues], dbID)
	}
	return out, nil
}

// Put stores seqs under their own database ids.
func (r *Repo) Put(ctx context.Context, seqs []domseq.Sequence) error {
	items := make([]db.HashSetItem, 0, len(seqs))
	for _, s := range seqs {
		items = append(items, db.HashSetItem{
			Key: seqKey(s.DatabaseID(), s.ID()),
			Fields: map[string]string{
				fieldID:       s.ID(),
				fieldTitle:    s.Title(),
				fieldResidues: s.Residues(),
			},
		})
	}
	if len(items) == 1 {
		if err := r.store.HSet(ctx, items[0].Key, items[0].Fields); err != nil {
			return fmt.Errorf("store sequence: %w", err)
		}
		return nil
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store sequences: %w", err)
	}
	return nil
}

// fetch reads hashes in key order. A single key (one accession in one
// database, the viewer's usual request) skips the pipeline.
func (r *Repo) fetch(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 1 {
		m, err := r.store.HGetAll(ctx, keys[0])
		if err != nil {
			return nil, err
		}
		return []map[string]string{m}, nil
	}
	return r.store.HGetAllMulti(ctx, keys)
}

func seqKey(databaseID, accession string) string {
	return keyPrefix + databaseID + ":" + accession
}
