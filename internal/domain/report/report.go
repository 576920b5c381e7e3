// Package report holds the read-only search-result model: a report of
// queries, their hits, and each hit's high-scoring pairs.
package report

import (
	"fmt"

	"github.com/kailas-cloud/hitreport/internal/domain"
)

// Report is a parsed BLAST search result.
type Report struct {
	id        string
	program   string
	databases []Database
	queries   []*Query
	imported  bool
}

// New validates and creates a Report. Query numbers must be unique.
func New(id, program string, databases []Database, queries []*Query, imported bool) (*Report, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: report id is required", domain.ErrInvalidReport)
	}
	seen := make(map[int]bool, len(queries))
	for _, q := range queries {
		if q == nil {
			return nil, fmt.Errorf("%w: report %s: nil query", domain.ErrInvalidReport, id)
		}
		if seen[q.Number()] {
			return nil, fmt.Errorf("%w: report %s: duplicate query number %d", domain.ErrInvalidReport, id, q.Number())
		}
		seen[q.Number()] = true
	}
	return &Report{
		id:        id,
		program:   program,
		databases: append([]Database(nil), databases...),
		queries:   append([]*Query(nil), queries...),
		imported:  imported,
	}, nil
}

// Reconstruct creates a Report without validation (storage hydration).
func Reconstruct(id, program string, databases []Database, queries []*Query, imported bool) *Report {
	return &Report{id: id, program: program, databases: databases, queries: queries, imported: imported}
}

// ID returns the report identifier.
func (r *Report) ID() string { return r.id }

// Program returns the BLAST algorithm (blastn, blastp, ...).
func (r *Report) Program() string { return r.program }

// Databases returns the searched databases in submission order.
func (r *Report) Databases() []Database { return append([]Database(nil), r.databases...) }

// DatabaseIDs returns the ids of the searched databases in submission order.
func (r *Report) DatabaseIDs() []string { return DatabaseIDs(r.databases) }

// Queries returns the queries in submission order.
func (r *Report) Queries() []*Query { return append([]*Query(nil), r.queries...) }

// Imported reports whether the report was loaded from a saved BLAST XML file.
// Imported reports have no live database behind them.
func (r *Report) Imported() bool { return r.imported }

// Query returns the query with the given number.
func (r *Report) Query(number int) (*Query, bool) {
	for _, q := range r.queries {
		if q.Number() == number {
			return q, true
		}
	}
	return nil, false
}

// Hit returns the query and hit addressed by their numbers.
func (r *Report) Hit(queryNumber, hitNumber int) (*Query, *Hit, error) {
	q, ok := r.Query(queryNumber)
	if !ok {
		return nil, nil, fmt.Errorf("%w: query %d", domain.ErrHitNotFound, queryNumber)
	}
	h, ok := q.Hit(hitNumber)
	if !ok {
		return nil, nil, fmt.Errorf("%w: hit %d of query %d", domain.ErrHitNotFound, hitNumber, queryNumber)
	}
	return q, h, nil
}

// HitCount returns the number of hits over all queries.
func (r *Report) HitCount() int {
	n := 0
	for _, q := range r.queries {
		n += q.HitCount()
	}
	return n
}
