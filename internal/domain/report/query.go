package report

import (
	"fmt"

	"github.com/kailas-cloud/hitreport/internal/domain"
)

// Query is one input sequence submitted to the search.
type Query struct {
	id     string
	number int
	title  string
	length int
	hits   []*Hit
}

// NewQuery validates and creates a Query. Hit numbers must be unique.
func NewQuery(id string, number int, title string, length int, hits []*Hit) (*Query, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: query id is required", domain.ErrInvalidReport)
	}
	if number < 1 {
		return nil, fmt.Errorf("%w: query %s: number must be >= 1, got %d", domain.ErrInvalidReport, id, number)
	}
	seen := make(map[int]bool, len(hits))
	for _, h := range hits {
		if h == nil {
			return nil, fmt.Errorf("%w: query %s: nil hit", domain.ErrInvalidReport, id)
		}
		if seen[h.Number()] {
			return nil, fmt.Errorf("%w: query %s: duplicate hit number %d", domain.ErrInvalidReport, id, h.Number())
		}
		seen[h.Number()] = true
	}
	return &Query{id: id, number: number, title: title, length: length, hits: append([]*Hit(nil), hits...)}, nil
}

// ReconstructQuery creates a Query without validation (storage hydration).
func ReconstructQuery(id string, number int, title string, length int, hits []*Hit) *Query {
	return &Query{id: id, number: number, title: title, length: length, hits: hits}
}

// ID returns the query sequence id.
func (q *Query) ID() string { return q.id }

// Number returns the 1-based position among submitted queries.
func (q *Query) Number() int { return q.number }

// Title returns the query definition line.
func (q *Query) Title() string { return q.title }

// Length returns the query length in residues.
func (q *Query) Length() int { return q.length }

// Hits returns the query's hits in rank order. The slice is a copy; the hits are shared.
func (q *Query) Hits() []*Hit { return append([]*Hit(nil), q.hits...) }

// HitCount returns the number of hits.
func (q *Query) HitCount() int { return len(q.hits) }

// Hit returns the hit with the given number.
func (q *Query) Hit(number int) (*Hit, bool) {
	for _, h := range q.hits {
		if h.Number() == number {
			return h, true
		}
	}
	return nil, false
}
