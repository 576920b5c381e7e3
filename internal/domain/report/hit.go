package report

import (
	"fmt"

	"github.com/kailas-cloud/hitreport/internal/domain"
)

// HitFields holds the scalar attributes of a hit.
type HitFields struct {
	ID        string
	Accession string
	Number    int
	Length    int
	Title     string
	Evalue    float64
	Score     int
}

// Hit is a database sequence matched against a query.
// Hits are shared read-only by every renderer of a report and are always
// handled by pointer, so the pointer itself identifies a render input.
type Hit struct {
	fields HitFields
	hsps   []HSP
	links  []Link
}

// NewHit validates and creates a Hit.
func NewHit(f HitFields, hsps []HSP, links []Link) (*Hit, error) {
	if f.ID == "" {
		return nil, fmt.Errorf("%w: hit id is required", domain.ErrInvalidReport)
	}
	if f.Number < 1 {
		return nil, fmt.Errorf("%w: hit %s: number must be >= 1, got %d", domain.ErrInvalidReport, f.ID, f.Number)
	}
	if f.Length < 0 {
		return nil, fmt.Errorf("%w: hit %s: negative length %d", domain.ErrInvalidReport, f.ID, f.Length)
	}
	if len(hsps) == 0 {
		return nil, fmt.Errorf("%w: hit %s has no hsps", domain.ErrInvalidReport, f.ID)
	}
	if f.Accession == "" {
		f.Accession = f.ID
	}
	return &Hit{
		fields: f,
		hsps:   append([]HSP(nil), hsps...),
		links:  append([]Link(nil), links...),
	}, nil
}

// ReconstructHit creates a Hit without validation (storage hydration).
func ReconstructHit(f HitFields, hsps []HSP, links []Link) *Hit {
	return &Hit{fields: f, hsps: hsps, links: links}
}

// ID returns the sequence id reported by BLAST.
func (h *Hit) ID() string { return h.fields.ID }

// Accession returns the accession used to fetch the sequence.
func (h *Hit) Accession() string { return h.fields.Accession }

// Number returns the 1-based rank within the query's hit list.
func (h *Hit) Number() int { return h.fields.Number }

// Length returns the sequence length in residues.
func (h *Hit) Length() int { return h.fields.Length }

// Title returns the sequence definition line.
func (h *Hit) Title() string { return h.fields.Title }

// Evalue returns the best e-value over all HSPs.
func (h *Hit) Evalue() float64 { return h.fields.Evalue }

// Score returns the best raw score over all HSPs.
func (h *Hit) Score() int { return h.fields.Score }

// HSPs returns a copy of the hit's alignments in aligner order.
func (h *Hit) HSPs() []HSP { return append([]HSP(nil), h.hsps...) }

// Links returns a copy of the cross-reference links in input order.
func (h *Hit) Links() []Link { return append([]Link(nil), h.links...) }
