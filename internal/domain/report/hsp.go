package report

import "fmt"

// Alignment holds the values an aligner reports for one high-scoring pair.
// Coordinates are 1-based and inclusive, as BLAST prints them.
type Alignment struct {
	Number    int
	BitScore  float64
	Score     int
	Evalue    float64
	QStart    int
	QEnd      int
	SStart    int
	SEnd      int
	QFrame    int
	SFrame    int
	Identity  int
	Positives int
	Gaps      int
	Length    int
	QSeq      string
	SSeq      string
	Midline   string
}

// HSP is one local alignment between a query and a hit (immutable value object).
type HSP struct {
	aln     Alignment
	queryID string
	hitID   string
}

// NewHSP validates and creates an HSP.
func NewHSP(a Alignment) (HSP, error) {
	if a.QSeq == "" || a.SSeq == "" {
		return HSP{}, fmt.Errorf("hsp %d: aligned sequences are required", a.Number)
	}
	if len(a.QSeq) != len(a.SSeq) {
		return HSP{}, fmt.Errorf("hsp %d: query and subject alignment lengths differ (%d != %d)",
			a.Number, len(a.QSeq), len(a.SSeq))
	}
	if a.Midline != "" && len(a.Midline) != len(a.QSeq) {
		return HSP{}, fmt.Errorf("hsp %d: midline length %d does not match alignment length %d",
			a.Number, len(a.Midline), len(a.QSeq))
	}
	return HSP{aln: a}, nil
}

// ReconstructHSP creates an HSP without validation (storage hydration).
func ReconstructHSP(a Alignment) HSP {
	return HSP{aln: a}
}

// Alignment returns a copy of the aligner values.
func (h HSP) Alignment() Alignment { return h.aln }

// Number returns the HSP rank within its hit.
func (h HSP) Number() int { return h.aln.Number }

// QueryID returns the owning query id. Empty unless set through WithOwners.
func (h HSP) QueryID() string { return h.queryID }

// HitID returns the owning hit id. Empty unless set through WithOwners.
func (h HSP) HitID() string { return h.hitID }

// WithOwners returns a copy carrying back-references to its query and hit.
// The receiver, usually shared report data, is left untouched.
func (h HSP) WithOwners(queryID, hitID string) HSP {
	return HSP{aln: h.aln, queryID: queryID, hitID: hitID}
}
