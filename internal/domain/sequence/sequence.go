// Package sequence holds database sequences resolved for the viewer and FASTA export.
package sequence

import "fmt"

// Sequence is one database entry (immutable value object).
type Sequence struct {
	id         string
	title      string
	residues   string
	databaseID string
}

// New validates and creates a Sequence.
func New(id, title, residues, databaseID string) (Sequence, error) {
	if id == "" {
		return Sequence{}, fmt.Errorf("sequence id is required")
	}
	if residues == "" {
		return Sequence{}, fmt.Errorf("sequence %s has no residues", id)
	}
	return Sequence{id: id, title: title, residues: residues, databaseID: databaseID}, nil
}

// Reconstruct creates a Sequence without validation (storage hydration).
func Reconstruct(id, title, residues, databaseID string) Sequence {
	return Sequence{id: id, title: title, residues: residues, databaseID: databaseID}
}

// ID returns the sequence id (accession).
func (s Sequence) ID() string { return s.id }

// Title returns the definition line without the id.
func (s Sequence) Title() string { return s.title }

// Residues returns the sequence letters.
func (s Sequence) Residues() string { return s.residues }

// DatabaseID returns the database the sequence was found in.
func (s Sequence) DatabaseID() string { return s.databaseID }

// Length returns the number of residues.
func (s Sequence) Length() int { return len(s.residues) }
