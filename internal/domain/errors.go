package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrReportNotFound signals a missing search report.
	ErrReportNotFound = fmt.Errorf("report %w", ErrNotFound)
	// ErrHitNotFound signals a query/hit pair absent from a report.
	ErrHitNotFound = fmt.Errorf("hit %w", ErrNotFound)
	// ErrSequenceNotFound signals an accession that no requested database resolves.
	ErrSequenceNotFound = fmt.Errorf("sequence %w", ErrNotFound)
	// ErrInvalidReport signals report data violating the data-model invariants.
	ErrInvalidReport = errors.New("invalid report")
	// ErrEmptyExport signals an export request without accessions, databases or HSPs.
	ErrEmptyExport = errors.New("empty export")
	// ErrDataUnavailable signals an action needing live database access on an imported report.
	ErrDataUnavailable = errors.New("sequence data unavailable for imported report")
	// ErrSequenceTooLarge signals a sequence above the viewer limit.
	ErrSequenceTooLarge = errors.New("sequence too long")
	// ErrUnknownAction signals an action name the renderer does not dispatch.
	ErrUnknownAction = errors.New("unknown action")
)

// SequenceNotFoundError names the accession that failed to resolve.
type SequenceNotFoundError struct {
	Accession   string
	DatabaseIDs []string
}

func (e *SequenceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q in databases %v", ErrSequenceNotFound.Error(), e.Accession, e.DatabaseIDs)
}

func (e *SequenceNotFoundError) Unwrap() error { return ErrSequenceNotFound }

// NewSequenceNotFound creates a resolution failure for accession.
func NewSequenceNotFound(accession string, databaseIDs []string) error {
	return &SequenceNotFoundError{Accession: accession, DatabaseIDs: databaseIDs}
}
