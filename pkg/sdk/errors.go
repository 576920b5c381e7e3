package hitreport

import "github.com/kailas-cloud/hitreport/internal/domain"

// Sentinel errors re-exported from the domain layer. Use errors.Is to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrReportNotFound   = domain.ErrReportNotFound
	ErrHitNotFound      = domain.ErrHitNotFound
	ErrSequenceNotFound = domain.ErrSequenceNotFound
	ErrInvalidReport    = domain.ErrInvalidReport
	ErrEmptyExport      = domain.ErrEmptyExport
	ErrDataUnavailable  = domain.ErrDataUnavailable
	ErrSequenceTooLarge = domain.ErrSequenceTooLarge
	ErrUnknownAction    = domain.ErrUnknownAction
)
