package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/domain"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeReportNotFound   ErrorCode = "report_not_found"
	CodeHitNotFound      ErrorCode = "hit_not_found"
	CodeSequenceNotFound ErrorCode = "sequence_not_found"
	CodeNotFound         ErrorCode = "not_found"
	CodeDataUnavailable  ErrorCode = "data_unavailable"
	CodeSequenceTooLarge ErrorCode = "sequence_too_large"
	CodeInvalidReport    ErrorCode = "invalid_report"
	CodeEmptyExport      ErrorCode = "empty_export"
	CodeUnknownAction    ErrorCode = "unknown_action"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// errorHandlers is ordered: specific not-found sentinels before ErrNotFound.
var errorHandlers = []errorHandler{
	sequenceNotFoundHandler,
	sentinelHandler(domain.ErrReportNotFound, http.StatusNotFound, CodeReportNotFound),
	sentinelHandler(domain.ErrHitNotFound, http.StatusNotFound, CodeHitNotFound),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrDataUnavailable, http.StatusConflict, CodeDataUnavailable),
	sentinelHandler(domain.ErrSequenceTooLarge, http.StatusRequestEntityTooLarge, CodeSequenceTooLarge),
	sentinelHandler(domain.ErrInvalidReport, http.StatusBadRequest, CodeInvalidReport),
	sentinelHandler(domain.ErrEmptyExport, http.StatusBadRequest, CodeEmptyExport),
	sentinelHandler(domain.ErrUnknownAction, http.StatusBadRequest, CodeUnknownAction),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Only the sentinel text reaches the client.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// sequenceNotFoundHandler names the unresolved accession.
func sequenceNotFoundHandler(w http.ResponseWriter, err error) bool {
	var snf *domain.SequenceNotFoundError
	if !errors.As(err, &snf) {
		return false
	}
	writeJSON(w, http.StatusNotFound, map[string]any{
		"code":         CodeSequenceNotFound,
		"message":      domain.ErrSequenceNotFound.Error(),
		"accession":    snf.Accession,
		"database_ids": snf.DatabaseIDs,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.log(r)
	for _, h := range errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
