// Package chi serves hit views, exports and report imports over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/blob"
	"github.com/kailas-cloud/hitreport/internal/domain/download"
	"github.com/kailas-cloud/hitreport/internal/domain/sequence"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
	exportuc "github.com/kailas-cloud/hitreport/internal/usecase/export"
	healthuc "github.com/kailas-cloud/hitreport/internal/usecase/health"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
	reportuc "github.com/kailas-cloud/hitreport/internal/usecase/report"
	viewuc "github.com/kailas-cloud/hitreport/internal/usecase/view"
)

// downloadReader fetches dispatched downloads.
type downloadReader interface {
	Get(ctx context.Context, key string) (blob.Object, error)
}

// Server holds the HTTP handlers.
type Server struct {
	reports   *reportuc.Service
	views     *viewuc.Service
	exports   *exportuc.Service
	downloads downloadReader
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	reports *reportuc.Service,
	views *viewuc.Service,
	exports *exportuc.Service,
	downloads downloadReader,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		reports:   reports,
		views:     views,
		exports:   exports,
		downloads: downloads,
		health:    health,
		logger:    logger,
	}
}

// Routes mounts the handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/get_sequence/", s.GetSequence)
	r.Get("/downloads/{reportID}/{name}", s.GetDownload)

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", s.ListReports)
		r.Post("/import", s.ImportReport)
		r.Route("/{reportID}", func(r chi.Router) {
			r.Get("/", s.GetReport)
			r.Get("/selection", s.GetSelection)
			r.Get("/selection/fasta", s.GetSelectionFASTA)
			r.Route("/hits/{hitID}", func(r chi.Router) {
				r.Get("/", s.GetHit)
				r.Post("/toggle", s.ToggleHit)
				r.Post("/select", s.SelectHit)
				r.Post("/actions/{action}", s.DispatchAction)
				r.Get("/alignment", s.GetAlignment)
			})
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// SequenceResponse is one entry of the get_sequence JSON body.
type SequenceResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Value      string `json:"value"`
	DatabaseID string `json:"database_id"`
}

// GetSequence handles GET /get_sequence/. With download=fasta it returns
// the FASTA attachment; otherwise JSON for the sequence viewer.
func (s *Server) GetSequence(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accessions := exportuc.SplitIDs(q.Get("sequence_ids"))
	databaseIDs := exportuc.SplitIDs(q.Get("database_ids"))

	if q.Get("download") == "fasta" {
		dl, err := s.exports.FASTA(r.Context(), accessions, databaseIDs)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		writeAttachment(w, dl)
		return
	}

	seqs, err := s.exports.ViewerSequences(r.Context(), accessions, databaseIDs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sequences":  sequencesToResponse(seqs),
		"error_msgs": []string{},
	})
}

// ListReports handles GET /reports.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	ids, err := s.reports.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": ids})
}

// ImportRequest names an uploaded BLAST XML file.
type ImportRequest struct {
	Key string `json:"key"`
	ID  string `json:"id"`
}

// ImportReport handles POST /reports/import.
func (s *Server) ImportReport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Key == "" || req.ID == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "key and id are required")
		return
	}

	if _, err := s.reports.Import(r.Context(), req.Key, req.ID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	summary, err := s.views.Summary(r.Context(), req.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

// GetReport handles GET /reports/{reportID}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	summary, err := s.views.Summary(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetSelection handles GET /reports/{reportID}/selection.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request) {
	ids, err := s.views.Selection(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"selected": ids})
}

// GetSelectionFASTA handles GET /reports/{reportID}/selection/fasta.
func (s *Server) GetSelectionFASTA(w http.ResponseWriter, r *http.Request) {
	dl, err := s.views.SelectedFASTA(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeAttachment(w, dl)
}

// GetHit handles GET /reports/{reportID}/hits/{hitID}.
func (s *Server) GetHit(w http.ResponseWriter, r *http.Request) {
	v, err := s.views.Hit(r.Context(), chi.URLParam(r, "reportID"), chi.URLParam(r, "hitID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ToggleHit handles POST /reports/{reportID}/hits/{hitID}/toggle.
func (s *Server) ToggleHit(w http.ResponseWriter, r *http.Request) {
	collapsed, err := s.views.Toggle(r.Context(), chi.URLParam(r, "reportID"), chi.URLParam(r, "hitID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"collapsed": collapsed})
}

// SelectHit handles POST /reports/{reportID}/hits/{hitID}/select.
func (s *Server) SelectHit(w http.ResponseWriter, r *http.Request) {
	selected, err := s.views.Select(r.Context(), chi.URLParam(r, "reportID"), chi.URLParam(r, "hitID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"selected": selected})
}

// DispatchAction handles POST /reports/{reportID}/hits/{hitID}/actions/{action}.
func (s *Server) DispatchAction(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.views.Dispatch(r.Context(),
		chi.URLParam(r, "reportID"), chi.URLParam(r, "hitID"), chi.URLParam(r, "action"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if ticket.Path != "" {
		w.Header().Set("Location", downloadLocation(chi.URLParam(r, "reportID"), ticket.Download))
	}
	writeJSON(w, http.StatusAccepted, ticket)
}

// GetAlignment handles GET /reports/{reportID}/hits/{hitID}/alignment.
func (s *Server) GetAlignment(w http.ResponseWriter, r *http.Request) {
	dl, err := s.views.Alignment(r.Context(), chi.URLParam(r, "reportID"), chi.URLParam(r, "hitID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeAttachment(w, dl)
}

// GetDownload handles GET /downloads/{reportID}/{name}.
func (s *Server) GetDownload(w http.ResponseWriter, r *http.Request) {
	reportID, err1 := url.PathUnescape(chi.URLParam(r, "reportID"))
	name, err2 := url.PathUnescape(chi.URLParam(r, "name"))
	if err1 != nil || err2 != nil || !validSegment(reportID) || !validSegment(name) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid download path")
		return
	}
	obj, err := s.downloads.Get(r.Context(), render.DownloadsPrefix+render.DownloadPath(reportID, name))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeAttachment(w, download.Download{Name: name, ContentType: obj.ContentType, Body: obj.Body})
}

func downloadLocation(reportID, name string) string {
	return "/downloads/" + url.PathEscape(reportID) + "/" + url.PathEscape(name)
}

func validSegment(s string) bool {
	return s != "" && !strings.ContainsAny(s, "/\\") && !strings.Contains(s, "..")
}

func (s *Server) log(r *http.Request) *zap.Logger {
	if l := logpkg.FromContext(r.Context()); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return s.logger
}

func writeAttachment(w http.ResponseWriter, dl download.Download) {
	ct := dl.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dl.Body)
}

func sequencesToResponse(seqs []sequence.Sequence) []SequenceResponse {
	out := make([]SequenceResponse, len(seqs))
	for i, seq := range seqs {
		out[i] = SequenceResponse{
			ID:         seq.ID(),
			Title:      seq.Title(),
			Value:      seq.Residues(),
			DatabaseID: seq.DatabaseID(),
		}
	}
	return out
}
