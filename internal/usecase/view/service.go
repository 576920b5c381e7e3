// Package view keeps the per-report UI state (collapsed hits, selected hits)
// and serves rendered hit views and actions on top of it.
package view

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/download"
	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
)

type session struct {
	collapse  *render.CollapseState
	selection *render.SelectionSet
}

// Service serves hit views for many reports.
type Service struct {
	reports    Reports
	renderer   *render.Renderer
	dispatcher *render.Dispatcher
	exports    Exporter

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a Service.
func New(reports Reports, renderer *render.Renderer, dispatcher *render.Dispatcher, exports Exporter) *Service {
	return &Service{
		reports:    reports,
		renderer:   renderer,
		dispatcher: dispatcher,
		exports:    exports,
		sessions:   make(map[string]*session),
	}
}

func (s *Service) session(reportID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[reportID]
	if !ok {
		sess = &session{collapse: render.NewCollapseState(), selection: render.NewSelectionSet()}
		s.sessions[reportID] = sess
	}
	return sess
}

// Hit renders one hit with the report's current UI state.
func (s *Service) Hit(ctx context.Context, reportID, hitID string) (render.HitView, error) {
	rep, q, h, err := s.reports.FindHit(ctx, reportID, hitID)
	if err != nil {
		return render.HitView{}, err
	}
	sess := s.session(reportID)
	st := render.State{
		Collapsed: sess.collapse.Collapsed(hitview.Identifier(q, h)),
		Selected:  sess.selection.Selected(hitview.CheckboxID(q, h)),
	}
	return s.renderer.Render(ctx, rep, q, h, st), nil
}

// Toggle flips the collapse flag of a hit and returns the new value.
func (s *Service) Toggle(ctx context.Context, reportID, hitID string) (bool, error) {
	_, q, h, err := s.reports.FindHit(ctx, reportID, hitID)
	if err != nil {
		return false, err
	}
	return s.session(reportID).collapse.Toggle(hitview.Identifier(q, h)), nil
}

// Select toggles the selection of a hit and returns whether it is now selected.
func (s *Service) Select(ctx context.Context, reportID, hitID string) (bool, error) {
	_, q, h, err := s.reports.FindHit(ctx, reportID, hitID)
	if err != nil {
		return false, err
	}
	sess := s.session(reportID)
	var selected bool
	s.renderer.ToggleSelect(q, h, func(checkboxID string) {
		selected = sess.selection.Toggle(checkboxID)
	})
	return selected, nil
}

// Selection returns the selected checkbox ids in selection order.
func (s *Service) Selection(ctx context.Context, reportID string) ([]string, error) {
	if _, err := s.reports.Get(ctx, reportID); err != nil {
		return nil, err
	}
	return s.session(reportID).selection.List(), nil
}

// Dispatch starts the named action of a hit in the background.
func (s *Service) Dispatch(ctx context.Context, reportID, hitID, action string) (render.Ticket, error) {
	kind, err := hitview.ParseActionKind(action)
	if err != nil {
		return render.Ticket{}, fmt.Errorf("%w: %q", err, action)
	}
	rep, q, h, err := s.reports.FindHit(ctx, reportID, hitID)
	if err != nil {
		return render.Ticket{}, err
	}
	a, ok := s.renderer.Action(rep, q, h, kind)
	if !ok {
		// Only imported reports drop actions.
		return render.Ticket{}, fmt.Errorf("%w: %s on report %s", domain.ErrDataUnavailable, kind, reportID)
	}
	return s.dispatcher.Dispatch(ctx, a, rep, q, h)
}

// Alignment exports the alignments of one hit synchronously.
func (s *Service) Alignment(ctx context.Context, reportID, hitID string) (download.Download, error) {
	_, q, h, err := s.reports.FindHit(ctx, reportID, hitID)
	if err != nil {
		return download.Download{}, err
	}
	return s.exports.Alignment(q, h)
}

// SelectedFASTA exports the sequences of every selected hit in one file.
func (s *Service) SelectedFASTA(ctx context.Context, reportID string) (download.Download, error) {
	rep, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return download.Download{}, err
	}
	if rep.Imported() {
		return download.Download{}, fmt.Errorf("%w: report %s", domain.ErrDataUnavailable, reportID)
	}

	ids := s.session(reportID).selection.List()
	accessions := make([]string, 0, len(ids))
	for _, cb := range ids {
		hitID := strings.TrimSuffix(cb, "_checkbox")
		_, _, h, err := s.reports.FindHit(ctx, reportID, hitID)
		if err != nil {
			logpkg.FromContext(ctx).Debug("selected hit vanished", zap.String("checkbox", cb), zap.Error(err))
			continue
		}
		accessions = append(accessions, h.Accession())
	}
	return s.exports.FASTA(ctx, accessions, rep.DatabaseIDs())
}

// Summary lists the queries and hit identifiers of a report.
func (s *Service) Summary(ctx context.Context, reportID string) (Summary, error) {
	rep, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(rep), nil
}

// Forget drops the memoized views and the UI state of rep. It runs when rep
// leaves the report cache, so sessions never outnumber cached reports.
func (s *Service) Forget(rep *domrep.Report) {
	s.renderer.Forget(rep)
	s.mu.Lock()
	delete(s.sessions, rep.ID())
	s.mu.Unlock()
}
