package hitreport

import (
	"context"
	"fmt"
	"time"
)

// HitService renders and acts on the hits of one report. Hit ids have the
// form Query_<n>_hit_<m>.
type HitService struct {
	reportID string
	svc      viewUseCase
	obs      *observer
}

// Get renders a hit with the report's current collapse and selection state.
func (s *HitService) Get(ctx context.Context, hitID string) (_ HitView, err error) {
	start := time.Now()
	defer func() { s.obs.observe("hit.get", start, err) }()

	v, err := s.svc.Hit(ctx, s.reportID, hitID)
	if err != nil {
		return HitView{}, fmt.Errorf("render hit %s: %w", hitID, err)
	}
	return v, nil
}

// Toggle collapses or expands a hit and returns whether it is now collapsed.
func (s *HitService) Toggle(ctx context.Context, hitID string) (_ bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("hit.toggle", start, err) }()

	collapsed, err := s.svc.Toggle(ctx, s.reportID, hitID)
	if err != nil {
		return false, fmt.Errorf("toggle hit %s: %w", hitID, err)
	}
	return collapsed, nil
}

// Select flips the selection of a hit and returns whether it is now selected.
func (s *HitService) Select(ctx context.Context, hitID string) (_ bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("hit.select", start, err) }()

	selected, err := s.svc.Select(ctx, s.reportID, hitID)
	if err != nil {
		return false, fmt.Errorf("select hit %s: %w", hitID, err)
	}
	return selected, nil
}

// Selection returns the checkbox ids of the selected hits in selection order.
func (s *HitService) Selection(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("hit.selection", start, err) }()

	ids, err := s.svc.Selection(ctx, s.reportID)
	if err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}
	return ids, nil
}

// Dispatch starts a link-bar action (see the Action constants) in the
// background. Downloads appear at downloads/<ticket path> in the blob directory.
func (s *HitService) Dispatch(ctx context.Context, hitID, action string) (_ Ticket, err error) {
	start := time.Now()
	defer func() { s.obs.observe("hit.dispatch", start, err) }()

	t, err := s.svc.Dispatch(ctx, s.reportID, hitID, action)
	if err != nil {
		return Ticket{}, fmt.Errorf("dispatch %s on %s: %w", action, hitID, err)
	}
	return t, nil
}

// Alignment exports the pairwise alignments of a hit.
func (s *HitService) Alignment(ctx context.Context, hitID string) (_ Download, err error) {
	start := time.Now()
	defer func() { s.obs.observe("hit.alignment", start, err) }()

	dl, err := s.svc.Alignment(ctx, s.reportID, hitID)
	if err != nil {
		return Download{}, fmt.Errorf("export alignment of %s: %w", hitID, err)
	}
	return fromInternalDownload(dl), nil
}

// SelectedFASTA exports the sequences of the selected hits.
func (s *HitService) SelectedFASTA(ctx context.Context) (_ Download, err error) {
	start := time.Now()
	defer func() { s.obs.observe("hit.selected_fasta", start, err) }()

	dl, err := s.svc.SelectedFASTA(ctx, s.reportID)
	if err != nil {
		return Download{}, fmt.Errorf("export selected sequences: %w", err)
	}
	return fromInternalDownload(dl), nil
}
