package hitreport

import (
	"context"
	"fmt"
	"time"
)

// ReportService imports and lists reports.
type ReportService struct {
	reports reportUseCase
	views   viewUseCase
	obs     *observer
}

// Import parses the BLAST XML stored under key in the blob directory and
// saves it as report id.
func (s *ReportService) Import(ctx context.Context, key, id string) (_ ReportInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("report.import", start, err) }()

	rep, err := s.reports.Import(ctx, key, id)
	if err != nil {
		return ReportInfo{}, fmt.Errorf("import report: %w", err)
	}
	return fromInternalReport(rep), nil
}

// Get returns report metadata by id.
func (s *ReportService) Get(ctx context.Context, id string) (_ ReportInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("report.get", start, err) }()

	rep, err := s.reports.Get(ctx, id)
	if err != nil {
		return ReportInfo{}, fmt.Errorf("get report: %w", err)
	}
	return fromInternalReport(rep), nil
}

// Summary lists the queries and hit identifiers of a report.
func (s *ReportService) Summary(ctx context.Context, id string) (_ Summary, err error) {
	start := time.Now()
	defer func() { s.obs.observe("report.summary", start, err) }()

	sum, err := s.views.Summary(ctx, id)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize report: %w", err)
	}
	return sum, nil
}

// List returns the ids of all stored reports.
func (s *ReportService) List(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("report.list", start, err) }()

	ids, err := s.reports.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return ids, nil
}
