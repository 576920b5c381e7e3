package hitreport

import (
	"github.com/kailas-cloud/hitreport/internal/domain/download"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
	viewuc "github.com/kailas-cloud/hitreport/internal/usecase/view"
)

// HitView is the rendered view of one hit.
type HitView = render.HitView

// Ticket tells where the outcome of a dispatched action will appear.
type Ticket = render.Ticket

// Summary lists the queries and hits of a report.
type Summary = viewuc.Summary

// Action names accepted by HitService.Dispatch.
const (
	ActionViewSequence      = "view-sequence"
	ActionDownloadFASTA     = "download-fasta"
	ActionDownloadAlignment = "download-alignment"
)

// ReportInfo describes a stored report.
type ReportInfo struct {
	ID          string
	Program     string
	Imported    bool
	DatabaseIDs []string
	Queries     int
	Hits        int
}

// Sequence is one database entry.
type Sequence struct {
	ID         string
	Title      string
	Residues   string
	DatabaseID string
}

// Download is a finished export.
type Download struct {
	Name        string
	ContentType string
	Body        []byte
}

func fromInternalReport(rep *domrep.Report) ReportInfo {
	return ReportInfo{
		ID:          rep.ID(),
		Program:     rep.Program(),
		Imported:    rep.Imported(),
		DatabaseIDs: rep.DatabaseIDs(),
		Queries:     len(rep.Queries()),
		Hits:        rep.HitCount(),
	}
}

func fromInternalSequence(s domseq.Sequence) Sequence {
	return Sequence{ID: s.ID(), Title: s.Title(), Residues: s.Residues(), DatabaseID: s.DatabaseID()}
}

func fromInternalDownload(d download.Download) Download {
	return Download{Name: d.Name, ContentType: d.ContentType, Body: d.Body}
}
