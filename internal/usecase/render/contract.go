package render

import (
	"context"

	"github.com/kailas-cloud/hitreport/internal/domain/download"
	"github.com/kailas-cloud/hitreport/internal/domain/report"
)

// Exporter produces the downloadable files of a hit.
type Exporter interface {
	FASTA(ctx context.Context, accessions, databaseIDs []string) (download.Download, error)
	Alignment(q *report.Query, h *report.Hit) (download.Download, error)
}

// DownloadSink stores finished downloads under a key.
type DownloadSink interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// ViewerOpener hands a get_sequence target to the sequence viewer.
type ViewerOpener interface {
	Open(ctx context.Context, target string) error
}
