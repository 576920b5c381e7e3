package view

import (
	"context"

	"github.com/kailas-cloud/hitreport/internal/domain/download"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
)

// Reports resolves reports and hits.
type Reports interface {
	Get(ctx context.Context, id string) (*domrep.Report, error)
	FindHit(ctx context.Context, reportID, hitID string) (*domrep.Report, *domrep.Query, *domrep.Hit, error)
}

// Exporter produces downloads synchronously.
type Exporter interface {
	FASTA(ctx context.Context, accessions, databaseIDs []string) (download.Download, error)
	Alignment(q *domrep.Query, h *domrep.Hit) (download.Download, error)
}
