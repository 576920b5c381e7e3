package report

import (
	"context"

	"github.com/kailas-cloud/hitreport/internal/blob"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
)

// Repository defines the storage contract for reports.
type Repository interface {
	Save(ctx context.Context, rep *domrep.Report) error
	Get(ctx context.Context, id string) (*domrep.Report, error)
	List(ctx context.Context) ([]string, error)
}

// BlobReader fetches uploaded BLAST XML files.
type BlobReader interface {
	Get(ctx context.Context, key string) (blob.Object, error)
}
