package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/download"
	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	"github.com/kailas-cloud/hitreport/internal/domain/report"
	"github.com/kailas-cloud/hitreport/internal/format/alignment"
	"github.com/kailas-cloud/hitreport/internal/format/fasta"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
)

// DownloadsPrefix is the blob key prefix of dispatched downloads.
const DownloadsPrefix = "downloads/"

// DownloadPath is the location of a report's download below DownloadsPrefix.
// File names repeat across reports (Query_1 is the default query id), so the
// report id scopes them.
func DownloadPath(reportID, name string) string {
	return reportID + "/" + name
}

// Ticket tells the caller where the outcome of a dispatched action will appear.
type Ticket struct {
	Action hitview.ActionKind `json:"action"`
	// Download is the file name of a finished export.
	Download string `json:"download,omitempty"`
	// Path locates the stored export below DownloadsPrefix.
	Path string `json:"path,omitempty"`
	// URL is the viewer target of a view-sequence action.
	URL string `json:"url,omitempty"`
}

// Dispatcher runs link-bar actions without blocking the caller.
type Dispatcher struct {
	exports Exporter
	sink    DownloadSink
	viewer  ViewerOpener
	timeout time.Duration

	dispatches *prometheus.CounterVec

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher. timeout bounds each background action.
func NewDispatcher(exports Exporter, sink DownloadSink, viewer ViewerOpener, timeout time.Duration) *Dispatcher {
	return &Dispatcher{exports: exports, sink: sink, viewer: viewer, timeout: timeout}
}

// WithMetrics sets a counter vec with labels "action" and "status".
func (d *Dispatcher) WithMetrics(dispatches *prometheus.CounterVec) *Dispatcher {
	d.dispatches = dispatches
	return d
}

// Dispatch validates a and starts it in the background. The returned ticket
// is final: there is no completion callback and no way to cancel. Failures
// are logged and never touch other hits.
func (d *Dispatcher) Dispatch(ctx context.Context, a hitview.Action, rep *report.Report, q *report.Query, h *report.Hit) (Ticket, error) {
	if !a.Enabled {
		if a.Kind == hitview.ViewSequence {
			return Ticket{}, fmt.Errorf("%w: %s", domain.ErrSequenceTooLarge, a.Title)
		}
		return Ticket{}, fmt.Errorf("action %s is disabled", a.Kind)
	}

	var (
		t   = Ticket{Action: a.Kind}
		run func(context.Context) error
	)
	switch a.Kind {
	case hitview.ViewSequence:
		t.URL = a.URL
		run = func(ctx context.Context) error { return d.viewer.Open(ctx, a.URL) }
	case hitview.DownloadFASTA:
		t.Download = fasta.FileName(a.Accessions)
		t.Path = DownloadPath(rep.ID(), t.Download)
		run = func(ctx context.Context) error {
			dl, err := d.exports.FASTA(ctx, a.Accessions, a.DatabaseIDs)
			if err != nil {
				return err
			}
			return d.store(ctx, t.Path, dl)
		}
	case hitview.DownloadAlignment:
		t.Download = alignment.FileName(alignment.BaseName(q.ID(), h.ID()))
		t.Path = DownloadPath(rep.ID(), t.Download)
		run = func(ctx context.Context) error {
			dl, err := d.exports.Alignment(q, h)
			if err != nil {
				return err
			}
			return d.store(ctx, t.Path, dl)
		}
	default:
		return Ticket{}, fmt.Errorf("%w: %s", domain.ErrUnknownAction, a.Kind)
	}

	bg := context.WithoutCancel(ctx)
	log := logpkg.FromContext(ctx).With(
		zap.String("action", string(a.Kind)),
		zap.String("report", rep.ID()),
		zap.String("hit", hitview.Identifier(q, h)),
	)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		var (
			runCtx context.Context
			cancel context.CancelFunc
		)
		if d.timeout > 0 {
			runCtx, cancel = context.WithTimeout(bg, d.timeout)
		} else {
			runCtx, cancel = context.WithCancel(bg)
		}
		defer cancel()

		start := time.Now()
		if err := run(runCtx); err != nil {
			d.count(a.Kind, "error")
			log.Warn("dispatched action failed", zap.Error(err))
			return
		}
		d.count(a.Kind, "ok")
		log.Debug("dispatched action done",
			zap.String("download", t.Path),
			zap.Duration("took", time.Since(start)),
		)
	}()
	return t, nil
}

// Wait blocks until every started action has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) count(kind hitview.ActionKind, status string) {
	if d.dispatches != nil {
		d.dispatches.WithLabelValues(string(kind), status).Inc()
	}
}

func (d *Dispatcher) store(ctx context.Context, path string, dl download.Download) error {
	if err := d.sink.Put(ctx, DownloadsPrefix+path, dl.Body, dl.ContentType); err != nil {
		return fmt.Errorf("store download %s: %w", path, err)
	}
	return nil
}
