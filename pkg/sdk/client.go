package hitreport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/hitreport/internal/blob"
	dbRedis "github.com/kailas-cloud/hitreport/internal/db/redis"
	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/download"
	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
	reportrepo "github.com/kailas-cloud/hitreport/internal/repository/report"
	seqrepo "github.com/kailas-cloud/hitreport/internal/repository/sequence"
	exportuc "github.com/kailas-cloud/hitreport/internal/usecase/export"
	healthuc "github.com/kailas-cloud/hitreport/internal/usecase/health"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
	reportuc "github.com/kailas-cloud/hitreport/internal/usecase/report"
	viewuc "github.com/kailas-cloud/hitreport/internal/usecase/view"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultBlobDir          = "./blobdata"
	defaultReportCacheSize  = 64
	defaultExportTimeout    = 30 * time.Second
)

// Internal interfaces, replaced by mocks in tests.
type reportUseCase interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*domrep.Report, error)
	Import(ctx context.Context, key, id string) (*domrep.Report, error)
}

type viewUseCase interface {
	Summary(ctx context.Context, reportID string) (viewuc.Summary, error)
	Hit(ctx context.Context, reportID, hitID string) (render.HitView, error)
	Toggle(ctx context.Context, reportID, hitID string) (bool, error)
	Select(ctx context.Context, reportID, hitID string) (bool, error)
	Selection(ctx context.Context, reportID string) ([]string, error)
	Dispatch(ctx context.Context, reportID, hitID, action string) (render.Ticket, error)
	Alignment(ctx context.Context, reportID, hitID string) (download.Download, error)
	SelectedFASTA(ctx context.Context, reportID string) (download.Download, error)
}

type exportUseCase interface {
	FASTA(ctx context.Context, accessions, databaseIDs []string) (download.Download, error)
	ViewerSequences(ctx context.Context, accessions, databaseIDs []string) ([]domseq.Sequence, error)
}

// Client is the hitreport entry point.
type Client struct {
	store      *dbRedis.Store
	dispatcher *render.Dispatcher
	reportSvc  reportUseCase
	viewSvc    viewUseCase
	exportSvc  exportUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client and connects to Redis.
// ctx bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if len(cfg.addrs) == 0 {
		return nil, errors.New("hitreport: redis address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
	if err != nil {
		return nil, fmt.Errorf("hitreport: create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("hitreport: redis not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func (c *clientConfig) withDefaults() {
	d := domain.DefaultViewDefaults()
	if c.locale == "" {
		c.locale = d.Locale
	}
	if c.veryBigHits <= 0 {
		c.veryBigHits = d.VeryBigHits
	}
	if c.fastaLineWidth == nil || *c.fastaLineWidth < 0 {
		w := d.FASTALineWidth
		c.fastaLineWidth = &w
	}
	if c.blobDir == "" {
		c.blobDir = defaultBlobDir
	}
}

func wireClient(store *dbRedis.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	cfg.withDefaults()

	blobs, err := blob.NewFS(cfg.blobDir)
	if err != nil {
		return nil, fmt.Errorf("hitreport: %w", err)
	}

	var resolver exportuc.SequenceResolver = seqrepo.New(store)
	if cfg.sequences != nil {
		resolver = &resolverAdapter{inner: cfg.sequences}
	}
	exports := exportuc.New(resolver, *cfg.fastaLineWidth)

	deriver, err := hitview.NewDeriver(cfg.locale)
	if err != nil {
		return nil, fmt.Errorf("hitreport: %w", err)
	}
	renderer, err := render.New(deriver, cfg.veryBigHits, domain.DefaultViewDefaults().RenderCacheSize)
	if err != nil {
		return nil, fmt.Errorf("hitreport: %w", err)
	}
	dispatcher := render.NewDispatcher(exports, blobs, exports, defaultExportTimeout)

	reports, err := reportuc.New(reportrepo.New(store, 0), blobs, defaultReportCacheSize)
	if err != nil {
		return nil, fmt.Errorf("hitreport: %w", err)
	}
	views := viewuc.New(reports, renderer, dispatcher, exports)
	reports.OnForget(views.Forget)

	return &Client{
		store:      store,
		dispatcher: dispatcher,
		reportSvc:  reports,
		viewSvc:    views,
		exportSvc:  exports,
		healthSvc:  healthuc.New(store),
		obs:        obs,
	}, nil
}

// Close waits for dispatched actions and releases the connection.
func (c *Client) Close() {
	if c.dispatcher != nil {
		c.dispatcher.Wait()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks Redis connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Reports returns the report service.
func (c *Client) Reports() *ReportService {
	return &ReportService{reports: c.reportSvc, views: c.viewSvc, obs: c.obs}
}

// Hits returns the hit service of one report.
func (c *Client) Hits(reportID string) *HitService {
	return &HitService{reportID: reportID, svc: c.viewSvc, obs: c.obs}
}

// Exports returns the sequence export service.
func (c *Client) Exports() *ExportService {
	return &ExportService{svc: c.exportSvc, obs: c.obs}
}
