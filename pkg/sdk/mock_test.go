package hitreport

import (
	"context"
	"testing"

	"github.com/kailas-cloud/hitreport/internal/domain/download"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
	viewuc "github.com/kailas-cloud/hitreport/internal/usecase/view"
)

// --- reportUseCase mock ---

type mockReportUC struct {
	listFn   func(ctx context.Context) ([]string, error)
	getFn    func(ctx context.Context, id string) (*domrep.Report, error)
	importFn func(ctx context.Context, key, id string) (*domrep.Report, error)
}

func (m *mockReportUC) List(ctx context.Context) ([]string, error) { return m.listFn(ctx) }

func (m *mockReportUC) Get(ctx context.Context, id string) (*domrep.Report, error) {
	return m.getFn(ctx, id)
}

func (m *mockReportUC) Import(ctx context.Context, key, id string) (*domrep.Report, error) {
	return m.importFn(ctx, key, id)
}

// --- viewUseCase mock ---

type mockViewUC struct {
	summaryFn   func(ctx context.Context, reportID string) (viewuc.Summary, error)
	hitFn       func(ctx context.Context, reportID, hitID string) (render.HitView, error)
	toggleFn    func(ctx context.Context, reportID, hitID string) (bool, error)
	selectFn    func(ctx context.Context, reportID, hitID string) (bool, error)
	selectionFn func(ctx context.Context, reportID string) ([]string, error)
	dispatchFn  func(ctx context.Context, reportID, hitID, action string) (render.Ticket, error)
	alignmentFn func(ctx context.Context, reportID, hitID string) (download.Download, error)
	fastaFn     func(ctx context.Context, reportID string) (download.Download, error)
}

func (m *mockViewUC) Summary(ctx context.Context, reportID string) (viewuc.Summary, error) {
	return m.summaryFn(ctx, reportID)
}

func (m *mockViewUC) Hit(ctx context.Context, reportID, hitID string) (render.HitView, error) {
	return m.hitFn(ctx, reportID, hitID)
}

func (m *mockViewUC) Toggle(ctx context.Context, reportID, hitID string) (bool, error) {
	return m.toggleFn(ctx, reportID, hitID)
}

func (m *mockViewUC) Select(ctx context.Context, reportID, hitID string) (bool, error) {
	return m.selectFn(ctx, reportID, hitID)
}

func (m *mockViewUC) Selection(ctx context.Context, reportID string) ([]string, error) {
	return m.selectionFn(ctx, reportID)
}

func (m *mockViewUC) Dispatch(ctx context.Context, reportID, hitID, action string) (render.Ticket, error) {
	return m.dispatchFn(ctx, reportID, hitID, action)
}

func (m *mockViewUC) Alignment(ctx context.Context, reportID, hitID string) (download.Download, error) {
	return m.alignmentFn(ctx, reportID, hitID)
}

func (m *mockViewUC) SelectedFASTA(ctx context.Context, reportID string) (download.Download, error) {
	return m.fastaFn(ctx, reportID)
}

// --- exportUseCase mock ---

type mockExportUC struct {
	fastaFn     func(ctx context.Context, accessions, databaseIDs []string) (download.Download, error)
	sequencesFn func(ctx context.Context, accessions, databaseIDs []string) ([]domseq.Sequence, error)
}

func (m *mockExportUC) FASTA(ctx context.Context, accessions, databaseIDs []string) (download.Download, error) {
	return m.fastaFn(ctx, accessions, databaseIDs)
}

func (m *mockExportUC) ViewerSequences(ctx context.Context, accessions, databaseIDs []string) ([]domseq.Sequence, error) {
	return m.sequencesFn(ctx, accessions, databaseIDs)
}

// --- SequenceResolver mock ---

type mockResolver struct {
	fn func(ctx context.Context, accessions, databaseIDs []string) (map[string]Sequence, error)
}

func (m *mockResolver) Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]Sequence, error) {
	return m.fn(ctx, accessions, databaseIDs)
}

// --- helpers ---

func testReport(t *testing.T, imported bool) *domrep.Report {
	t.Helper()
	hsp, err := domrep.NewHSP(domrep.Alignment{
		Number: 1, Score: 114, Evalue: 1.2e-8, QStart: 1, QEnd: 2, SStart: 5, SEnd: 6,
		QSeq: "MS", SSeq: "MS", Midline: "MS",
	})
	if err != nil {
		t.Fatalf("NewHSP: %v", err)
	}
	h, err := domrep.NewHit(domrep.HitFields{
		ID: "SI2.2.0_06267", Accession: "SI2.2.0_06267", Number: 1, Length: 300, Evalue: 1.2e-8, Score: 114,
	}, []domrep.HSP{hsp}, nil)
	if err != nil {
		t.Fatalf("NewHit: %v", err)
	}
	q, err := domrep.NewQuery("Query_1", 1, "", 393, []*domrep.Hit{h})
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	db, err := domrep.NewDatabase("abc123", "Sinvicta2-2-3.prot.subset.fasta", "", domrep.Protein)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	rep, err := domrep.New("r1", "blastp", []domrep.Database{db}, []*domrep.Query{q}, imported)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rep
}
