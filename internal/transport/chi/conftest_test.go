package chi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/blob"
	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
	"github.com/kailas-cloud/hitreport/internal/domain/sequence"
	exportuc "github.com/kailas-cloud/hitreport/internal/usecase/export"
	healthuc "github.com/kailas-cloud/hitreport/internal/usecase/health"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
	reportuc "github.com/kailas-cloud/hitreport/internal/usecase/report"
	viewuc "github.com/kailas-cloud/hitreport/internal/usecase/view"
)

// --- Mocks ---

type mockRepo struct {
	mu      sync.Mutex
	reports map[string]*domrep.Report
}

func (m *mockRepo) Save(_ context.Context, rep *domrep.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[rep.ID()] = rep
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (*domrep.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return rep, nil
}

func (m *mockRepo) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.reports))
	for id := range m.reports {
		ids = append(ids, id)
	}
	return ids, nil
}

type mockResolver struct {
	seqs map[string]sequence.Sequence
}

func (m *mockResolver) Resolve(_ context.Context, accessions, _ []string) (map[string]sequence.Sequence, error) {
	out := make(map[string]sequence.Sequence)
	for _, acc := range accessions {
		if s, ok := m.seqs[acc]; ok {
			out[acc] = s
		}
	}
	return out, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

// --- Fixtures ---

type testEnv struct {
	handler    http.Handler
	blobs      *blob.FSStore
	dispatcher *render.Dispatcher
}

func testReport(t *testing.T, id string, imported bool, lengths ...int) *domrep.Report {
	t.Helper()
	accs := []string{"SI2.2.0_06267", "SI2.2.0_13722", "SI2.2.0_00001"}
	hits := make([]*domrep.Hit, 0, len(lengths))
	for i, n := range lengths {
		hsp, err := domrep.NewHSP(domrep.Alignment{Number: 1, QStart: 1, QEnd: 2, SStart: 5, SEnd: 6,
			QSeq: "MS", SSeq: "MS", Midline: "MS"})
		if err != nil {
			t.Fatalf("NewHSP: %v", err)
		}
		h, err := domrep.NewHit(domrep.HitFields{ID: accs[i], Number: i + 1, Length: n, Evalue: 1e-30}, []domrep.HSP{hsp}, nil)
		if err != nil {
			t.Fatalf("NewHit: %v", err)
		}
		hits = append(hits, h)
	}
	q, err := domrep.NewQuery("Query_1", 1, "", 100, hits)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	rep, err := domrep.New(id, "blastp",
		[]domrep.Database{domrep.ReconstructDatabase("abc123", "Sinvicta2-2-3.prot.subset.fasta", "", domrep.Protein)},
		[]*domrep.Query{q}, imported)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rep
}

func newTestEnv(t *testing.T, apiKeys ...string) *testEnv {
	t.Helper()
	blobs, err := blob.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	repo := &mockRepo{reports: map[string]*domrep.Report{
		"r1":       testReport(t, "r1", false, 350, 12000),
		"imported": testReport(t, "imported", true, 350),
	}}
	resolver := &mockResolver{seqs: map[string]sequence.Sequence{
		"SI2.2.0_06267": sequence.Reconstruct("SI2.2.0_06267", "locus=A", "MSANRLNV", "abc123"),
		"SI2.2.0_13722": sequence.Reconstruct("SI2.2.0_13722", "", strings.Repeat("M", 12000), "abc123"),
	}}

	reports, err := reportuc.New(repo, blobs, 8)
	if err != nil {
		t.Fatalf("reportuc.New: %v", err)
	}
	exports := exportuc.New(resolver, 60)
	deriver, err := hitview.NewDeriver("en")
	if err != nil {
		t.Fatalf("NewDeriver: %v", err)
	}
	renderer, err := render.New(deriver, 250, 64)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	dispatcher := render.NewDispatcher(exports, blobs, exports, time.Second)
	views := viewuc.New(reports, renderer, dispatcher, exports)
	reports.OnForget(views.Forget)
	health := healthuc.New(&mockPinger{})

	srv := NewServer(reports, views, exports, blobs, health, zap.NewNop())
	return &testEnv{handler: NewRouter(srv, apiKeys), blobs: blobs, dispatcher: dispatcher}
}
