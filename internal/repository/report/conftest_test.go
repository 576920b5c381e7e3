package report

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/hitreport/internal/db"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
)

// mockStore implements the consumer interface for tests with an in-memory map.
type mockStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	getFn   func(ctx context.Context, key string) ([]byte, error)
	scanFn  func(ctx context.Context, pattern string) ([]string, error)
	setErr  error
	deleted []string
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func testReport(t *testing.T, id string) *domrep.Report {
	t.Helper()
	hsp, err := domrep.NewHSP(domrep.Alignment{
		Number: 1, BitScore: 48.5, Score: 114, Evalue: 1.2e-8,
		QStart: 1, QEnd: 4, SStart: 10, SEnd: 13, Identity: 3, Positives: 4, Length: 4,
		QSeq: "MSAN", SSeq: "MSAK", Midline: "MSA+",
	})
	if err != nil {
		t.Fatalf("NewHSP: %v", err)
	}
	h, err := domrep.NewHit(domrep.HitFields{
		ID: "SI2.2.0_06267", Number: 1, Length: 300, Title: "locus=Si_gnF", Evalue: 1.2e-8, Score: 114,
	}, []domrep.HSP{hsp}, []domrep.Link{
		domrep.NewLink("UniProt", "https://www.uniprot.org/uniprot/SI2.2.0_06267", "fa-external-link", "uniprot"),
	})
	if err != nil {
		t.Fatalf("NewHit: %v", err)
	}
	q, err := domrep.NewQuery("Query_1", 1, "p53", 393, []*domrep.Hit{h})
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	dbs := []domrep.Database{domrep.ReconstructDatabase("abc123", "Sinvicta2-2-3.prot.subset.fasta", "S. invicta", domrep.Protein)}
	rep, err := domrep.New(id, "blastp", dbs, []*domrep.Query{q}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rep
}
