package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/hitreport/internal/db"
	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hashes   map[string]map[string]string
	lastKeys []string
	calls    []string
	err      error
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	m.calls = append(m.calls, "HSET")
	if m.err != nil {
		return m.err
	}
	if m.hashes == nil {
		m.hashes = map[string]map[string]string{}
	}
	m.hashes[key] = fields
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.calls = append(m.calls, "HGETALL")
	m.lastKeys = []string{key}
	if m.err != nil {
		return nil, m.err
	}
	if h, ok := m.hashes[key]; ok {
		return h, nil
	}
	return map[string]string{}, nil
}

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	if m.err != nil {
		return m.err
	}
	if m.hashes == nil {
		m.hashes = map[string]map[string]string{}
	}
	m.calls = append(m.calls, "HSETMULTI")
	for _, it := range items {
		m.hashes[it.Key] = it.Fields
	}
	return nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	m.calls = append(m.calls, "HGETALLMULTI")
	m.lastKeys = keys
	if m.err != nil {
		return nil, m.err
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
		if out[i] == nil {
			out[i] = map[string]string{}
		}
	}
	return out, nil
}

func TestPutResolve(t *testing.T) {
	ms := &mockStore{}
	r := New(ms)
	ctx := context.Background()

	err := r.Put(ctx, []domseq.Sequence{
		domseq.Reconstruct("SI2.2.0_06267", "locus=A", "MSAN", "abc123"),
		domseq.Reconstruct("SI2.2.0_06267", "locus=B", "MSAK", "def456"),
		domseq.Reconstruct("SI2.2.0_13722", "", "MKV", "def456"),
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := ms.hashes["hitreport:seq:abc123:SI2.2.0_06267"]; !ok {
		t.Fatalf("unexpected keys: %v", ms.hashes)
	}

	got, err := r.Resolve(ctx, []string{"SI2.2.0_06267", "SI2.2.0_13722", "missing"}, []string{"def456", "abc123"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sequences, got %v", got)
	}
	// def456 is listed first, so it wins for the shared accession.
	if s := got["SI2.2.0_06267"]; s.Residues() != "MSAK" || s.DatabaseID() != "def456" {
		t.Errorf("wrong database won: %+v", s)
	}
	if got["SI2.2.0_13722"].Residues() != "MKV" {
		t.Errorf("unexpected sequence: %+v", got["SI2.2.0_13722"])
	}
	if len(ms.lastKeys) != 6 {
		t.Errorf("expected one pipelined lookup per pair, got %v", ms.lastKeys)
	}
}

func TestSingleSequence_SkipsPipeline(t *testing.T) {
	ms := &mockStore{}
	r := New(ms)
	ctx := context.Background()

	if err := r.Put(ctx, []domseq.Sequence{domseq.Reconstruct("SI2.2.0_06267", "locus=A", "MSAN", "abc123")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := r.Resolve(ctx, []string{"SI2.2.0_06267"}, []string{"abc123"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s := got["SI2.2.0_06267"]; s.Residues() != "MSAN" || s.Title() != "locus=A" || s.DatabaseID() != "abc123" {
		t.Errorf("unexpected sequence: %+v", s)
	}
	if len(ms.calls) != 2 || ms.calls[0] != "HSET" || ms.calls[1] != "HGETALL" {
		t.Errorf("calls = %v, want [HSET HGETALL]", ms.calls)
	}

	got, err = r.Resolve(ctx, []string{"missing"}, []string{"abc123"})
	if err != nil || len(got) != 0 {
		t.Errorf("missing accession: (%v, %v)", got, err)
	}
}

func TestResolve_EmptyInput(t *testing.T) {
	ms := &mockStore{}
	got, err := New(ms).Resolve(context.Background(), nil, []string{"abc123"})
	if err != nil || len(got) != 0 {
		t.Fatalf("got (%v, %v)", got, err)
	}
	if ms.lastKeys != nil {
		t.Error("store queried for an empty request")
	}
}

func TestResolve_StoreError(t *testing.T) {
	ms := &mockStore{err: context.DeadlineExceeded}
	_, err := New(ms).Resolve(context.Background(), []string{"a"}, []string{"b"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestSeqKey(t *testing.T) {
	if got := seqKey("abc123", "SI2.2.0_06267"); got != "hitreport:seq:abc123:SI2.2.0_06267" {
		t.Errorf("seqKey() = %q", got)
	}
}
