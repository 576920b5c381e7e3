package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

func failing(err error) CheckFunc {
	return func(context.Context) error { return err }
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}).With("sequences", failing(nil))
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["sequences"] != CheckOK {
		t.Errorf("expected sequences %q, got %q", CheckOK, r.Checks["sequences"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}).With("sequences", failing(nil))
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["sequences"] != CheckOK {
		t.Errorf("expected sequences %q, got %q", CheckOK, r.Checks["sequences"])
	}
}

func TestCheck_SequenceBackendError(t *testing.T) {
	svc := New(&mockDBPinger{}).With("sequences", failing(errors.New("blastdbcmd: not found")))
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["sequences"] != CheckError {
		t.Errorf("expected sequences %q, got %q", CheckError, r.Checks["sequences"])
	}
}

func TestCheck_NilCheckIgnored(t *testing.T) {
	svc := New(&mockDBPinger{}).With("sequences", nil)
	r := svc.Check(context.Background())

	if _, ok := r.Checks["sequences"]; ok {
		t.Error("nil check was registered")
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected 1 check, got %d", len(r.Checks))
	}
}
