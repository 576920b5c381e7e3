package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/hitreport/internal/domain"
)

func TestFSStore_PutGet(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, "downloads/sequenceserver-SI2.2.0_06267.fa", []byte(">SI2.2.0_06267\nMS\n"), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	obj, err := s.Get(ctx, "downloads/sequenceserver-SI2.2.0_06267.fa")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(obj.Body) != ">SI2.2.0_06267\nMS\n" || obj.ContentType != "text/plain" || obj.Size != 18 {
		t.Errorf("unexpected object: %+v", obj)
	}
}

func TestFSStore_PutOverwrites(t *testing.T) {
	s, _ := NewFS(t.TempDir())
	ctx := context.Background()

	_ = s.Put(ctx, "a.txt", []byte("one"), "")
	if err := s.Put(ctx, "a.txt", []byte("two"), ""); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	obj, _ := s.Get(ctx, "a.txt")
	if string(obj.Body) != "two" {
		t.Errorf("body = %q", obj.Body)
	}
}

func TestFSStore_GetMissing(t *testing.T) {
	s, _ := NewFS(t.TempDir())
	_, err := s.Get(context.Background(), "downloads/none.fa")
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFSStore_List(t *testing.T) {
	s, _ := NewFS(t.TempDir())
	ctx := context.Background()
	for _, k := range []string{"downloads/b.fa", "downloads/a.txt", "reports/r1.xml"} {
		if err := s.Put(ctx, k, []byte("x"), ""); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}

	infos, err := s.List(ctx, "downloads/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "downloads/a.txt" || infos[1].Key != "downloads/b.fa" {
		t.Errorf("unexpected list: %+v", infos)
	}
}

func TestFSStore_RejectsTraversal(t *testing.T) {
	s, _ := NewFS(t.TempDir())
	for _, k := range []string{"", "../etc/passwd", "/abs", "a/../../b"} {
		if err := s.Put(context.Background(), k, []byte("x"), ""); err == nil {
			t.Errorf("Put(%q) accepted", k)
		}
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "gcs"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpen_Filesystem(t *testing.T) {
	st, err := Open(context.Background(), Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := st.(*FSStore); !ok {
		t.Errorf("expected *FSStore, got %T", st)
	}
}
