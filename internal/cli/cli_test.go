package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/hitreport/internal/domain"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
	reportrepo "github.com/kailas-cloud/hitreport/internal/repository/report"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
)

func testHit(t *testing.T, number, length int) *domrep.Hit {
	t.Helper()
	hsp, err := domrep.NewHSP(domrep.Alignment{
		Number: 1, BitScore: 48.5, Score: 114, Evalue: 1.2e-8,
		QStart: 1, QEnd: 4, SStart: 10, SEnd: 13, Identity: 3, Positives: 4, Length: 4,
		QSeq: "MSAN", SSeq: "MSAK", Midline: "MSA+",
	})
	if err != nil {
		t.Fatalf("NewHSP: %v", err)
	}
	id := "SI2.2.0_0626" + string(rune('0'+number))
	h, err := domrep.NewHit(domrep.HitFields{
		ID: id, Accession: id, Number: number, Length: length, Title: "locus=Si_gnF", Evalue: 1.2e-8, Score: 114,
	}, []domrep.HSP{hsp}, nil)
	if err != nil {
		t.Fatalf("NewHit: %v", err)
	}
	return h
}

// writeReport saves a two-hit live report as JSON and returns its path.
func writeReport(t *testing.T) string {
	t.Helper()
	q, err := domrep.NewQuery("Query_1", 1, "p53", 393, []*domrep.Hit{testHit(t, 1, 300), testHit(t, 2, 12000)})
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	db, err := domrep.NewDatabase("abc123", "Sinvicta2-2-3.prot.subset.fasta", "Sinvicta", domrep.Protein)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	rep, err := domrep.New("r1", "blastp", []domrep.Database{db}, []*domrep.Query{q}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data, err := reportrepo.Encode(rep)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Tree(t *testing.T) {
	root := NewRootCommand()
	for _, path := range [][]string{
		{"serve"}, {"render"}, {"export", "fasta"}, {"export", "alignment"},
		{"import", "report"}, {"import", "sequences"},
	} {
		cmd, rest, err := root.Find(path)
		if err != nil || len(rest) != 0 || cmd.Name() != path[len(path)-1] {
			t.Errorf("command %v not found: %v", path, err)
		}
	}
}

func TestRender_AllHits(t *testing.T) {
	out, err := run(t, "", "render", writeReport(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var views []render.HitView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(views) != 2 || views[0].ID != "Query_1_hit_1" || views[1].ID != "Query_1_hit_2" {
		t.Fatalf("unexpected views: %+v", views)
	}
	if !strings.Contains(views[0].Header.Label, "300") {
		t.Errorf("label = %q", views[0].Header.Label)
	}
	btn, ok := views[1].LinkBar.Button("view-sequence")
	if !ok || btn.Enabled {
		t.Errorf("long hit must render a disabled viewer button, got %+v", btn)
	}
}

func TestRender_SelectedHitFromStdin(t *testing.T) {
	data, err := os.ReadFile(writeReport(t))
	if err != nil {
		t.Fatal(err)
	}
	out, err := run(t, string(data), "render", "-", "Query_1_hit_2", "--collapsed")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var views []render.HitView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(views) != 1 || views[0].ID != "Query_1_hit_2" || !views[0].Header.Collapsed {
		t.Errorf("unexpected views: %+v", views)
	}
}

func TestRender_Errors(t *testing.T) {
	path := writeReport(t)
	tests := map[string]struct {
		args []string
		want error
	}{
		"unknown hit":      {args: []string{"render", path, "Query_1_hit_9"}, want: domain.ErrHitNotFound},
		"bad identifier":   {args: []string{"render", path, "hit-1"}, want: domain.ErrHitNotFound},
		"not a report":     {args: []string{"render", "-"}, want: domain.ErrInvalidReport},
		"bad locale":       {args: []string{"render", path, "--locale", "not a locale!"}},
		"missing argument": {args: []string{"render"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, "not json", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExportAlignment(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, err := run(t, "", "export", "alignment", writeReport(t), "Query_1_hit_1", "-o", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	want := filepath.Join(dir, "Query_1_SI2_2_0_06261.txt")
	if strings.TrimSpace(out) != want {
		t.Errorf("printed %q, want %q", out, want)
	}
	body, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	wantBody := ">Query_1:1-4\nMSAN\n>Query_1:1-4_alignment_SI2.2.0_06261:10-13\nMSA+\n>SI2.2.0_06261:10-13\nMSAK\n"
	if string(body) != wantBody {
		t.Errorf("alignment body:\n%s", body)
	}
}

func TestImportReport_NeedsExactlyOneSource(t *testing.T) {
	if _, err := run(t, "", "import", "report"); err == nil {
		t.Error("expected an error without a key or --file")
	}
	if _, err := run(t, "", "import", "report", "uploads/a.xml", "--file", "a.xml"); err == nil {
		t.Error("expected an error with both a key and --file")
	}
}

func TestReadSequences(t *testing.T) {
	in := ">SI2.2.0_06267 locus=Si_gnF\nMSANRL\nKKQ\n>XP_011162193.1\nMR\n"
	seqs, err := readSequences(strings.NewReader(in), "abc123")
	if err != nil {
		t.Fatalf("readSequences: %v", err)
	}
	if len(seqs) != 2 {
		t.Fatalf("expected 2 sequences, got %d", len(seqs))
	}
	if seqs[0].ID() != "SI2.2.0_06267" || seqs[0].Title() != "locus=Si_gnF" ||
		seqs[0].Residues() != "MSANRLKKQ" || seqs[0].DatabaseID() != "abc123" {
		t.Errorf("unexpected first sequence: %+v", seqs[0])
	}

	if _, err := readSequences(strings.NewReader(""), "abc123"); err == nil {
		t.Error("expected an error for an empty file")
	}
}
