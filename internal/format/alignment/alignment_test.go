package alignment

import (
	"bytes"
	"testing"

	"github.com/kailas-cloud/hitreport/internal/domain/report"
)

func testHSPs(t *testing.T) []report.HSP {
	t.Helper()
	alns := []report.Alignment{
		{Number: 1, QStart: 1, QEnd: 8, SStart: 1, SEnd: 8, QSeq: "MSANRLNV", SSeq: "MSANRLNV", Midline: "MSANRLNV"},
		{Number: 2, QStart: 20, QEnd: 25, SStart: 40, SEnd: 45, QSeq: "LVT-ES", SSeq: "LVTAES", Midline: "LVT ES"},
	}
	out := make([]report.HSP, len(alns))
	for i, a := range alns {
		h, err := report.NewHSP(a)
		if err != nil {
			t.Fatalf("NewHSP: %v", err)
		}
		out[i] = h.WithOwners("Query_1", "SI2.2.0_06267")
	}
	return out
}

func TestWrite_Layout(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testHSPs(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := ">Query_1:1-8\nMSANRLNV\n" +
		">Query_1:1-8_alignment_SI2.2.0_06267:1-8\nMSANRLNV\n" +
		">SI2.2.0_06267:1-8\nMSANRLNV\n" +
		">Query_1:20-25\nLVT-ES\n" +
		">Query_1:20-25_alignment_SI2.2.0_06267:40-45\nLVT ES\n" +
		">SI2.2.0_06267:40-45\nLVTAES\n"
	if buf.String() != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWrite_KeepsInputOrder(t *testing.T) {
	hsps := testHSPs(t)
	reversed := []report.HSP{hsps[1], hsps[0]}

	var buf bytes.Buffer
	if err := Write(&buf, reversed); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte(">Query_1:20-25\n")) {
		t.Errorf("formatter re-sorted HSPs:\n%s", buf.String())
	}
}

func TestWrite_Idempotent(t *testing.T) {
	hsps := testHSPs(t)
	var a, b bytes.Buffer
	if err := Write(&a, hsps); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(&b, hsps); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("repeated writes differ")
	}
}

func TestWrite_RequiresOwners(t *testing.T) {
	h, _ := report.NewHSP(report.Alignment{Number: 1, QSeq: "A", SSeq: "A", Midline: "A"})
	if err := Write(&bytes.Buffer{}, []report.HSP{h}); err == nil {
		t.Fatal("expected error for HSP without owners")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct{ base, want string }{
		{BaseName("Query_1", "SI2.2.0_06267"), "Query_1_SI2_2_0_06267.txt"},
		{"lcl|q1_gi|5", "lcl_q1_gi_5.txt"},
	}
	for _, tc := range tests {
		if got := FileName(tc.base); got != tc.want {
			t.Errorf("FileName(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}
