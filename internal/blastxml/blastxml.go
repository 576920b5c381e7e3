// Package blastxml reads saved BLAST XML output (-outfmt 5) into an imported report.
package blastxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/report"
)

type blastOutput struct {
	XMLName    xml.Name    `xml:"BlastOutput"`
	Program    string      `xml:"BlastOutput_program"`
	DB         string      `xml:"BlastOutput_db"`
	Iterations []iteration `xml:"BlastOutput_iterations>Iteration"`
}

type iteration struct {
	Num      int    `xml:"Iteration_iter-num"`
	QueryID  string `xml:"Iteration_query-ID"`
	QueryDef string `xml:"Iteration_query-def"`
	QueryLen int    `xml:"Iteration_query-len"`
	Hits     []hit  `xml:"Iteration_hits>Hit"`
}

type hit struct {
	Num       int    `xml:"Hit_num"`
	ID        string `xml:"Hit_id"`
	Def       string `xml:"Hit_def"`
	Accession string `xml:"Hit_accession"`
	Len       int    `xml:"Hit_len"`
	Hsps      []hsp  `xml:"Hit_hsps>Hsp"`
}

type hsp struct {
	Num       int     `xml:"Hsp_num"`
	BitScore  float64 `xml:"Hsp_bit-score"`
	Score     int     `xml:"Hsp_score"`
	Evalue    float64 `xml:"Hsp_evalue"`
	QueryFrom int     `xml:"Hsp_query-from"`
	QueryTo   int     `xml:"Hsp_query-to"`
	HitFrom   int     `xml:"Hsp_hit-from"`
	HitTo     int     `xml:"Hsp_hit-to"`
	QueryFr   int     `xml:"Hsp_query-frame"`
	HitFr     int     `xml:"Hsp_hit-frame"`
	Identity  int     `xml:"Hsp_identity"`
	Positive  int     `xml:"Hsp_positive"`
	Gaps      int     `xml:"Hsp_gaps"`
	AlignLen  int     `xml:"Hsp_align-len"`
	QSeq      string  `xml:"Hsp_qseq"`
	HSeq      string  `xml:"Hsp_hseq"`
	Midline   string  `xml:"Hsp_midline"`
}

const (
	noDefinition = "No definition line"
	ordinalIDTag = "gnl|BL_ORD_ID|"
)

// Parse decodes BLAST XML from r into a report marked as imported.
func Parse(r io.Reader, reportID string) (*report.Report, error) {
	var out blastOutput
	if err := xml.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode blast xml: %w", domain.ErrInvalidReport, err)
	}

	program := strings.ToLower(strings.TrimSpace(out.Program))
	queries := make([]*report.Query, 0, len(out.Iterations))
	for i, it := range out.Iterations {
		q, err := convertIteration(i+1, it)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}

	return report.New(reportID, program, databases(out.DB, program), queries, true)
}

func convertIteration(number int, it iteration) (*report.Query, error) {
	if it.Num > 0 {
		number = it.Num
	}
	id, title := splitDefinition(it.QueryDef)
	if id == "" || it.QueryDef == noDefinition {
		id, title = it.QueryID, ""
	}

	hits := make([]*report.Hit, 0, len(it.Hits))
	for _, h := range it.Hits {
		converted, err := convertHit(h)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", id, err)
		}
		hits = append(hits, converted)
	}
	return report.NewQuery(id, number, title, it.QueryLen, hits)
}

func convertHit(h hit) (*report.Hit, error) {
	id, title := strings.TrimSpace(h.ID), strings.TrimSpace(h.Def)
	// makeblastdb without -parse_seqids hides the real id in the definition line.
	ordinal := strings.HasPrefix(id, ordinalIDTag)
	if ordinal {
		id, title = splitDefinition(h.Def)
	}
	if title == noDefinition {
		title = ""
	}

	hsps := make([]report.HSP, 0, len(h.Hsps))
	for _, x := range h.Hsps {
		converted, err := report.NewHSP(report.Alignment{
			Number:    x.Num,
			BitScore:  x.BitScore,
			Score:     x.Score,
			Evalue:    x.Evalue,
			QStart:    x.QueryFrom,
			QEnd:      x.QueryTo,
			SStart:    x.HitFrom,
			SEnd:      x.HitTo,
			QFrame:    x.QueryFr,
			SFrame:    x.HitFr,
			Identity:  x.Identity,
			Positives: x.Positive,
			Gaps:      x.Gaps,
			Length:    x.AlignLen,
			QSeq:      x.QSeq,
			SSeq:      x.HSeq,
			Midline:   x.Midline,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: hit %s: %w", domain.ErrInvalidReport, id, err)
		}
		hsps = append(hsps, converted)
	}

	f := report.HitFields{
		ID:        id,
		Accession: strings.TrimSpace(h.Accession),
		Number:    h.Num,
		Length:    h.Len,
		Title:     title,
	}
	if len(h.Hsps) > 0 {
		f.Evalue = h.Hsps[0].Evalue
		f.Score = h.Hsps[0].Score
	}
	if ordinal || f.Accession == "" {
		f.Accession = id
	}
	return report.NewHit(f, hsps, nil)
}

// splitDefinition splits a FASTA definition line into id and title.
func splitDefinition(def string) (id, title string) {
	def = strings.TrimSpace(def)
	id, title, _ = strings.Cut(def, " ")
	return id, strings.TrimSpace(title)
}

// databases turns the space-separated BlastOutput_db into report databases.
// Imported reports keep the database name as its id; it is never used to
// fetch sequences.
func databases(db, program string) []report.Database {
	t := report.Protein
	switch program {
	case "blastn", "tblastn", "tblastx":
		t = report.Nucleotide
	}
	fields := strings.Fields(db)
	out := make([]report.Database, 0, len(fields))
	for _, f := range fields {
		out = append(out, report.ReconstructDatabase(path.Base(f), path.Base(f), "", t))
	}
	return out
}
