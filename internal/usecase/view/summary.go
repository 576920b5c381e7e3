package view

import (
	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
)

// Summary is the report index served to clients.
type Summary struct {
	ID        string         `json:"id"`
	Program   string         `json:"program"`
	Imported  bool           `json:"imported_xml"`
	Databases []string       `json:"database_ids"`
	Queries   []QuerySummary `json:"queries"`
}

// QuerySummary lists the hits of one query.
type QuerySummary struct {
	ID     string       `json:"id"`
	Number int          `json:"number"`
	Title  string       `json:"title,omitempty"`
	Length int          `json:"length"`
	Hits   []HitSummary `json:"hits"`
}

// HitSummary addresses one hit.
type HitSummary struct {
	ID        string  `json:"id"`
	HitID     string  `json:"hit_id"`
	Accession string  `json:"accession"`
	Length    int     `json:"length"`
	Evalue    float64 `json:"evalue"`
}

func summarize(rep *domrep.Report) Summary {
	out := Summary{
		ID:        rep.ID(),
		Program:   rep.Program(),
		Imported:  rep.Imported(),
		Databases: rep.DatabaseIDs(),
	}
	for _, q := range rep.Queries() {
		qs := QuerySummary{ID: q.ID(), Number: q.Number(), Title: q.Title(), Length: q.Length()}
		for _, h := range q.Hits() {
			qs.Hits = append(qs.Hits, HitSummary{
				ID:        hitview.Identifier(q, h),
				HitID:     h.ID(),
				Accession: h.Accession(),
				Length:    h.Length(),
				Evalue:    h.Evalue(),
			})
		}
		out.Queries = append(out.Queries, qs)
	}
	return out
}
