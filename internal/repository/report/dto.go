package report

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/hitreport/internal/domain"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
)

// reportDTO is the stored JSON shape of a report. It matches the report
// JSON the search service emits, so saved reports can be loaded as is.
type reportDTO struct {
	ID       string        `json:"search_id"`
	Program  string        `json:"program"`
	QueryDB  []databaseDTO `json:"querydb"`
	Queries  []queryDTO    `json:"queries"`
	Imported bool          `json:"imported_xml,omitempty"`
}

type databaseDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

type queryDTO struct {
	ID     string   `json:"id"`
	Number int      `json:"number"`
	Title  string   `json:"title,omitempty"`
	Length int      `json:"length"`
	Hits   []hitDTO `json:"hits"`
}

type hitDTO struct {
	ID        string    `json:"id"`
	Accession string    `json:"accession,omitempty"`
	Number    int       `json:"number"`
	Length    int       `json:"length"`
	Title     string    `json:"title,omitempty"`
	Evalue    float64   `json:"evalue"`
	Score     int       `json:"score,omitempty"`
	HSPs      []hspDTO  `json:"hsps"`
	Links     []linkDTO `json:"links,omitempty"`
}

type hspDTO struct {
	Number    int     `json:"number"`
	BitScore  float64 `json:"bit_score"`
	Score     int     `json:"score"`
	Evalue    float64 `json:"evalue"`
	QStart    int     `json:"qstart"`
	QEnd      int     `json:"qend"`
	SStart    int     `json:"sstart"`
	SEnd      int     `json:"send"`
	QFrame    int     `json:"qframe,omitempty"`
	SFrame    int     `json:"sframe,omitempty"`
	Identity  int     `json:"identity"`
	Positives int     `json:"positives"`
	Gaps      int     `json:"gaps"`
	Length    int     `json:"length"`
	QSeq      string  `json:"qseq"`
	SSeq      string  `json:"sseq"`
	Midline   string  `json:"midline"`
}

type linkDTO struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Class string `json:"class,omitempty"`
}

// Encode serializes rep to JSON.
func Encode(rep *domrep.Report) ([]byte, error) {
	dto := reportDTO{ID: rep.ID(), Program: rep.Program(), Imported: rep.Imported()}
	for _, d := range rep.Databases() {
		dto.QueryDB = append(dto.QueryDB, databaseDTO{
			ID: d.ID(), Name: d.Name(), Title: d.Title(), Type: string(d.Type()),
		})
	}
	for _, q := range rep.Queries() {
		qd := queryDTO{ID: q.ID(), Number: q.Number(), Title: q.Title(), Length: q.Length(), Hits: []hitDTO{}}
		for _, h := range q.Hits() {
			qd.Hits = append(qd.Hits, encodeHit(h))
		}
		dto.Queries = append(dto.Queries, qd)
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal report %s: %w", rep.ID(), err)
	}
	return data, nil
}

func encodeHit(h *domrep.Hit) hitDTO {
	hd := hitDTO{
		ID: h.ID(), Accession: h.Accession(), Number: h.Number(), Length: h.Length(),
		Title: h.Title(), Evalue: h.Evalue(), Score: h.Score(),
	}
	for _, hsp := range h.HSPs() {
		a := hsp.Alignment()
		hd.HSPs = append(hd.HSPs, hspDTO{
			Number: a.Number, BitScore: a.BitScore, Score: a.Score, Evalue: a.Evalue,
			QStart: a.QStart, QEnd: a.QEnd, SStart: a.SStart, SEnd: a.SEnd,
			QFrame: a.QFrame, SFrame: a.SFrame, Identity: a.Identity, Positives: a.Positives,
			Gaps: a.Gaps, Length: a.Length, QSeq: a.QSeq, SSeq: a.SSeq, Midline: a.Midline,
		})
	}
	for _, l := range h.Links() {
		hd.Links = append(hd.Links, linkDTO{Title: l.Title(), URL: l.URL(), Icon: l.Icon(), Class: l.Class()})
	}
	return hd
}

// Decode parses and validates report JSON from an untrusted source such as
// a report file.
func Decode(data []byte) (*domrep.Report, error) {
	var dto reportDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: unmarshal report: %w", domain.ErrInvalidReport, err)
	}

	dbs := make([]domrep.Database, 0, len(dto.QueryDB))
	for _, d := range dto.QueryDB {
		db, err := domrep.NewDatabase(d.ID, d.Name, d.Title, domrep.DatabaseType(d.Type))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidReport, err)
		}
		dbs = append(dbs, db)
	}

	queries := make([]*domrep.Query, 0, len(dto.Queries))
	for _, qd := range dto.Queries {
		hits := make([]*domrep.Hit, 0, len(qd.Hits))
		for _, hd := range qd.Hits {
			h, err := decodeHit(hd)
			if err != nil {
				return nil, fmt.Errorf("query %s: %w", qd.ID, err)
			}
			hits = append(hits, h)
		}
		q, err := domrep.NewQuery(qd.ID, qd.Number, qd.Title, qd.Length, hits)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}

	return domrep.New(dto.ID, dto.Program, dbs, queries, dto.Imported)
}

func decodeHit(hd hitDTO) (*domrep.Hit, error) {
	hsps := make([]domrep.HSP, 0, len(hd.HSPs))
	for _, x := range hd.HSPs {
		hsp, err := domrep.NewHSP(x.alignment())
		if err != nil {
			return nil, fmt.Errorf("%w: hit %s: %w", domain.ErrInvalidReport, hd.ID, err)
		}
		hsps = append(hsps, hsp)
	}
	return domrep.NewHit(hd.fields(), hsps, hd.links())
}

// hydrate rebuilds a report written by Save without re-validating it. Save
// only stores reports built by the validating constructors.
func hydrate(data []byte) (*domrep.Report, error) {
	var dto reportDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: unmarshal report: %w", domain.ErrInvalidReport, err)
	}

	dbs := make([]domrep.Database, 0, len(dto.QueryDB))
	for _, d := range dto.QueryDB {
		dbs = append(dbs, domrep.ReconstructDatabase(d.ID, d.Name, d.Title, domrep.DatabaseType(d.Type)))
	}
	queries := make([]*domrep.Query, 0, len(dto.Queries))
	for _, qd := range dto.Queries {
		hits := make([]*domrep.Hit, 0, len(qd.Hits))
		for _, hd := range qd.Hits {
			hsps := make([]domrep.HSP, 0, len(hd.HSPs))
			for _, x := range hd.HSPs {
				hsps = append(hsps, domrep.ReconstructHSP(x.alignment()))
			}
			hits = append(hits, domrep.ReconstructHit(hd.fields(), hsps, hd.links()))
		}
		queries = append(queries, domrep.ReconstructQuery(qd.ID, qd.Number, qd.Title, qd.Length, hits))
	}
	return domrep.Reconstruct(dto.ID, dto.Program, dbs, queries, dto.Imported), nil
}

func (x hspDTO) alignment() domrep.Alignment {
	return domrep.Alignment{
		Number: x.Number, BitScore: x.BitScore, Score: x.Score, Evalue: x.Evalue,
		QStart: x.QStart, QEnd: x.QEnd, SStart: x.SStart, SEnd: x.SEnd,
		QFrame: x.QFrame, SFrame: x.SFrame, Identity: x.Identity, Positives: x.Positives,
		Gaps: x.Gaps, Length: x.Length, QSeq: x.QSeq, SSeq: x.SSeq, Midline: x.Midline,
	}
}

func (hd hitDTO) fields() domrep.HitFields {
	return domrep.HitFields{
		ID: hd.ID, Accession: hd.Accession, Number: hd.Number, Length: hd.Length,
		Title: hd.Title, Evalue: hd.Evalue, Score: hd.Score,
	}
}

func (hd hitDTO) links() []domrep.Link {
	links := make([]domrep.Link, 0, len(hd.Links))
	for _, l := range hd.Links {
		links = append(links, domrep.NewLink(l.Title, l.URL, l.Icon, l.Class))
	}
	return links
}
