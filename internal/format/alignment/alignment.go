// Package alignment writes pairwise HSP alignments as plain text.
//
// Each HSP becomes three FASTA-style records, so the file can be read back by
// any FASTA parser:
//
//	>{query_id}:{qstart}-{qend}
//	{aligned query}
//	>{query_id}:{qstart}-{qend}_alignment_{hit_id}:{sstart}-{send}
//	{midline}
//	>{hit_id}:{sstart}-{send}
//	{aligned subject}
package alignment

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/hitreport/internal/domain/report"
)

// Write writes hsps in the given order. Every HSP must carry its owners
// (see report.HSP.WithOwners).
func Write(w io.Writer, hsps []report.HSP) error {
	bw := bufio.NewWriter(w)
	for _, h := range hsps {
		if h.QueryID() == "" || h.HitID() == "" {
			return fmt.Errorf("hsp %d: missing query or hit id", h.Number())
		}
		if err := writeBlock(bw, h); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeBlock(w io.Writer, h report.HSP) error {
	a := h.Alignment()
	query := fmt.Sprintf("%s:%d-%d", h.QueryID(), a.QStart, a.QEnd)
	subject := fmt.Sprintf("%s:%d-%d", h.HitID(), a.SStart, a.SEnd)

	_, err := fmt.Fprintf(w, ">%s\n%s\n>%s_alignment_%s\n%s\n>%s\n%s\n",
		query, a.QSeq,
		query, subject, a.Midline,
		subject, a.SSeq,
	)
	return err
}

// FileName returns the download name for base: every character outside
// [A-Za-z0-9] becomes '_', and ".txt" is appended.
func FileName(base string) string {
	return sanitize(base) + ".txt"
}

// BaseName returns the unsanitized base name of a hit's alignment download.
func BaseName(queryID, hitID string) string {
	return queryID + "_" + hitID
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
