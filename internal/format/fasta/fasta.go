// Package fasta writes and reads FASTA records for sequence downloads.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/hitreport/internal/domain/sequence"
)

// DefaultLineWidth is the residue count per sequence line.
const DefaultLineWidth = 60

// Writer writes FASTA records. LineWidth <= 0 writes each sequence on one line.
type Writer struct {
	LineWidth int
}

// Write writes seqs as FASTA records, in order.
func (fw Writer) Write(w io.Writer, seqs []sequence.Sequence) error {
	bw := bufio.NewWriter(w)
	for _, s := range seqs {
		if err := fw.writeRecord(bw, s); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (fw Writer) writeRecord(w *bufio.Writer, s sequence.Sequence) error {
	header := ">" + s.ID()
	if s.Title() != "" {
		header += " " + s.Title()
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	res := s.Residues()
	if fw.LineWidth <= 0 {
		_, err := fmt.Fprintln(w, res)
		return err
	}
	for len(res) > 0 {
		n := min(fw.LineWidth, len(res))
		if _, err := fmt.Fprintln(w, res[:n]); err != nil {
			return err
		}
		res = res[n:]
	}
	return nil
}

// FileName returns the download name for a FASTA export of accessions.
func FileName(accessions []string) string {
	if len(accessions) == 1 {
		return "sequenceserver-" + SanitizeAccession(accessions[0]) + ".fa"
	}
	return "sequenceserver-" + strconv.Itoa(len(accessions)) + "_sequences.fa"
}

// SanitizeAccession replaces characters outside [A-Za-z0-9._-] with '_'.
func SanitizeAccession(accession string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, accession)
}

// Record is a parsed FASTA entry.
type Record struct {
	ID       string
	Title    string
	Residues string
}

// Read parses FASTA records from r. Sequence lines are concatenated and
// blank lines ignored.
func Read(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var (
		out []Record
		cur *Record
		sb  strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.Residues = sb.String()
			out = append(out, *cur)
			sb.Reset()
		}
	}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			id, title, _ := strings.Cut(line[1:], " ")
			cur = &Record{ID: id, Title: strings.TrimSpace(title)}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("sequence data before first header")
		}
		sb.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan fasta: %w", err)
	}
	flush()
	return out, nil
}
