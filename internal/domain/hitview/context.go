// Package hitview derives everything a hit needs to be displayed from the
// read-only report model: identifiers, the context label, feature gating and
// the ordered list of link-bar actions. Every function here is pure.
package hitview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/hitreport/internal/domain/report"
)

// Context is the ambient display state a report view hands to each hit.
type Context struct {
	ShowQueryCrumbs bool
	ShowHitCrumbs   bool
	ImportedXML     bool
	VeryBig         bool
	Algorithm       string
	QueryDB         []report.Database
}

// ContextFor derives the display context of q's hits within rep.
// A report is very big when its total hit count exceeds veryBigHits.
func ContextFor(rep *report.Report, q *report.Query, veryBigHits int) Context {
	return Context{
		ShowQueryCrumbs: len(rep.Queries()) > 1,
		ShowHitCrumbs:   q.HitCount() > 1,
		ImportedXML:     rep.Imported(),
		VeryBig:         veryBigHits > 0 && rep.HitCount() > veryBigHits,
		Algorithm:       rep.Program(),
		QueryDB:         rep.Databases(),
	}
}

// DatabaseIDs returns the ids of the context's databases, preserving order.
func (c Context) DatabaseIDs() []string { return report.DatabaseIDs(c.QueryDB) }

// Identifier returns the DOM id of the hit container: Query_{q}_hit_{h}.
func Identifier(q *report.Query, h *report.Hit) string {
	return IdentifierFor(q.Number(), h.Number())
}

// IdentifierFor builds the container id from bare numbers.
func IdentifierFor(queryNumber, hitNumber int) string {
	return "Query_" + strconv.Itoa(queryNumber) + "_hit_" + strconv.Itoa(hitNumber)
}

// ContentID returns the id of the collapsible content panel.
func ContentID(q *report.Query, h *report.Hit) string { return Identifier(q, h) + "_content" }

// CheckboxID returns the id of the selection checkbox.
func CheckboxID(q *report.Query, h *report.Hit) string { return Identifier(q, h) + "_checkbox" }

// ParseIdentifier splits a container id back into query and hit numbers.
func ParseIdentifier(id string) (queryNumber, hitNumber int, err error) {
	rest, ok := strings.CutPrefix(id, "Query_")
	if !ok {
		return 0, 0, fmt.Errorf("identifier %q: missing Query_ prefix", id)
	}
	qs, hs, ok := strings.Cut(rest, "_hit_")
	if !ok {
		return 0, 0, fmt.Errorf("identifier %q: missing _hit_ separator", id)
	}
	queryNumber, err = strconv.Atoi(qs)
	if err != nil || queryNumber < 1 {
		return 0, 0, fmt.Errorf("identifier %q: invalid query number", id)
	}
	hitNumber, err = strconv.Atoi(hs)
	if err != nil || hitNumber < 1 {
		return 0, 0, fmt.Errorf("identifier %q: invalid hit number", id)
	}
	return queryNumber, hitNumber, nil
}
