package hitview

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kailas-cloud/hitreport/internal/domain/report"
)

// Deriver formats locale-dependent parts of a hit's view state.
type Deriver struct {
	printer *message.Printer
}

// NewDeriver creates a Deriver for a BCP 47 locale such as "en" or "de-CH".
func NewDeriver(locale string) (*Deriver, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Deriver{printer: message.NewPrinter(tag)}, nil
}

// FormatLength renders n with the locale's thousands separators.
func (d *Deriver) FormatLength(n int) string {
	return d.printer.Sprintf("%d", n)
}

// ContextLabel returns the qualifier shown next to the hit title.
func (d *Deriver) ContextLabel(ctx Context, q *report.Query, h *report.Hit) string {
	meta := "length: " + d.FormatLength(h.Length())

	switch {
	case ctx.ShowQueryCrumbs && ctx.ShowHitCrumbs:
		return fmt.Sprintf("hit %d of query %d, %s", h.Number(), q.Number(), meta)
	case ctx.ShowQueryCrumbs:
		return fmt.Sprintf("the only hit of query %d, %s", q.Number(), meta)
	case ctx.ShowHitCrumbs:
		return fmt.Sprintf("hit %d, %s", h.Number(), meta)
	default:
		return meta
	}
}
