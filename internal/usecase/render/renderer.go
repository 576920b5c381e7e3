package render

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	"github.com/kailas-cloud/hitreport/internal/domain/report"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
)

type memoEntry struct {
	hit  *report.Hit
	view HitView
}

// Renderer maps a hit to its HitView.
//
// Views are memoized per report and identifier. A cached view is reused
// while the hit pointer is unchanged; a different pointer (a reloaded
// report) forces a fresh render. UI state is overlaid on every call, so a
// reused view still reflects the current collapse and selection flags.
type Renderer struct {
	deriver     *hitview.Deriver
	veryBigHits int
	memo        *lru.Cache[string, memoEntry]
	memoTotal   *prometheus.CounterVec
}

// New creates a renderer. cacheSize bounds the number of memoized views.
func New(deriver *hitview.Deriver, veryBigHits, cacheSize int) (*Renderer, error) {
	memo, err := lru.New[string, memoEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create render cache: %w", err)
	}
	return &Renderer{deriver: deriver, veryBigHits: veryBigHits, memo: memo}, nil
}

// WithMetrics sets a counter vec with the label "result" (hit/miss).
func (r *Renderer) WithMetrics(memoTotal *prometheus.CounterVec) *Renderer {
	r.memoTotal = memoTotal
	return r
}

// Render returns the view of h with st overlaid.
func (r *Renderer) Render(ctx context.Context, rep *report.Report, q *report.Query, h *report.Hit, st State) HitView {
	key := rep.ID() + "/" + hitview.Identifier(q, h)
	if e, ok := r.memo.Get(key); ok && e.hit == h {
		r.observe("hit")
		return e.view.withState(st)
	}
	r.observe("miss")

	view := r.build(ctx, rep, q, h)
	r.memo.Add(key, memoEntry{hit: h, view: view})
	return view.withState(st)
}

// Forget drops every memoized view of rep.
func (r *Renderer) Forget(rep *report.Report) {
	for _, q := range rep.Queries() {
		for _, h := range q.Hits() {
			r.memo.Remove(rep.ID() + "/" + hitview.Identifier(q, h))
		}
	}
}

// Action returns the link-bar action of kind for h, if the hit offers it.
func (r *Renderer) Action(rep *report.Report, q *report.Query, h *report.Hit, kind hitview.ActionKind) (hitview.Action, bool) {
	for _, a := range hitview.Actions(hitview.ContextFor(rep, q, r.veryBigHits), q, h) {
		if a.Kind == kind {
			return a, true
		}
	}
	return hitview.Action{}, false
}

// ToggleSelect reports a checkbox change of h to fn.
func (r *Renderer) ToggleSelect(q *report.Query, h *report.Hit, fn SelectFunc) {
	if fn != nil {
		fn(hitview.CheckboxID(q, h))
	}
}

func (r *Renderer) build(ctx context.Context, rep *report.Report, q *report.Query, h *report.Hit) HitView {
	hctx := hitview.ContextFor(rep, q, r.veryBigHits)
	id := hitview.Identifier(q, h)

	return HitView{
		ID:         id,
		ContentID:  hitview.ContentID(q, h),
		CheckboxID: hitview.CheckboxID(q, h),
		Data: Data{
			HitDef:    h.ID(),
			HitLen:    h.Length(),
			HitEvalue: h.Evalue(),
		},
		Header: Header{
			HitID:        h.ID(),
			Title:        h.Title(),
			Label:        r.deriver.ContextLabel(hctx, q, h),
			ToggleTarget: hitview.ContentID(q, h),
		},
		LinkBar: r.linkBar(ctx, hctx, q, h),
		Overview: Overview{
			Key:       "kablammo" + q.ID(),
			Algorithm: hctx.Algorithm,
			Collapsed: hctx.VeryBig,
			QueryID:   q.ID(),
			HitID:     h.ID(),
		},
	}
}

func (r *Renderer) linkBar(ctx context.Context, hctx hitview.Context, q *report.Query, h *report.Hit) LinkBar {
	id := hitview.Identifier(q, h)
	elems := []Element{{
		Kind:    KindCheckbox,
		ID:      hitview.CheckboxID(q, h),
		Text:    "Select",
		Enabled: true,
		Value:   h.Accession(),
		Target:  "#" + id,
	}}

	for _, a := range hitview.Actions(hctx, q, h) {
		elems = append(elems, buttonElement(a))
	}

	log := logpkg.FromContext(ctx)
	links := hitview.Links(h, func(l report.Link) {
		log.Debug("dropping malformed link",
			zap.String("hit", id),
			zap.String("title", l.Title()),
			zap.String("url", l.URL()),
		)
	})
	for _, l := range links {
		elems = append(elems, Element{
			Kind:      KindLink,
			Separator: Separator,
			Text:      l.Title(),
			Icon:      l.Icon(),
			ClassName: l.Class(),
			Enabled:   true,
			URL:       l.URL(),
		})
	}
	return LinkBar{Elements: elems}
}

func buttonElement(a hitview.Action) Element {
	class := "btn btn-link " + a.ClassName
	if !a.Enabled {
		class += " disabled"
	}
	return Element{
		Kind:      KindButton,
		Separator: Separator,
		Text:      a.Text,
		Icon:      a.Icon,
		ClassName: class,
		Title:     a.Title,
		Enabled:   a.Enabled,
		Action:    a.Kind,
		URL:       a.URL,
	}
}

func (r *Renderer) observe(result string) {
	if r.memoTotal != nil {
		r.memoTotal.WithLabelValues(result).Inc()
	}
}
