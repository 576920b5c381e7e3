package render

import "github.com/kailas-cloud/hitreport/internal/domain/hitview"

// Separator precedes every link-bar element after the select checkbox.
const Separator = " | "

// ElementKind tells how a link-bar element is drawn.
type ElementKind string

const (
	// KindCheckbox is the select checkbox, always first.
	KindCheckbox ElementKind = "checkbox"
	// KindButton is an action button handled by the dispatcher.
	KindButton ElementKind = "button"
	// KindLink is an external cross-reference link.
	KindLink ElementKind = "link"
)

// HitView is the render tree of one hit.
type HitView struct {
	ID         string   `json:"id"`
	ContentID  string   `json:"content_id"`
	CheckboxID string   `json:"checkbox_id"`
	Data       Data     `json:"data"`
	Header     Header   `json:"header"`
	LinkBar    LinkBar  `json:"link_bar"`
	Overview   Overview `json:"overview"`
}

// Data carries the data-hit-* attributes of the container.
type Data struct {
	HitDef    string  `json:"data-hit-def"`
	HitLen    int     `json:"data-hit-len"`
	HitEvalue float64 `json:"data-hit-evalue"`
}

// Header is the clickable title row that toggles the content panel.
type Header struct {
	HitID        string `json:"hit_id"`
	Title        string `json:"title"`
	Label        string `json:"label"`
	ToggleTarget string `json:"toggle_target"`
	Collapsed    bool   `json:"collapsed"`
}

// LinkBar holds the link-bar elements in display order.
type LinkBar struct {
	Elements []Element `json:"elements"`
}

// Element is one link-bar entry.
type Element struct {
	Kind      ElementKind        `json:"kind"`
	Separator string             `json:"separator,omitempty"`
	ID        string             `json:"id,omitempty"`
	Text      string             `json:"text"`
	Icon      string             `json:"icon,omitempty"`
	ClassName string             `json:"class_name,omitempty"`
	Title     string             `json:"title,omitempty"`
	Enabled   bool               `json:"enabled"`
	Checked   bool               `json:"checked,omitempty"`
	Value     string             `json:"value,omitempty"`
	Target    string             `json:"target,omitempty"`
	Action    hitview.ActionKind `json:"action,omitempty"`
	URL       string             `json:"url,omitempty"`
}

// Classes returns the class names of the bar in order, for positional checks.
func (b LinkBar) Classes() []string {
	out := make([]string, len(b.Elements))
	for i, e := range b.Elements {
		out[i] = e.ClassName
	}
	return out
}

// Button returns the button bound to kind, if rendered.
func (b LinkBar) Button(kind hitview.ActionKind) (Element, bool) {
	for _, e := range b.Elements {
		if e.Kind == KindButton && e.Action == kind {
			return e, true
		}
	}
	return Element{}, false
}

// Overview is the placeholder of the graphical alignment overview.
type Overview struct {
	Key       string `json:"key"`
	Algorithm string `json:"algorithm"`
	Collapsed bool   `json:"collapsed"`
	QueryID   string `json:"query_id"`
	HitID     string `json:"hit_id"`
}

// State is the per-hit UI state overlaid on a rendered view.
type State struct {
	Collapsed bool
	Selected  bool
}

func (v HitView) withState(st State) HitView {
	v.Header.Collapsed = st.Collapsed
	elems := make([]Element, len(v.LinkBar.Elements))
	copy(elems, v.LinkBar.Elements)
	for i := range elems {
		if elems[i].Kind == KindCheckbox {
			elems[i].Checked = st.Selected
		}
	}
	v.LinkBar.Elements = elems
	return v
}
