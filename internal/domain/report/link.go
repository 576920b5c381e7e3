package report

// Link is an external cross-reference attached to a hit. Every field is optional.
type Link struct {
	title string
	url   string
	icon  string
	class string
}

// NewLink creates a Link. Incomplete links are accepted and filtered at render time.
func NewLink(title, url, icon, class string) Link {
	return Link{title: title, url: url, icon: icon, class: class}
}

// Title returns the anchor text.
func (l Link) Title() string { return l.title }

// URL returns the link target.
func (l Link) URL() string { return l.url }

// Icon returns the icon class, if any.
func (l Link) Icon() string { return l.icon }

// Class returns the CSS class, if any.
func (l Link) Class() string { return l.class }

// Renderable reports whether both title and url are set.
func (l Link) Renderable() bool { return l.title != "" && l.url != "" }
