package hitview

import (
	"strings"

	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/report"
)

// SequenceTooLong is the tooltip of a disabled sequence-viewer button.
const SequenceTooLong = "Sequence too long"

// Availability tells whether an affordance can be used, and why not.
type Availability struct {
	Enabled bool
	Reason  string
}

// SequenceViewerAvailability gates the sequence viewer on hit length.
func SequenceViewerAvailability(h *report.Hit) Availability {
	if h.Length() > domain.MaxViewableLength {
		return Availability{Reason: SequenceTooLong}
	}
	return Availability{Enabled: true}
}

// SequenceViewerTarget returns the relative get_sequence URL for h.
// The URL is encoded as a whole the way ECMAScript encodeURI does it, so the
// comma separating database ids survives unescaped.
func SequenceViewerTarget(h *report.Hit, ctx Context) string {
	raw := "get_sequence/?sequence_ids=" + h.Accession() +
		"&database_ids=" + strings.Join(ctx.DatabaseIDs(), ",")
	return EncodeURI(raw)
}

// ActionKind names a link-bar action.
type ActionKind string

const (
	// ViewSequence opens the external sequence viewer.
	ViewSequence ActionKind = "view-sequence"
	// DownloadFASTA downloads the hit sequence.
	DownloadFASTA ActionKind = "download-fasta"
	// DownloadAlignment downloads the hit's alignments as text.
	DownloadAlignment ActionKind = "download-alignment"
)

// ParseActionKind validates an action name.
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case ViewSequence, DownloadFASTA, DownloadAlignment:
		return k, nil
	default:
		return "", domain.ErrUnknownAction
	}
}

// Action describes one link-bar button and the parameters its click needs.
type Action struct {
	Kind      ActionKind
	Text      string
	Icon      string
	ClassName string
	Title     string
	Enabled   bool

	// URL is set for ViewSequence.
	URL string
	// Accessions and DatabaseIDs are set for DownloadFASTA.
	Accessions  []string
	DatabaseIDs []string
	// QueryID and HitID are set for DownloadAlignment.
	QueryID string
	HitID   string
}

type actionRule struct {
	applies func(Context) bool
	build   func(Context, *report.Query, *report.Hit) Action
}

func liveDatabase(ctx Context) bool { return !ctx.ImportedXML }

func always(Context) bool { return true }

// actionRules is evaluated top to bottom; the order is the link-bar order.
var actionRules = []actionRule{
	{applies: liveDatabase, build: viewSequenceAction},
	{applies: liveDatabase, build: downloadFASTAAction},
	{applies: always, build: downloadAlignmentAction},
}

// Actions returns the link-bar buttons of h in display order.
// Imported reports omit the sequence viewer and FASTA download entirely.
func Actions(ctx Context, q *report.Query, h *report.Hit) []Action {
	out := make([]Action, 0, len(actionRules))
	for _, r := range actionRules {
		if r.applies(ctx) {
			out = append(out, r.build(ctx, q, h))
		}
	}
	return out
}

func viewSequenceAction(ctx Context, _ *report.Query, h *report.Hit) Action {
	a := Action{
		Kind:      ViewSequence,
		Text:      "Sequence",
		Icon:      "fa-eye",
		ClassName: "view-sequence",
	}
	avail := SequenceViewerAvailability(h)
	if !avail.Enabled {
		a.Title = avail.Reason
		return a
	}
	a.Enabled = true
	a.URL = SequenceViewerTarget(h, ctx)
	return a
}

func downloadFASTAAction(ctx Context, _ *report.Query, h *report.Hit) Action {
	return Action{
		Kind:        DownloadFASTA,
		Text:        "FASTA",
		Icon:        "fa-download",
		ClassName:   "download-fa",
		Enabled:     true,
		Accessions:  []string{h.Accession()},
		DatabaseIDs: ctx.DatabaseIDs(),
	}
}

func downloadAlignmentAction(_ Context, q *report.Query, h *report.Hit) Action {
	return Action{
		Kind:      DownloadAlignment,
		Text:      "Alignment",
		Icon:      "fa-download",
		ClassName: "download-aln",
		Enabled:   true,
		QueryID:   q.ID(),
		HitID:     h.ID(),
	}
}

// Links returns h's external links in input order, keeping only those with
// both a title and a url. Dropped links are passed to onMalformed when set.
func Links(h *report.Hit, onMalformed func(report.Link)) []report.Link {
	all := h.Links()
	out := make([]report.Link, 0, len(all))
	for _, l := range all {
		if !l.Renderable() {
			if onMalformed != nil {
				onMalformed(l)
			}
			continue
		}
		out = append(out, l)
	}
	return out
}
