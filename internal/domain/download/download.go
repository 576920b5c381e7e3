// Package download describes a file produced by an export.
package download

// Content types of the files hitreport produces.
const (
	ContentTypeFASTA = "chemical/x-fasta"
	ContentTypeText  = "text/plain; charset=utf-8"
)

// Download is a complete, in-memory export ready to be handed to a client.
type Download struct {
	Name        string
	ContentType string
	Body        []byte
}

// Size returns the body length in bytes.
func (d Download) Size() int { return len(d.Body) }
