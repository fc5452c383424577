package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown with glamour and passes anything else
// through. Errors fall back to the raw content.
type GlamourRenderer struct {
	// Style is a glamour style name or path; empty or "auto" detects the
	// terminal background.
	Style string
	// Width wraps output at this column when positive.
	Width int
}

// NewGlamourRenderer returns a renderer with automatic style detection.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
