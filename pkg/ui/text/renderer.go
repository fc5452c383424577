// Package text provides plain text output without any styling.
package text

import (
	"fmt"
	"io"

	"github.com/arthur-debert/petridish/pkg/ui/display"
)

// Renderer writes unstyled lines, suitable for pipes and logs.
type Renderer struct {
	output io.Writer
	writer *display.Writer
}

// New creates a new text renderer.
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{
		output: output,
		writer: display.NewWriter(output, display.Theme{}),
	}, nil
}

// RenderResult renders one of the display view types as plain text.
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.RenderSummary:
		return r.writer.Summary(v)
	case *display.TemplateInfo:
		return r.writer.Info(v)
	case *display.CacheListing:
		return r.writer.Cache(v)
	case *display.ConfigDump:
		return r.writer.Config(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error and its hint.
func (r *Renderer) RenderError(err error) error {
	return r.writer.Error(display.NewErrorView(err))
}

// RenderMessage renders a simple message.
func (r *Renderer) RenderMessage(msg string) error {
	return r.writer.Message(msg)
}
