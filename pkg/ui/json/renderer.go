// Package json provides machine-readable JSON output.
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/petridish/pkg/ui/display"
)

// Renderer encodes one JSON document per call.
type Renderer struct {
	output  io.Writer
	encoder *json.Encoder
}

// New creates a new JSON renderer.
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{
		output:  output,
		encoder: encoder,
	}, nil
}

// RenderResult encodes result as is; the display types carry json tags.
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError encodes the error code, message, details and hint.
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]*display.ErrorView{
		"error": display.NewErrorView(err),
	})
}

// RenderMessage renders a simple message as JSON.
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{
		"message": msg,
	})
}
