// Package terminal provides rich terminal output with colors and styling.
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/petridish/pkg/cobrax/topics"
	"github.com/arthur-debert/petridish/pkg/ui/display"
	"github.com/arthur-debert/petridish/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Renderer styles output with the lipgloss styles from styles.yaml, draws
// the prompt listing as a table and renders template descriptions as
// markdown.
type Renderer struct {
	output   io.Writer
	writer   *display.Writer
	markdown topics.Renderer
}

// New creates a new terminal renderer.
func New(w io.Writer) (*Renderer, error) {
	r := &Renderer{
		output:   w,
		markdown: topics.NewGlamourRenderer(),
	}
	r.writer = display.NewWriter(w, display.Theme{
		Style:    style,
		Markdown: r.renderMarkdown,
		Table:    promptTable,
	})
	return r, nil
}

// RenderResult renders one of the display view types.
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

// RenderError renders an error in the Error style followed by its hint.
func (r *Renderer) RenderError(err error) error {
	return r.writer.Error(display.NewErrorView(err))
}

// RenderMessage renders a simple message.
func (r *Renderer) RenderMessage(msg string) error {
	return r.writer.Message(msg)
}

func (r *Renderer) renderMarkdown(md string) string {
	return r.markdown.Render(md, ".md")
}

func style(name, s string) string {
	if !styles.Has(name) {
		return s
	}
	return styles.GetStyle(name).Render(s)
}

func promptTable(headers []string, rows [][]string) string {
	header := styles.GetStyle("Header")
	muted := styles.GetStyle("Muted")
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			if col == 0 {
				return styles.GetStyle("Variable").Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
