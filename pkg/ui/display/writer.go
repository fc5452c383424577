package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/petridish/pkg/errors"
)

// Theme supplies the presentation hooks that differ between rich and plain
// output. Style receives a semantic style name from styles.yaml.
type Theme struct {
	Style    func(name, s string) string
	Markdown func(md string) string
	Table    func(headers []string, rows [][]string) string
}

// Writer lays out view models as lines of text.
type Writer struct {
	w     io.Writer
	theme Theme
	err   error
}

// NewWriter returns a Writer. Nil hooks in theme are replaced by plain ones.
func NewWriter(w io.Writer, theme Theme) *Writer {
	if theme.Style == nil {
		theme.Style = func(_, s string) string { return s }
	}
	if theme.Markdown == nil {
		theme.Markdown = func(md string) string { return strings.TrimSpace(md) + "\n" }
	}
	if theme.Table == nil {
		theme.Table = PlainTable
	}
	return &Writer{w: w, theme: theme}
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *Writer) style(name, s string) string {
	return w.theme.Style(name, s)
}

// Summary writes a render summary.
func (w *Writer) Summary(s *RenderSummary) error {
	verb := "Rendered"
	if s.DryRun {
		verb = "Would render"
	}
	w.printf("%s %s into %s\n",
		w.style("Success", verb),
		w.style("Variable", s.Template),
		w.style("Path", s.Destination))

	for _, p := range s.Written {
		w.printf("  %s %s\n", w.style("Written", "+"), p)
	}
	for _, p := range s.Overwritten {
		w.printf("  %s %s\n", w.style("Overwritten", "~"), p)
	}
	for _, p := range s.Skipped {
		w.printf("  %s %s\n", w.style("Skipped", "="), w.style("Muted", p+" (exists, skipped)"))
	}

	w.printf("%s\n", w.style("Muted", fmt.Sprintf("%d written, %d overwritten, %d skipped",
		len(s.Written), len(s.Overwritten), len(s.Skipped))))
	return w.err
}

// Info writes a template description.
func (w *Writer) Info(t *TemplateInfo) error {
	w.printf("%s\n", w.style("Header", t.Ref))
	if t.ShortDescription != "" {
		w.printf("%s\n", t.ShortDescription)
	}
	w.printf("\n")
	w.field("Source", fmt.Sprintf("%s (%s)", t.Kind, t.Status))
	w.field("Directory", t.Dir)
	w.field("Config", t.ConfigPath)
	w.field("Project prompt", fmt.Sprintf("%q -> %s", t.ProjectPrompt, t.ProjectVar))
	w.field("Entry directory", t.EntryDir)
	if len(t.ExcludeRender) > 0 {
		w.field("Copied verbatim", strings.Join(t.ExcludeRender, ", "))
	}

	if t.LongDescription != "" {
		w.printf("\n%s", w.theme.Markdown(t.LongDescription))
	}

	if len(t.Prompts) == 0 {
		w.printf("\n%s\n", w.style("Muted", "No prompts besides the project name."))
		return w.err
	}

	rows := make([][]string, len(t.Prompts))
	for i, p := range t.Prompts {
		rows[i] = []string{p.Name, p.Type, p.Kind, p.Default, strings.Join(p.Choices, ", "), p.Constraints}
	}
	w.printf("\n%s\n", w.style("Header", "Prompts"))
	w.printf("%s\n", strings.TrimRight(w.theme.Table(
		[]string{"NAME", "TYPE", "KIND", "DEFAULT", "CHOICES", "CONSTRAINTS"}, rows), "\n"))
	return w.err
}

func (w *Writer) field(label, value string) {
	w.printf("%s %s\n", w.style("Label", label+":"), value)
}

// Cache writes a cache listing.
func (w *Writer) Cache(c *CacheListing) error {
	if len(c.Entries) == 0 {
		w.printf("%s\n", w.style("Muted", "No cached templates in "+c.Dir))
		return w.err
	}
	w.printf("%s\n", w.style("Header", "Cached templates in "+c.Dir))
	for _, e := range c.Entries {
		w.printf("  %s %s\n", e.Name, w.style("Muted", "(updated "+e.Updated.Format("2006-01-02 15:04")+")"))
	}
	return w.err
}

// Config writes the effective user config.
func (w *Writer) Config(c *ConfigDump) error {
	if c.Path != "" {
		w.printf("%s\n", w.style("Muted", "# "+c.Path))
	} else {
		w.printf("%s\n", w.style("Muted", "# built-in defaults (no config file)"))
	}
	w.printf("%s", c.TOML)
	if !strings.HasSuffix(c.TOML, "\n") {
		w.printf("\n")
	}
	return w.err
}

// Error writes an error with its hint and, for conflicts, every path.
func (w *Writer) Error(e *ErrorView) error {
	w.printf("%s %s\n", w.style("Error", "Error:"), e.Message)
	if paths, ok := e.Details[errors.DetailPaths].([]string); ok && len(paths) > 1 {
		for _, p := range paths {
			w.printf("  %s\n", w.style("Path", p))
		}
	}
	if e.Hint != "" {
		w.printf("%s\n", w.style("Hint", "Hint: "+e.Hint))
	}
	return w.err
}

// Message writes a single line.
func (w *Writer) Message(msg string) error {
	w.printf("%s\n", msg)
	return w.err
}

// PlainTable lays rows out in space-padded columns.
func PlainTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	line := func(cells []string) {
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)+2))
		}
		b.WriteString("\n")
	}
	line(headers)
	for _, row := range rows {
		line(row)
	}
	return b.String()
}
