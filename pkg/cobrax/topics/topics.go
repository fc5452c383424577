// Package topics adds free-form help topics to a cobra command tree, so
// `prog help <topic>` prints a document shipped alongside the binary.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/spf13/cobra"
)

// optionPrefix marks topics that document a single flag.
const optionPrefix = "option-"

// Topic is one help document.
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Ext is the file extension of the topic, used to pick a renderer.
func (t *Topic) Ext() string {
	return path.Ext(t.Path)
}

// Options configures a Manager.
type Options struct {
	// Extensions lists the file extensions treated as topics.
	// Defaults to .txt and .md.
	Extensions []string
	// Renderer formats topic content. Defaults to PlainRenderer.
	Renderer Renderer
}

// Manager holds the topics found in a filesystem.
type Manager struct {
	topics   map[string]*Topic
	renderer Renderer
}

// Load collects every topic file under root in fsys. A missing root
// yields a Manager with no topics.
func Load(fsys fs.FS, root string, opts Options) (*Manager, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".txt", ".md"}
	}
	m := &Manager{topics: make(map[string]*Topic), renderer: opts.Renderer}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}

	if _, err := fs.Stat(fsys, root); err != nil {
		return m, nil
	}

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasExt(p, exts) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		m.topics[name] = &Topic{Name: name, Path: p, Content: string(data)}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to read help topics")
	}
	return m, nil
}

func hasExt(p string, exts []string) bool {
	ext := path.Ext(p)
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// Get looks a topic up by name. Flag spellings ("--force", "-f") also
// match the "option-" topic for that flag.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := m.topics[name]; ok {
		return t, true
	}
	t, ok := m.topics[optionPrefix+name]
	return t, ok
}

// Names returns the topic names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render formats a topic with the configured renderer.
func (m *Manager) Render(t *Topic) string {
	return m.renderer.Render(t.Content, t.Ext())
}

// WriteIndex prints the topic listing, split into general and flag topics.
func (m *Manager) WriteIndex(w io.Writer, prog string) {
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if opt, ok := strings.CutPrefix(name, optionPrefix); ok {
			options = append(options, opt)
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", prog)
}

// Install replaces the help command of root with one that also knows the
// topics in m. `help topics` lists them.
func Install(root *cobra.Command, m *Manager) {
	defaultHelp := root.HelpFunc()
	prog := root.Name()

	show := func(cmd *cobra.Command, name string) bool {
		t, ok := m.Get(name)
		if ok {
			fmt.Fprint(cmd.OutOrStdout(), m.Render(t))
		}
		return ok
	}

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: "Help provides help for any command or topic.\n" +
			"Run '" + prog + " help topics' to list the topics.",
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			return append(completions, m.Names()...), cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case len(args) == 0:
				defaultHelp(root, nil)
			case args[0] == "topics":
				m.WriteIndex(cmd.OutOrStdout(), prog)
			case show(cmd, args[0]):
			default:
				target, _, err := root.Find(args)
				if err != nil || target == nil {
					target = root
				}
				defaultHelp(target, args)
			}
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
			break
		}
	}
	root.SetHelpCommand(helpCmd)
}
