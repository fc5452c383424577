package render

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/petridish/pkg/errors"
)

// Entry is one planned destination path with its final content.
type Entry struct {
	// RelPath is slash-separated and relative to the destination root.
	RelPath string
	// SourcePath is the raw template path, relative to the template root.
	SourcePath string
	Kind       EntryKind
	Content    []byte
	LinkTarget string
	Mode       fs.FileMode
	// Verbatim is set when Content was copied without substitution.
	Verbatim bool
}

// Plan is the complete set of paths a render produces, sorted by RelPath.
type Plan struct {
	EntryDir string
	Entries  []Entry
}

// Paths returns the planned relative paths.
func (p *Plan) Paths() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.RelPath
	}
	return out
}

// Lookup returns the entry planned at rel.
func (p *Plan) Lookup(rel string) (Entry, bool) {
	i := sort.Search(len(p.Entries), func(i int) bool { return p.Entries[i].RelPath >= rel })
	if i < len(p.Entries) && p.Entries[i].RelPath == rel {
		return p.Entries[i], true
	}
	return Entry{}, false
}

// buildPlan renders every path and content. Nothing outside the template
// root is read or written.
func (r *Renderer) buildPlan() (*Plan, error) {
	entryDir, err := r.renderEntryDir()
	if err != nil {
		return nil, err
	}

	sources, err := r.walk()
	if err != nil {
		return nil, err
	}

	plan := &Plan{EntryDir: entryDir}
	owners := make(map[string]string, len(sources))

	for _, src := range sources {
		rel, err := r.renderPath(src.rel, entryDir)
		if err != nil {
			return nil, err
		}
		if other, dup := owners[rel]; dup {
			return nil, templatingError(src.rel,
				fmt.Sprintf("renders to %s, as does %s", rel, other), nil)
		}
		owners[rel] = src.rel

		entry := Entry{RelPath: rel, SourcePath: src.rel, Kind: src.kind, Mode: src.mode}
		if src.kind == KindSymlink {
			entry.LinkTarget, err = r.fs.Readlink(src.abs)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrIO, "cannot read symlink %s", src.rel).
					WithDetail(errors.DetailPath, src.rel)
			}
		} else if err := r.renderContent(src, entryDir, &entry); err != nil {
			return nil, err
		}

		plan.Entries = append(plan.Entries, entry)
	}

	sort.Slice(plan.Entries, func(i, j int) bool { return plan.Entries[i].RelPath < plan.Entries[j].RelPath })

	// A planned file cannot also be a planned directory.
	for _, e := range plan.Entries {
		for dir := path.Dir(e.RelPath); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if src, clash := owners[dir]; clash {
				return nil, templatingError(src,
					fmt.Sprintf("renders to %s, which %s needs as a directory", dir, e.SourcePath), nil)
			}
		}
	}

	return plan, nil
}

func (r *Renderer) renderEntryDir() (string, error) {
	name, err := r.engine.Render(r.entryDirName, r.entryDirName, r.context)
	if err != nil {
		return "", templatingError(r.entryDirName, "", err)
	}
	if err := validateSegment(name); err != nil {
		return "", templatingError(r.entryDirName, "entry directory "+err.Error(), nil)
	}
	return name, nil
}

// renderPath renders a template-relative path in one pass, so a variable can
// rename a directory and a file below it at once.
func (r *Renderer) renderPath(raw, entryDir string) (string, error) {
	rendered, err := r.engine.Render(raw, raw, r.context)
	if err != nil {
		return "", templatingError(raw, "", err)
	}
	if err := validateRelPath(rendered); err != nil {
		return "", templatingError(raw, err.Error(), nil)
	}
	if !strings.HasPrefix(rendered, entryDir+"/") {
		return "", templatingError(raw, fmt.Sprintf("rendered path %s is outside entry directory %s", rendered, entryDir), nil)
	}
	return rendered, nil
}

func (r *Renderer) renderContent(src sourceEntry, entryDir string, entry *Entry) error {
	data, err := r.fs.ReadFile(src.abs)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", src.rel).
			WithDetail(errors.DetailPath, src.rel)
	}

	rawSub := strings.TrimPrefix(src.rel, r.entryDirName+"/")
	renderedSub := strings.TrimPrefix(entry.RelPath, entryDir+"/")

	switch {
	case r.exclusions.Excluded(rawSub, renderedSub):
		entry.Content, entry.Verbatim = data, true
	case looksBinary(data):
		r.logger.Debug().Str("path", src.rel).Msg("Copying binary file verbatim")
		entry.Content, entry.Verbatim = data, true
	default:
		out, err := r.engine.Render(src.rel, string(data), r.context)
		if err != nil {
			return templatingError(src.rel, "", err)
		}
		entry.Content = []byte(out)
	}
	return nil
}

// validateRelPath rejects rendered paths that would land outside the
// destination or silently collapse a segment.
func validateRelPath(rel string) error {
	if rel == "" {
		return fmt.Errorf("rendered path is empty")
	}
	if strings.HasPrefix(rel, "/") || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return fmt.Errorf("rendered path %q is absolute", rel)
	}
	for _, seg := range strings.Split(rel, "/") {
		if err := validateSegment(seg); err != nil {
			return fmt.Errorf("rendered path %q: %v", rel, err)
		}
	}
	return nil
}

func validateSegment(seg string) error {
	switch {
	case seg == "":
		return fmt.Errorf("has an empty segment")
	case seg == "." || seg == "..":
		return fmt.Errorf("has a %q segment", seg)
	case strings.ContainsAny(seg, "/\x00"):
		return fmt.Errorf("segment %q contains a separator or NUL", seg)
	case filepath.Separator == '\\' && strings.ContainsRune(seg, '\\'):
		return fmt.Errorf("segment %q contains a separator", seg)
	}
	return nil
}

func templatingError(path, detail string, cause error) error {
	if detail == "" && cause != nil {
		if d, ok := errors.GetErrorDetails(cause)[errors.DetailDetail].(string); ok {
			detail = d
		} else {
			detail = cause.Error()
		}
	}
	msg := "cannot render " + path
	if detail != "" {
		msg += ": " + detail
	}
	var err *errors.PetridishError
	if cause != nil {
		err = errors.Wrap(cause, errors.ErrTemplatingFailed, msg)
	} else {
		err = errors.New(errors.ErrTemplatingFailed, msg)
	}
	return err.WithDetail(errors.DetailPath, path).WithDetail(errors.DetailDetail, detail)
}
