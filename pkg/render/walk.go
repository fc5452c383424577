package render

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/petridish/pkg/errors"
)

// EntryKind tells a regular file from a symlink.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindSymlink
)

func (k EntryKind) String() string {
	if k == KindSymlink {
		return "symlink"
	}
	return "file"
}

// sourceEntry is a file or symlink found under the entry directory.
type sourceEntry struct {
	// rel is slash-separated and relative to the template root, so it
	// starts with the raw entry directory name.
	rel  string
	abs  string
	kind EntryKind
	mode fs.FileMode
}

// walk lists every file and symlink below root/entry in lexical order of
// their relative paths. Symlinks are reported, never followed.
func (r *Renderer) walk() ([]sourceEntry, error) {
	var entries []sourceEntry
	if err := r.walkDir(r.entryDirName, &entries); err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })
	return entries, nil
}

func (r *Renderer) walkDir(rel string, out *[]sourceEntry) error {
	dir := filepath.Join(r.templateRoot, filepath.FromSlash(rel))
	children, err := r.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read template directory %s", rel).
			WithDetail(errors.DetailPath, rel)
	}

	for _, child := range children {
		childRel := path.Join(rel, child.Name())
		abs := filepath.Join(dir, child.Name())

		info, err := r.fs.Lstat(abs)
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "cannot stat %s", childRel).
				WithDetail(errors.DetailPath, childRel)
		}

		switch mode := info.Mode(); {
		case mode&fs.ModeSymlink != 0:
			*out = append(*out, sourceEntry{rel: childRel, abs: abs, kind: KindSymlink, mode: mode.Perm()})
		case mode.IsDir():
			if err := r.walkDir(childRel, out); err != nil {
				return err
			}
		case mode.IsRegular():
			*out = append(*out, sourceEntry{rel: childRel, abs: abs, kind: KindFile, mode: mode.Perm()})
		default:
			r.logger.Warn().Str("path", childRel).Str("mode", mode.String()).Msg("Skipping special file in template")
		}
	}
	return nil
}
