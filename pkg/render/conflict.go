package render

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/types"
)

// pathState is what Lstat found at a destination path.
type pathState int

const (
	stateMissing pathState = iota
	stateFile              // regular file or symlink
	stateDir
	stateOther
)

// resolution is the outcome of checking a plan against the destination.
type resolution struct {
	write     []Entry // entries to commit
	overwrite map[string]bool
	skipped   []string
}

// Conflict describes one planned path that collides with existing content.
type Conflict struct {
	Path   string
	Reason string
}

// checkConflicts inspects every planned path before anything is written and
// applies the conflict policy to the whole plan at once.
func (r *Renderer) checkConflicts(plan *Plan) (*resolution, error) {
	res := &resolution{overwrite: make(map[string]bool)}
	dirStates := make(map[string]pathState)

	var collisions, blocked []Conflict

	for _, e := range plan.Entries {
		if reason, ok, err := r.blockedParent(e.RelPath, dirStates); err != nil {
			return nil, err
		} else if ok {
			blocked = append(blocked, Conflict{Path: e.RelPath, Reason: reason})
			continue
		}

		state, err := r.lstatState(r.destPath(e.RelPath))
		if err != nil {
			return nil, err
		}

		switch state {
		case stateMissing:
			res.write = append(res.write, e)
		case stateFile:
			collisions = append(collisions, Conflict{Path: e.RelPath, Reason: "already exists"})
			switch r.policy {
			case types.ConflictOverwrite:
				res.write = append(res.write, e)
				res.overwrite[e.RelPath] = true
			case types.ConflictSkipExisting:
				res.skipped = append(res.skipped, e.RelPath)
			}
		default:
			c := Conflict{Path: e.RelPath, Reason: "a directory or special file is in the way"}
			if r.policy == types.ConflictSkipExisting {
				res.skipped = append(res.skipped, e.RelPath)
				continue
			}
			blocked = append(blocked, c)
		}
	}

	switch r.policy {
	case types.ConflictFail:
		if all := append(collisions, blocked...); len(all) > 0 {
			sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
			return nil, conflictError(all)
		}
	case types.ConflictOverwrite:
		if len(blocked) > 0 {
			return nil, conflictError(blocked)
		}
	case types.ConflictSkipExisting:
		for _, c := range blocked {
			res.skipped = append(res.skipped, c.Path)
		}
	}

	return res, nil
}

// blockedParent reports whether a parent directory of rel, below the
// destination root, exists as something other than a directory.
func (r *Renderer) blockedParent(rel string, cache map[string]pathState) (string, bool, error) {
	var parents []string
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		parents = append(parents, dir)
	}
	// Check top-down so the reported parent is the outermost one.
	for i := len(parents) - 1; i >= 0; i-- {
		dir := parents[i]
		state, seen := cache[dir]
		if !seen {
			var err error
			state, err = r.lstatState(r.destPath(dir))
			if err != nil {
				return "", false, err
			}
			cache[dir] = state
		}
		switch state {
		case stateMissing:
			return "", false, nil
		case stateDir:
			continue
		default:
			return fmt.Sprintf("parent %s is not a directory", dir), true, nil
		}
	}
	return "", false, nil
}

func (r *Renderer) lstatState(p string) (pathState, error) {
	info, err := r.fs.Lstat(p)
	if err != nil {
		if errors.IsNotExist(err) {
			return stateMissing, nil
		}
		return stateMissing, errors.Wrapf(err, errors.ErrIO, "cannot inspect %s", p).
			WithDetail(errors.DetailPath, p)
	}
	mode := info.Mode()
	switch {
	case mode.IsDir():
		return stateDir, nil
	case mode.IsRegular(), mode&fs.ModeSymlink != 0:
		return stateFile, nil
	default:
		return stateOther, nil
	}
}

func (r *Renderer) destPath(rel string) string {
	return filepath.Join(r.destinationRoot, filepath.FromSlash(rel))
}

func conflictError(conflicts []Conflict) error {
	paths := make([]string, len(conflicts))
	lines := make([]string, len(conflicts))
	for i, c := range conflicts {
		paths[i] = c.Path
		lines[i] = c.Path + " (" + c.Reason + ")"
	}
	summary := fmt.Sprintf("%d destination paths conflict", len(paths))
	if len(paths) == 1 {
		summary = "1 destination path conflicts"
	}
	return errors.Newf(errors.ErrDestinationConflict, "%s: %s", summary, strings.Join(lines, ", ")).
		WithDetail(errors.DetailPath, paths[0]).
		WithDetail(errors.DetailPaths, paths)
}
