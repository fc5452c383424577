package render

import "path/filepath"

// Result describes what a render did, or would do for a dry run. Paths are
// slash-separated and relative to the destination root, so they start with
// the rendered entry directory.
type Result struct {
	Root        string   `json:"root"`
	EntryDir    string   `json:"entry_dir"`
	Written     []string `json:"written"`
	Overwritten []string `json:"overwritten"`
	Skipped     []string `json:"skipped"`
	DryRun      bool     `json:"dry_run"`
}

// Path returns the absolute path of the rendered entry directory.
func (r *Result) Path() string {
	return filepath.Join(r.Root, r.EntryDir)
}

// Changed returns the number of paths written or overwritten.
func (r *Result) Changed() int {
	return len(r.Written) + len(r.Overwritten)
}
