package testutil

import (
	"path/filepath"
	"testing"
)

// TemplateRepo builds a template repository in a temporary directory.
//
//	repo := testutil.NewTemplateRepo(t).
//		Config(`[petridish]`).
//		File("{{ project_name }}/README.md", "# {{ project_name }}")
type TemplateRepo struct {
	t    *testing.T
	Root string
}

// NewTemplateRepo creates an empty repository below t.TempDir().
func NewTemplateRepo(t *testing.T) *TemplateRepo {
	t.Helper()
	return &TemplateRepo{t: t, Root: CreateDir(t, t.TempDir(), "template")}
}

// Config writes petridish.toml at the repository root.
func (r *TemplateRepo) Config(content string) *TemplateRepo {
	r.t.Helper()
	CreateFile(r.t, r.Root, "petridish.toml", content)
	return r
}

// File writes a file at the slash-separated rel path.
func (r *TemplateRepo) File(rel, content string) *TemplateRepo {
	r.t.Helper()
	CreateFile(r.t, r.Root, rel, content)
	return r
}

// Symlink creates a symlink at rel pointing to target.
func (r *TemplateRepo) Symlink(rel, target string) *TemplateRepo {
	r.t.Helper()
	CreateSymlink(r.t, target, filepath.Join(r.Root, filepath.FromSlash(rel)))
	return r
}

// Dir creates an empty directory at rel.
func (r *TemplateRepo) Dir(rel string) *TemplateRepo {
	r.t.Helper()
	CreateDir(r.t, r.Root, rel)
	return r
}
