// pkg/render/render_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: real filesystem (t.TempDir)
// PURPOSE: Render templates end to end and check the destination tree

package render_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/filesystem"
	"github.com/arthur-debert/petridish/pkg/render"
	"github.com/arthur-debert/petridish/pkg/testutil"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, opts render.Options) *render.Renderer {
	t.Helper()
	r, err := render.New(opts)
	require.NoError(t, err)
	return r
}

func TestRenderEndToEnd(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("{{ project }}/README.md", "# {{ project }}\n").
		File("{{ project }}/src/{{ name }}.rs", "// by {{ name }}\n")
	out := filepath.Join(t.TempDir(), "out")

	r := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "{{ project }}",
		DestinationRoot: out,
		Context:         types.Context{"project": "demo", "name": "alice"},
	})

	result, err := r.Render()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"demo/README.md":    "# demo\n",
		"demo/src/alice.rs": "// by alice\n",
	}, testutil.ReadTree(t, out))

	assert.Equal(t, "demo", result.EntryDir)
	assert.Equal(t, filepath.Join(out, "demo"), result.Path())
	assert.Equal(t, []string{"demo/README.md", "demo/src/alice.rs"}, result.Written)
	assert.Empty(t, result.Overwritten)
	assert.Empty(t, result.Skipped)
	assert.False(t, result.DryRun)
}

func TestPathTemplatingRoundTrip(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("proj/{{ x }}.txt", "static content\n")
	out := t.TempDir()

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "proj",
		DestinationRoot: out,
		Context:         types.Context{"x": "hello"},
	}).Render()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"proj/hello.txt": "static content\n"}, testutil.ReadTree(t, out))
}

func TestVariableRenamesDirectoryAndFile(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("{{ p }}/{{ p }}/{{ p }}_test.go", "package {{ p }}\n")
	out := t.TempDir()

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "{{ p }}",
		DestinationRoot: out,
		Context:         types.Context{"p": "widget"},
	}).Render()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"widget/widget/widget_test.go": "package widget\n"}, testutil.ReadTree(t, out))
}

func TestRenderIsDeterministic(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("{{ name }}/a.txt", "{{ name }} {{ tags | join \",\" }}\n").
		File("{{ name }}/b/{{ name | upper }}.md", "{{ range tags }}- {{ . }}\n{{ end }}").
		File("{{ name }}/c.txt", "{{ if flag }}on{{ else }}off{{ end }}")
	ctx := types.Context{"name": "det", "tags": []string{"x", "y"}, "flag": true}

	var trees []map[string]string
	for i := 0; i < 2; i++ {
		out := t.TempDir()
		_, err := newRenderer(t, render.Options{
			TemplateRoot:    repo.Root,
			EntryDirName:    "{{ name }}",
			DestinationRoot: out,
			Context:         ctx,
		}).Render()
		require.NoError(t, err)
		trees = append(trees, testutil.ReadTree(t, out))
	}

	assert.Equal(t, trees[0], trees[1])
	assert.Len(t, trees[0], 3)
}

func TestExclusionListHonored(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/raw/{{ name }}.tmpl", "keep {{ not_a_var }} as is\n").
		File("app/rendered.txt", "hi {{ name }}\n")
	out := t.TempDir()

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{"name": "bob"},
		ExcludeRender:   []string{"raw/"},
	}).Render()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"app/raw/bob.tmpl": "keep {{ not_a_var }} as is\n",
		"app/rendered.txt": "hi bob\n",
	}, testutil.ReadTree(t, out))
}

func TestExclusionMatchesRenderedPath(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/{{ name }}.txt", "{{ nope }}")
	out := t.TempDir()

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{"name": "bob"},
		ExcludeRender:   []string{"bob.txt"},
	}).Render()
	require.NoError(t, err)
	assert.Equal(t, "{{ nope }}", testutil.ReadFile(t, filepath.Join(out, "app", "bob.txt")))
}

func TestBinaryFilesCopiedVerbatim(t *testing.T) {
	binary := "\x89PNG\r\n\x1a\n\x00\x00{{ project }}"
	repo := testutil.NewTemplateRepo(t).
		File("app/logo.png", binary)
	out := t.TempDir()

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{"project": "x"},
	}).Render()
	require.NoError(t, err)
	assert.Equal(t, binary, testutil.ReadFile(t, filepath.Join(out, "app", "logo.png")))
}

func TestFailPolicyIsAllOrNothing(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/one.txt", "1").
		File("app/two.txt", "2").
		File("app/three.txt", "3")
	out := t.TempDir()
	testutil.CreateFile(t, out, "app/two.txt", "existing")
	before := testutil.ReadTree(t, out)

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{},
		ConflictPolicy:  types.ConflictFail,
	}).Render()

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationConflict))
	assert.Equal(t, []string{"app/two.txt"}, errors.GetErrorDetails(err)[errors.DetailPaths])
	assert.Equal(t, before, testutil.ReadTree(t, out))
}

func TestFailPolicyListsEveryCollision(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/a.txt", "a").
		File("app/b.txt", "b").
		File("app/c.txt", "c")
	out := t.TempDir()
	testutil.CreateFile(t, out, "app/c.txt", "x")
	testutil.CreateFile(t, out, "app/a.txt", "x")

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
	}).Render()

	require.Error(t, err)
	assert.Equal(t, []string{"app/a.txt", "app/c.txt"}, errors.GetErrorDetails(err)[errors.DetailPaths])
}

func TestOverwriteReplacesExactlyThePlannedSet(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/config.txt", "new {{ v }}").
		File("app/fresh.txt", "fresh")
	out := t.TempDir()
	testutil.CreateFile(t, out, "app/config.txt", "old")
	testutil.CreateFile(t, out, "app/untouched.txt", "mine")
	testutil.CreateFile(t, out, "sibling.txt", "also mine")

	result, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{"v": "2"},
		ConflictPolicy:  types.ConflictOverwrite,
	}).Render()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"app/config.txt":    "new 2",
		"app/fresh.txt":     "fresh",
		"app/untouched.txt": "mine",
		"sibling.txt":       "also mine",
	}, testutil.ReadTree(t, out))
	assert.Equal(t, []string{"app/config.txt"}, result.Overwritten)
	assert.Equal(t, []string{"app/fresh.txt"}, result.Written)
}

func TestOverwriteRefusesToReplaceDirectory(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/thing", "file").
		File("app/other.txt", "x")
	out := t.TempDir()
	testutil.CreateFile(t, out, "app/thing/inner.txt", "keep")
	before := testutil.ReadTree(t, out)

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		ConflictPolicy:  types.ConflictOverwrite,
	}).Render()

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDestinationConflict))
	assert.Equal(t, before, testutil.ReadTree(t, out))
}

func TestSkipExistingKeepsCollisions(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/keep.txt", "rendered").
		File("app/new.txt", "rendered").
		File("app/blocked/deep.txt", "rendered")
	out := t.TempDir()
	testutil.CreateFile(t, out, "app/keep.txt", "original")
	testutil.CreateFile(t, out, "app/blocked", "a file where a directory is planned")

	result, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		ConflictPolicy:  types.ConflictSkipExisting,
	}).Render()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"app/keep.txt": "original",
		"app/new.txt":  "rendered",
		"app/blocked":  "a file where a directory is planned",
	}, testutil.ReadTree(t, out))
	assert.Equal(t, []string{"app/new.txt"}, result.Written)
	assert.Equal(t, []string{"app/blocked/deep.txt", "app/keep.txt"}, result.Skipped)
}

func TestSymlinkFidelity(t *testing.T) {
	testutil.SkipOnWindows(t)

	repo := testutil.NewTemplateRepo(t).
		File("app/target.txt", "t").
		Symlink("app/link-{{ y }}", "../{{ not templated }}/target.txt").
		Symlink("app/dirlink", "/usr/share")
	out := t.TempDir()

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{"y": "why"},
	}).Render()
	require.NoError(t, err)

	tree := testutil.ReadTree(t, out)
	assert.Equal(t, "-> ../{{ not templated }}/target.txt", tree["app/link-why"])
	assert.Equal(t, "-> /usr/share", tree["app/dirlink"])
	assert.Equal(t, "t", tree["app/target.txt"])
}

func TestUndefinedVariableLeavesNoOutput(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/a.txt", "ok").
		File("app/b.txt", "ok").
		File("app/c.txt", "{{ undefined_var }}").
		File("app/d.txt", "ok")
	out := filepath.Join(t.TempDir(), "out")

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{},
	}).Render()

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplatingFailed))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, "app/c.txt", details[errors.DetailPath])
	assert.Contains(t, details[errors.DetailDetail], "undefined_var")
	assert.Empty(t, testutil.ReadTree(t, out))
	assert.False(t, testutil.PathExists(t, out))
}

func TestUndefinedVariableInPath(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).File("app/{{ missing }}.txt", "x")

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: t.TempDir(),
	}).Render()

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplatingFailed))
	assert.Equal(t, "app/{{ missing }}.txt", errors.GetErrorDetails(err)[errors.DetailPath])
}

func TestEntryDirNotFound(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).File("other/a.txt", "x")

	_, err := render.New(render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "{{ project }}",
		DestinationRoot: t.TempDir(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEntryDirNotFound))
}

func TestDryRunWritesNothing(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).
		File("app/a.txt", "a").
		File("app/b.txt", "b")
	out := t.TempDir()
	testutil.CreateFile(t, out, "app/b.txt", "old")

	result, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		ConflictPolicy:  types.ConflictOverwrite,
		DryRun:          true,
	}).Render()
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, []string{"app/a.txt"}, result.Written)
	assert.Equal(t, []string{"app/b.txt"}, result.Overwritten)
	assert.Equal(t, map[string]string{"app/b.txt": "old"}, testutil.ReadTree(t, out))
}

func TestFileModePreserved(t *testing.T) {
	testutil.SkipOnWindows(t)

	repo := testutil.NewTemplateRepo(t)
	testutil.CreateFileMode(t, repo.Root, "app/run.sh", "#!/bin/sh\necho {{ x }}\n", 0755)
	out := t.TempDir()

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{"x": "hi"},
	}).Render()
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(out, "app", "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0100, "owner execute bit should survive")
}

func TestRendererKeepsItsOwnContext(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).File("app/a.txt", "{{ name }}")
	ctx := types.Context{"name": "x"}
	out := t.TempDir()

	r := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         ctx,
	})
	ctx["name"] = "changed after construction"

	_, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, "x", testutil.ReadFile(t, filepath.Join(out, "app", "a.txt")))
}

func TestNoStagingLeftBehind(t *testing.T) {
	parent := t.TempDir()
	repo := testutil.NewTemplateRepo(t).File("app/a.txt", "a")

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: filepath.Join(parent, "out"),
	}).Render()
	require.NoError(t, err)

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out", entries[0].Name())
}

// failingSymlinkFS refuses to create symlinks.
type failingSymlinkFS struct {
	types.FS
}

func (failingSymlinkFS) Symlink(oldname, newname string) error {
	return fmt.Errorf("symlink refused for %s", newname)
}

// crossDeviceFS reports EXDEV for every rename out of a staging directory.
type crossDeviceFS struct {
	types.FS
	crossed int
}

func (f *crossDeviceFS) Rename(oldpath, newpath string) error {
	if strings.Contains(oldpath, ".petridish-stage-") {
		f.crossed++
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	return f.FS.Rename(oldpath, newpath)
}

func TestFailedStagingLeavesNothingBehind(t *testing.T) {
	testutil.SkipOnWindows(t)
	parent := t.TempDir()
	out := filepath.Join(parent, "out")
	repo := testutil.NewTemplateRepo(t).
		File("app/a.txt", "a").
		Symlink("app/m-link", "a.txt").
		File("app/z.txt", "z")

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		FS:              failingSymlinkFS{filesystem.NewOS()},
	}).Render()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO), "got %v", err)

	assert.NoDirExists(t, out)
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging directory must be removed")
}

func TestFailedStagingKeepsExistingDestination(t *testing.T) {
	testutil.SkipOnWindows(t)
	parent := t.TempDir()
	out := filepath.Join(parent, "out")
	testutil.CreateFile(t, out, "app/a.txt", "original")
	repo := testutil.NewTemplateRepo(t).
		File("app/a.txt", "new").
		Symlink("app/m-link", "a.txt")

	_, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		ConflictPolicy:  types.ConflictOverwrite,
		FS:              failingSymlinkFS{filesystem.NewOS()},
	}).Render()
	require.Error(t, err)

	assert.Equal(t, map[string]string{"app/a.txt": "original"}, testutil.ReadTree(t, out))
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out", entries[0].Name())
}

func TestBackslashInFilename(t *testing.T) {
	testutil.SkipOnWindows(t)
	repo := testutil.NewTemplateRepo(t).
		File(`app/a\b.txt`, "{{ name }}")
	out := t.TempDir()

	result, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		Context:         types.Context{"name": "x"},
	}).Render()
	require.NoError(t, err)
	assert.Equal(t, []string{`app/a\b.txt`}, result.Written)
	assert.Equal(t, "x", testutil.ReadFile(t, filepath.Join(out, "app", `a\b.txt`)))
}

func TestEmptyEntryDirCreatesDestinationRoot(t *testing.T) {
	repo := testutil.NewTemplateRepo(t).Dir("app")
	out := filepath.Join(t.TempDir(), "nested", "out")

	dry, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
		DryRun:          true,
	}).Render()
	require.NoError(t, err)
	assert.Empty(t, dry.Written)
	assert.NoDirExists(t, out, "dry runs write nothing")

	result, err := newRenderer(t, render.Options{
		TemplateRoot:    repo.Root,
		EntryDirName:    "app",
		DestinationRoot: out,
	}).Render()
	require.NoError(t, err)
	assert.Empty(t, result.Written)
	assert.DirExists(t, out)
}

func TestCrossDeviceMoveFallback(t *testing.T) {
	testutil.SkipOnWindows(t)
	repo := testutil.NewTemplateRepo(t).
		File("app/a.txt", "A").
		File("app/sub/b.txt", "B").
		Symlink("app/link", "a.txt")

	t.Run("fresh entry directory", func(t *testing.T) {
		parent := t.TempDir()
		out := filepath.Join(parent, "out")
		fsys := &crossDeviceFS{FS: filesystem.NewOS()}

		result, err := newRenderer(t, render.Options{
			TemplateRoot:    repo.Root,
			EntryDirName:    "app",
			DestinationRoot: out,
			FS:              fsys,
		}).Render()
		require.NoError(t, err)

		assert.Equal(t, 4, fsys.crossed, "one directory rename, then one per entry")
		assert.Equal(t, []string{"app/a.txt", "app/link", "app/sub/b.txt"}, result.Written)
		assert.Equal(t, map[string]string{
			"app/a.txt":     "A",
			"app/link":      "-> a.txt",
			"app/sub/b.txt": "B",
		}, testutil.ReadTree(t, out))

		entries, err := os.ReadDir(parent)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "out", entries[0].Name())
	})

	t.Run("overwrite existing files", func(t *testing.T) {
		out := t.TempDir()
		testutil.CreateFile(t, out, "app/a.txt", "old")
		testutil.CreateFile(t, out, "app/keep.txt", "mine")
		fsys := &crossDeviceFS{FS: filesystem.NewOS()}

		result, err := newRenderer(t, render.Options{
			TemplateRoot:    repo.Root,
			EntryDirName:    "app",
			DestinationRoot: out,
			ConflictPolicy:  types.ConflictOverwrite,
			FS:              fsys,
		}).Render()
		require.NoError(t, err)

		assert.Equal(t, 3, fsys.crossed)
		assert.Equal(t, []string{"app/a.txt"}, result.Overwritten)
		assert.Equal(t, map[string]string{
			"app/a.txt":     "A",
			"app/keep.txt":  "mine",
			"app/link":      "-> a.txt",
			"app/sub/b.txt": "B",
		}, testutil.ReadTree(t, out))
	})
}
