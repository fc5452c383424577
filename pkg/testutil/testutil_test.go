package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()

	path := CreateFile(t, dir, "nested/deep/test.txt", "hello world")
	assert.Equal(t, filepath.Join(dir, "nested", "deep", "test.txt"), path)
	assert.Equal(t, "hello world", ReadFile(t, path))
}

func TestCreateFileMode(t *testing.T) {
	SkipOnWindows(t)
	dir := t.TempDir()

	path := CreateFileMode(t, dir, "run.sh", "#!/bin/sh\n", 0755)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestPathExists(t *testing.T) {
	SkipOnWindows(t)
	dir := t.TempDir()

	assert.False(t, PathExists(t, filepath.Join(dir, "missing")))

	link := filepath.Join(dir, "dangling")
	CreateSymlink(t, "nowhere", link)
	assert.True(t, PathExists(t, link), "dangling symlinks count")
}

func TestReadTree(t *testing.T) {
	SkipOnWindows(t)
	dir := t.TempDir()
	CreateFile(t, dir, "a.txt", "A")
	CreateFile(t, dir, "sub/b.txt", "B")
	CreateDir(t, dir, "empty")
	CreateSymlink(t, "a.txt", filepath.Join(dir, "sub", "link"))

	assert.Equal(t, map[string]string{
		"a.txt":     "A",
		"sub/b.txt": "B",
		"sub/link":  "-> a.txt",
	}, ReadTree(t, dir))

	assert.Empty(t, ReadTree(t, filepath.Join(dir, "not-there")))
}

func TestTemplateRepo(t *testing.T) {
	SkipOnWindows(t)
	repo := NewTemplateRepo(t).
		Config("[petridish]\n").
		File("{{ project_name }}/README.md", "# {{ project_name }}").
		Symlink("{{ project_name }}/docs", "README.md").
		Dir("{{ project_name }}/empty")

	assert.Equal(t, map[string]string{
		"petridish.toml":               "[petridish]\n",
		"{{ project_name }}/README.md": "# {{ project_name }}",
		"{{ project_name }}/docs":      "-> README.md",
	}, ReadTree(t, repo.Root))
	assert.DirExists(t, filepath.Join(repo.Root, "{{ project_name }}", "empty"))
}
