package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUserFile_Defaults(t *testing.T) {
	cfg, err := LoadUserFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Path)
	assert.Equal(t, ".", cfg.Defaults.OutputDir)
	assert.Equal(t, "fail", cfg.Defaults.Conflict)
	assert.False(t, cfg.Defaults.NoInput)
	assert.NotNil(t, cfg.Context)
	assert.Equal(t, "https://github.com/{}.git", cfg.Aliases["gh"])

	policy, err := cfg.ConflictPolicy()
	require.NoError(t, err)
	assert.Equal(t, types.ConflictFail, policy)
}

func TestLoadUserFile_FileOverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(`
[defaults]
output_dir = "~/src"
conflict = "skip"

[context]
author = "alice"
license = "MIT"

[aliases]
work = "ssh://git.example.com/{}"
`), 0644))

	cfg, err := LoadUserFile(p)
	require.NoError(t, err)

	assert.Equal(t, p, cfg.Path)
	assert.Equal(t, "~/src", cfg.Defaults.OutputDir)
	policy, err := cfg.ConflictPolicy()
	require.NoError(t, err)
	assert.Equal(t, types.ConflictSkipExisting, policy)

	v, ok := cfg.DefaultAnswer("author")
	require.True(t, ok)
	assert.Equal(t, "alice", v)

	// File aliases merge with the built-in ones.
	assert.Equal(t, []string{"gh", "gl", "work"}, cfg.AliasNames())
}

func TestLoadUserFile_EnvOverridesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("[defaults]\nconflict = \"skip\"\n"), 0644))

	t.Setenv("PETRIDISH_DEFAULTS_CONFLICT", "overwrite")
	t.Setenv("PETRIDISH_DEFAULTS_OUTPUT_DIR", "/tmp/out")
	t.Setenv("PETRIDISH_DEFAULTS_NO_INPUT", "true")
	t.Setenv("PETRIDISH_CONTEXT_AUTHOR", "bob")

	cfg, err := LoadUserFile(p)
	require.NoError(t, err)

	assert.Equal(t, "overwrite", cfg.Defaults.Conflict)
	assert.Equal(t, "/tmp/out", cfg.Defaults.OutputDir)
	assert.True(t, cfg.Defaults.NoInput)
	assert.Equal(t, "bob", cfg.Context["author"])
}

func TestLoadUserFile_InvalidConflict(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("[defaults]\nconflict = \"explode\"\n"), 0644))

	_, err := LoadUserFile(p)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestLoadUserFile_ParseError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("[defaults\n"), 0644))

	_, err := LoadUserFile(p)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestUserConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/petridish.toml")
	assert.Equal(t, "/etc/petridish.toml", UserConfigPath())
}

func TestExpandAlias(t *testing.T) {
	aliases := map[string]string{
		"gh":   "https://github.com/{}.git",
		"base": "https://example.com/templates/",
	}

	tests := []struct {
		ref      string
		expected string
		ok       bool
	}{
		{"gh:alice/rust-cli", "https://github.com/alice/rust-cli.git", true},
		{"base:go", "https://example.com/templates/go", true},
		{"unknown:x", "unknown:x", false},
		{"gh:", "gh:", false},
		{"./local", "./local", false},
		{"https://github.com/a/b.git", "https://github.com/a/b.git", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := ExpandAlias(aliases, tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarshalTOML_RoundTrip(t *testing.T) {
	cfg, err := LoadUserFile("")
	require.NoError(t, err)
	cfg.Context["author"] = "alice"

	data, err := cfg.MarshalTOML()
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, toml.Unmarshal(data, &back))
	defaults := back["defaults"].(map[string]interface{})
	assert.Equal(t, "fail", defaults["conflict"])
	assert.Equal(t, "alice", back["context"].(map[string]interface{})["author"])
	assert.NotContains(t, string(data), "Path")
}

func TestUserDefaults(t *testing.T) {
	assert.Contains(t, UserDefaults(), "[defaults]")
}
