package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "PETRIDISH_"

	// EnvConfigPath overrides the user config location.
	EnvConfigPath = "PETRIDISH_CONFIG"

	// AliasPlaceholder is replaced by the part of a reference after "alias:".
	AliasPlaceholder = "{}"
)

// UserConfig is the per-user configuration.
type UserConfig struct {
	Defaults Defaults               `koanf:"defaults" toml:"defaults"`
	Context  map[string]interface{} `koanf:"context" toml:"context"`
	Aliases  map[string]string      `koanf:"aliases" toml:"aliases"`

	// Path is the file that was read, empty when none existed.
	Path string `koanf:"-" toml:"-"`
}

// Defaults holds the [defaults] table.
type Defaults struct {
	OutputDir string `koanf:"output_dir" toml:"output_dir"`
	Conflict  string `koanf:"conflict" toml:"conflict"`
	NoInput   bool   `koanf:"no_input" toml:"no_input"`
}

// UserConfigPath returns the user config location.
func UserConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, "petridish", "config.toml")
}

// LoadUser loads the user config from UserConfigPath.
func LoadUser() (*UserConfig, error) {
	return LoadUserFile(UserConfigPath())
}

// LoadUserFile loads the user config from p. A missing file is not an error.
func LoadUserFile(p string) (*UserConfig, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: userDefaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. User file
	loaded := ""
	if p != "" {
		if _, err := os.Stat(p); err == nil {
			if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", p).
					WithDetail(errors.DetailPath, p)
			}
			loaded = p
		} else if !errors.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot stat %s", p)
		}
	}

	// 3. Environment, e.g. PETRIDISH_DEFAULTS_OUTPUT_DIR -> defaults.output_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var cfg UserConfig
	if err := unmarshal(k, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode user config").
			WithDetail(errors.DetailPath, p)
	}
	cfg.Path = loaded
	if cfg.Context == nil {
		cfg.Context = map[string]interface{}{}
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}

	if _, err := cfg.ConflictPolicy(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", loaded).
		Int("aliases", len(cfg.Aliases)).
		Int("context", len(cfg.Context)).
		Msg("Loaded user config")
	return &cfg, nil
}

// envKey maps an environment variable to a config key. Only the first
// underscore separates the table from the key, so multi-word keys survive.
func envKey(s string) string {
	if s == EnvConfigPath {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// ConflictPolicy parses Defaults.Conflict.
func (u *UserConfig) ConflictPolicy() (types.ConflictPolicy, error) {
	policy, err := types.ParseConflictPolicy(u.Defaults.Conflict)
	if err != nil {
		return types.ConflictFail, errors.Wrapf(err, errors.ErrConfigInvalid, "defaults.conflict").
			WithDetail(errors.DetailPath, u.Path)
	}
	return policy, nil
}

// DefaultAnswer returns the configured default answer for name.
func (u *UserConfig) DefaultAnswer(name string) (interface{}, bool) {
	v, ok := u.Context[name]
	return v, ok
}

// ExpandAlias rewrites "alias:rest" using the configured aliases. The second
// result is false when ref does not start with a known alias.
func (u *UserConfig) ExpandAlias(ref string) (string, bool) {
	return ExpandAlias(u.Aliases, ref)
}

// AliasNames returns the configured aliases in lexical order.
func (u *UserConfig) AliasNames() []string {
	names := make([]string, 0, len(u.Aliases))
	for name := range u.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandAlias rewrites "alias:rest" using aliases.
func ExpandAlias(aliases map[string]string, ref string) (string, bool) {
	name, rest, ok := strings.Cut(ref, ":")
	if !ok || rest == "" {
		return ref, false
	}
	pattern, ok := aliases[name]
	if !ok {
		return ref, false
	}
	if strings.Contains(pattern, AliasPlaceholder) {
		return strings.ReplaceAll(pattern, AliasPlaceholder, rest), true
	}
	return strings.TrimSuffix(pattern, "/") + "/" + rest, true
}
