package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/template"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultProjectPrompt  = "project name?"
	DefaultProjectVarName = "project_name"
)

// ConfigNames lists the template config file names, in lookup order.
var ConfigNames = []string{"petridish.toml", "petridish.yaml", "petridish.yml"}

// Config is a parsed and validated template config.
type Config struct {
	Petridish Petridish `koanf:"petridish"`
	Prompts   []Prompt  `koanf:"prompts"`

	// Path is the file the config was read from.
	Path string `koanf:"-"`
}

// Petridish holds the [petridish] table.
type Petridish struct {
	ProjectPrompt    string   `koanf:"project_prompt"`
	ProjectVarName   string   `koanf:"project_var_name"`
	ShortDescription string   `koanf:"short_description"`
	LongDescription  string   `koanf:"long_description"`
	EntryDir         string   `koanf:"entry_dir"`
	ExcludeRender    []string `koanf:"exclude_render"`
}

// Dir returns the template repository root the config belongs to.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

// Prompt returns the prompt declared under name.
func (c *Config) Prompt(name string) (*Prompt, bool) {
	for i := range c.Prompts {
		if c.Prompts[i].Name == name {
			return &c.Prompts[i], true
		}
	}
	return nil, false
}

// Find returns the config file inside dir.
func Find(dir string) (string, error) {
	for _, name := range ConfigNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", errors.Newf(errors.ErrConfigNotFound, "no %s found in %s", ConfigNames[0], dir).
		WithDetail(errors.DetailPath, dir)
}

// Load finds and loads the template config inside dir.
func Load(dir string) (*Config, error) {
	p, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(p)
}

// LoadFile loads the template config at p. The parser is picked by extension.
func LoadFile(p string) (*Config, error) {
	logger := logging.GetLogger("config")

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(p)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return nil, errors.Newf(errors.ErrConfigParse, "unsupported config format %q", filepath.Ext(p)).
			WithDetail(errors.DetailPath, p)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"petridish.project_prompt":   DefaultProjectPrompt,
		"petridish.project_var_name": DefaultProjectVarName,
	}, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load config defaults")
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigNotFound, "config %s does not exist", p).
				WithDetail(errors.DetailPath, p)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot stat %s", p)
	}
	// An empty file is a valid config made only of defaults.
	if info.Size() > 0 {
		if err := k.Load(file.Provider(p), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", p).
				WithDetail(errors.DetailPath, p)
		}
	}

	var cfg Config
	if err := unmarshal(k, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to decode %s", p).
			WithDetail(errors.DetailPath, p)
	}
	cfg.Path = p
	if cfg.Petridish.EntryDir == "" {
		cfg.Petridish.EntryDir = "{{ " + cfg.Petridish.ProjectVarName + " }}"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", p).
		Int("prompts", len(cfg.Prompts)).
		Str("entry_dir", cfg.Petridish.EntryDir).
		Msg("Loaded template config")
	return &cfg, nil
}

// Validate normalizes prompt values and checks the config for consistency.
func (c *Config) Validate() error {
	pd := c.Petridish
	if !template.IsValidName(pd.ProjectVarName) {
		return c.invalid("project_var_name %q is not a valid variable name", pd.ProjectVarName)
	}
	if pd.EntryDir == "" || strings.ContainsAny(pd.EntryDir, `/\`) {
		return c.invalid("entry_dir %q must be a single directory name", pd.EntryDir)
	}
	for _, pattern := range pd.ExcludeRender {
		if _, err := path.Match(pattern, ""); err != nil {
			return c.invalid("exclude_render pattern %q: %v", pattern, err)
		}
	}

	seen := map[string]bool{pd.ProjectVarName: true}
	for i := range c.Prompts {
		p := &c.Prompts[i]
		if seen[p.Name] {
			if p.Name == pd.ProjectVarName {
				return c.invalid("prompt %q shadows the project variable", p.Name)
			}
			return c.invalid("prompt %q is declared twice", p.Name)
		}
		seen[p.Name] = true
		if err := p.normalize(); err != nil {
			return c.invalid("prompt %q: %v", p.Name, err)
		}
	}
	return nil
}

func (c *Config) invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrConfigInvalid, format, args...).
		WithDetail(errors.DetailPath, c.Path)
}
