// Package commands provides the command implementations behind the CLI.
//
// Each command lives in its own subdirectory:
//   - generate/   - render a template into a new project
//   - info/       - describe a template
//   - cachecmd/   - list and clean cached clones
//   - showconfig/ - print the effective user config
//   - internal/   - resolving, fetching and loading templates
//
// This file re-exports them so the CLI imports a single package.
package commands

import (
	"context"

	"github.com/arthur-debert/petridish/pkg/cache"
	"github.com/arthur-debert/petridish/pkg/commands/cachecmd"
	"github.com/arthur-debert/petridish/pkg/commands/generate"
	"github.com/arthur-debert/petridish/pkg/commands/info"
	"github.com/arthur-debert/petridish/pkg/commands/internal"
	"github.com/arthur-debert/petridish/pkg/commands/showconfig"
	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/ui/display"
)

// OpenOptions locates a template; shared by Generate and Info.
type OpenOptions = internal.OpenOptions

// GenerateOptions configures Generate.
type GenerateOptions = generate.GenerateOptions

// Generate renders a template into a new project directory.
func Generate(ctx context.Context, opts GenerateOptions) (*display.RenderSummary, error) {
	return generate.Generate(ctx, opts)
}

// InfoOptions configures Info.
type InfoOptions = info.InfoOptions

// Info describes a template.
func Info(ctx context.Context, opts InfoOptions) (*display.TemplateInfo, error) {
	return info.Info(ctx, opts)
}

// CacheList lists cached clones.
func CacheList(c *cache.Cache) (*display.CacheListing, error) {
	return cachecmd.List(c)
}

// CacheClean removes the named clones, or all of them.
func CacheClean(c *cache.Cache, names []string) (int, error) {
	return cachecmd.Clean(c, names)
}

// ShowConfig returns the effective user config as TOML.
func ShowConfig(user *config.UserConfig) (*display.ConfigDump, error) {
	return showconfig.ShowConfig(user)
}
