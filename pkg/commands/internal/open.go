package internal

import (
	"context"

	"github.com/arthur-debert/petridish/pkg/cache"
	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/source"
)

// OpenOptions locates a template and makes it available on disk.
type OpenOptions struct {
	// Ref is a directory, an alias reference or a git URL.
	Ref string
	// User supplies aliases. Nil means built-in defaults only.
	User *config.UserConfig
	// Cache holds git clones. Nil means the default cache directory.
	Cache *cache.Cache
	// Refresh pulls a cached clone before use.
	Refresh bool
	// Fetcher replaces the git fetcher, for tests.
	Fetcher source.Fetcher
	// Progress is called before a network fetch; the returned function is
	// called when it ends.
	Progress func(src *source.Source, refresh bool) func(err error)
}

// Template is a fetched template and its parsed config.
type Template struct {
	Source *source.Source
	Config *config.Config
}

// Open resolves, fetches, validates and loads a template.
func Open(ctx context.Context, opts OpenOptions) (*Template, error) {
	logger := logging.GetLogger("commands.open")

	var aliases map[string]string
	if opts.User != nil {
		aliases = opts.User.Aliases
	}

	src, err := source.Resolve(opts.Ref, aliases, opts.Cache)
	if err != nil {
		return nil, err
	}
	if opts.Fetcher != nil {
		src.WithFetcher(opts.Fetcher)
	}

	if needsNetwork(src, opts.Refresh) && opts.Progress != nil {
		done := opts.Progress(src, opts.Refresh)
		err = src.Fetch(ctx, opts.Refresh)
		done(err)
	} else {
		err = src.Fetch(ctx, opts.Refresh)
	}
	if err != nil {
		return nil, err
	}

	if err := src.Validate(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(src.Dir)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("ref", opts.Ref).
		Str("dir", src.Dir).
		Str("config", cfg.Path).
		Int("prompts", len(cfg.Prompts)).
		Msg("Template opened")
	return &Template{Source: src, Config: cfg}, nil
}

func needsNetwork(src *source.Source, refresh bool) bool {
	switch src.Status() {
	case source.StatusMissing:
		return true
	case source.StatusCached:
		return refresh
	}
	return false
}
