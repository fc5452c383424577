// Package source resolves a template reference (a local directory, an
// alias or a git URL) to a directory on disk, cloning remote repositories
// into the cache.
package source

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/petridish/pkg/cache"
	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/rs/zerolog"
)

// Kind is where a template comes from.
type Kind int

const (
	KindDir Kind = iota
	KindGit
)

func (k Kind) String() string {
	if k == KindGit {
		return "git"
	}
	return "directory"
}

// Status reports whether a source is available locally.
type Status int

const (
	StatusLocal Status = iota
	StatusCached
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusCached:
		return "cached"
	case StatusMissing:
		return "missing"
	default:
		return "local"
	}
}

// Source is a resolved template reference.
type Source struct {
	// Ref is the reference as given.
	Ref  string
	Kind Kind
	// URL is the clone URL of a git source.
	URL string
	// Name is the cache key of a git source, "<host>/<path>".
	Name string
	// Dir is the template directory.
	Dir string

	cache   *cache.Cache
	fetcher Fetcher
	logger  zerolog.Logger
}

var urlPrefixes = []string{"https://", "http://", "ssh://", "git://", "git@", "file://"}

// Resolve turns ref into a Source. Existing local directories win over
// everything else; "alias:rest" references are expanded first.
func Resolve(ref string, aliases map[string]string, c *cache.Cache) (*Source, error) {
	logger := logging.GetLogger("source")
	if strings.TrimSpace(ref) == "" {
		return nil, errors.New(errors.ErrInvalidInput, "empty template reference")
	}
	if c == nil {
		c = cache.New()
	}

	if info, err := os.Stat(ref); err == nil && info.IsDir() {
		abs, err := filepath.Abs(ref)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSourceInvalid, "cannot resolve %s", ref)
		}
		logger.Debug().Str("ref", ref).Str("dir", abs).Msg("Resolved local template")
		return &Source{Ref: ref, Kind: KindDir, Dir: abs, cache: c, logger: logger}, nil
	}

	target := ref
	if expanded, ok := config.ExpandAlias(aliases, ref); ok {
		logger.Debug().Str("ref", ref).Str("url", expanded).Msg("Expanded alias")
		target = expanded
	}

	if !IsRemote(target) {
		return nil, errors.Newf(errors.ErrSourceNotFound, "template %s does not exist", ref).
			WithDetail(errors.DetailPath, ref)
	}

	name, err := CacheName(target)
	if err != nil {
		return nil, err
	}
	dir, err := c.Path(name)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("ref", ref).Str("url", target).Str("dir", dir).Msg("Resolved git template")
	return &Source{
		Ref:     ref,
		Kind:    KindGit,
		URL:     target,
		Name:    name,
		Dir:     dir,
		cache:   c,
		fetcher: NewGitFetcher(),
		logger:  logger,
	}, nil
}

// IsRemote reports whether ref looks like a git URL.
func IsRemote(ref string) bool {
	for _, p := range urlPrefixes {
		if strings.HasPrefix(ref, p) {
			return true
		}
	}
	return strings.HasSuffix(ref, ".git")
}

// CacheName derives the cache key "<host>/<path>" from a git URL.
func CacheName(raw string) (string, error) {
	var host, p string
	switch {
	case strings.HasPrefix(raw, "git@"):
		// scp-like: git@host:owner/repo.git
		rest := strings.TrimPrefix(raw, "git@")
		h, rp, ok := strings.Cut(rest, ":")
		if !ok {
			return "", invalidURL(raw)
		}
		host, p = h, rp
	case strings.HasPrefix(raw, "file://"):
		host, p = "local", strings.TrimPrefix(raw, "file://")
	default:
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return "", invalidURL(raw)
		}
		host, p = u.Hostname(), u.Path
	}

	p = strings.TrimSuffix(strings.Trim(path.Clean("/"+p), "/"), ".git")
	if host == "" || p == "" || p == "." {
		return "", invalidURL(raw)
	}
	return host + "/" + p, nil
}

func invalidURL(raw string) error {
	return errors.Newf(errors.ErrSourceInvalid, "cannot parse repository URL %q", raw).
		WithDetail("url", raw)
}

// Status reports whether the template is available without fetching.
func (s *Source) Status() Status {
	if s.Kind == KindDir {
		return StatusLocal
	}
	if _, ok := s.cache.Get(s.Name); ok {
		return StatusCached
	}
	return StatusMissing
}

// WithFetcher replaces the fetcher used for git sources.
func (s *Source) WithFetcher(f Fetcher) *Source {
	s.fetcher = f
	return s
}

// Fetch makes the template available locally. Directory sources are left
// alone. Git sources are cloned when missing and pulled when refresh is set.
func (s *Source) Fetch(ctx context.Context, refresh bool) error {
	if s.Kind == KindDir {
		return nil
	}
	switch s.Status() {
	case StatusMissing:
		s.logger.Info().Str("url", s.URL).Str("dir", s.Dir).Msg("Cloning template")
		return s.fetcher.Clone(ctx, s.URL, s.Dir)
	case StatusCached:
		if !refresh {
			s.logger.Debug().Str("dir", s.Dir).Msg("Using cached template")
			return nil
		}
		s.logger.Info().Str("dir", s.Dir).Msg("Refreshing cached template")
		return s.fetcher.Pull(ctx, s.Dir)
	}
	return nil
}

// Validate checks that the template directory exists and holds a config.
func (s *Source) Validate() error {
	info, err := os.Stat(s.Dir)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrSourceNotFound, "template directory %s does not exist", s.Dir).
			WithDetail(errors.DetailPath, s.Dir)
	}
	if _, err := config.Find(s.Dir); err != nil {
		return err
	}
	return nil
}
