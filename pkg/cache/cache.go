// Package cache manages the local clones of remote template repositories.
package cache

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/rs/zerolog"
)

// EnvCacheDir overrides the cache location.
const EnvCacheDir = "PETRIDISH_CACHE_DIR"

// Entry is one cached repository.
type Entry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
}

// Cache is a directory of cloned repositories keyed by "<host>/<path>".
type Cache struct {
	root   string
	logger zerolog.Logger
}

// DefaultDir returns $XDG_CACHE_HOME/petridish/repositories.
func DefaultDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.CacheHome, "petridish", "repositories")
}

// New returns the cache at DefaultDir.
func New() *Cache {
	return NewAt(DefaultDir())
}

// NewAt returns a cache rooted at root.
func NewAt(root string) *Cache {
	return &Cache{root: root, logger: logging.GetLogger("cache")}
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.root
}

// Path returns where the repository called name lives, cached or not.
func (c *Cache) Path(name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.root, filepath.FromSlash(clean)), nil
}

// Get returns the path of a cached repository.
func (c *Cache) Get(name string) (string, bool) {
	p, err := c.Path(name)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p, true
	}
	return "", false
}

// List returns every cached repository, sorted by name. A repository is a
// directory holding a .git entry.
func (c *Cache) List() ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(c.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == c.root && errors.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() || p == c.root {
			return nil
		}
		// In-flight clones live in hidden siblings.
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if _, err := os.Lstat(filepath.Join(p, ".git")); err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Name:    filepath.ToSlash(rel),
			Path:    p,
			ModTime: info.ModTime(),
		})
		return filepath.SkipDir
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCacheAccess, "cannot list cache %s", c.root).
			WithDetail(errors.DetailPath, c.root)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Remove deletes one cached repository and any parent directories it leaves
// empty.
func (c *Cache) Remove(name string) error {
	p, ok := c.Get(name)
	if !ok {
		return errors.Newf(errors.ErrNotFound, "%s is not cached", name).
			WithDetail("name", name)
	}
	if err := os.RemoveAll(p); err != nil {
		return errors.Wrapf(err, errors.ErrCacheAccess, "cannot remove %s", p).
			WithDetail(errors.DetailPath, p)
	}
	c.pruneEmptyParents(filepath.Dir(p))
	c.logger.Info().Str("name", name).Msg("Removed cached repository")
	return nil
}

// Clean removes every cached repository and returns how many there were.
func (c *Cache) Clean() (int, error) {
	entries, err := c.List()
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(c.root); err != nil {
		return 0, errors.Wrapf(err, errors.ErrCacheAccess, "cannot clean cache %s", c.root).
			WithDetail(errors.DetailPath, c.root)
	}
	c.logger.Info().Int("count", len(entries)).Msg("Cleaned repository cache")
	return len(entries), nil
}

func (c *Cache) pruneEmptyParents(dir string) {
	for dir != c.root && strings.HasPrefix(dir, c.root+string(filepath.Separator)) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// cleanName rejects names that would escape the cache root.
func cleanName(name string) (string, error) {
	name = strings.Trim(filepath.ToSlash(name), "/")
	if name == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty cache name")
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", errors.Newf(errors.ErrInvalidInput, "invalid cache name %q", name)
		}
	}
	return name, nil
}
