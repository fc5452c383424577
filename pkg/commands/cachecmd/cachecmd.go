// Package cachecmd lists and removes cached template clones.
package cachecmd

import (
	"github.com/arthur-debert/petridish/pkg/cache"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/ui/display"
)

// List returns the cached repositories.
func List(c *cache.Cache) (*display.CacheListing, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "CacheList").Str("dir", c.Dir()).Msg("Executing command")

	entries, err := c.List()
	if err != nil {
		return nil, err
	}
	return display.NewCacheListing(c.Dir(), entries), nil
}

// Clean removes the named clones, or every clone when names is empty. It
// returns how many were removed.
func Clean(c *cache.Cache, names []string) (int, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "CacheClean").Strs("names", names).Msg("Executing command")

	if len(names) == 0 {
		n, err := c.Clean()
		if err != nil {
			return 0, err
		}
		log.Info().Str("command", "CacheClean").Int("removed", n).Msg("Command finished")
		return n, nil
	}

	removed := 0
	for _, name := range names {
		if err := c.Remove(name); err != nil {
			return removed, err
		}
		removed++
	}
	log.Info().Str("command", "CacheClean").Int("removed", removed).Msg("Command finished")
	return removed, nil
}
