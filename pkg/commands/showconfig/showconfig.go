// Package showconfig prints the effective user configuration.
package showconfig

import (
	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/ui/display"
)

// ShowConfig encodes user as TOML, after defaults, file and environment
// have been layered.
func ShowConfig(user *config.UserConfig) (*display.ConfigDump, error) {
	data, err := user.MarshalTOML()
	if err != nil {
		return nil, err
	}
	return &display.ConfigDump{Path: user.Path, TOML: string(data)}, nil
}
