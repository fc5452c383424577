package config

import (
	"bytes"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// MarshalTOML renders the effective user config as TOML.
func (u *UserConfig) MarshalTOML() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(u); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode user config")
	}
	return buf.Bytes(), nil
}
