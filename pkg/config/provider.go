package config

import (
	_ "embed"
	"errors"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/user-defaults.toml
var userDefaultConfig []byte

// rawBytesProvider feeds embedded bytes to koanf.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// UserDefaults returns the embedded default user config, as written.
func UserDefaults() string {
	return string(userDefaultConfig)
}

func unmarshal(k *koanf.Koanf, out interface{}) error {
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				promptTypeHookFunc(),
			),
		},
	}
	return k.UnmarshalWithConf("", out, conf)
}

// promptTypeHookFunc lower-cases prompt types so "String" and "string" agree.
func promptTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(PromptType("")) || f.Kind() != reflect.String {
			return data, nil
		}
		return PromptType(strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String()))), nil
	}
}
