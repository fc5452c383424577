package types

import (
	"fmt"
	"sort"
)

// Context maps variable names to the values substituted into templates.
// Values are one of: string, bool, int, int64, float64, []string,
// []float64. Anything else is rejected by Validate.
type Context map[string]interface{}

// NewContext returns an empty context.
func NewContext() Context {
	return make(Context)
}

// Set stores value under name.
func (c Context) Set(name string, value interface{}) {
	c[name] = value
}

// Get returns the value stored under name.
func (c Context) Get(name string) (interface{}, bool) {
	v, ok := c[name]
	return v, ok
}

// Names returns the variable names in lexical order.
func (c Context) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy, so the copy can be handed to code that must not
// observe later changes (and vice versa).
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		switch val := v.(type) {
		case []string:
			out[k] = append([]string(nil), val...)
		case []float64:
			out[k] = append([]float64(nil), val...)
		default:
			out[k] = v
		}
	}
	return out
}

// Validate checks that every value has a supported kind.
func (c Context) Validate() error {
	for _, name := range c.Names() {
		if err := ValidateValue(c[name]); err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
	}
	return nil
}

// ValidateValue reports whether v is a supported context value.
func ValidateValue(v interface{}) error {
	switch v.(type) {
	case string, bool, int, int64, float64, []string, []float64:
		return nil
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}
