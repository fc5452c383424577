package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/arthur-debert/petridish/pkg/template"
)

// PromptType is the value type a prompt produces.
type PromptType string

const (
	TypeString PromptType = "string"
	TypeNumber PromptType = "number"
	TypeBool   PromptType = "bool"
)

// PromptKind is the shape of the question asked.
type PromptKind int

const (
	KindInput PromptKind = iota
	KindSelect
	KindMultiSelect
	KindConfirm
)

func (k PromptKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindMultiSelect:
		return "multi-select"
	case KindConfirm:
		return "confirm"
	default:
		return "input"
	}
}

// Prompt is one [[prompts]] entry. After validation Default holds a
// canonical value (string, float64, bool, []string or []float64, or nil)
// and Choices holds string or float64 elements.
type Prompt struct {
	Name      string        `koanf:"name"`
	Prompt    string        `koanf:"prompt"`
	Type      PromptType    `koanf:"type"`
	Default   interface{}   `koanf:"default"`
	Regex     string        `koanf:"regex"`
	Min       *float64      `koanf:"min"`
	Max       *float64      `koanf:"max"`
	Choices   []interface{} `koanf:"choices"`
	Multi     bool          `koanf:"multi"`
	Emptyable bool          `koanf:"emptyable"`

	re *regexp.Regexp
}

// Label is the question shown to the user.
func (p *Prompt) Label() string {
	if p.Prompt != "" {
		return p.Prompt
	}
	return p.Name
}

// Kind reports which question shape the prompt needs.
func (p *Prompt) Kind() PromptKind {
	switch {
	case p.Type == TypeBool:
		return KindConfirm
	case p.Multi:
		return KindMultiSelect
	case len(p.Choices) > 0:
		return KindSelect
	default:
		return KindInput
	}
}

// HasDefault reports whether the prompt declares a default.
func (p *Prompt) HasDefault() bool {
	return p.Default != nil
}

// Pattern returns the compiled regex, or nil.
func (p *Prompt) Pattern() *regexp.Regexp {
	return p.re
}

// StringChoices returns the choices of a string prompt.
func (p *Prompt) StringChoices() []string {
	out := make([]string, 0, len(p.Choices))
	for _, c := range p.Choices {
		if s, ok := c.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// NumberChoices returns the choices of a number prompt.
func (p *Prompt) NumberChoices() []float64 {
	out := make([]float64, 0, len(p.Choices))
	for _, c := range p.Choices {
		if f, ok := c.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

// HasChoice reports whether v is one of the declared choices.
func (p *Prompt) HasChoice(v interface{}) bool {
	for _, c := range p.Choices {
		if c == v {
			return true
		}
	}
	return false
}

func (p *Prompt) normalize() error {
	if !template.IsValidName(p.Name) {
		return fmt.Errorf("%q is not a valid variable name", p.Name)
	}
	if p.Type == "" {
		p.Type = TypeString
	}

	switch p.Type {
	case TypeBool:
		return p.normalizeBool()
	case TypeString:
		if err := p.normalizeString(); err != nil {
			return err
		}
	case TypeNumber:
		if err := p.normalizeNumber(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown type %q (want string, number or bool)", p.Type)
	}

	if p.Multi && len(p.Choices) == 0 {
		return fmt.Errorf("multi requires choices")
	}
	if p.Emptyable && !p.Multi {
		return fmt.Errorf("emptyable only applies to multi prompts")
	}
	return p.checkDefaultChoices()
}

func (p *Prompt) normalizeBool() error {
	if len(p.Choices) > 0 || p.Multi {
		return fmt.Errorf("bool prompts take no choices")
	}
	if p.Regex != "" || p.Min != nil || p.Max != nil {
		return fmt.Errorf("bool prompts take no regex, min or max")
	}
	if p.Default == nil {
		return nil
	}
	b, ok := toBool(p.Default)
	if !ok {
		return fmt.Errorf("default %v is not a bool", p.Default)
	}
	p.Default = b
	return nil
}

func (p *Prompt) normalizeString() error {
	if p.Min != nil || p.Max != nil {
		return fmt.Errorf("min and max only apply to number prompts")
	}
	for i, c := range p.Choices {
		s, ok := c.(string)
		if !ok {
			return fmt.Errorf("choice %v is not a string", c)
		}
		p.Choices[i] = s
	}
	if p.Regex != "" {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return fmt.Errorf("regex %q: %v", p.Regex, err)
		}
		p.re = re
	}

	if p.Default == nil {
		return nil
	}
	if p.Multi {
		list, ok := toStringList(p.Default)
		if !ok {
			return fmt.Errorf("default %v is not a list of strings", p.Default)
		}
		p.Default = list
		return nil
	}
	s, ok := p.Default.(string)
	if !ok {
		return fmt.Errorf("default %v is not a string", p.Default)
	}
	p.Default = s
	return nil
}

func (p *Prompt) normalizeNumber() error {
	if p.Regex != "" {
		return fmt.Errorf("regex only applies to string prompts")
	}
	if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		return fmt.Errorf("min %v is greater than max %v", *p.Min, *p.Max)
	}
	for i, c := range p.Choices {
		f, ok := toFloat(c)
		if !ok {
			return fmt.Errorf("choice %v is not a number", c)
		}
		p.Choices[i] = f
	}

	if p.Default == nil {
		return nil
	}
	if p.Multi {
		list, ok := toFloatList(p.Default)
		if !ok {
			return fmt.Errorf("default %v is not a list of numbers", p.Default)
		}
		p.Default = list
		return nil
	}
	f, ok := toFloat(p.Default)
	if !ok {
		return fmt.Errorf("default %v is not a number", p.Default)
	}
	if err := p.CheckRange(f); err != nil {
		return fmt.Errorf("default: %v", err)
	}
	p.Default = f
	return nil
}

func (p *Prompt) checkDefaultChoices() error {
	if p.Default == nil || len(p.Choices) == 0 {
		return nil
	}
	switch d := p.Default.(type) {
	case []string:
		for _, v := range d {
			if !p.HasChoice(v) {
				return fmt.Errorf("default %q is not among the choices", v)
			}
		}
	case []float64:
		for _, v := range d {
			if !p.HasChoice(v) {
				return fmt.Errorf("default %v is not among the choices", v)
			}
		}
	default:
		if !p.HasChoice(d) {
			return fmt.Errorf("default %v is not among the choices", d)
		}
	}
	return nil
}

// CheckRange reports whether f lies within the prompt's min and max.
func (p *Prompt) CheckRange(f float64) error {
	if p.Min != nil && f < *p.Min {
		return fmt.Errorf("%v is less than the minimum %v", f, *p.Min)
	}
	if p.Max != nil && f > *p.Max {
		return fmt.Errorf("%v is greater than the maximum %v", f, *p.Max)
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	default:
		return false, false
	}
}

func toStringList(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloatList(v interface{}) ([]float64, bool) {
	switch list := v.(type) {
	case []float64:
		return append([]float64(nil), list...), true
	case []interface{}:
		out := make([]float64, 0, len(list))
		for _, item := range list {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	default:
		return nil, false
	}
}
