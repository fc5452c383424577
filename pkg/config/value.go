package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a raw command-line value to the prompt's type. Lists are
// comma separated.
func (p *Prompt) Parse(raw string) (interface{}, error) {
	switch p.Type {
	case TypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%q is not a bool", raw)
		}
		return b, nil
	case TypeNumber:
		if p.Multi {
			out := []float64{}
			for _, item := range splitList(raw) {
				f, err := strconv.ParseFloat(item, 64)
				if err != nil {
					return nil, fmt.Errorf("%q is not a number", item)
				}
				out = append(out, f)
			}
			return out, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	default:
		if p.Multi {
			return splitList(raw), nil
		}
		return raw, nil
	}
}

// Convert converts a value read from configuration to the prompt's type.
func (p *Prompt) Convert(v interface{}) (interface{}, error) {
	if s, ok := v.(string); ok {
		return p.Parse(s)
	}
	switch p.Type {
	case TypeBool:
		if b, ok := toBool(v); ok {
			return b, nil
		}
	case TypeNumber:
		if p.Multi {
			if list, ok := toFloatList(v); ok {
				return list, nil
			}
		} else if f, ok := toFloat(v); ok {
			return f, nil
		}
	default:
		if p.Multi {
			if list, ok := toStringList(v); ok {
				return list, nil
			}
		} else if _, ok := toFloat(v); ok {
			return FormatValue(v), nil
		} else if _, ok := v.(bool); ok {
			return FormatValue(v), nil
		}
	}
	return nil, fmt.Errorf("%v (%T) is not a valid %s value", v, v, p.Type)
}

// Check validates a typed value against the prompt's constraints.
func (p *Prompt) Check(v interface{}) error {
	switch val := v.(type) {
	case bool:
		if p.Type != TypeBool {
			return fmt.Errorf("expected a %s value", p.Type)
		}
	case string:
		if p.Type != TypeString || p.Multi {
			return fmt.Errorf("expected a %s value", p.describe())
		}
		if p.re != nil && !p.re.MatchString(val) {
			return fmt.Errorf("%q does not match regex %q", val, p.Regex)
		}
		if len(p.Choices) > 0 && !p.HasChoice(val) {
			return fmt.Errorf("%q is not one of %s", val, p.choiceList())
		}
	case float64:
		if p.Type != TypeNumber || p.Multi {
			return fmt.Errorf("expected a %s value", p.describe())
		}
		if err := p.CheckRange(val); err != nil {
			return err
		}
		if len(p.Choices) > 0 && !p.HasChoice(val) {
			return fmt.Errorf("%v is not one of %s", val, p.choiceList())
		}
	case []string:
		if p.Type != TypeString || !p.Multi {
			return fmt.Errorf("expected a %s value", p.describe())
		}
		if len(val) == 0 && !p.Emptyable {
			return fmt.Errorf("select at least one of %s", p.choiceList())
		}
		for _, item := range val {
			if !p.HasChoice(item) {
				return fmt.Errorf("%q is not one of %s", item, p.choiceList())
			}
		}
	case []float64:
		if p.Type != TypeNumber || !p.Multi {
			return fmt.Errorf("expected a %s value", p.describe())
		}
		if len(val) == 0 && !p.Emptyable {
			return fmt.Errorf("select at least one of %s", p.choiceList())
		}
		for _, item := range val {
			if !p.HasChoice(item) {
				return fmt.Errorf("%v is not one of %s", item, p.choiceList())
			}
		}
	default:
		return fmt.Errorf("unsupported value %v (%T)", v, v)
	}
	return nil
}

// ChoiceLabels returns the choices formatted for display.
func (p *Prompt) ChoiceLabels() []string {
	out := make([]string, len(p.Choices))
	for i, c := range p.Choices {
		out[i] = FormatValue(c)
	}
	return out
}

// FormatValue formats a context value the way it is shown to users.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ", ")
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = FormatValue(f)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

func (p *Prompt) describe() string {
	if p.Multi {
		return "list of " + string(p.Type)
	}
	return string(p.Type)
}

func (p *Prompt) choiceList() string {
	return "[" + strings.Join(p.ChoiceLabels(), ", ") + "]"
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
