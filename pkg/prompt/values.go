package prompt

import (
	"sort"

	"github.com/arthur-debert/petridish/pkg/config"
)

func indexOf(choices []interface{}, v interface{}) int {
	for i, c := range choices {
		if c == v {
			return i
		}
	}
	return 0
}

func indexesOf(choices []interface{}, def interface{}) []int {
	var out []int
	switch d := def.(type) {
	case []string:
		for _, v := range d {
			out = appendIndex(out, choices, v)
		}
	case []float64:
		for _, v := range d {
			out = appendIndex(out, choices, v)
		}
	}
	return out
}

func appendIndex(out []int, choices []interface{}, v interface{}) []int {
	for i, c := range choices {
		if c == v {
			return append(out, i)
		}
	}
	return out
}

// pick maps selected indexes back to typed values, keeping choice order.
func pick(p *config.Prompt, idxs []int) interface{} {
	sorted := append([]int(nil), idxs...)
	sort.Ints(sorted)
	if p.Type == config.TypeNumber {
		out := []float64{}
		for _, i := range sorted {
			out = append(out, p.Choices[i].(float64))
		}
		return out
	}
	out := []string{}
	for _, i := range sorted {
		out = append(out, p.Choices[i].(string))
	}
	return out
}

// passthrough normalizes a user-config value that no prompt claims.
func passthrough(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case string, bool, float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case []interface{}:
		strs := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			strs = append(strs, s)
		}
		return strs, true
	}
	return nil, false
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}
