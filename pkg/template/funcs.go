package template

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func helperFuncs() template.FuncMap {
	return template.FuncMap{
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"title":   title,
		"trim":    strings.TrimSpace,
		"snake":   func(s string) string { return strings.Join(lowerWords(s), "_") },
		"kebab":   func(s string) string { return strings.Join(lowerWords(s), "-") },
		"camel":   camel,
		"pascal":  pascal,
		"replace": func(old, new, s string) string { return strings.ReplaceAll(s, old, new) },
		"default": defaultValue,
		"join":    join,
		"quote":   strconv.Quote,
	}
}

func title(s string) string {
	return cases.Title(language.Und).String(s)
}

// words splits an identifier-ish string on separators and case changes:
// "myProject-name v2" -> [my Project name v2].
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

func lowerWords(s string) []string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return ws
}

func pascal(s string) string {
	var b strings.Builder
	for _, w := range lowerWords(s) {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func camel(s string) string {
	p := []rune(pascal(s))
	if len(p) == 0 {
		return ""
	}
	p[0] = unicode.ToLower(p[0])
	return string(p)
}

// defaultValue returns def when v is the zero value of its type or an
// empty list.
func defaultValue(def, v interface{}) interface{} {
	if v == nil {
		return def
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		if rv.Len() == 0 {
			return def
		}
		return v
	}
	if rv.IsZero() {
		return def
	}
	return v
}

func join(sep string, list interface{}) (string, error) {
	switch l := list.(type) {
	case []string:
		return strings.Join(l, sep), nil
	case string:
		return l, nil
	}
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice {
		return "", fmt.Errorf("join: expected a list, got %T", list)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep), nil
}
