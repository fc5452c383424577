package template

import (
	"bytes"
	"regexp"
	"strings"
	"text/template"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/rs/zerolog"
)

// Engine substitutes context variables into text. Implementations must be
// deterministic and must fail, rather than substitute an empty value, when
// the text references a name missing from ctx.
type Engine interface {
	Render(name, text string, ctx types.Context) (string, error)
}

// TextEngine is the default Engine, built on text/template.
type TextEngine struct {
	logger  zerolog.Logger
	helpers template.FuncMap
}

var (
	undefinedFuncPattern = regexp.MustCompile(`function "([^"]+)" not defined`)
	missingKeyPattern    = regexp.MustCompile(`map has no entry for key "([^"]+)"`)
	identPattern         = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// NewEngine returns a TextEngine with the standard helpers installed.
func NewEngine() *TextEngine {
	return &TextEngine{
		logger:  logging.GetLogger("template"),
		helpers: helperFuncs(),
	}
}

// Render renders text against ctx. name identifies the text in errors,
// typically the template-relative path it came from.
func (e *TextEngine) Render(name, text string, ctx types.Context) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(e.funcsFor(ctx)).
		Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateParse, "cannot parse %s", name).
			WithDetail(errors.DetailPath, name).
			WithDetail(errors.DetailDetail, describe(err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}(ctx)); err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateExecute, "cannot render %s", name).
			WithDetail(errors.DetailPath, name).
			WithDetail(errors.DetailDetail, describe(err))
	}
	return buf.String(), nil
}

// funcsFor returns the helpers plus one accessor per context variable.
// A variable shadows a helper of the same name.
func (e *TextEngine) funcsFor(ctx types.Context) template.FuncMap {
	funcs := make(template.FuncMap, len(e.helpers)+len(ctx))
	for k, v := range e.helpers {
		funcs[k] = v
	}
	for _, name := range ctx.Names() {
		if !identPattern.MatchString(name) {
			continue
		}
		if _, ok := e.helpers[name]; ok {
			e.logger.Debug().Str("variable", name).Msg("Context variable shadows template helper")
		}
		value := ctx[name]
		funcs[name] = func() interface{} { return value }
	}
	return funcs
}

// describe turns text/template errors into a short reason.
func describe(err error) string {
	msg := err.Error()
	if m := undefinedFuncPattern.FindStringSubmatch(msg); m != nil {
		return "undefined variable \"" + m[1] + "\""
	}
	if m := missingKeyPattern.FindStringSubmatch(msg); m != nil {
		return "undefined variable \"" + m[1] + "\""
	}
	return msg
}

// reserved are words text/template treats as keywords or literals. A
// variable with one of these names cannot be referenced by bare name.
var reserved = map[string]bool{
	"if": true, "else": true, "end": true, "range": true, "with": true,
	"define": true, "template": true, "block": true, "break": true,
	"continue": true, "nil": true, "true": true, "false": true,
}

// IsValidName reports whether name can be used as a variable name in
// templates.
func IsValidName(name string) bool {
	return identPattern.MatchString(name) && !reserved[name]
}
