package prompt

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/template"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Builder.
type Options struct {
	// Overrides are raw --set values, by variable name.
	Overrides map[string]string
	// ProjectName, when set, answers the project prompt.
	ProjectName string
	// Defaults are default answers from the user config.
	Defaults map[string]interface{}
	// Prompter asks questions. Nil means headless: defaults are used and a
	// prompt without one fails.
	Prompter Prompter
	Engine   template.Engine
}

// Builder assembles a render context from a template config.
type Builder struct {
	logger    zerolog.Logger
	cfg       *config.Config
	overrides map[string]string
	defaults  map[string]interface{}
	prompter  Prompter
	engine    template.Engine
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg *config.Config, opts Options) *Builder {
	b := &Builder{
		logger:    logging.GetLogger("prompt"),
		cfg:       cfg,
		overrides: map[string]string{},
		defaults:  opts.Defaults,
		prompter:  opts.Prompter,
		engine:    opts.Engine,
	}
	for k, v := range opts.Overrides {
		b.overrides[k] = v
	}
	if opts.ProjectName != "" {
		b.overrides[cfg.Petridish.ProjectVarName] = opts.ProjectName
	}
	if b.engine == nil {
		b.engine = template.NewEngine()
	}
	return b
}

// Headless reports whether the builder never asks questions.
func (b *Builder) Headless() bool {
	return b.prompter == nil
}

// Build asks for the project name and then each prompt in config order.
func (b *Builder) Build() (types.Context, error) {
	if err := b.checkOverrides(); err != nil {
		return nil, err
	}

	ctx := types.NewContext()
	name, err := b.projectName()
	if err != nil {
		return nil, err
	}
	ctx.Set(b.cfg.Petridish.ProjectVarName, name)

	for i := range b.cfg.Prompts {
		p := &b.cfg.Prompts[i]
		v, err := b.resolve(p, ctx)
		if err != nil {
			return nil, err
		}
		ctx.Set(p.Name, v)
		b.logger.Debug().Str("name", p.Name).Interface("value", v).Msg("Resolved prompt")
	}

	// Extra user-config values are passed through so templates can use them
	// without declaring a prompt.
	for name, v := range b.defaults {
		if _, ok := ctx[name]; ok || !template.IsValidName(name) {
			continue
		}
		if v, ok := passthrough(v); ok {
			ctx.Set(name, v)
		}
	}
	return ctx, nil
}

func (b *Builder) checkOverrides() error {
	var unknown []string
	for name := range b.overrides {
		if name == b.cfg.Petridish.ProjectVarName {
			continue
		}
		if _, ok := b.cfg.Prompt(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return errors.Newf(errors.ErrInvalidInput, "unknown variable(s): %s", strings.Join(sortStrings(unknown), ", "))
	}
	return nil
}

func (b *Builder) projectName() (string, error) {
	pd := b.cfg.Petridish
	var name string
	switch raw, ok := b.overrides[pd.ProjectVarName]; {
	case ok:
		name = raw
	case b.prompter != nil:
		def, _ := b.defaults[pd.ProjectVarName].(string)
		answer, err := b.prompter.Input(pd.ProjectPrompt, def, requireNonEmpty)
		if err != nil {
			return "", b.promptError(pd.ProjectVarName, err)
		}
		name = answer
	default:
		def, _ := b.defaults[pd.ProjectVarName].(string)
		name = def
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.Newf(errors.ErrPromptMissing, "no value for %s", pd.ProjectVarName).
			WithDetail("name", pd.ProjectVarName)
	}
	return name, nil
}

func (b *Builder) resolve(p *config.Prompt, ctx types.Context) (interface{}, error) {
	if raw, ok := b.overrides[p.Name]; ok {
		v, err := p.Parse(raw)
		if err != nil {
			return nil, invalid(p, err)
		}
		if err := p.Check(v); err != nil {
			return nil, invalid(p, err)
		}
		return v, nil
	}

	def, hasDefault, err := b.defaultFor(p, ctx)
	if err != nil {
		return nil, err
	}

	if b.prompter != nil {
		v, err := b.ask(p, def, hasDefault)
		if err != nil {
			return nil, b.promptError(p.Name, err)
		}
		if err := p.Check(v); err != nil {
			return nil, invalid(p, err)
		}
		return v, nil
	}

	if !hasDefault {
		return nil, errors.Newf(errors.ErrPromptMissing, "no value for %s: pass --set %s=... or run interactively", p.Name, p.Name).
			WithDetail("name", p.Name)
	}
	if err := p.Check(def); err != nil {
		return nil, invalid(p, err)
	}
	return def, nil
}

// defaultFor picks the user-config default, then the prompt default. String
// defaults are rendered against the context built so far. Confirm prompts
// default to false and single selects to their first choice.
func (b *Builder) defaultFor(p *config.Prompt, ctx types.Context) (interface{}, bool, error) {
	if v, ok := b.defaults[p.Name]; ok {
		converted, err := p.Convert(v)
		if err != nil {
			return nil, false, invalid(p, fmt.Errorf("user default: %w", err))
		}
		return converted, true, nil
	}

	if p.HasDefault() {
		if s, ok := p.Default.(string); ok {
			rendered, err := b.engine.Render("default of "+p.Name, s, ctx)
			if err != nil {
				return nil, false, err
			}
			return rendered, true, nil
		}
		return p.Default, true, nil
	}

	switch p.Kind() {
	case config.KindConfirm:
		return false, true, nil
	case config.KindSelect:
		return p.Choices[0], true, nil
	}
	return nil, false, nil
}

func (b *Builder) ask(p *config.Prompt, def interface{}, hasDefault bool) (interface{}, error) {
	label := p.Label()
	switch p.Kind() {
	case config.KindConfirm:
		d, _ := def.(bool)
		return b.prompter.Confirm(label, d)

	case config.KindSelect:
		idx := 0
		if hasDefault {
			idx = indexOf(p.Choices, def)
		}
		i, err := b.prompter.Select(label, p.ChoiceLabels(), idx)
		if err != nil {
			return nil, err
		}
		return p.Choices[i], nil

	case config.KindMultiSelect:
		var defs []int
		if hasDefault {
			defs = indexesOf(p.Choices, def)
		}
		idxs, err := b.prompter.MultiSelect(label, p.ChoiceLabels(), defs, func(sel []int) error {
			if len(sel) == 0 && !p.Emptyable {
				return fmt.Errorf("select at least one option")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return pick(p, idxs), nil

	default:
		d := ""
		if hasDefault {
			d = config.FormatValue(def)
		}
		raw, err := b.prompter.Input(label, d, func(s string) error {
			v, err := p.Parse(s)
			if err != nil {
				return err
			}
			return p.Check(v)
		})
		if err != nil {
			return nil, err
		}
		return p.Parse(raw)
	}
}

func (b *Builder) promptError(name string, err error) error {
	if errors.Is(err, ErrAborted) {
		return errors.Wrap(err, errors.ErrPromptAborted, "aborted by user").WithDetail("name", name)
	}
	return errors.Wrapf(err, errors.ErrInternal, "prompt %s failed", name).WithDetail("name", name)
}

func invalid(p *config.Prompt, err error) error {
	return errors.Wrapf(err, errors.ErrPromptInvalid, "invalid value for %s", p.Name).
		WithDetail("name", p.Name)
}

func requireNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("a value is required")
	}
	return nil
}
