// Package generate renders a template into a new project directory.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/petridish/pkg/commands/internal"
	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/prompt"
	"github.com/arthur-debert/petridish/pkg/render"
	"github.com/arthur-debert/petridish/pkg/template"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/arthur-debert/petridish/pkg/ui/display"
)

// GenerateOptions defines the options for the Generate command.
type GenerateOptions struct {
	internal.OpenOptions

	// OutputDir receives the project directory. Empty uses the user default.
	OutputDir string
	// Policy replaces the user's default conflict policy when set.
	Policy *types.ConflictPolicy
	// Overrides are raw --set values.
	Overrides map[string]string
	// ProjectName answers the project prompt.
	ProjectName string
	DryRun      bool
	// Prompter asks questions. Nil renders headless.
	Prompter prompt.Prompter
	Engine   template.Engine
}

// Generate opens the template, builds the context and renders it.
func Generate(ctx context.Context, opts GenerateOptions) (*display.RenderSummary, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Generate").Str("ref", opts.Ref).Msg("Executing command")

	user := opts.User
	if user == nil {
		var err error
		if user, err = config.LoadUserFile(""); err != nil {
			return nil, err
		}
		opts.User = user
	}

	tpl, err := internal.Open(ctx, opts.OpenOptions)
	if err != nil {
		return nil, err
	}
	cfg := tpl.Config

	builder := prompt.NewBuilder(cfg, prompt.Options{
		Overrides:   opts.Overrides,
		ProjectName: opts.ProjectName,
		Defaults:    user.Context,
		Prompter:    opts.Prompter,
		Engine:      opts.Engine,
	})
	vars, err := builder.Build()
	if err != nil {
		return nil, err
	}

	policy, err := user.ConflictPolicy()
	if err != nil {
		return nil, err
	}
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = user.Defaults.OutputDir
	}

	renderOpts := render.Options{
		TemplateRoot:    tpl.Source.Dir,
		EntryDirName:    cfg.Petridish.EntryDir,
		DestinationRoot: outputDir,
		Context:         vars,
		ConflictPolicy:  policy,
		ExcludeRender:   cfg.Petridish.ExcludeRender,
		DryRun:          opts.DryRun,
		Engine:          opts.Engine,
	}

	if opts.Prompter != nil && opts.Policy == nil && policy == types.ConflictFail {
		if renderOpts.ConflictPolicy, err = confirmOverwrite(opts.Prompter, renderOpts); err != nil {
			return nil, err
		}
	}

	r, err := render.New(renderOpts)
	if err != nil {
		return nil, err
	}
	res, err := r.Render()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("command", "Generate").
		Str("destination", res.Path()).
		Int("changed", res.Changed()).
		Int("skipped", len(res.Skipped)).
		Msg("Command finished")
	return display.NewRenderSummary(opts.Ref, renderOpts.ConflictPolicy.String(), res), nil
}

// confirmOverwrite asks before rendering into an existing project
// directory. Declining keeps the fail policy, so the render still succeeds
// when no planned path exists.
func confirmOverwrite(p prompt.Prompter, opts render.Options) (types.ConflictPolicy, error) {
	r, err := render.New(opts)
	if err != nil {
		return opts.ConflictPolicy, err
	}
	plan, err := r.Plan()
	if err != nil {
		return opts.ConflictPolicy, err
	}

	target := filepath.Join(opts.DestinationRoot, plan.EntryDir)
	if _, err := os.Lstat(target); err != nil {
		return opts.ConflictPolicy, nil
	}

	ok, err := p.Confirm(fmt.Sprintf("%s already exists. Overwrite existing files?", target), false)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return opts.ConflictPolicy, errors.Wrap(err, errors.ErrPromptAborted, "aborted")
		}
		return opts.ConflictPolicy, errors.Wrap(err, errors.ErrInternal, "prompt failed")
	}
	if ok {
		return types.ConflictOverwrite, nil
	}
	return opts.ConflictPolicy, nil
}
