package info

import (
	"context"

	"github.com/arthur-debert/petridish/pkg/commands/internal"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/ui/display"
)

// InfoOptions defines the options for the Info command.
type InfoOptions struct {
	internal.OpenOptions
}

// Info opens a template and describes its config and prompts.
func Info(ctx context.Context, opts InfoOptions) (*display.TemplateInfo, error) {
	log := logging.GetLogger("core.commands")
	log.Debug().Str("command", "Info").Str("ref", opts.Ref).Msg("Executing command")

	tpl, err := internal.Open(ctx, opts.OpenOptions)
	if err != nil {
		return nil, err
	}

	result := display.NewTemplateInfo(tpl.Source, tpl.Config)
	log.Info().Str("command", "Info").Int("prompts", len(result.Prompts)).Msg("Command finished")
	return result, nil
}
