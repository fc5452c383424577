package petridish

import (
	"embed"

	"github.com/arthur-debert/petridish/internal/version"
	"github.com/arthur-debert/petridish/pkg/cobrax/topics"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// NewRootCmd creates and returns the root command. Running it with a
// template argument is the same as `petridish new TEMPLATE`.
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var (
		verbosity int
		format    string
		flags     newFlags
	)

	rootCmd := &cobra.Command{
		Use:     "petridish [TEMPLATE]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgNewExample,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)
			logging.LogCommand(cmd.CommandPath(), args)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			_, err := ui.ParseFormat(format)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return errors.New(errors.ErrInvalidInput, MsgErrNoTemplate)
			}
			return runNew(cmd, args[0], &flags)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	// The root command renders too, so it takes the same flags as `new`.
	addNewFlags(rootCmd, &flags)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Help topics ship inside the binary.
	tm, err := topics.Load(topicsFS, "topics", topics.Options{Renderer: topics.NewGlamourRenderer()})
	if err == nil {
		topics.Install(rootCmd, tm)
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// Execute runs root and renders a failure in the selected output format on
// stderr. It returns the process exit code.
func Execute(root *cobra.Command) int {
	err := root.Execute()
	if err == nil {
		return 0
	}

	name, _ := root.PersistentFlags().GetString("format")
	format, perr := ui.ParseFormat(name)
	if perr != nil {
		format = ui.FormatAuto
	}
	renderer, rerr := ui.NewRenderer(format, root.ErrOrStderr())
	if rerr != nil {
		renderer, _ = ui.NewRenderer(ui.FormatText, root.ErrOrStderr())
	}
	_ = renderer.RenderError(err)
	log.Debug().Err(err).Msg("Command failed")
	return 1
}
