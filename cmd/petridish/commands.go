package petridish

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/petridish/internal/version"
	"github.com/arthur-debert/petridish/pkg/cache"
	"github.com/arthur-debert/petridish/pkg/commands"
	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/prompt"
	"github.com/arthur-debert/petridish/pkg/source"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/arthur-debert/petridish/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// newFlags are the flags of `new`, shared with the root command.
type newFlags struct {
	output  string
	force   bool
	skip    bool
	sets    []string
	name    string
	noInput bool
	refresh bool
	dryRun  bool
}

func addNewFlags(cmd *cobra.Command, f *newFlags) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", MsgFlagOutput)
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVarP(&f.skip, "skip", "s", false, MsgFlagSkip)
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, MsgFlagSet)
	cmd.Flags().StringVar(&f.name, "name", "", MsgFlagName)
	cmd.Flags().BoolVar(&f.noInput, "no-input", false, MsgFlagNoInput)
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, MsgFlagRefresh)
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.MarkFlagsMutuallyExclusive("force", "skip")
	_ = cmd.MarkFlagDirname("output")
}

// policy returns the conflict policy chosen by flags, or nil to use the
// user config default.
func (f *newFlags) policy() *types.ConflictPolicy {
	var p types.ConflictPolicy
	switch {
	case f.force:
		p = types.ConflictOverwrite
	case f.skip:
		p = types.ConflictSkipExisting
	default:
		return nil
	}
	return &p
}

// parseSets turns NAME=VALUE pairs into overrides. Later pairs win.
func parseSets(sets []string) (map[string]string, error) {
	out := make(map[string]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrBadSet, s)
		}
		out[name] = value
	}
	return out, nil
}

func newNewCmd() *cobra.Command {
	var flags newFlags
	cmd := &cobra.Command{
		Use:     "new TEMPLATE",
		Short:   MsgNewShort,
		Long:    MsgNewLong,
		Example: MsgNewExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, args[0], &flags)
		},
	}
	addNewFlags(cmd, &flags)
	return cmd
}

func runNew(cmd *cobra.Command, ref string, f *newFlags) error {
	user, err := config.LoadUser()
	if err != nil {
		return err
	}
	overrides, err := parseSets(f.sets)
	if err != nil {
		return err
	}

	var prompter prompt.Prompter
	if !f.noInput && !user.Defaults.NoInput && prompt.IsTerminal() {
		prompter = prompt.NewHuhPrompter()
	}

	log.Info().
		Str("template", ref).
		Str("output", f.output).
		Bool("interactive", prompter != nil).
		Bool("dry_run", f.dryRun).
		Msg("Creating project")

	summary, err := commands.Generate(cmd.Context(), commands.GenerateOptions{
		OpenOptions: commands.OpenOptions{
			Ref:      ref,
			User:     user,
			Cache:    cache.New(),
			Refresh:  f.refresh,
			Progress: fetchProgress(cmd),
		},
		OutputDir:   f.output,
		Policy:      f.policy(),
		Overrides:   overrides,
		ProjectName: f.name,
		DryRun:      f.dryRun,
		Prompter:    prompter,
	})
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd)
	if err != nil {
		return err
	}
	return r.RenderResult(summary)
}

func newInfoCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:     "info TEMPLATE",
		Short:   MsgInfoShort,
		Long:    MsgInfoLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := config.LoadUser()
			if err != nil {
				return err
			}
			info, err := commands.Info(cmd.Context(), commands.InfoOptions{
				OpenOptions: commands.OpenOptions{
					Ref:      args[0],
					User:     user,
					Cache:    cache.New(),
					Refresh:  refresh,
					Progress: fetchProgress(cmd),
				},
			})
			if err != nil {
				return err
			}
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(info)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, MsgFlagRefresh)
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   MsgCacheShort,
		Long:    MsgCacheLong,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgCacheListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := commands.CacheList(cache.New())
			if err != nil {
				return err
			}
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(listing)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:               "clean [NAME...]",
		Short:             MsgCacheCleanShort,
		ValidArgsFunction: cachedNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := commands.CacheClean(cache.New(), args)
			if err != nil {
				return err
			}
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgCacheRemoved, n))
		},
	})
	return cmd
}

// cachedNamesCompletion completes the names of cached templates.
func cachedNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	entries, err := cache.New().List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		seen[a] = true
	}
	var names []string
	for _, e := range entries {
		if !seen[e.Name] {
			names = append(names, e.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newConfigCmd() *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.UserDefaults())
				return err
			}
			user, err := config.LoadUser()
			if err != nil {
				return err
			}
			dump, err := commands.ShowConfig(user)
			if err != nil {
				return err
			}
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(dump)
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man DIR",
		Short:  MsgManShort,
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(args[0], 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "cannot create %s", args[0])
			}
			if err := doc.GenManTree(cmd.Root(), ManHeader(), args[0]); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to generate man pages")
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgManPagesWrote+"\n", args[0])
			return err
		},
	}
}

// ManHeader is the header of every generated man page.
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "PETRIDISH",
		Section: "1",
		Source:  "petridish " + version.Version,
		Manual:  "petridish manual",
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}

// newRenderer returns the renderer selected by --format, writing to the
// command's output.
func newRenderer(cmd *cobra.Command) (ui.Renderer, error) {
	name, _ := cmd.Flags().GetString("format")
	format, err := ui.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// fetchProgress shows a spinner on stderr while a git template is cloned or
// updated. Nothing is shown when stderr is not a terminal or output is JSON.
func fetchProgress(cmd *cobra.Command) func(*source.Source, bool) func(error) {
	name, _ := cmd.Flags().GetString("format")
	if format, _ := ui.ParseFormat(name); format == ui.FormatJSON {
		return nil
	}
	stderr, ok := cmd.ErrOrStderr().(*os.File)
	if !ok || !isatty.IsTerminal(stderr.Fd()) {
		return nil
	}

	return func(src *source.Source, refresh bool) func(error) {
		text := fmt.Sprintf(MsgCloning, src.URL)
		if refresh {
			text = fmt.Sprintf(MsgUpdating, src.Name)
		}
		spinner, err := pterm.DefaultSpinner.WithWriter(stderr).Start(text)
		if err != nil {
			return func(error) {}
		}
		return func(err error) {
			if err != nil {
				spinner.Fail(fmt.Sprintf(MsgFetchFailed, src.URL))
				return
			}
			spinner.Success(fmt.Sprintf(MsgFetched, src.Name))
		}
	}
}
