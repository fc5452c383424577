package petridish

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Create new projects from templates"
	MsgNewShort        = "Render a template into a new project"
	MsgInfoShort       = "Describe a template and its prompts"
	MsgCacheShort      = "Manage cached git templates"
	MsgCacheListShort  = "List cached templates"
	MsgCacheCleanShort = "Remove cached templates"
	MsgConfigShort     = "Print the effective user configuration"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
	MsgVersionShort    = "Print version information"

	// Status messages
	MsgCacheRemoved  = "Removed %d cached template(s)"
	MsgCloning       = "Cloning %s"
	MsgUpdating      = "Updating %s"
	MsgFetched       = "Fetched %s"
	MsgFetchFailed   = "Could not fetch %s"
	MsgManPagesWrote = "Wrote man pages to %s"

	// Error messages
	MsgErrNoTemplate = "no template specified"
	MsgErrBadSet     = "invalid --set %q, expected NAME=VALUE"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagOutput   = "Directory to create the project in (default from user config, else .)"
	MsgFlagForce    = "Overwrite existing files"
	MsgFlagSkip     = "Keep existing files and write the rest"
	MsgFlagSet      = "Answer a prompt: NAME=VALUE (repeatable)"
	MsgFlagName     = "Project name"
	MsgFlagNoInput  = "Never prompt; use defaults"
	MsgFlagRefresh  = "Pull the latest version of a cached git template"
	MsgFlagDryRun   = "Show what would be written without writing"
	MsgFlagDefaults = "Print the built-in defaults instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/new-long.txt
	msgNewLongRaw string
	MsgNewLong    = strings.TrimSpace(msgNewLongRaw)

	//go:embed msgs/new-example.txt
	msgNewExampleRaw string
	MsgNewExample    = strings.TrimRight(msgNewExampleRaw, "\n")

	//go:embed msgs/info-long.txt
	msgInfoLongRaw string
	MsgInfoLong    = strings.TrimSpace(msgInfoLongRaw)

	//go:embed msgs/cache-long.txt
	msgCacheLongRaw string
	MsgCacheLong    = strings.TrimSpace(msgCacheLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
