package render

import (
	"github.com/arthur-debert/petridish/pkg/template"
	"github.com/arthur-debert/petridish/pkg/types"
)

// Options configures a Renderer.
type Options struct {
	// TemplateRoot is the directory holding the entry directory.
	TemplateRoot string
	// EntryDirName names the directory inside TemplateRoot to render. It may
	// contain template expressions and must render to a single path segment.
	EntryDirName string
	// DestinationRoot is the directory the rendered entry directory is
	// placed in. It is created if missing.
	DestinationRoot string
	// Context supplies the variable values. The renderer keeps its own copy.
	Context types.Context
	// ConflictPolicy decides what happens to paths that already exist.
	ConflictPolicy types.ConflictPolicy
	// ExcludeRender lists paths, relative to the entry directory, whose
	// content is copied without substitution. Their paths are still
	// rendered. See Exclusions for the matching rules.
	ExcludeRender []string
	// DryRun plans and checks conflicts without writing anything.
	DryRun bool

	// Engine substitutes variables. Defaults to template.NewEngine().
	Engine template.Engine
	// FS reads the template and inspects the destination. Defaults to the
	// OS filesystem. Staging always writes to disk, so a non-OS FS is only
	// meaningful together with DryRun.
	FS types.FS
}
