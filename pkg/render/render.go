package render

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/filesystem"
	"github.com/arthur-debert/petridish/pkg/logging"
	"github.com/arthur-debert/petridish/pkg/template"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	synthfsfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

// Renderer renders one entry directory into one destination.
type Renderer struct {
	logger          zerolog.Logger
	templateRoot    string
	entryDirName    string
	destinationRoot string
	context         types.Context
	policy          types.ConflictPolicy
	exclusions      *Exclusions
	dryRun          bool
	engine          template.Engine
	fs              types.FS
	stageFS         synthfsfs.FullFileSystem
}

// New validates opts and returns a Renderer. It fails with
// ENTRY_DIR_NOT_FOUND when TemplateRoot has no directory named EntryDirName.
func New(opts Options) (*Renderer, error) {
	if opts.TemplateRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "template root is required")
	}
	if opts.DestinationRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "destination root is required")
	}
	entryDirName := strings.Trim(filepath.ToSlash(opts.EntryDirName), "/")
	if entryDirName == "" || strings.Contains(entryDirName, "/") {
		return nil, errors.Newf(errors.ErrInvalidInput, "entry directory %q must be a single directory name", opts.EntryDirName)
	}

	templateRoot, err := filepath.Abs(opts.TemplateRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid template root")
	}
	destinationRoot, err := filepath.Abs(opts.DestinationRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid destination root")
	}

	ctx := opts.Context.Clone()
	if err := ctx.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid context")
	}

	exclusions, err := NewExclusions(opts.ExcludeRender)
	if err != nil {
		return nil, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	engine := opts.Engine
	if engine == nil {
		engine = template.NewEngine()
	}

	entryPath := filepath.Join(templateRoot, entryDirName)
	if info, err := fsys.Stat(entryPath); err != nil || !info.IsDir() {
		e := errors.Newf(errors.ErrEntryDirNotFound, "entry directory %s not found in %s", entryDirName, templateRoot).
			WithDetail(errors.DetailPath, entryPath)
		if err != nil {
			e.Wrapped = err
		}
		return nil, e
	}

	return &Renderer{
		logger:          logging.GetLogger("render"),
		templateRoot:    templateRoot,
		entryDirName:    entryDirName,
		destinationRoot: destinationRoot,
		context:         ctx,
		policy:          opts.ConflictPolicy,
		exclusions:      exclusions,
		dryRun:          opts.DryRun,
		engine:          engine,
		fs:              fsys,
		stageFS:         synthfs.NewPathAwareFileSystem(synthfsfs.NewOSFileSystem("/"), "/").WithAbsolutePaths(),
	}, nil
}

// Plan renders every path and file content in memory without touching the
// destination.
func (r *Renderer) Plan() (*Plan, error) {
	return r.buildPlan()
}

// Render plans, checks the destination against the conflict policy and,
// unless this is a dry run, commits the result.
func (r *Renderer) Render() (*Result, error) {
	done := logging.LogOperationStart(r.logger, "render")
	defer done()

	r.logger.Info().
		Str("template", r.templateRoot).
		Str("entry", r.entryDirName).
		Str("destination", r.destinationRoot).
		Str("policy", r.policy.String()).
		Bool("dryRun", r.dryRun).
		Msg("Rendering template")

	plan, err := r.buildPlan()
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Int("entries", len(plan.Entries)).Str("entryDir", plan.EntryDir).Msg("Plan built")

	res, err := r.checkConflicts(plan)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Root:     r.destinationRoot,
		EntryDir: plan.EntryDir,
		Skipped:  res.skipped,
		DryRun:   r.dryRun,
	}
	for _, e := range res.write {
		if res.overwrite[e.RelPath] {
			result.Overwritten = append(result.Overwritten, e.RelPath)
		} else {
			result.Written = append(result.Written, e.RelPath)
		}
	}

	sort.Strings(result.Skipped)

	if r.dryRun {
		return result, nil
	}

	if err := r.commit(plan, res); err != nil {
		return nil, err
	}

	r.logger.Info().
		Int("written", len(result.Written)).
		Int("overwritten", len(result.Overwritten)).
		Int("skipped", len(result.Skipped)).
		Str("path", result.Path()).
		Msg("Render complete")
	return result, nil
}
