// Package display holds the view models every output format renders, and
// the conversions from domain results into them.
package display

import (
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/petridish/pkg/cache"
	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/render"
	"github.com/arthur-debert/petridish/pkg/source"
)

// RenderSummary describes a finished (or planned) render.
type RenderSummary struct {
	Template    string   `json:"template"`
	Destination string   `json:"destination"`
	Project     string   `json:"project"`
	Policy      string   `json:"policy"`
	DryRun      bool     `json:"dry_run"`
	Written     []string `json:"written"`
	Overwritten []string `json:"overwritten"`
	Skipped     []string `json:"skipped"`
}

// Changed is the number of paths written or overwritten.
func (s *RenderSummary) Changed() int {
	return len(s.Written) + len(s.Overwritten)
}

// NewRenderSummary converts a render result.
func NewRenderSummary(template, policy string, res *render.Result) *RenderSummary {
	return &RenderSummary{
		Template:    template,
		Destination: res.Path(),
		Project:     res.EntryDir,
		Policy:      policy,
		DryRun:      res.DryRun,
		Written:     nonNil(res.Written),
		Overwritten: nonNil(res.Overwritten),
		Skipped:     nonNil(res.Skipped),
	}
}

// TemplateInfo describes a template for `info`.
type TemplateInfo struct {
	Ref              string       `json:"ref"`
	Kind             string       `json:"kind"`
	Status           string       `json:"status"`
	Dir              string       `json:"dir"`
	ConfigPath       string       `json:"config"`
	ShortDescription string       `json:"short_description,omitempty"`
	LongDescription  string       `json:"long_description,omitempty"`
	ProjectPrompt    string       `json:"project_prompt"`
	ProjectVar       string       `json:"project_var"`
	EntryDir         string       `json:"entry_dir"`
	ExcludeRender    []string     `json:"exclude_render"`
	Prompts          []PromptInfo `json:"prompts"`
}

// PromptInfo is one row of the prompt table.
type PromptInfo struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Kind        string   `json:"kind"`
	Default     string   `json:"default,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	Constraints string   `json:"constraints,omitempty"`
}

// NewTemplateInfo converts a resolved source and its config.
func NewTemplateInfo(src *source.Source, cfg *config.Config) *TemplateInfo {
	info := &TemplateInfo{
		Ref:              src.Ref,
		Kind:             src.Kind.String(),
		Status:           src.Status().String(),
		Dir:              src.Dir,
		ConfigPath:       cfg.Path,
		ShortDescription: cfg.Petridish.ShortDescription,
		LongDescription:  cfg.Petridish.LongDescription,
		ProjectPrompt:    cfg.Petridish.ProjectPrompt,
		ProjectVar:       cfg.Petridish.ProjectVarName,
		EntryDir:         cfg.Petridish.EntryDir,
		ExcludeRender:    nonNil(cfg.Petridish.ExcludeRender),
		Prompts:          []PromptInfo{},
	}
	for i := range cfg.Prompts {
		p := &cfg.Prompts[i]
		info.Prompts = append(info.Prompts, PromptInfo{
			Name:        p.Name,
			Label:       p.Label(),
			Type:        string(p.Type),
			Kind:        p.Kind().String(),
			Default:     config.FormatValue(p.Default),
			Choices:     p.ChoiceLabels(),
			Constraints: constraints(p),
		})
	}
	return info
}

func constraints(p *config.Prompt) string {
	var parts []string
	if p.Regex != "" {
		parts = append(parts, "regex "+p.Regex)
	}
	if p.Min != nil {
		parts = append(parts, ">= "+config.FormatValue(*p.Min))
	}
	if p.Max != nil {
		parts = append(parts, "<= "+config.FormatValue(*p.Max))
	}
	if p.Emptyable {
		parts = append(parts, "may be empty")
	}
	return strings.Join(parts, ", ")
}

// CacheListing is the output of `cache list`.
type CacheListing struct {
	Dir     string       `json:"dir"`
	Entries []CacheEntry `json:"entries"`
}

// CacheEntry is one cached repository.
type CacheEntry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Updated time.Time `json:"updated"`
}

// NewCacheListing converts cache entries.
func NewCacheListing(dir string, entries []cache.Entry) *CacheListing {
	out := &CacheListing{Dir: dir, Entries: []CacheEntry{}}
	for _, e := range entries {
		out.Entries = append(out.Entries, CacheEntry{Name: e.Name, Path: e.Path, Updated: e.ModTime})
	}
	return out
}

// ConfigDump is the output of `config`.
type ConfigDump struct {
	Path string `json:"path"`
	TOML string `json:"toml"`
}

// ErrorView is a structured error.
type ErrorView struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Hint    string                 `json:"hint,omitempty"`
}

// NewErrorView converts err, attaching a hint for errors users can act on.
func NewErrorView(err error) *ErrorView {
	view := &ErrorView{
		Code:    string(errors.GetErrorCode(err)),
		Message: err.Error(),
		Details: errors.GetErrorDetails(err),
	}
	var pErr *errors.PetridishError
	if errors.As(err, &pErr) {
		view.Message = pErr.Message
		if pErr.Wrapped != nil {
			view.Message += ": " + pErr.Wrapped.Error()
		}
	}
	view.Hint = Hint(errors.GetErrorCode(err))
	return view
}

// Hint suggests a next step for an error code.
func Hint(code errors.ErrorCode) string {
	switch code {
	case errors.ErrDestinationConflict:
		return "use --force to overwrite existing files or --skip to keep them"
	case errors.ErrPromptMissing:
		return "pass the value with --set NAME=VALUE or run in a terminal"
	case errors.ErrConfigNotFound:
		return "a template needs a petridish.toml (or petridish.yaml) at its root"
	case errors.ErrSourceFetch:
		return "check the URL and your network, or use a local directory"
	case errors.ErrTemplateParse, errors.ErrTemplateExecute, errors.ErrTemplatingFailed:
		return "check the variable names used in the template against its prompts"
	}
	return ""
}

// ConflictPaths returns the conflicting paths of a DESTINATION_CONFLICT
// error, sorted.
func ConflictPaths(err error) []string {
	details := errors.GetErrorDetails(err)
	paths, _ := details[errors.DetailPaths].([]string)
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
