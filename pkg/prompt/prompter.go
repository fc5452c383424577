package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned by a Prompter when the user cancels.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks single questions. Option lists are indexed so callers keep
// their own typed values.
type Prompter interface {
	Input(label, def string, validate func(string) error) (string, error)
	Select(label string, options []string, def int) (int, error)
	MultiSelect(label string, options []string, defs []int, validate func([]int) error) ([]int, error)
	Confirm(label string, def bool) (bool, error)
}

// IsTerminal reports whether stdin is attached to a terminal.
func IsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// HuhPrompter asks questions with huh forms, one form per question.
type HuhPrompter struct {
	theme *huh.Theme
}

// NewHuhPrompter returns a HuhPrompter using the petridish theme.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{theme: newTheme()}
}

func (h *HuhPrompter) run(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).WithTheme(h.theme).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func (h *HuhPrompter) Input(label, def string, validate func(string) error) (string, error) {
	value := def
	input := huh.NewInput().
		Title(label).
		Value(&value).
		Validate(func(s string) error {
			if validate == nil {
				return nil
			}
			return validate(s)
		})
	if def != "" {
		input = input.Placeholder(def)
	}
	if err := h.run(input); err != nil {
		return "", err
	}
	return value, nil
}

func (h *HuhPrompter) Select(label string, options []string, def int) (int, error) {
	selected := def
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}
	sel := huh.NewSelect[int]().
		Title(label).
		Options(opts...).
		Value(&selected)
	if err := h.run(sel); err != nil {
		return 0, err
	}
	return selected, nil
}

func (h *HuhPrompter) MultiSelect(label string, options []string, defs []int, validate func([]int) error) ([]int, error) {
	selected := append([]int(nil), defs...)
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}
	ms := huh.NewMultiSelect[int]().
		Title(label).
		Options(opts...).
		Value(&selected).
		Validate(func(v []int) error {
			if validate == nil {
				return nil
			}
			return validate(v)
		})
	if err := h.run(ms); err != nil {
		return nil, err
	}
	return selected, nil
}

func (h *HuhPrompter) Confirm(label string, def bool) (bool, error) {
	value := def
	c := huh.NewConfirm().
		Title(label).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if err := h.run(c); err != nil {
		return false, err
	}
	return value, nil
}

func newTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := lipgloss.AdaptiveColor{Light: "#1F7A4D", Dark: "#5FD787"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("> ")
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(primary)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	return t
}
