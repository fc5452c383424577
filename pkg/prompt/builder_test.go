package prompt

import (
	"testing"

	"github.com/arthur-debert/petridish/pkg/config"
	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrompter answers by label and records the defaults it was offered.
type fakePrompter struct {
	inputs   map[string]string
	selects  map[string]int
	multis   map[string][]int
	confirms map[string]bool
	abort    string

	offered map[string]interface{}
}

func newFake() *fakePrompter {
	return &fakePrompter{
		inputs:   map[string]string{},
		selects:  map[string]int{},
		multis:   map[string][]int{},
		confirms: map[string]bool{},
		offered:  map[string]interface{}{},
	}
}

func (f *fakePrompter) Input(label, def string, validate func(string) error) (string, error) {
	if label == f.abort {
		return "", ErrAborted
	}
	f.offered[label] = def
	answer, ok := f.inputs[label]
	if !ok {
		answer = def
	}
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (f *fakePrompter) Select(label string, options []string, def int) (int, error) {
	f.offered[label] = def
	if i, ok := f.selects[label]; ok {
		return i, nil
	}
	return def, nil
}

func (f *fakePrompter) MultiSelect(label string, options []string, defs []int, validate func([]int) error) ([]int, error) {
	f.offered[label] = defs
	answer, ok := f.multis[label]
	if !ok {
		answer = defs
	}
	if validate != nil {
		if err := validate(answer); err != nil {
			return nil, err
		}
	}
	return answer, nil
}

func (f *fakePrompter) Confirm(label string, def bool) (bool, error) {
	f.offered[label] = def
	if v, ok := f.confirms[label]; ok {
		return v, nil
	}
	return def, nil
}

func float(f float64) *float64 { return &f }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Petridish: config.Petridish{
			ProjectPrompt:  "project name?",
			ProjectVarName: "project_name",
			EntryDir:       "{{ project_name }}",
		},
		Prompts: []config.Prompt{
			{Name: "service", Type: config.TypeString, Default: "{{ project_name }}-svc", Regex: "^[a-z-]+$"},
			{Name: "age", Type: config.TypeNumber, Min: float(1), Max: float(150), Default: int64(30)},
			{Name: "lang", Type: config.TypeString, Choices: []interface{}{"go", "rust"}},
			{Name: "tags", Type: config.TypeString, Multi: true, Choices: []interface{}{"a", "b", "c"}, Default: []interface{}{"b"}},
			{Name: "public", Type: config.TypeBool},
		},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestBuild_HeadlessUsesDefaults(t *testing.T) {
	b := NewBuilder(testConfig(t), Options{ProjectName: "demo"})
	assert.True(t, b.Headless())

	ctx, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, types.Context{
		"project_name": "demo",
		"service":      "demo-svc",
		"age":          30.0,
		"lang":         "go",
		"tags":         []string{"b"},
		"public":       false,
	}, ctx)
}

func TestBuild_OverridesAreCoerced(t *testing.T) {
	b := NewBuilder(testConfig(t), Options{
		Overrides: map[string]string{
			"project_name": "demo",
			"age":          "42",
			"lang":         "rust",
			"tags":         "a, c",
			"public":       "true",
		},
	})

	ctx, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 42.0, ctx["age"])
	assert.Equal(t, "rust", ctx["lang"])
	assert.Equal(t, []string{"a", "c"}, ctx["tags"])
	assert.Equal(t, true, ctx["public"])
}

func TestBuild_InvalidOverride(t *testing.T) {
	tests := []struct {
		name string
		key  string
		raw  string
	}{
		{"not a number", "age", "old"},
		{"out of range", "age", "200"},
		{"regex mismatch", "service", "Not Valid"},
		{"not a choice", "lang", "cobol"},
		{"empty multi", "tags", ""},
		{"not a bool", "public", "perhaps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(testConfig(t), Options{
				ProjectName: "demo",
				Overrides:   map[string]string{tt.key: tt.raw},
			})
			_, err := b.Build()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrPromptInvalid), "got %v", err)
			assert.Equal(t, tt.key, errors.GetErrorDetails(err)["name"])
		})
	}
}

func TestBuild_UnknownOverride(t *testing.T) {
	b := NewBuilder(testConfig(t), Options{
		ProjectName: "demo",
		Overrides:   map[string]string{"nope": "1", "zzz": "2"},
	})
	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "nope, zzz")
}

func TestBuild_HeadlessMissingValue(t *testing.T) {
	cfg := &config.Config{
		Petridish: config.Petridish{ProjectVarName: "project_name", EntryDir: "{{ project_name }}"},
		Prompts:   []config.Prompt{{Name: "author"}},
	}
	require.NoError(t, cfg.Validate())

	_, err := NewBuilder(cfg, Options{ProjectName: "demo"}).Build()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPromptMissing))
	assert.Equal(t, "author", errors.GetErrorDetails(err)["name"])
}

func TestBuild_HeadlessMissingProjectName(t *testing.T) {
	_, err := NewBuilder(testConfig(t), Options{}).Build()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPromptMissing))
}

func TestBuild_HeadlessInvalidDefault(t *testing.T) {
	// The rendered default "Demo-svc" fails the lowercase regex.
	_, err := NewBuilder(testConfig(t), Options{ProjectName: "Demo"}).Build()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPromptInvalid))
}

func TestBuild_UserDefaults(t *testing.T) {
	b := NewBuilder(testConfig(t), Options{
		Defaults: map[string]interface{}{
			"project_name": "fromuser",
			"age":          int64(50),
			"tags":         []interface{}{"a", "c"},
			"author":       "alice",
			"bad-name":     "x",
		},
	})

	ctx, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "fromuser", ctx["project_name"])
	assert.Equal(t, 50.0, ctx["age"])
	assert.Equal(t, []string{"a", "c"}, ctx["tags"])
	assert.Equal(t, "alice", ctx["author"], "unclaimed user values pass through")
	assert.NotContains(t, ctx, "bad-name")
}

func TestBuild_InteractivePrecedence(t *testing.T) {
	fake := newFake()
	fake.inputs["project name?"] = "demo"
	fake.inputs["age"] = "77"
	fake.selects["lang"] = 1
	fake.multis["tags"] = []int{2, 0}
	fake.confirms["public"] = true

	b := NewBuilder(testConfig(t), Options{
		Prompter:  fake,
		Overrides: map[string]string{"service": "forced"},
		Defaults:  map[string]interface{}{"age": int64(60)},
	})
	assert.False(t, b.Headless())

	ctx, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "demo", ctx["project_name"])
	assert.Equal(t, "forced", ctx["service"], "override wins and is not asked")
	assert.NotContains(t, fake.offered, "service")
	assert.Equal(t, "60", fake.offered["age"], "user default is offered as the default")
	assert.Equal(t, 77.0, ctx["age"], "answer beats user default")
	assert.Equal(t, "rust", ctx["lang"])
	assert.Equal(t, []string{"a", "c"}, ctx["tags"], "selection keeps choice order")
	assert.Equal(t, []int{1}, fake.offered["tags"])
	assert.Equal(t, true, ctx["public"])
}

func TestBuild_InteractiveDefaultRenderedAgainstContext(t *testing.T) {
	fake := newFake()
	fake.inputs["project name?"] = "shop"

	ctx, err := NewBuilder(testConfig(t), Options{Prompter: fake}).Build()
	require.NoError(t, err)
	assert.Equal(t, "shop-svc", fake.offered["service"])
	assert.Equal(t, "shop-svc", ctx["service"])
}

func TestBuild_Aborted(t *testing.T) {
	fake := newFake()
	fake.abort = "project name?"

	_, err := NewBuilder(testConfig(t), Options{Prompter: fake}).Build()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPromptAborted))
}

func TestBuild_InteractiveInvalidAnswer(t *testing.T) {
	fake := newFake()
	fake.inputs["project name?"] = "demo"
	fake.inputs["age"] = "999"

	_, err := NewBuilder(testConfig(t), Options{Prompter: fake}).Build()
	require.Error(t, err)
}
