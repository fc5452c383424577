package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/ui"
	"github.com/arthur-debert/petridish/pkg/ui/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name        string
		format      ui.Format
		expectError bool
	}{
		{"terminal", ui.FormatTerminal, false},
		{"text", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"auto on a buffer", ui.FormatAuto, false},
		{"unknown", ui.Format(999), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, err := ui.NewRenderer(tt.format, &bytes.Buffer{})
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				assert.Nil(t, renderer)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, renderer)
		})
	}
}

func TestNewRenderer_AutoOnBufferIsPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatAuto, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderError(errors.New(errors.ErrDestinationConflict, "demo/a.txt already exists")))
	assert.Equal(t, "Error: demo/a.txt already exists\n"+
		"Hint: use --force to overwrite existing files or --skip to keep them\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected ui.Format
	}{
		{"", ui.FormatAuto},
		{"auto", ui.FormatAuto},
		{"term", ui.FormatTerminal},
		{"Terminal", ui.FormatTerminal},
		{"text", ui.FormatText},
		{"plain", ui.FormatText},
		{" json ", ui.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ui.ParseFormat("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auto, term, text, json")
}

func TestFormatString(t *testing.T) {
	for _, name := range ui.Formats {
		f, err := ui.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	assert.Equal(t, "unknown", ui.Format(42).String())
}

func TestJSONRendererThroughFactory(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderResult(&display.CacheListing{Dir: "/c", Entries: []display.CacheEntry{}}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/c", decoded["dir"])
	assert.Equal(t, []interface{}{}, decoded["entries"])
}
