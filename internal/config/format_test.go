package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/labels"
)

func sampleRecord() *Record {
	return &Record{
		Repo:  "bar",
		Owner: "foo",
		Name:  "A",
		Email: "a@x.com",
		Plugins: []PluginEntry{
			{Name: "npm"},
			{Name: "slack", Options: map[string]any{"url": "https://hooks.example.com"}},
		},
		Labels: []labels.Definition{
			{Name: "major", ChangelogTitle: "💥 Breaking Change", ReleaseType: labels.Major, Overwrite: true},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	_, err = ParseFormat("ini")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestEncode_YAML(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleRecord(), FormatYAML)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "repo: bar")
	assert.Contains(t, out, "owner: foo")
	assert.Contains(t, out, "- npm")
	assert.Contains(t, out, "- slack")
	assert.NotContains(t, out, "onlyPublishWithReleaseLabel", "false gate is omitted")

	// Round-trips through the identifier-or-pair encoding.
	var back Record
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.Len(t, back.Plugins, 2)
	assert.Equal(t, PluginEntry{Name: "npm"}, back.Plugins[0])
	assert.Equal(t, "slack", back.Plugins[1].Name)
	assert.Equal(t, "https://hooks.example.com", back.Plugins[1].Options["url"])
}

func TestEncode_JSON(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleRecord(), FormatJSON)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.Plugins, 2)
	assert.Equal(t, "npm", back.Plugins[0].Name)
	assert.Nil(t, back.Plugins[0].Options)
	assert.Equal(t, "slack", back.Plugins[1].Name)
}

func TestEncode_TOML(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleRecord(), FormatTOML)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "repo = 'bar'")
	assert.Contains(t, out, "npm")
}

func TestEncode_OmitsEmptyLabels(t *testing.T) {
	t.Parallel()

	rec := &Record{Repo: "bar", Owner: "foo", Plugins: []PluginEntry{{Name: "npm"}}}
	data, err := Encode(rec, FormatYAML)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "labels")
}
