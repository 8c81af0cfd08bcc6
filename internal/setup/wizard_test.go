package setup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrd/autorel/internal/config"
	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/logging"
	"github.com/davrd/autorel/internal/prompt"
)

// newWizard builds a wizard over a scripted line-based prompter.
func newWizard(t *testing.T, dir, input string, opts Options) (*Wizard, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	opts.Prompter = prompt.NewReaderWithIO(strings.NewReader(input), &out)
	opts.Log = logging.ForTest(t)
	opts.Out = &out
	opts.Dir = dir
	return New(opts), &out
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Select npm (option 1), no features, answer the repo and author forms,
	// decline every optional question.
	input := strings.Join([]string{
		"1",       // release target: npm
		"",        // features: none
		"foo",     // owner
		"bar",     // repo
		"A",       // author name
		"a@x.com", // author email
		"n",       // release label gate
		"n",       // enterprise
		"n",       // write env vars
		"n",       // customize default labels
		"n",       // add a custom label
	}, "\n") + "\n"

	w, out := newWizard(t, dir, input, Options{})
	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "Wrote .autorelrc.yaml")

	path := filepath.Join(dir, ".autorelrc.yaml")
	rec, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bar", rec.Repo)
	assert.Equal(t, "foo", rec.Owner)
	assert.Equal(t, "A", rec.Name)
	assert.Equal(t, "a@x.com", rec.Email)
	assert.False(t, rec.OnlyPublishWithReleaseLabel)
	require.Len(t, rec.Plugins, 1)
	assert.Equal(t, config.PluginEntry{Name: "npm"}, rec.Plugins[0])
	assert.Empty(t, rec.Labels)

	// No labels were changed, so the artifact carries no labels key at all.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "labels")
}

func TestRun_PersistHookInvokedExactlyOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := "foo\nbar\nA\na@x.com\nn\nn\nn\nn\nn\n"
	w, _ := newWizard(t, dir, input, Options{Plugins: []string{"git-tag"}})

	count := 0
	w.Hooks().Persist.Tap("counter", func(_ context.Context, _ config.Record) (string, bool, error) {
		count++
		return "", false, nil // pass through to the default handler
	})

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 1, count)
}

func TestRun_UnknownPluginAbortsBeforeAnythingIsWritten(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, _ := newWizard(t, dir, "", Options{Plugins: []string{"doesnotexist"}})

	count := 0
	w.Hooks().Persist.Tap("counter", func(_ context.Context, _ config.Record) (string, bool, error) {
		count++
		return "", false, nil
	})

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownPlugin))
	assert.Equal(t, 0, count, "persistence never runs after a resolution failure")
	assert.Empty(t, config.Find(dir), "no artifact written")
}

func TestRun_PluginHandlerOverridesRepoIdentity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// No owner/repo lines in the script: the plugin-registered handler
	// answers, so the default form never prompts.
	input := "A\na@x.com\nn\nn\nn\nn\nn\n"
	w, _ := newWizard(t, dir, input, Options{Plugins: []string{"git-tag"}})

	w.Hooks().RepoIdentity.Tap("test-plugin", func(_ context.Context, _ string) (config.Repo, bool, error) {
		return config.Repo{Owner: "acme", Repo: "rocket"}, true, nil
	})

	require.NoError(t, w.Run(context.Background()))

	rec, err := config.Load(config.Find(dir))
	require.NoError(t, err)
	assert.Equal(t, "acme", rec.Owner)
	assert.Equal(t, "rocket", rec.Repo)
}

func TestRun_ConfigurePluginStructuredResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// git-tag falls back to its bare identifier; slack is shaped by the
	// handler into an (identifier, options) pair. Env stage offers
	// SLACK_WEBHOOK_URL and GH_TOKEN; decline.
	input := "foo\nbar\nA\na@x.com\nn\nn\nn\nn\nn\n"
	w, _ := newWizard(t, dir, input, Options{Plugins: []string{"git-tag", "slack"}})

	w.Hooks().ConfigurePlugin.Tap("test-plugin", func(_ context.Context, name string) (config.PluginEntry, bool, error) {
		if name != "slack" {
			return config.PluginEntry{}, false, nil
		}
		return config.PluginEntry{
			Name:    "slack",
			Options: map[string]any{"url": "https://hooks.example.com"},
		}, true, nil
	})

	require.NoError(t, w.Run(context.Background()))

	rec, err := config.Load(config.Find(dir))
	require.NoError(t, err)
	require.Len(t, rec.Plugins, 2)
	assert.Equal(t, config.PluginEntry{Name: "git-tag"}, rec.Plugins[0])
	assert.Equal(t, "slack", rec.Plugins[1].Name)
	assert.Equal(t, "https://hooks.example.com", rec.Plugins[1].Options["url"])
}

func TestRun_SlackWebhookPromptShapesPersistedEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// No handler intercepts the configure stage, so the slack builtin
	// itself asks for the webhook and records it as an options payload.
	input := strings.Join([]string{
		"https://hooks.slack.test/T123", // slack webhook
		"foo", "bar", "A", "a@x.com",
		"n", "n",
		"n", // env: only GH_TOKEN left, the webhook is already recorded
		"n", "n",
	}, "\n") + "\n"

	w, _ := newWizard(t, dir, input, Options{Plugins: []string{"git-tag", "slack"}})
	require.NoError(t, w.Run(context.Background()))

	rec, err := config.Load(config.Find(dir))
	require.NoError(t, err)
	require.Len(t, rec.Plugins, 2)
	assert.Equal(t, config.PluginEntry{Name: "git-tag"}, rec.Plugins[0])
	assert.Equal(t, "slack", rec.Plugins[1].Name)
	assert.Equal(t, "https://hooks.slack.test/T123", rec.Plugins[1].Options["url"])
}

func TestRun_PreselectionNeedsExactlyOneReleaseTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// A features-only selection has nowhere to publish.
	w, _ := newWizard(t, dir, "", Options{Plugins: []string{"slack"}})
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrReleaseTargetCount))
	assert.Empty(t, config.Find(dir), "no artifact written")

	// Two release targets are as invalid as none.
	w, _ = newWizard(t, dir, "", Options{Plugins: []string{"npm", "git-tag"}})
	err = w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrReleaseTargetCount))
}

func TestRun_SavesUserDefaultsWhenRequested(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "autorel", "config.yaml")

	input := "foo\nbar\nA\na@x.com\nn\nn\nn\nn\nn\n"
	w, _ := newWizard(t, dir, input, Options{
		Plugins:          []string{"git-tag"},
		SaveDefaultsPath: path,
	})
	require.NoError(t, w.Run(context.Background()))

	defaults, err := config.LoadUserDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "A", defaults.Author.Name)
	assert.Equal(t, "a@x.com", defaults.Author.Email)
}

func TestRun_EnterpriseEndpointsSupersedeDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := strings.Join([]string{
		"foo", "bar", "A", "a@x.com",
		"n", // gate
		"y", // enterprise
		"https://github.corp.example/api/v3",
		"https://github.corp.example/api/graphql",
		"n", "n", "n",
	}, "\n") + "\n"

	w, _ := newWizard(t, dir, input, Options{Plugins: []string{"git-tag"}})
	require.NoError(t, w.Run(context.Background()))

	rec, err := config.Load(config.Find(dir))
	require.NoError(t, err)
	assert.Equal(t, "https://github.corp.example/api/v3", rec.GithubAPI)
	assert.Equal(t, "https://github.corp.example/api/graphql", rec.GithubGraphqlAPI)
}

func TestRun_EnvDeduplicatedAndMaterialized(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// GH_TOKEN is already persisted, so only npm's token is offered.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GH_TOKEN=ghp_existing\n"), 0600))

	input := strings.Join([]string{
		"foo", "bar", "A", "a@x.com",
		"n", "n",
		"y",          // write env vars
		"npm_secret", // NPM_TOKEN value
		"n", "n",
	}, "\n") + "\n"

	w, _ := newWizard(t, dir, input, Options{Plugins: []string{"npm"}})
	require.NoError(t, w.Run(context.Background()))

	env, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "GH_TOKEN=ghp_existing\nNPM_TOKEN=npm_secret\n", string(env))

	ignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), ".env")
}

func TestRun_ReleaseLabelGate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := "foo\nbar\nA\na@x.com\ny\nn\nn\nn\nn\n"
	w, _ := newWizard(t, dir, input, Options{Plugins: []string{"git-tag"}})
	require.NoError(t, w.Run(context.Background()))

	rec, err := config.Load(config.Find(dir))
	require.NoError(t, err)
	assert.True(t, rec.OnlyPublishWithReleaseLabel)
}

func TestRun_LabelOverridesLandInRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Customize the defaults: change the first label's description, keep
	// the remaining six untouched, then add no custom labels.
	labelEdits := "\n\nchanged\n\n" + strings.Repeat("\n", 6*4)
	input := "foo\nbar\nA\na@x.com\nn\nn\nn\n" +
		"y\n" + labelEdits + // customize defaults
		"n\n" // add custom label

	w, _ := newWizard(t, dir, input, Options{Plugins: []string{"git-tag"}})
	require.NoError(t, w.Run(context.Background()))

	rec, err := config.Load(config.Find(dir))
	require.NoError(t, err)
	require.Len(t, rec.Labels, 1)
	assert.Equal(t, "major", rec.Labels[0].Name)
	assert.Equal(t, "changed", rec.Labels[0].Description)
	assert.True(t, rec.Labels[0].Overwrite)
}

func TestRun_PromptAbortPersistsNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// EOF at the repository form: the run aborts and nothing is written.
	w, _ := newWizard(t, dir, "", Options{Plugins: []string{"git-tag"}})
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAborted))
	assert.Empty(t, config.Find(dir))
}

func TestRun_TOMLFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := "foo\nbar\nA\na@x.com\nn\nn\nn\nn\nn\n"
	w, out := newWizard(t, dir, input, Options{Plugins: []string{"git-tag"}, Format: config.FormatTOML})
	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "Wrote .autorelrc.toml")

	raw, err := os.ReadFile(filepath.Join(dir, ".autorelrc.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "repo = 'bar'")
}

func TestRun_UserDefaultsPrefillAuthorForm(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Accept both author fields via empty input; the defaults fill them.
	input := "foo\nbar\n\n\nn\nn\nn\nn\nn\n"
	w, _ := newWizard(t, dir, input, Options{
		Plugins: []string{"git-tag"},
		UserDefaults: config.UserDefaults{
			Author: config.Author{Name: "Preset", Email: "preset@x.com"},
		},
	})
	require.NoError(t, w.Run(context.Background()))

	rec, err := config.Load(config.Find(dir))
	require.NoError(t, err)
	assert.Equal(t, "Preset", rec.Name)
	assert.Equal(t, "preset@x.com", rec.Email)
}
