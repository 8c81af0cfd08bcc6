// Package setup drives the interactive configuration pipeline: a fixed
// sequence of stages whose outcomes plugins can influence through the
// extension-point bus, accumulating into one configuration record that is
// persisted at the end.
//
// Plugins never skip or reorder stages; they only affect what a stage
// produces, by registering bus handlers ahead of the built-in defaults.
package setup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/davrd/autorel/internal/config"
	"github.com/davrd/autorel/internal/envfile"
	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/git"
	"github.com/davrd/autorel/internal/labels"
	"github.com/davrd/autorel/internal/paths"
	"github.com/davrd/autorel/internal/plugin"
	"github.com/davrd/autorel/internal/prompt"
	"github.com/davrd/autorel/pkg/fileutil"
)

// Options configures a Wizard.
type Options struct {
	// Prompter is the interactive surface. Required.
	Prompter prompt.Prompter

	// Log receives diagnostics. Defaults to slog.Default().
	Log *slog.Logger

	// Out receives user-facing output. Defaults to os.Stdout.
	Out io.Writer

	// Dir is the project directory artifacts are written to. Defaults to ".".
	Dir string

	// Format selects the artifact encoding. Defaults to YAML.
	Format config.Format

	// UserDefaults pre-fill identity prompts.
	UserDefaults config.UserDefaults

	// Plugins, when non-empty, preselects the plugin set and skips the
	// interactive selection stage. Order is preserved.
	Plugins []string

	// SaveDefaultsPath, when non-empty, receives the collected author
	// identity as a user-level defaults file after a successful run.
	SaveDefaultsPath string
}

// Wizard runs the setup pipeline once. It owns the authoritative
// configuration record; hook handlers return values and never mutate
// shared state.
type Wizard struct {
	prompter     prompt.Prompter
	log          *slog.Logger
	out          io.Writer
	dir          string
	format       config.Format
	userDefaults config.UserDefaults
	preselected  []string
	saveDefaults string

	host     *plugin.Host
	registry *plugin.Registry
}

// New creates a Wizard. The extension points start empty; plugins register
// handlers during Run, and the built-in defaults are registered after them.
func New(opts Options) *Wizard {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	format := opts.Format
	if format == "" {
		format = config.FormatYAML
	}

	return &Wizard{
		prompter:     opts.Prompter,
		log:          log,
		out:          out,
		dir:          dir,
		format:       format,
		userDefaults: opts.UserDefaults,
		preselected:  opts.Plugins,
		saveDefaults: opts.SaveDefaultsPath,
		host: &plugin.Host{
			Hooks:    plugin.NewHooks(),
			Log:      log,
			Dir:      dir,
			Prompter: opts.Prompter,
		},
		registry: plugin.NewRegistry(),
	}
}

// Hooks exposes the extension points, letting callers (and tests) register
// handlers before Run the same way a plugin's Init would.
func (w *Wizard) Hooks() *plugin.Hooks {
	return w.host.Hooks
}

// Run executes the pipeline. It either persists a complete configuration
// record and returns nil, or aborts having written nothing beyond what the
// user explicitly confirmed (env variables are written in their own stage).
func (w *Wizard) Run(ctx context.Context) error {
	// Stage 1: choose one release target and any number of features.
	selections, err := w.selectPlugins()
	if err != nil {
		return err
	}

	// Stage 2: resolve and initialize every selected plugin. Resolution
	// failure is fatal; nothing has been persisted yet.
	for _, name := range selections {
		p, err := plugin.Resolve(name, nil)
		if err != nil {
			return err
		}
		if err := w.registry.Add(p); err != nil {
			return err
		}
		if p.Init != nil {
			if err := p.Init(w.host); err != nil {
				return errors.Wrapf(err, "initializing plugin %q", name)
			}
		}
		w.log.Debug("plugin initialized", "plugin", name)
	}

	// A valid configuration publishes to exactly one place. Interactive
	// selection guarantees this; a preselected list must be checked.
	if targets := w.releaseTargetCount(); targets != 1 {
		return errors.Wrapf(errors.ErrReleaseTargetCount, "got %d", targets)
	}

	// Built-in behavior registers last so plugin handlers win.
	w.registerDefaults()

	rec := &config.Record{}

	// Stage 3: let plugins shape their own record entry; fall back to the
	// bare identifier.
	for _, name := range selections {
		entry, ok, err := w.host.Hooks.ConfigurePlugin.Run(ctx, w.log, name)
		if err != nil {
			return errors.Wrapf(err, "configuring plugin %q", name)
		}
		if !ok {
			entry = config.PluginEntry{Name: name}
			// The bare fallback still carries any options the plugin
			// was resolved with.
			if p, found := w.registry.Get(name); found {
				entry.Options = p.Options
			}
		}
		rec.Plugins = append(rec.Plugins, entry)
	}

	// Stage 4: repository identity.
	repo, ok, err := w.host.Hooks.RepoIdentity.Run(ctx, w.log, w.dir)
	if err != nil {
		return errors.Wrap(err, "resolving repository identity")
	}
	if ok {
		rec.ApplyRepo(repo)
	}

	// Stage 5: author identity.
	author, ok, err := w.host.Hooks.AuthorIdentity.Run(ctx, w.log, w.dir)
	if err != nil {
		return errors.Wrap(err, "resolving author identity")
	}
	if ok {
		rec.ApplyAuthor(author)
	}

	// Stage 6: two direct questions, not hook-mediated.
	gate, err := w.prompter.Confirm("Only publish when a PR carries a release label?", false)
	if err != nil {
		return err
	}
	rec.OnlyPublishWithReleaseLabel = gate

	enterprise, err := w.prompter.Confirm("Is this repository hosted on a GitHub Enterprise instance?", false)
	if err != nil {
		return err
	}
	if enterprise {
		api, err := w.prompter.Input("GitHub API endpoint", "")
		if err != nil {
			return err
		}
		graphql, err := w.prompter.Input("GitHub GraphQL API endpoint", "")
		if err != nil {
			return err
		}
		// Enterprise endpoints supersede the defaults by contract.
		rec.ApplyEnterprise(api, graphql)
	}

	// Stage 7: collect env requests, drop what is already persisted, and
	// materialize the rest if the user confirms.
	if err := w.materializeEnv(ctx); err != nil {
		return err
	}

	// Stage 8: label review.
	if err := w.editLabels(rec); err != nil {
		return err
	}

	// Stage 9: persist. After this the record is immutable.
	name, ok, err := w.host.Hooks.Persist.Run(ctx, w.log, *rec)
	if err != nil {
		return errors.Wrap(err, "persisting configuration")
	}
	if !ok {
		return errors.New("no persistence handler produced an artifact")
	}

	fmt.Fprintf(w.out, "Wrote %s\n", name)

	if w.saveDefaults != "" && (rec.Name != "" || rec.Email != "") {
		defaults := config.UserDefaults{
			Author: config.Author{Name: rec.Name, Email: rec.Email},
		}
		if err := config.SaveUserDefaults(w.saveDefaults, defaults); err != nil {
			return errors.Wrap(err, "saving user defaults")
		}
		w.log.Debug("saved user defaults", "path", w.saveDefaults)
	}
	return nil
}

// releaseTargetCount counts resolved release-target plugins.
func (w *Wizard) releaseTargetCount() int {
	n := 0
	for _, p := range w.registry.All() {
		if p.Kind == plugin.ReleaseTarget {
			n++
		}
	}
	return n
}

// selectPlugins returns the plugin identifiers for this run in selection
// order: the release target first, then the chosen features.
func (w *Wizard) selectPlugins() ([]string, error) {
	if len(w.preselected) > 0 {
		return w.preselected, nil
	}

	target, err := w.prompter.Select("Where do releases get published?", menuOptions(plugin.ReleaseTargets()))
	if err != nil {
		return nil, errors.Wrap(err, "selecting release target")
	}

	feats, err := w.prompter.MultiSelect("Any extra features?", menuOptions(plugin.Features()))
	if err != nil {
		return nil, errors.Wrap(err, "selecting features")
	}

	return append([]string{target}, feats...), nil
}

func menuOptions(plugins []plugin.Plugin) []prompt.Option {
	opts := make([]prompt.Option, len(plugins))
	for i, p := range plugins {
		opts[i] = prompt.Option{Name: p.Name, Description: p.Description}
	}
	return opts
}

// registerDefaults installs the built-in behavior for every extension point.
// It must run after plugin initialization: bail hooks stop at the first
// result, so anything registered here only acts when no plugin did.
func (w *Wizard) registerDefaults() {
	w.host.Hooks.RepoIdentity.Tap("default", func(_ context.Context, dir string) (config.Repo, bool, error) {
		// The origin remote, when present, prefills the form.
		ownerDefault, repoDefault := "", filepath.Base(absDir(dir))
		if owner, repo, ok := git.Remote(dir); ok {
			ownerDefault, repoDefault = owner, repo
		}
		values, err := w.prompter.Form("Repository", []prompt.Field{
			{Key: "owner", Message: "GitHub organization or user", Default: ownerDefault},
			{Key: "repo", Message: "Repository name", Default: repoDefault},
		}, func(values map[string]string) error {
			if values["owner"] == "" {
				return errors.Wrap(errors.ErrMissingName, "owner")
			}
			if values["repo"] == "" {
				return errors.Wrap(errors.ErrMissingName, "repo")
			}
			return nil
		})
		if err != nil {
			return config.Repo{}, false, err
		}
		return config.Repo{Owner: values["owner"], Repo: values["repo"]}, true, nil
	})

	w.host.Hooks.AuthorIdentity.Tap("default", func(_ context.Context, dir string) (config.Author, bool, error) {
		// Saved user defaults win over git config.
		nameDefault, emailDefault := w.userDefaults.Author.Name, w.userDefaults.Author.Email
		if nameDefault == "" || emailDefault == "" {
			gitName, gitEmail := git.Author(dir)
			if nameDefault == "" {
				nameDefault = gitName
			}
			if emailDefault == "" {
				emailDefault = gitEmail
			}
		}
		values, err := w.prompter.Form("Release author", []prompt.Field{
			{Key: "name", Message: "Name", Default: nameDefault},
			{Key: "email", Message: "Email", Default: emailDefault},
		}, nil)
		if err != nil {
			return config.Author{}, false, err
		}
		return config.Author{Name: values["name"], Email: values["email"]}, true, nil
	})

	w.host.Hooks.EnvRequests.Tap("default", func(_ context.Context, acc []envfile.Request) ([]envfile.Request, error) {
		return append(acc, envfile.Request{
			Name:    "GH_TOKEN",
			Message: "Enter a GitHub personal access token with repo scope",
		}), nil
	})

	w.host.Hooks.Persist.Tap("default", func(_ context.Context, rec config.Record) (string, bool, error) {
		data, err := config.Encode(&rec, w.format)
		if err != nil {
			return "", false, err
		}
		path := paths.RCFile(w.dir, w.format.Ext())
		if err := fileutil.AtomicWriteFile(path, data, 0644); err != nil {
			return "", false, err
		}
		return filepath.Base(path), true, nil
	})
}

func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// materializeEnv runs the collect-env-requests waterfall seeded empty,
// filters out variables already persisted, and hands the remainder to the
// materializer.
func (w *Wizard) materializeEnv(ctx context.Context) error {
	reqs, err := w.host.Hooks.EnvRequests.Run(ctx, w.log, []envfile.Request{})
	if err != nil {
		return errors.Wrap(err, "collecting env requests")
	}

	missing, err := envfile.Missing(paths.EnvPath(w.dir), reqs)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		w.log.Debug("no env variables to collect")
		return nil
	}

	m := &envfile.Materializer{
		Path:        paths.EnvPath(w.dir),
		IgnorePath:  paths.IgnorePath(w.dir),
		IgnoreEntry: paths.EnvFile,
		Prompter:    w.prompter,
		Log:         w.log,
	}
	wrote, err := m.Materialize(missing)
	if err != nil {
		return err
	}
	if wrote {
		fmt.Fprintf(w.out, "Wrote %s\n", paths.EnvFile)
	}
	return nil
}

// editLabels runs the label editor: an optional review of the built-in
// defaults, then brand-new labels until the user declines.
func (w *Wizard) editLabels(rec *config.Record) error {
	editor := labels.NewEditor(w.prompter, w.log)

	review, err := w.prompter.Confirm("Customize the default release labels?", false)
	if err != nil {
		return err
	}
	if review {
		overrides, err := editor.EditDefaults()
		if err != nil {
			return err
		}
		rec.Labels = append(rec.Labels, overrides...)
	}

	added, err := editor.CollectNew()
	if err != nil {
		return err
	}
	rec.Labels = append(rec.Labels, added...)
	return nil
}
