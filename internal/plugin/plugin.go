// Package plugin resolves plugin identifiers to loaded plugin units and lets
// them tap the extension-point bus before the pipeline runs.
//
// The plugin menu is configuration-time data: two literal tables, one for
// release targets (exactly one is chosen) and one for feature plugins (any
// subset). Resolution of an unknown identifier is fatal for the whole run.
package plugin

import (
	"context"
	"log/slog"

	"github.com/davrd/autorel/internal/config"
	"github.com/davrd/autorel/internal/envfile"
	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/hooks"
	"github.com/davrd/autorel/internal/prompt"
)

// Kind distinguishes release targets from feature plugins.
type Kind int

const (
	// ReleaseTarget plugins publish the package somewhere. Exactly one is
	// selected per configuration.
	ReleaseTarget Kind = iota

	// Feature plugins augment the release process. Zero or more may be
	// selected.
	Feature
)

// InitFunc is a plugin's optional initialization entry point. It runs before
// any pipeline stage and may register handlers on the host's hooks.
type InitFunc func(host *Host) error

// Plugin is a loaded plugin unit.
type Plugin struct {
	// Name is the short identifier users select and the record stores.
	Name string

	// Description is shown in the selection menu.
	Description string

	Kind Kind

	// Init, when non-nil, registers bus handlers before the pipeline runs.
	Init InitFunc

	// NewOptions, when non-nil, returns a pointer to the plugin's typed
	// options struct, used to validate an options payload.
	NewOptions func() any

	// Options is the payload this unit was resolved with, if any.
	Options map[string]any
}

// Hooks bundles the named extension points of the setup pipeline. Identity
// hooks receive the project directory; the configure hook receives a plugin
// identifier; the persist hook receives the finished record and yields the
// artifact name.
type Hooks struct {
	RepoIdentity    *hooks.Bail[string, config.Repo]
	AuthorIdentity  *hooks.Bail[string, config.Author]
	ConfigurePlugin *hooks.Bail[string, config.PluginEntry]
	EnvRequests     *hooks.Waterfall[[]envfile.Request]
	Persist         *hooks.Bail[config.Record, string]
}

// NewHooks creates the extension points with no handlers registered.
func NewHooks() *Hooks {
	return &Hooks{
		RepoIdentity:    hooks.NewBail[string, config.Repo]("resolve-repository-identity"),
		AuthorIdentity:  hooks.NewBail[string, config.Author]("resolve-author-identity"),
		ConfigurePlugin: hooks.NewBail[string, config.PluginEntry]("configure-plugin"),
		EnvRequests:     hooks.NewWaterfall[[]envfile.Request]("collect-env-requests"),
		Persist:         hooks.NewBail[config.Record, string]("persist-configuration"),
	}
}

// Host is the pipeline as seen by a plugin's Init: the extension points plus
// enough context to register useful handlers.
type Host struct {
	Hooks *Hooks
	Log   *slog.Logger

	// Dir is the project directory the configuration is built for.
	Dir string

	// Prompter is the pipeline's interactive surface. Handlers must treat
	// it as optional and fall through when it is nil.
	Prompter prompt.Prompter
}

// releaseTargets is the fixed release-target menu, in display order.
var releaseTargets = []Plugin{
	{
		Name:        "npm",
		Description: "Publish the package to the npm registry",
		Kind:        ReleaseTarget,
		Init:        npmInit,
		NewOptions:  func() any { return &NPMOptions{} },
	},
	{
		Name:        "gem",
		Description: "Publish the package to rubygems",
		Kind:        ReleaseTarget,
	},
	{
		Name:        "crates",
		Description: "Publish the crate to crates.io",
		Kind:        ReleaseTarget,
	},
	{
		Name:        "maven",
		Description: "Publish the artifact to a maven repository",
		Kind:        ReleaseTarget,
	},
	{
		Name:        "chrome",
		Description: "Publish the extension to the Chrome Web Store",
		Kind:        ReleaseTarget,
		Init:        chromeInit,
	},
	{
		Name:        "git-tag",
		Description: "Only tag the release commit, publish nowhere",
		Kind:        ReleaseTarget,
	},
}

// features is the fixed feature-plugin menu, in display order.
var features = []Plugin{
	{
		Name:        "all-contributors",
		Description: "Track contributions of all kinds in the README",
		Kind:        Feature,
	},
	{
		Name:        "conventional-commits",
		Description: "Derive version bumps from conventional commit messages",
		Kind:        Feature,
	},
	{
		Name:        "first-time-contributor",
		Description: "Thank first-time contributors in release notes",
		Kind:        Feature,
	},
	{
		Name:        "omit-commits",
		Description: "Filter commits out of release notes by account or text",
		Kind:        Feature,
	},
	{
		Name:        "released",
		Description: "Comment on issues and PRs once they ship in a release",
		Kind:        Feature,
	},
	{
		Name:        "slack",
		Description: "Post release notes to a Slack channel",
		Kind:        Feature,
		Init:        slackInit,
		NewOptions:  func() any { return &SlackOptions{} },
	},
	{
		Name:        "jira",
		Description: "Link Jira tickets mentioned in PR titles",
		Kind:        Feature,
		NewOptions:  func() any { return &JiraOptions{} },
	},
}

// ReleaseTargets returns the release-target menu.
func ReleaseTargets() []Plugin {
	return releaseTargets
}

// Features returns the feature-plugin menu.
func Features() []Plugin {
	return features
}

// Resolve turns a plugin identifier and an optional options payload into a
// loaded plugin unit. An unknown identifier returns ErrUnknownPlugin wrapped
// with the identifier; the caller must abort the run.
func Resolve(name string, options map[string]any) (*Plugin, error) {
	for _, table := range [][]Plugin{releaseTargets, features} {
		for i := range table {
			if table[i].Name != name {
				continue
			}
			p := table[i]
			if err := p.ValidateOptions(options); err != nil {
				return nil, err
			}
			p.Options = options
			return &p, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrUnknownPlugin, "%q", name)
}

// npmInit requests the npm publish token.
func npmInit(host *Host) error {
	host.Hooks.EnvRequests.Tap("npm", func(_ context.Context, acc []envfile.Request) ([]envfile.Request, error) {
		return append(acc, envfile.Request{
			Name:    "NPM_TOKEN",
			Message: "Enter an npm token with publish access",
		}), nil
	})
	return nil
}

// chromeInit requests the Chrome Web Store API credentials.
func chromeInit(host *Host) error {
	host.Hooks.EnvRequests.Tap("chrome", func(_ context.Context, acc []envfile.Request) ([]envfile.Request, error) {
		return append(acc,
			envfile.Request{Name: "EXTENSION_ID", Message: "Enter the Chrome Web Store extension id"},
			envfile.Request{Name: "CLIENT_ID", Message: "Enter the Chrome Web Store client id"},
			envfile.Request{Name: "CLIENT_SECRET", Message: "Enter the Chrome Web Store client secret"},
			envfile.Request{Name: "REFRESH_TOKEN", Message: "Enter the Chrome Web Store refresh token"},
		), nil
	})
	return nil
}

// slackInit shapes the slack record entry by asking for the webhook URL up
// front; a blank answer falls through to the bare identifier and the webhook
// is collected as an env variable instead.
func slackInit(host *Host) error {
	configured := false

	host.Hooks.ConfigurePlugin.Tap("slack", func(_ context.Context, name string) (config.PluginEntry, bool, error) {
		if name != "slack" || host.Prompter == nil {
			return config.PluginEntry{}, false, nil
		}
		url, err := host.Prompter.Input("Slack incoming-webhook URL (leave blank to configure later)", "")
		if err != nil {
			return config.PluginEntry{}, false, err
		}
		if url == "" {
			return config.PluginEntry{}, false, nil
		}
		options := map[string]any{"url": url}
		var so SlackOptions
		if err := DecodeOptions(options, &so); err != nil {
			return config.PluginEntry{}, false, err
		}
		host.Log.Debug("slack webhook recorded")
		configured = so.URL != ""
		return config.PluginEntry{Name: name, Options: options}, true, nil
	})

	host.Hooks.EnvRequests.Tap("slack", func(_ context.Context, acc []envfile.Request) ([]envfile.Request, error) {
		// The entry already carries the webhook; asking again would
		// persist the same credential twice.
		if configured {
			return acc, nil
		}
		return append(acc, envfile.Request{
			Name:    "SLACK_WEBHOOK_URL",
			Message: "Enter the Slack incoming-webhook URL",
		}), nil
	})
	return nil
}
