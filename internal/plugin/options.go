package plugin

import (
	"github.com/mitchellh/mapstructure"

	"github.com/davrd/autorel/internal/errors"
)

// NPMOptions configures the npm release target.
type NPMOptions struct {
	// ForcePublish publishes even when no release-worthy commits landed.
	ForcePublish bool `mapstructure:"forcePublish"`

	// SetRcToken writes the npm token into .npmrc during publish.
	SetRcToken bool `mapstructure:"setRcToken"`
}

// SlackOptions configures the slack feature plugin.
type SlackOptions struct {
	// URL is the incoming-webhook URL release notes are posted to.
	URL string `mapstructure:"url"`

	// AtTarget is an optional @-mention prepended to the message.
	AtTarget string `mapstructure:"atTarget"`
}

// JiraOptions configures the jira feature plugin.
type JiraOptions struct {
	// URL is the Jira instance base URL used to link tickets.
	URL string `mapstructure:"url"`
}

// ValidateOptions checks an options payload against the plugin's typed
// options struct. Plugins without a schema accept no options; unknown keys
// are rejected.
func (p *Plugin) ValidateOptions(options map[string]any) error {
	if len(options) == 0 {
		return nil
	}
	if p.NewOptions == nil {
		return errors.Newf("plugin %q does not accept options", p.Name)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      p.NewOptions(),
		ErrorUnused: true,
	})
	if err != nil {
		return errors.Wrap(err, "building options decoder")
	}
	if err := dec.Decode(options); err != nil {
		return errors.Wrapf(err, "invalid options for plugin %q", p.Name)
	}
	return nil
}

// DecodeOptions decodes the payload into out, a pointer to the plugin's
// options struct.
func DecodeOptions(options map[string]any, out any) error {
	if err := mapstructure.Decode(options, out); err != nil {
		return errors.Wrap(err, "decoding plugin options")
	}
	return nil
}
