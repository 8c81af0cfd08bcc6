package config

import (
	"encoding/json"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/labels"
)

// Format selects the encoding of the persisted configuration artifact.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat indicates an unsupported artifact format name.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat validates a format name. The empty string selects YAML.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, "":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q (supported: yaml, toml, json)", s)
	}
}

// Ext returns the file extension for the format, without a leading dot.
func (f Format) Ext() string {
	return string(f)
}

// tomlRecord mirrors Record for the TOML encoder, which has no marshaler
// hook for the identifier-or-pair plugin encoding.
type tomlRecord struct {
	Repo                        string              `toml:"repo,omitempty"`
	Owner                       string              `toml:"owner,omitempty"`
	Name                        string              `toml:"name,omitempty"`
	Email                       string              `toml:"email,omitempty"`
	GithubAPI                   string              `toml:"githubApi,omitempty"`
	GithubGraphqlAPI            string              `toml:"githubGraphqlApi,omitempty"`
	OnlyPublishWithReleaseLabel bool                `toml:"onlyPublishWithReleaseLabel,omitempty"`
	Plugins                     []any               `toml:"plugins,omitempty"`
	Labels                      []labels.Definition `toml:"labels,omitempty"`
}

func (r *Record) tomlView() tomlRecord {
	view := tomlRecord{
		Repo:                        r.Repo,
		Owner:                       r.Owner,
		Name:                        r.Name,
		Email:                       r.Email,
		GithubAPI:                   r.GithubAPI,
		GithubGraphqlAPI:            r.GithubGraphqlAPI,
		OnlyPublishWithReleaseLabel: r.OnlyPublishWithReleaseLabel,
		Labels:                      r.Labels,
	}
	for _, p := range r.Plugins {
		view.Plugins = append(view.Plugins, p.generic())
	}
	return view
}

// Encode serializes the record in the given format.
func Encode(r *Record, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling YAML")
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshaling JSON")
		}
		return append(data, '\n'), nil
	case FormatTOML:
		data, err := toml.Marshal(r.tomlView())
		if err != nil {
			return nil, errors.Wrap(err, "marshaling TOML")
		}
		return data, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", f)
	}
}
