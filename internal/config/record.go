package config

import (
	"github.com/davrd/autorel/internal/labels"
)

// Repo identifies the repository releases are cut from.
type Repo struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
}

// Author identifies who release commits are attributed to.
type Author struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// Record is the single accumulating output of the setup pipeline. The wizard
// owns the authoritative copy and merges stage results into it; once
// persistence succeeds it is never modified again.
type Record struct {
	Repo                        string              `json:"repo,omitempty" yaml:"repo,omitempty" toml:"repo,omitempty" mapstructure:"repo"`
	Owner                       string              `json:"owner,omitempty" yaml:"owner,omitempty" toml:"owner,omitempty" mapstructure:"owner"`
	Name                        string              `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" mapstructure:"name"`
	Email                       string              `json:"email,omitempty" yaml:"email,omitempty" toml:"email,omitempty" mapstructure:"email"`
	GithubAPI                   string              `json:"githubApi,omitempty" yaml:"githubApi,omitempty" toml:"githubApi,omitempty" mapstructure:"githubApi"`
	GithubGraphqlAPI            string              `json:"githubGraphqlApi,omitempty" yaml:"githubGraphqlApi,omitempty" toml:"githubGraphqlApi,omitempty" mapstructure:"githubGraphqlApi"`
	OnlyPublishWithReleaseLabel bool                `json:"onlyPublishWithReleaseLabel,omitempty" yaml:"onlyPublishWithReleaseLabel,omitempty" toml:"onlyPublishWithReleaseLabel,omitempty" mapstructure:"onlyPublishWithReleaseLabel"`
	Plugins                     []PluginEntry       `json:"plugins,omitempty" yaml:"plugins,omitempty" toml:"-" mapstructure:"plugins"`
	Labels                      []labels.Definition `json:"labels,omitempty" yaml:"labels,omitempty" toml:"labels,omitempty" mapstructure:"labels"`
}

// ApplyRepo merges a repository identity into the record. Merging is
// monotonic: fields already set are kept, and empty incoming fields never
// erase anything.
func (r *Record) ApplyRepo(id Repo) {
	if r.Owner == "" && id.Owner != "" {
		r.Owner = id.Owner
	}
	if r.Repo == "" && id.Repo != "" {
		r.Repo = id.Repo
	}
}

// ApplyAuthor merges an author identity into the record, monotonically.
func (r *Record) ApplyAuthor(a Author) {
	if r.Name == "" && a.Name != "" {
		r.Name = a.Name
	}
	if r.Email == "" && a.Email != "" {
		r.Email = a.Email
	}
}

// ApplyEnterprise sets custom API endpoints. Unlike the identity merges this
// overwrites by contract: enterprise endpoints supersede the defaults.
func (r *Record) ApplyEnterprise(api, graphqlAPI string) {
	if api != "" {
		r.GithubAPI = api
	}
	if graphqlAPI != "" {
		r.GithubGraphqlAPI = graphqlAPI
	}
}
