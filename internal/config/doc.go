// Package config defines the configuration record the setup pipeline
// accumulates and persists: repository and author identity, API endpoint
// overrides, the release-label gate, the ordered plugin sequence, and label
// definitions.
//
// The artifact is written at the project root as .autorelrc.yaml, .toml, or
// .json. Plugin entries use an identifier-or-pair encoding: a bare plugin is
// a plain string, a configured plugin is a two-element [name, options]
// sequence. Loading goes through viper so every supported encoding reads
// through one code path.
package config
