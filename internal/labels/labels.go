// Package labels defines release labels: pull-request tags that map to a
// changelog section and a version-bump severity. It carries the built-in
// default set and the interactive editor that lets users override defaults
// or add their own.
package labels

import (
	"github.com/davrd/autorel/internal/errors"
)

// ReleaseType is the version-bump severity a label maps to.
type ReleaseType string

// The allowed release types. A Definition may also leave ReleaseType empty.
const (
	Major   ReleaseType = "major"
	Minor   ReleaseType = "minor"
	Patch   ReleaseType = "patch"
	None    ReleaseType = "none"
	Skip    ReleaseType = "skip"
	Release ReleaseType = "release"
)

// ReleaseTypes returns the allowed release types in display order.
func ReleaseTypes() []ReleaseType {
	return []ReleaseType{Major, Minor, Patch, None, Skip, Release}
}

// Valid reports whether t is one of the allowed release types.
// The empty value is not a valid release type; absence is modeled by the
// Definition leaving the field unset.
func (t ReleaseType) Valid() bool {
	switch t {
	case Major, Minor, Patch, None, Skip, Release:
		return true
	default:
		return false
	}
}

// Definition is a single release label.
type Definition struct {
	// Name is the label text on the pull request. Required. Uniqueness is
	// conventional, not enforced.
	Name string `json:"name" yaml:"name" toml:"name" mapstructure:"name"`

	// ChangelogTitle is the changelog section heading for this label.
	ChangelogTitle string `json:"changelogTitle,omitempty" yaml:"changelogTitle,omitempty" toml:"changelogTitle,omitempty" mapstructure:"changelogTitle"`

	// Description explains the label's effect.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" mapstructure:"description"`

	// ReleaseType maps the label to a version bump. Optional.
	ReleaseType ReleaseType `json:"releaseType,omitempty" yaml:"releaseType,omitempty" toml:"releaseType,omitempty" mapstructure:"releaseType"`

	// Overwrite is set only when this definition supersedes a built-in
	// default of the same name.
	Overwrite bool `json:"overwrite,omitempty" yaml:"overwrite,omitempty" toml:"overwrite,omitempty" mapstructure:"overwrite"`
}

// Validate checks the definition: the name is required and the release type,
// when present, must be one of the allowed values.
func (d Definition) Validate() error {
	if d.Name == "" {
		return errors.Wrap(errors.ErrMissingName, "label")
	}
	if d.ReleaseType != "" && !d.ReleaseType.Valid() {
		return errors.Wrapf(errors.ErrInvalidReleaseType, "%q", d.ReleaseType)
	}
	return nil
}

// equates reports structural equality ignoring the Overwrite flag, which is
// bookkeeping rather than content.
func (d Definition) equates(other Definition) bool {
	return d.Name == other.Name &&
		d.ChangelogTitle == other.ChangelogTitle &&
		d.Description == other.Description &&
		d.ReleaseType == other.ReleaseType
}

// Defaults returns the built-in default label set.
func Defaults() []Definition {
	return []Definition{
		{Name: "major", ChangelogTitle: "💥 Breaking Change", Description: "Increment the major version when merged", ReleaseType: Major},
		{Name: "minor", ChangelogTitle: "🚀 Enhancement", Description: "Increment the minor version when merged", ReleaseType: Minor},
		{Name: "patch", ChangelogTitle: "🐛 Bug Fix", Description: "Increment the patch version when merged", ReleaseType: Patch},
		{Name: "skip-release", Description: "Preserve the current version when merged", ReleaseType: Skip},
		{Name: "release", Description: "Create a release when this pr is merged", ReleaseType: Release},
		{Name: "internal", ChangelogTitle: "🏠 Internal", Description: "Changes only affect the internal API", ReleaseType: None},
		{Name: "documentation", ChangelogTitle: "📝 Documentation", Description: "Changes only affect the documentation", ReleaseType: None},
	}
}
