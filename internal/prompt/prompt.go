// Package prompt provides the interactive surface the setup pipeline runs on:
// confirmations, single and multiple selection, free-form input, and
// structured multi-field forms with validation.
//
// The pipeline only depends on the Prompter interface. Reader is the
// line-based implementation with injectable IO used in tests and piped
// input; Finder upgrades selection prompts to a fuzzy finder on a TTY; Auto
// answers every prompt with its default for non-interactive runs.
package prompt

import (
	"github.com/davrd/autorel/internal/errors"
)

// ErrAborted indicates the user cancelled a prompt (EOF / Ctrl+D).
// Whether that aborts the whole run or just skips a stage is the caller's
// decision.
var ErrAborted = errors.ErrAborted

// Option is a selectable choice.
type Option struct {
	// Name is the value returned when the option is chosen.
	Name string

	// Description is shown next to the name.
	Description string
}

// Field describes one entry of a structured form.
type Field struct {
	// Key identifies the field in the submitted value map.
	Key string

	// Message is the per-field prompt text.
	Message string

	// Default pre-fills the field; submitting an empty line keeps it.
	Default string
}

// Prompter is the opaque ask-the-user capability consumed by the pipeline.
//
// Implementations return ErrAborted when the user cancels; any other error is
// an IO failure.
type Prompter interface {
	// Confirm asks a yes/no question with a default answer.
	Confirm(message string, def bool) (bool, error)

	// Input asks for a single line of text with an optional default.
	Input(message, def string) (string, error)

	// Select asks for exactly one choice and returns its Name.
	Select(message string, options []Option) (string, error)

	// MultiSelect asks for a subset of choices and returns their Names in
	// selection order. An empty selection is valid.
	MultiSelect(message string, options []Option) ([]string, error)

	// Form presents every field, then validates the submitted values as a
	// whole. On validation failure the same form is presented again,
	// pre-filled with the rejected submission, until it validates or the
	// user aborts.
	Form(title string, fields []Field, validate func(map[string]string) error) (map[string]string, error)
}
