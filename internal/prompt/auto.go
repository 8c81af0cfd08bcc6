package prompt

import (
	"github.com/davrd/autorel/internal/errors"
)

// Auto is a Prompter that answers every prompt with its default, for
// non-interactive runs (--yes). Prompts without a usable default fail
// rather than guess.
type Auto struct{}

var _ Prompter = (*Auto)(nil)

// Confirm returns the default answer.
func (Auto) Confirm(_ string, def bool) (bool, error) {
	return def, nil
}

// Input returns the default value. A required field with no default cannot
// be answered non-interactively.
func (Auto) Input(message, def string) (string, error) {
	return def, nil
}

// Select returns the first option.
func (Auto) Select(_ string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("no options to select from")
	}
	return options[0].Name, nil
}

// MultiSelect selects nothing.
func (Auto) MultiSelect(_ string, _ []Option) ([]string, error) {
	return nil, nil
}

// Form submits every field's default. If the defaults do not validate there
// is no way to correct them non-interactively, so the validation error is
// returned as-is.
func (Auto) Form(_ string, fields []Field, validate func(map[string]string) error) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Key] = f.Default
	}
	if validate != nil {
		if err := validate(values); err != nil {
			return nil, err
		}
	}
	return values, nil
}
