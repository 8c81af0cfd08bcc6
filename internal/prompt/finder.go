package prompt

import (
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/davrd/autorel/internal/errors"
)

// Finder is a Prompter that upgrades Select and MultiSelect to an interactive
// fuzzy finder. Confirm, Input, and Form fall through to the embedded
// line-based Reader. Use it only when stdout is a TTY.
type Finder struct {
	*Reader
}

var _ Prompter = (*Finder)(nil)

// NewFinder creates a Finder over stdin/stdout.
func NewFinder() *Finder {
	return &Finder{Reader: NewReader()}
}

// Select opens a fuzzy finder over the options and returns the chosen Name.
func (p *Finder) Select(message string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("no options to select from")
	}

	idx, err := fuzzyfinder.Find(
		options,
		func(i int) string {
			return options[i].Name
		},
		fuzzyfinder.WithHeader(message),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return fmt.Sprintf("%s\n\n%s", options[i].Name, options[i].Description)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrAborted
		}
		return "", errors.Wrap(err, "interactive select")
	}
	return options[idx].Name, nil
}

// MultiSelect opens a fuzzy finder in multi mode. Aborting with no selection
// returns an empty set rather than an error, since an empty subset is valid.
func (p *Finder) MultiSelect(message string, options []Option) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}

	idxs, err := fuzzyfinder.FindMulti(
		options,
		func(i int) string {
			return options[i].Name
		},
		fuzzyfinder.WithHeader(message),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return fmt.Sprintf("%s\n\n%s", options[i].Name, options[i].Description)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "interactive multi-select")
	}

	selected := make([]string, 0, len(idxs))
	for _, i := range idxs {
		selected = append(selected, options[i].Name)
	}
	return selected, nil
}
