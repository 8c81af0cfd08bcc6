package labels

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/davrd/autorel/internal/prompt"
)

// Editor drives the interactive label review: walking the built-in defaults
// and collecting brand-new labels.
type Editor struct {
	prompter prompt.Prompter
	log      *slog.Logger
}

// NewEditor creates an Editor on the given prompt surface.
func NewEditor(p prompt.Prompter, log *slog.Logger) *Editor {
	return &Editor{prompter: p, log: log}
}

// releaseTypeHint lists the accepted release types for the form message.
func releaseTypeHint() string {
	types := ReleaseTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, "/")
}

// formFields builds the structured form for a definition. Zero-valued fields
// produce empty defaults, which is how brand-new labels start.
func formFields(def Definition) []prompt.Field {
	return []prompt.Field{
		{Key: "name", Message: "Name", Default: def.Name},
		{Key: "changelogTitle", Message: "Changelog title", Default: def.ChangelogTitle},
		{Key: "description", Message: "Description", Default: def.Description},
		{Key: "releaseType", Message: "Release type (" + releaseTypeHint() + ", empty for none)", Default: string(def.ReleaseType)},
	}
}

// fromForm converts submitted form values into a Definition.
func fromForm(values map[string]string) Definition {
	return Definition{
		Name:           values["name"],
		ChangelogTitle: values["changelogTitle"],
		Description:    values["description"],
		ReleaseType:    ReleaseType(values["releaseType"]),
	}
}

// validateForm is the form-level validation callback: it rejects submissions
// that would produce an invalid Definition, causing a re-prompt.
func validateForm(values map[string]string) error {
	return fromForm(values).Validate()
}

// edit presents one definition for editing and returns the validated result.
func (e *Editor) edit(title string, def Definition) (Definition, error) {
	values, err := e.prompter.Form(title, formFields(def), validateForm)
	if err != nil {
		return Definition{}, err
	}
	return fromForm(values), nil
}

// EditDefaults walks the built-in default labels, presenting each as a
// pre-filled form. It returns only the definitions the user actually changed,
// each marked Overwrite; untouched defaults produce no output.
func (e *Editor) EditDefaults() ([]Definition, error) {
	var overrides []Definition

	for _, def := range Defaults() {
		edited, err := e.edit(fmt.Sprintf("Label %q", def.Name), def)
		if err != nil {
			return nil, err
		}

		if edited.equates(def) {
			e.log.Debug("label unchanged", "label", def.Name)
			continue
		}

		edited.Overwrite = true
		e.log.Debug("label overridden", "label", def.Name)
		overrides = append(overrides, edited)
	}

	return overrides, nil
}

// CollectNew repeatedly offers to add a brand-new label until the user
// declines. New labels use the same form and validation as defaults but
// start empty and never carry the Overwrite flag.
func (e *Editor) CollectNew() ([]Definition, error) {
	var added []Definition

	for {
		more, err := e.prompter.Confirm("Add a custom label?", false)
		if err != nil {
			return nil, err
		}
		if !more {
			return added, nil
		}

		def, err := e.edit("New label", Definition{})
		if err != nil {
			return nil, err
		}
		added = append(added, def)
	}
}
