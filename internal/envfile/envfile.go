// Package envfile materializes the environment variables the pipeline
// collected: it dedupes requests against the existing env artifact, prompts
// for the remaining values, appends NAME=value lines, and keeps the env file
// out of version tracking.
package envfile

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/prompt"
	"github.com/davrd/autorel/pkg/fileutil"
)

// Request asks for one environment variable: the name to store and the
// message shown when prompting for its value.
type Request struct {
	// Name is the variable name, e.g. GH_TOKEN.
	Name string

	// Message is the prompt shown to the user.
	Message string
}

// names parses the variable names present in an env artifact's content.
// Malformed lines and comments are skipped, not rejected.
func names(data []byte) map[string]struct{} {
	present := make(map[string]struct{})
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, _, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name != "" {
			present[name] = struct{}{}
		}
	}
	return present
}

// Missing filters reqs down to variables not already present in the env
// artifact at path. A missing artifact is empty state, not an error.
// Contribution order is preserved; repeats within reqs keep the first
// occurrence.
func Missing(path string, reqs []Request) ([]Request, error) {
	data, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading env file")
	}

	present := names(data)
	var missing []Request
	for _, req := range reqs {
		if _, exists := present[req.Name]; exists {
			continue
		}
		present[req.Name] = struct{}{}
		missing = append(missing, req)
	}
	return missing, nil
}

// Materializer writes missing variables to the env artifact and keeps the
// ignore list current.
type Materializer struct {
	// Path is the env artifact location.
	Path string

	// IgnorePath is the version-control ignore list that must exclude Path.
	IgnorePath string

	// IgnoreEntry is the line ensuring the env artifact stays untracked.
	IgnoreEntry string

	Prompter prompt.Prompter
	Log      *slog.Logger
}

// Materialize asks for confirmation, prompts for each request's value in
// order, appends NAME=value lines to the env artifact, and ensures the
// ignore-list entry exists. It returns false when the user declines, which
// skips the stage without error.
func (m *Materializer) Materialize(reqs []Request) (bool, error) {
	if len(reqs) == 0 {
		return false, nil
	}

	ok, err := m.Prompter.Confirm(fmt.Sprintf("Write %d environment variable(s) to %s?", len(reqs), m.Path), true)
	if err != nil {
		return false, err
	}
	if !ok {
		m.Log.Debug("env materialization declined")
		return false, nil
	}

	existing, err := fileutil.ReadFileIfExists(m.Path)
	if err != nil {
		return false, errors.Wrap(err, "reading env file")
	}

	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		b.WriteByte('\n')
	}

	collected := 0
	for _, req := range reqs {
		value, err := m.Prompter.Input(req.Message, "")
		if err != nil {
			return false, err
		}
		// A blank answer skips the variable rather than persisting an
		// empty assignment.
		if value == "" {
			m.Log.Debug("skipped env variable", "name", req.Name)
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", req.Name, value)
		collected++
		m.Log.Debug("collected env variable", "name", req.Name)
	}
	if collected == 0 {
		return false, nil
	}

	if err := fileutil.AtomicWriteFile(m.Path, []byte(b.String()), 0600); err != nil {
		return false, errors.Wrap(err, "writing env file")
	}

	if err := EnsureIgnored(m.IgnorePath, m.IgnoreEntry); err != nil {
		return false, err
	}
	return true, nil
}

// Ignored reports whether the ignore list at path contains entry as its own
// line. A missing ignore list ignores nothing.
func Ignored(path, entry string) (bool, error) {
	data, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return false, errors.Wrap(err, "reading ignore list")
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return true, nil
		}
	}
	return false, nil
}

// EnsureIgnored makes sure the ignore list at path contains entry as its own
// line, appending it if missing. A missing ignore list is created.
func EnsureIgnored(path, entry string) error {
	ignored, err := Ignored(path, entry)
	if err != nil {
		return err
	}
	if ignored {
		return nil
	}

	data, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return errors.Wrap(err, "reading ignore list")
	}

	var b strings.Builder
	b.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(entry)
	b.WriteByte('\n')

	if err := fileutil.AtomicWriteFile(path, []byte(b.String()), 0644); err != nil {
		return errors.Wrap(err, "writing ignore list")
	}
	return nil
}
