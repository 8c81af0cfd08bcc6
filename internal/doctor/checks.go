package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/davrd/autorel/internal/config"
	"github.com/davrd/autorel/internal/envfile"
	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/paths"
	"github.com/davrd/autorel/internal/plugin"
)

// secretFilePerm is the target permission for the env artifact (rw-------).
const secretFilePerm os.FileMode = 0600

// ArtifactCheck verifies that a configuration artifact exists and parses.
type ArtifactCheck struct {
	// Dir is the project directory to probe.
	Dir string
}

var _ Check = (*ArtifactCheck)(nil)

func (c *ArtifactCheck) Name() string     { return "artifact" }
func (c *ArtifactCheck) Category() string { return "config" }

// Run executes the artifact diagnostic check.
func (c *ArtifactCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	path := config.Find(c.Dir)
	if path == "" {
		result.Status = SeverityError
		result.Message = "no configuration artifact found"
		result.FixHint = "run 'autorel init' to create one"
		return result
	}

	if _, err := config.Load(path); err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s does not parse: %v", filepath.Base(path), err)
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s loads cleanly", filepath.Base(path))
	return result
}

// PluginsCheck verifies that every configured plugin entry resolves to a
// known plugin with valid options.
type PluginsCheck struct {
	Dir string
}

var _ Check = (*PluginsCheck)(nil)

func (c *PluginsCheck) Name() string     { return "plugins" }
func (c *PluginsCheck) Category() string { return "plugins" }

// Run executes the plugin resolution check.
func (c *PluginsCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	rec, ok := loadRecord(c.Dir)
	if !ok {
		result.Status = SeverityInfo
		result.Message = "skipped: no loadable configuration artifact"
		return result
	}

	var bad []string
	for _, entry := range rec.Plugins {
		if _, err := plugin.Resolve(entry.Name, entry.Options); err != nil {
			bad = append(bad, fmt.Sprintf("%s: %v", entry.Name, err))
		}
	}

	if len(bad) > 0 {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d plugin entries do not resolve", len(bad))
		result.Details = map[string]any{"failures": bad}
		result.FixHint = "remove or correct the entries in the plugins list"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d plugin(s) resolve", len(rec.Plugins))
	return result
}

// LabelsCheck verifies that every label override is well formed and that no
// label name appears twice.
type LabelsCheck struct {
	Dir string
}

var _ Check = (*LabelsCheck)(nil)

func (c *LabelsCheck) Name() string     { return "labels" }
func (c *LabelsCheck) Category() string { return "labels" }

// Run executes the label validation check.
func (c *LabelsCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	rec, ok := loadRecord(c.Dir)
	if !ok {
		result.Status = SeverityInfo
		result.Message = "skipped: no loadable configuration artifact"
		return result
	}

	var invalid []string
	seen := make(map[string]struct{}, len(rec.Labels))
	var dupes []string
	for _, def := range rec.Labels {
		if err := def.Validate(); err != nil {
			invalid = append(invalid, fmt.Sprintf("%s: %v", def.Name, err))
		}
		if _, exists := seen[def.Name]; exists {
			dupes = append(dupes, def.Name)
		}
		seen[def.Name] = struct{}{}
	}

	switch {
	case len(invalid) > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d invalid label(s)", len(invalid))
		result.Details = map[string]any{"failures": invalid}
	case len(dupes) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("duplicate label name(s): %v", dupes)
		result.FixHint = "keep one entry per label name"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d label override(s) valid", len(rec.Labels))
	}
	return result
}

// EnvCheck verifies env artifact hygiene: the file must be excluded from
// version control and must not be world readable. Both issues are fixable.
type EnvCheck struct {
	Dir string

	notIgnored bool
	loosePerms bool
}

var (
	_ Check = (*EnvCheck)(nil)
	_ Fixer = (*EnvCheck)(nil)
)

func (c *EnvCheck) Name() string     { return "env-hygiene" }
func (c *EnvCheck) Category() string { return "env" }

// Run executes the env hygiene check.
func (c *EnvCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}
	c.notIgnored = false
	c.loosePerms = false

	envPath := paths.EnvPath(c.Dir)
	info, err := os.Stat(envPath)
	if os.IsNotExist(err) {
		result.Status = SeverityPass
		result.Message = "no env file present"
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat %s: %v", paths.EnvFile, err)
		return result
	}

	ignored, err := envfile.Ignored(paths.IgnorePath(c.Dir), paths.EnvFile)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read ignore list: %v", err)
		return result
	}
	c.notIgnored = !ignored

	// Unix permission bits don't apply on Windows.
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
		c.loosePerms = true
	}

	switch {
	case c.notIgnored:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s is not excluded from version control", paths.EnvFile)
		result.Fixable = true
		result.FixHint = fmt.Sprintf("add '%s' to %s", paths.EnvFile, paths.IgnoreFile)
	case c.loosePerms:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%s is readable by other users (%s)", paths.EnvFile, formatPermissions(info.Mode()))
		result.Fixable = true
		result.FixHint = "chmod 600 " + envPath
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%s is ignored and private", paths.EnvFile)
	}
	return result
}

// CanFix returns true if Run found issues this check can fix.
func (c *EnvCheck) CanFix() bool {
	return c.notIgnored || c.loosePerms
}

// Fix appends the ignore entry and tightens permissions as needed.
func (c *EnvCheck) Fix() []FixResult {
	var results []FixResult

	if c.notIgnored {
		ignorePath := paths.IgnorePath(c.Dir)
		result := FixResult{Path: ignorePath}
		if err := envfile.EnsureIgnored(ignorePath, paths.EnvFile); err != nil {
			result.Description = fmt.Sprintf("failed to append %s entry: %v", paths.EnvFile, err)
			result.Error = errors.Wrap(err, "appending ignore entry")
		} else {
			result.Fixed = true
			result.Description = fmt.Sprintf("appended '%s'", paths.EnvFile)
		}
		results = append(results, result)
	}

	if c.loosePerms {
		envPath := paths.EnvPath(c.Dir)
		result := FixResult{Path: envPath}
		if err := os.Chmod(envPath, secretFilePerm); err != nil {
			result.Description = fmt.Sprintf("failed to chmod %04o: %v", secretFilePerm, err)
			result.Error = errors.Wrapf(err, "chmod %04o %s", secretFilePerm, envPath)
		} else {
			result.Fixed = true
			result.Description = fmt.Sprintf("chmod %04o", secretFilePerm)
		}
		results = append(results, result)
	}

	return results
}

// DefaultChecks returns the standard check set for a project directory.
func DefaultChecks(dir string) []Check {
	return []Check{
		&ArtifactCheck{Dir: dir},
		&PluginsCheck{Dir: dir},
		&LabelsCheck{Dir: dir},
		&EnvCheck{Dir: dir},
	}
}

// loadRecord loads the project's configuration record, reporting false when
// no artifact exists or it does not parse.
func loadRecord(dir string) (*config.Record, bool) {
	path := config.Find(dir)
	if path == "" {
		return nil, false
	}
	rec, err := config.Load(path)
	if err != nil {
		return nil, false
	}
	return rec, true
}

// formatPermissions renders a file mode's permission bits in octal.
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
