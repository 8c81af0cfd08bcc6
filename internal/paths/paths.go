package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/davrd/autorel/internal/errors"
)

// AppName is used for user-level config and state directories.
const AppName = "autorel"

// Canonical artifact names at the project root.
const (
	// RCBase is the base name of the persisted configuration artifact.
	// The extension depends on the chosen format (.yaml, .toml, .json).
	RCBase = ".autorelrc"

	// EnvFile holds NAME=value lines for variables the pipeline collected.
	EnvFile = ".env"

	// IgnoreFile is the version-control ignore list that must exclude EnvFile.
	IgnoreFile = ".gitignore"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// StateHome returns the XDG state home directory, used for log files.
func StateHome() string {
	return xdg.StateHome
}

// UserConfigFile returns the path of the user-level defaults file that
// pre-fills author identity prompts.
func UserConfigFile() string {
	return filepath.Join(ConfigHome(), AppName, "config.yaml")
}

// RCFile returns the configuration artifact path inside dir for the given
// file extension (without a leading dot).
func RCFile(dir, ext string) string {
	return filepath.Join(dir, RCBase+"."+ext)
}

// EnvPath returns the env artifact path inside dir.
func EnvPath(dir string) string {
	return filepath.Join(dir, EnvFile)
}

// IgnorePath returns the ignore-list artifact path inside dir.
func IgnorePath(dir string) string {
	return filepath.Join(dir, IgnoreFile)
}
