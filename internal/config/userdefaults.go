package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/pkg/fileutil"
)

// UserDefaults is the optional user-level defaults file
// ($XDG_CONFIG_HOME/autorel/config.yaml). Its values pre-fill prompts; they
// never bypass a stage.
type UserDefaults struct {
	Author Author `yaml:"author"`
}

// LoadUserDefaults reads the defaults file at path. A missing file yields
// zero-valued defaults, not an error.
func LoadUserDefaults(path string) (UserDefaults, error) {
	var defaults UserDefaults

	data, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return defaults, err
	}
	if len(data) == 0 {
		return defaults, nil
	}

	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return UserDefaults{}, errors.Wrapf(err, "parsing %s", path)
	}
	return defaults, nil
}

// SaveUserDefaults writes the defaults file at path, creating parent
// directories as needed.
func SaveUserDefaults(path string, defaults UserDefaults) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating defaults directory")
	}
	return fileutil.AtomicWriteYAML(path, defaults)
}
