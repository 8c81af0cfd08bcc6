package config

import (
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/paths"
)

// formats lists the supported artifact encodings in probe order.
var formats = []Format{FormatYAML, FormatTOML, FormatJSON}

// Find returns the path of an existing configuration artifact in dir, or the
// empty string when none exists. Absence is not an error.
func Find(dir string) string {
	for _, f := range formats {
		path := paths.RCFile(dir, f.Ext())
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads a configuration artifact. Viper sniffs the encoding from the
// file extension, so all supported formats load through the same path.
func Load(path string) (*Record, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var rec Record
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: pluginEntryHook,
		Result:     &rec,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building decoder")
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}

	return &rec, nil
}

// pluginEntryHook teaches mapstructure the identifier-or-pair plugin
// encoding.
func pluginEntryHook(_, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(PluginEntry{}) {
		return data, nil
	}
	return decodePluginEntry(data)
}
