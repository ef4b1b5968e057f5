package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mrz1836/gitassist/internal/errors"
)

// KeyValues is a read-only view of a KEY=VALUE configuration file.
// Blank lines and lines starting with # are ignored.
type KeyValues struct {
	v *viper.Viper
}

// LoadKeyValues reads the KEY=VALUE file at path. A missing file yields an
// empty view so every Lookup falls back to its default.
func LoadKeyValues(path string) (*KeyValues, error) {
	v := viper.New()
	kv := &KeyValues{v: v}

	if path == "" || !fileExists(path) {
		return kv, nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("dotenv")
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || isConfigNotFoundError(err) {
			return kv, nil
		}
		return nil, errors.Wrapf(err, "failed to read key/value config: %s", path)
	}
	return kv, nil
}

// Lookup returns the value stored under key, or def when the key is absent
// or blank. Keys are matched case-insensitively.
func (kv *KeyValues) Lookup(key, def string) string {
	if kv == nil || kv.v == nil || !kv.v.IsSet(key) {
		return def
	}
	value := strings.TrimSpace(kv.v.GetString(key))
	if value == "" {
		return def
	}
	return value
}
