package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/errors"
)

// newViperInstance creates a Viper instance with defaults and the
// GITASSIST_ environment prefix (GITASSIST_GATES_MAX_MAJOR=3).
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("GITASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// Paths names the files Load reads. Empty entries are skipped.
type Paths struct {
	// Global is the user-wide YAML config.
	Global string
	// Project is the repository YAML config.
	Project string
	// KeyValue is the legacy KEY=VALUE file.
	KeyValue string
}

// DefaultPaths returns the standard file locations for the current directory.
func DefaultPaths() Paths {
	p := Paths{
		Project:  ProjectConfigPath(),
		KeyValue: KeyValueConfigPath(),
	}
	if global, err := GlobalConfigPath(); err == nil {
		p.Global = global
	}
	return p
}

// Load reads configuration from the standard locations with proper precedence.
// Missing files are not errors; only unreadable or invalid configuration is.
func Load(ctx context.Context) (*Config, error) {
	return LoadFromPaths(ctx, DefaultPaths())
}

// LoadFromPaths loads configuration from specific file paths.
func LoadFromPaths(ctx context.Context, paths Paths) (*Config, error) {
	v := newViperInstance()

	kv, err := LoadKeyValues(paths.KeyValue)
	if err != nil {
		return nil, err
	}
	v.SetDefault("git.ticket_prefix", kv.Lookup(constants.TicketPrefixKey, constants.DefaultTicketPrefix))

	if err := readLayer(v, paths.Global, false); err != nil {
		return nil, errors.Wrapf(err, "failed to read global config: %s", paths.Global)
	}
	if err := readLayer(v, paths.Project, true); err != nil {
		return nil, errors.Wrapf(err, "failed to read project config: %s", paths.Project)
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Float64("gates.coverage_min_percent", cfg.Gates.CoverageMinPercent).
		Int("gates.max_major", cfg.Gates.MaxMajor).
		Str("git.remote", cfg.Git.Remote).
		Str("git.ticket_prefix", cfg.Git.TicketPrefix).
		Msg("configuration loaded")

	return cfg, nil
}

// readLayer reads one YAML file into v. merge selects MergeInConfig so a
// project file overlays whatever the global file set.
func readLayer(v *viper.Viper, path string, merge bool) error {
	if path == "" || !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	var err error
	if merge {
		err = v.MergeInConfig()
	} else {
		err = v.ReadInConfig()
	}
	if err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// viperDecoderOption handles duration strings and comma separated lists
// coming from environment variables.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
