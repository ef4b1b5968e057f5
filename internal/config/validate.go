package config

import (
	"strings"

	"github.com/mrz1836/gitassist/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - build, quality and vulnerability commands must not be empty
//   - coverage threshold must be within 0..100
//   - issue ceilings must not be negative
//   - a severity cannot be both an abort and a confirm severity
//   - git remote and base branch candidates must not be empty
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateCommands(cfg); err != nil {
		return err
	}
	if err := validateGates(&cfg.Gates); err != nil {
		return err
	}
	return validateGit(&cfg.Git)
}

func validateCommands(cfg *Config) error {
	commands := []struct{ key, value string }{
		{"build.command", cfg.Build.Command},
		{"quality.command", cfg.Quality.Command},
		{"vulnerability.command", cfg.Vulnerability.Command},
	}
	for _, c := range commands {
		if strings.TrimSpace(c.value) == "" {
			return errors.Wrapf(errors.ErrConfigInvalidCommand, "%s must not be empty", c.key)
		}
	}
	return nil
}

func validateGates(g *GatesConfig) error {
	if g.CoverageMinPercent < 0 || g.CoverageMinPercent > 100 {
		return errors.Wrapf(errors.ErrConfigInvalidGates,
			"coverage_min_percent must be between 0 and 100, got %v", g.CoverageMinPercent)
	}
	if g.MaxCritical < 0 || g.MaxBlocker < 0 || g.MaxMajor < 0 {
		return errors.Wrap(errors.ErrConfigInvalidGates, "issue ceilings must not be negative")
	}

	abort := make(map[string]struct{}, len(g.VulnerabilityAbort))
	for _, s := range g.VulnerabilityAbort {
		abort[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, s := range g.VulnerabilityConfirm {
		if _, ok := abort[strings.ToLower(strings.TrimSpace(s))]; ok {
			return errors.Wrapf(errors.ErrConfigInvalidGates,
				"severity %q is listed in both vulnerability_abort and vulnerability_confirm", s)
		}
	}
	return nil
}

func validateGit(g *GitConfig) error {
	if strings.TrimSpace(g.Remote) == "" {
		return errors.Wrap(errors.ErrConfigInvalidGit, "remote must not be empty")
	}
	if len(g.BaseBranches) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidGit, "base_branches must list at least one branch")
	}
	for _, b := range g.BaseBranches {
		if strings.TrimSpace(b) == "" {
			return errors.Wrap(errors.ErrConfigInvalidGit, "base_branches must not contain empty names")
		}
	}
	return nil
}
