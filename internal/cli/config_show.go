package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/gitassist/internal/config"
	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/ctxutil"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceKeyValue indicates the value came from the KEY=VALUE file.
	SourceKeyValue ConfigSource = "config.txt"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// configEntry is one leaf of the effective configuration.
type configEntry struct {
	section string
	key     string
	value   any
}

func (e configEntry) path() string { return e.section + "." + e.key }

func addConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective gitassist configuration with the source of each value:
  - default: built-in default
  - config.txt: .gitassist/config.txt (JIRA_TICKET_PREFIX only)
  - global: ~/.gitassist/config.yaml
  - project: .gitassist/config.yaml
  - env: GITASSIST_* environment variable

Text output is YAML with the source as a trailing comment; --output json
prints the same data as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), flags.Output, config.DefaultPaths())
		},
	})
	root.AddCommand(configCmd)
}

// runConfigShow loads the configuration from paths and prints it.
func runConfigShow(ctx context.Context, w io.Writer, format string, paths config.Paths) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	ctx = GetLogger().WithContext(ctx)
	cfg, err := config.LoadFromPaths(ctx, paths)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	resolver, err := newSourceResolver(paths)
	if err != nil {
		return err
	}
	entries := configEntries(cfg)

	if format == OutputJSON {
		return writeConfigJSON(w, entries, resolver)
	}
	return writeConfigYAML(w, entries, resolver)
}

// configEntries lists every configuration leaf in display order.
func configEntries(cfg *config.Config) []configEntry {
	return []configEntry{
		{"build", "command", cfg.Build.Command},
		{"build", "timeout", cfg.Build.Timeout.String()},
		{"quality", "command", cfg.Quality.Command},
		{"quality", "timeout", cfg.Quality.Timeout.String()},
		{"quality", "coverage_source", cfg.Quality.CoverageSource},
		{"quality", "project_file", cfg.Quality.ProjectFile},
		{"quality", "required_tools", cfg.Quality.RequiredTools},
		{"vulnerability", "command", cfg.Vulnerability.Command},
		{"vulnerability", "timeout", cfg.Vulnerability.Timeout.String()},
		{"gates", "coverage_min_percent", cfg.Gates.CoverageMinPercent},
		{"gates", "max_critical", cfg.Gates.MaxCritical},
		{"gates", "max_blocker", cfg.Gates.MaxBlocker},
		{"gates", "max_major", cfg.Gates.MaxMajor},
		{"gates", "vulnerability_abort", cfg.Gates.VulnerabilityAbort},
		{"gates", "vulnerability_confirm", cfg.Gates.VulnerabilityConfirm},
		{"git", "remote", cfg.Git.Remote},
		{"git", "base_branches", cfg.Git.BaseBranches},
		{"git", "protected_branches", cfg.Git.ProtectedBranches},
		{"git", "ticket_prefix", cfg.Git.TicketPrefix},
		{"reports", "quality_dir", cfg.Reports.QualityDir},
		{"reports", "vulnerability_dir", cfg.Reports.VulnerabilityDir},
	}
}

// sourceResolver decides which layer supplied a key.
type sourceResolver struct {
	global   map[string]bool
	project  map[string]bool
	keyValue map[string]bool
}

func newSourceResolver(paths config.Paths) (*sourceResolver, error) {
	global, err := yamlKeys(paths.Global)
	if err != nil {
		return nil, err
	}
	project, err := yamlKeys(paths.Project)
	if err != nil {
		return nil, err
	}

	kv, err := config.LoadKeyValues(paths.KeyValue)
	if err != nil {
		return nil, err
	}
	keyValue := make(map[string]bool)
	if kv.Lookup(constants.TicketPrefixKey, "") != "" {
		keyValue["git.ticket_prefix"] = true
	}

	return &sourceResolver{global: global, project: project, keyValue: keyValue}, nil
}

// source follows the load precedence: env, project, global, config.txt, default.
func (r *sourceResolver) source(key string) ConfigSource {
	envKey := "GITASSIST_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	switch {
	case os.Getenv(envKey) != "":
		return SourceEnv
	case r.project[key]:
		return SourceProject
	case r.global[key]:
		return SourceGlobal
	case r.keyValue[key]:
		return SourceKeyValue
	default:
		return SourceDefault
	}
}

// yamlKeys returns the dotted keys set in the YAML file at path. A missing
// file has no keys.
func yamlKeys(path string) (map[string]bool, error) {
	keys := make(map[string]bool)
	if path == "" {
		return keys, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // Config file path
	if err != nil {
		if os.IsNotExist(err) {
			return keys, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	flattenKeys("", doc, keys)
	return keys, nil
}

func flattenKeys(prefix string, m map[string]any, keys map[string]bool) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flattenKeys(key, child, keys)
			continue
		}
		keys[key] = true
	}
}

func writeConfigJSON(w io.Writer, entries []configEntry, r *sourceResolver) error {
	sections := make(map[string]map[string]ConfigValueWithSource)
	for _, e := range entries {
		if sections[e.section] == nil {
			sections[e.section] = make(map[string]ConfigValueWithSource)
		}
		sections[e.section][e.key] = ConfigValueWithSource{Value: e.value, Source: r.source(e.path())}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sections)
}

// writeConfigYAML prints the configuration as YAML, annotating every value
// with its source in a line comment.
func writeConfigYAML(w io.Writer, entries []configEntry, r *sourceResolver) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	sections := make(map[string]*yaml.Node)

	for _, e := range entries {
		section, ok := sections[e.section]
		if !ok {
			section = &yaml.Node{Kind: yaml.MappingNode}
			sections[e.section] = section
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: e.section},
				section,
			)
		}

		value := &yaml.Node{}
		if err := value.Encode(e.value); err != nil {
			return fmt.Errorf("encode %s: %w", e.path(), err)
		}
		value.LineComment = "# " + string(r.source(e.path()))
		if value.Kind == yaml.SequenceNode {
			value.Style = yaml.FlowStyle
		}
		section.Content = append(section.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.key},
			value,
		)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return err
	}
	return encoder.Close()
}
