package config

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/ctxutil"
	"github.com/mrz1836/gitassist/internal/errors"
)

//nolint:gochecknoglobals // Package-level compiled regexes
var (
	gitVersionRe     = regexp.MustCompile(`git version (\d+\.\d+(?:\.\d+)?)`)
	mavenVersionRe   = regexp.MustCompile(`Apache Maven (\d+\.\d+(?:\.\d+)?)`)
	jqVersionRe      = regexp.MustCompile(`jq-(\d+\.\d+(?:\.\d+)?)`)
	scannerVersionRe = regexp.MustCompile(`SonarScanner(?: CLI)? (\d+\.\d+(?:\.\d+)?)`)
	genericVersionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)
)

// ToolStatus represents the installation status of an external tool.
type ToolStatus int

const (
	// ToolStatusMissing indicates the tool is not installed.
	ToolStatusMissing ToolStatus = iota

	// ToolStatusInstalled indicates the tool is installed and meets version requirements.
	ToolStatusInstalled

	// ToolStatusOutdated indicates the tool is installed but below the minimum version.
	ToolStatusOutdated
)

const maxVersionSegments = 3

// String returns a human-readable representation of the tool status.
func (s ToolStatus) String() string {
	switch s {
	case ToolStatusInstalled:
		return "installed"
	case ToolStatusMissing:
		return "missing"
	case ToolStatusOutdated:
		return "outdated"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the status as its string form.
func (s ToolStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Tool is an external tool one of the stages shells out to.
type Tool struct {
	Name           string     `json:"name"`
	Required       bool       `json:"required"`
	UsedBy         string     `json:"used_by"`
	MinVersion     string     `json:"min_version,omitempty"`
	CurrentVersion string     `json:"current_version,omitempty"`
	Status         ToolStatus `json:"status"`
	InstallHint    string     `json:"install_hint"`
}

// ToolDetectionResult holds the results of detecting all tools.
type ToolDetectionResult struct {
	Tools              []Tool `json:"tools"`
	HasMissingRequired bool   `json:"has_missing_required"`
}

// MissingRequiredTools returns the required tools that are missing or outdated.
func (r *ToolDetectionResult) MissingRequiredTools() []Tool {
	var missing []Tool
	for _, tool := range r.Tools {
		if tool.Required && tool.Status != ToolStatusInstalled {
			missing = append(missing, tool)
		}
	}
	return missing
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the PATH.
	LookPath(file string) (string, error)

	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// DefaultCommandExecutor implements CommandExecutor using os/exec.
type DefaultCommandExecutor struct{}

// LookPath searches for an executable in the PATH.
func (e *DefaultCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its combined output.
func (e *DefaultCommandExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(output), err
}

// ToolDetector checks external tool availability.
type ToolDetector struct {
	executor CommandExecutor
}

// NewToolDetector creates a ToolDetector backed by os/exec.
func NewToolDetector() *ToolDetector {
	return &ToolDetector{executor: &DefaultCommandExecutor{}}
}

// NewToolDetectorWithExecutor creates a ToolDetector with a custom executor.
func NewToolDetectorWithExecutor(executor CommandExecutor) *ToolDetector {
	return &ToolDetector{executor: executor}
}

type toolConfig struct {
	name        string
	versionFlag string
	minVersion  string
	required    bool
	usedBy      string
	installHint string
	parseFunc   func(output string) string
}

func getToolConfigs() []toolConfig {
	return []toolConfig{
		{
			name:        constants.ToolGit,
			versionFlag: constants.VersionFlagStandard,
			minVersion:  constants.MinVersionGit,
			required:    true,
			usedBy:      "commit, push, clean-branches",
			installHint: "Install Git from https://git-scm.com/downloads (version 2.20+)",
			parseFunc:   matchFirst(gitVersionRe),
		},
		{
			name:        constants.ToolMaven,
			versionFlag: constants.VersionFlagMaven,
			minVersion:  constants.MinVersionMaven,
			required:    true,
			usedBy:      constants.StageBuild,
			installHint: "Install Maven from https://maven.apache.org/download.cgi",
			parseFunc:   matchFirst(mavenVersionRe),
		},
		{
			name:        constants.ToolSonarScanner,
			versionFlag: constants.VersionFlagStandard,
			usedBy:      constants.StageQualityGate,
			installHint: "Install the SonarScanner CLI from https://docs.sonarsource.com/sonarqube/latest/analyzing-source-code/scanners/sonarscanner/",
			parseFunc:   matchFirst(scannerVersionRe),
		},
		{
			name:        constants.ToolJQ,
			versionFlag: constants.VersionFlagStandard,
			minVersion:  constants.MinVersionJQ,
			usedBy:      constants.StageQualityGate,
			installHint: "Install jq: brew install jq",
			parseFunc:   matchFirst(jqVersionRe),
		},
		{
			name:        constants.ToolSnyk,
			versionFlag: constants.VersionFlagStandard,
			usedBy:      constants.StageVulnerabilityGate,
			installHint: "Install the Snyk CLI: npm install -g snyk",
			parseFunc:   matchFirst(genericVersionRe),
		},
	}
}

// Detect probes every known tool concurrently.
// Results are sorted by tool name.
func (d *ToolDetector) Detect(ctx context.Context) (*ToolDetectionResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	detectCtx, cancel := context.WithTimeout(ctx, constants.ToolDetectionTimeout)
	defer cancel()

	configs := getToolConfigs()
	result := &ToolDetectionResult{Tools: make([]Tool, 0, len(configs))}
	var resultMu sync.Mutex

	g, gCtx := errgroup.WithContext(detectCtx)
	for _, cfg := range configs {
		cfg := cfg
		g.Go(func() error {
			tool := d.detectTool(gCtx, cfg)
			resultMu.Lock()
			result.Tools = append(result.Tools, tool)
			resultMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to detect tools: %w", err)
	}

	sort.Slice(result.Tools, func(i, j int) bool { return result.Tools[i].Name < result.Tools[j].Name })
	result.HasMissingRequired = len(result.MissingRequiredTools()) > 0

	return result, nil
}

// Require checks, one by one, that every named tool is on PATH.
// It returns ErrMissingRequiredTools naming all tools that are absent.
func (d *ToolDetector) Require(ctx context.Context, names ...string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	var missing []string
	for _, name := range names {
		if _, err := d.executor.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Wrapf(errors.ErrMissingRequiredTools, "not found on PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (d *ToolDetector) detectTool(ctx context.Context, cfg toolConfig) Tool {
	tool := Tool{
		Name:        cfg.name,
		Required:    cfg.required,
		UsedBy:      cfg.usedBy,
		MinVersion:  cfg.minVersion,
		InstallHint: cfg.installHint,
		Status:      ToolStatusMissing,
	}

	if _, err := d.executor.LookPath(cfg.name); err != nil {
		return tool
	}

	output, err := d.executor.Run(ctx, cfg.name, cfg.versionFlag)
	tool.Status = ToolStatusInstalled
	if err != nil {
		tool.CurrentVersion = "unknown"
		return tool
	}

	tool.CurrentVersion = cfg.parseFunc(output)
	if tool.CurrentVersion == "" {
		tool.CurrentVersion = "unknown"
		return tool
	}

	if cfg.minVersion != "" && CompareVersions(tool.CurrentVersion, cfg.minVersion) < 0 {
		tool.Status = ToolStatusOutdated
	}
	return tool
}

func matchFirst(re *regexp.Regexp) func(string) string {
	return func(output string) string {
		if matches := re.FindStringSubmatch(output); len(matches) >= 2 {
			return matches[1]
		}
		return ""
	}
}

// CompareVersions compares two dotted versions and returns -1, 0 or 1.
func CompareVersions(current, required string) int {
	currentParts := parseVersionParts(strings.TrimPrefix(current, "v"))
	requiredParts := parseVersionParts(strings.TrimPrefix(required, "v"))

	for i := 0; i < maxVersionSegments; i++ {
		if currentParts[i] < requiredParts[i] {
			return -1
		}
		if currentParts[i] > requiredParts[i] {
			return 1
		}
	}
	return 0
}

func parseVersionParts(version string) [maxVersionSegments]int {
	var parts [maxVersionSegments]int
	segments := strings.Split(version, ".")

	for i := 0; i < len(segments) && i < maxVersionSegments; i++ {
		numStr := segments[i]
		for j, c := range numStr {
			if c < '0' || c > '9' {
				numStr = numStr[:j]
				break
			}
		}
		if numStr != "" {
			parts[i], _ = strconv.Atoi(numStr)
		}
	}
	return parts
}

// FormatMissingToolsError renders the missing tools with install hints.
func FormatMissingToolsError(missing []Tool) string {
	if len(missing) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing required tools:\n\n")
	for _, tool := range missing {
		status := "missing"
		if tool.Status == ToolStatusOutdated {
			status = fmt.Sprintf("outdated (have %s, need %s)", tool.CurrentVersion, tool.MinVersion)
		}
		fmt.Fprintf(&sb, "  • %s: %s\n", tool.Name, status)
		fmt.Fprintf(&sb, "    Install: %s\n\n", tool.InstallHint)
	}
	return sb.String()
}
