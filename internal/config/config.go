// internal/config/config.go
//
// This package handles configuration and the .orgweaver directory structure.
// Every project that uses orgweaver gets a .orgweaver/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/orgweaver/internal/exchange"
	"github.com/kingrea/orgweaver/internal/position"
)

const (
	// Dir is the name of the directory we create in each project
	Dir = ".orgweaver"

	// DefaultAPIKeyEnv is read when advisor.api_key_env is not set.
	DefaultAPIKeyEnv = "ORGWEAVER_OPENAI_API_KEY"

	// DefaultGoals is sent to the recommender when no goals are configured.
	DefaultGoals = "Improve efficiency, clarify reporting lines, and optimize costs."

	defaultProvider = "openai"
	defaultModel    = "gpt-4o-mini"
)

const defaultProjectConfigYAML = `# orgweaver project configuration
version: 1

# Text-generation service used for change summaries and recommendations.
# Set provider: none to work offline. The API key is read from the named
# environment variable, never from this file.
advisor:
  provider: openai
  model: gpt-4o-mini
  api_key_env: ORGWEAVER_OPENAI_API_KEY
  # base_url: http://localhost:8080/v1

# Organisational goals passed to the recommender.
goals: Improve efficiency, clarify reporting lines, and optimize costs.

# Fields shown on each chart node.
display:
  attributes:
    - employeeName
    - positionTitle
    - department
    - proformaCost
    - employeeCategory
    - grade
    - location

export:
  format: csv

# Optional file (csv, json or xlsx) loaded at start. The demo organisation is
# used when empty.
data:
  source: ""
`

// AdvisorConfig selects and configures the text-generation service.
type AdvisorConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// DisplayConfig captures chart presentation preferences.
type DisplayConfig struct {
	Attributes []string `yaml:"attributes"`
}

// ExportConfig captures export preferences.
type ExportConfig struct {
	Format string `yaml:"format"`
}

// DataConfig points at the records loaded on start.
type DataConfig struct {
	Source string `yaml:"source"`
}

// ProjectConfig models .orgweaver/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Advisor AdvisorConfig `yaml:"advisor"`
	Goals   string        `yaml:"goals"`
	Display DisplayConfig `yaml:"display"`
	Export  ExportConfig  `yaml:"export"`
	Data    DataConfig    `yaml:"data"`
}

// Config holds the runtime configuration for orgweaver.
type Config struct {
	// ProjectDir is the directory where the user ran `orgweaver` from
	ProjectDir string

	// ProjectStateDir is ProjectDir/.orgweaver
	ProjectStateDir string

	Project ProjectConfig

	getenv func(string) string
}

// InitDir creates the .orgweaver directory structure in the given project directory.
// This is called when the TUI or a CLI command starts up.
//
// Structure created:
// .orgweaver/
// ├── config.yaml
// ├── logs/       <- session.log
// ├── versions/   <- saved record-set versions
// └── exports/    <- default export destination
func InitDir(projectDir string) error {
	stateDir := filepath.Join(projectDir, Dir)

	dirs := []string{
		filepath.Join(stateDir, "logs"),
		filepath.Join(stateDir, "versions"),
		filepath.Join(stateDir, "exports"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(stateDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:      projectDir,
		ProjectStateDir: filepath.Join(projectDir, Dir),
		Project:         defaultProjectConfig(),
		getenv:          os.Getenv,
	}

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.ProjectStateDir, "logs")
}

// VersionsDir returns the path to the saved versions directory
func (c *Config) VersionsDir() string {
	return filepath.Join(c.ProjectStateDir, "versions")
}

// ExportsDir returns the default export directory
func (c *Config) ExportsDir() string {
	return filepath.Join(c.ProjectStateDir, "exports")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ProjectStateDir, "config.yaml")
}

// Provider returns the configured advisor provider.
func (c *Config) Provider() string {
	return c.Project.Advisor.Provider
}

// Model returns the configured advisor model.
func (c *Config) Model() string {
	return c.Project.Advisor.Model
}

// BaseURL returns the advisor endpoint override, if any.
func (c *Config) BaseURL() string {
	return c.Project.Advisor.BaseURL
}

// APIKey reads the advisor key from the configured environment variable.
func (c *Config) APIKey() string {
	getenv := c.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return strings.TrimSpace(getenv(c.Project.Advisor.APIKeyEnv))
}

// Goals returns the organisational goals text.
func (c *Config) Goals() string {
	return c.Project.Goals
}

// ExportFormat returns the default export format.
func (c *Config) ExportFormat() exchange.Format {
	return exchange.Format(c.Project.Export.Format)
}

// DataSource returns the absolute path of the start-up data file, or "".
func (c *Config) DataSource() string {
	return c.Project.Data.Source
}

// DisplayAttributes returns the fields shown on chart nodes.
func (c *Config) DisplayAttributes() []position.Attribute {
	out := make([]position.Attribute, 0, len(c.Project.Display.Attributes))
	for _, name := range c.Project.Display.Attributes {
		out = append(out, position.Attribute(name))
	}
	return out
}

// SetDisplayAttributes updates the node fields and persists the value back to
// .orgweaver/config.yaml.
func (c *Config) SetDisplayAttributes(attrs []position.Attribute) error {
	if len(attrs) == 0 {
		return fmt.Errorf("config: at least one display attribute is required")
	}
	names := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		if !position.KnownAttribute(string(attr)) {
			return fmt.Errorf("config: unknown display attribute %q", attr)
		}
		names = append(names, string(attr))
	}
	c.Project.Display.Attributes = names
	return c.saveProjectConfig()
}

// SetGoals updates the organisational goals and persists them.
func (c *Config) SetGoals(goals string) error {
	c.Project.Goals = goals
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Advisor.Provider) == "" {
		pc.Advisor.Provider = defaultProvider
	}
	if strings.TrimSpace(pc.Advisor.Model) == "" {
		pc.Advisor.Model = defaultModel
	}
	if strings.TrimSpace(pc.Advisor.APIKeyEnv) == "" {
		pc.Advisor.APIKeyEnv = DefaultAPIKeyEnv
	}
	if strings.TrimSpace(pc.Goals) == "" {
		pc.Goals = DefaultGoals
	}
	if len(pc.Display.Attributes) == 0 {
		for _, attr := range position.DefaultAttributes {
			pc.Display.Attributes = append(pc.Display.Attributes, string(attr))
		}
	}
	if strings.TrimSpace(pc.Export.Format) == "" {
		pc.Export.Format = string(exchange.FormatCSV)
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Advisor.Provider = strings.ToLower(strings.TrimSpace(pc.Advisor.Provider))
	pc.Advisor.Model = strings.TrimSpace(pc.Advisor.Model)
	pc.Advisor.APIKeyEnv = strings.TrimSpace(pc.Advisor.APIKeyEnv)
	pc.Advisor.BaseURL = strings.TrimRight(strings.TrimSpace(pc.Advisor.BaseURL), "/")
	pc.Goals = strings.TrimSpace(pc.Goals)
	pc.Export.Format = strings.ToLower(strings.TrimSpace(pc.Export.Format))
	pc.Data.Source = resolvePath(base, pc.Data.Source)

	seen := map[string]bool{}
	attrs := pc.Display.Attributes[:0]
	for _, name := range pc.Display.Attributes {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		attrs = append(attrs, name)
	}
	pc.Display.Attributes = attrs
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.Advisor.Provider {
	case "openai", "none":
	default:
		return fmt.Errorf("advisor.provider must be 'openai' or 'none'")
	}
	if len(pc.Display.Attributes) == 0 {
		return fmt.Errorf("display.attributes must not be empty")
	}
	for i, name := range pc.Display.Attributes {
		if !position.KnownAttribute(name) {
			return fmt.Errorf("display.attributes[%d]: unknown attribute %q", i, name)
		}
	}
	if _, err := exchange.ParseFormat(pc.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if pc.Data.Source != "" {
		if _, err := exchange.FormatFromPath(pc.Data.Source); err != nil {
			return fmt.Errorf("data.source: %w", err)
		}
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.ProjectStateDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
