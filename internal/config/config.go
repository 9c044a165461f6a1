// Package config loads scanner settings from an optional YAML file with
// ATLAS_* environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/scan"
)

type Config struct {
	// Roots are the volumes the file-system pass walks. Empty means the
	// fixed local volume default.
	Roots []string `yaml:"roots"`

	// DefinitionsFile is an optional YAML signature overlay merged on top of
	// the builtin database.
	DefinitionsFile string `yaml:"definitions_file"`

	// QuarantineFirst moves removed files into the quarantine jail instead
	// of unlinking them.
	QuarantineFirst bool `yaml:"quarantine_first"`

	// QuarantineDir overrides the default jail location.
	QuarantineDir string `yaml:"quarantine_dir"`

	// ReportDir receives the JSON scan report; empty disables the report.
	ReportDir string `yaml:"report_dir"`

	// OutputFormat is table or json.
	OutputFormat string `yaml:"output_format"`
}

// Load reads path when it exists, then applies environment overrides. A
// missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{OutputFormat: "table"}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ATLAS_ROOTS"); v != "" {
		c.Roots = splitList(v)
	}
	if v := os.Getenv("ATLAS_DEFINITIONS_FILE"); v != "" {
		c.DefinitionsFile = v
	}
	if v := os.Getenv("ATLAS_QUARANTINE_FIRST"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.QuarantineFirst = b
		}
	}
	if v := os.Getenv("ATLAS_QUARANTINE_DIR"); v != "" {
		c.QuarantineDir = v
	}
	if v := os.Getenv("ATLAS_REPORT_DIR"); v != "" {
		c.ReportDir = v
	}
	if v := os.Getenv("ATLAS_OUTPUT_FORMAT"); v != "" {
		c.OutputFormat = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, string(os.PathListSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.OutputFormat != "" && c.OutputFormat != "table" && c.OutputFormat != "json" {
		return fmt.Errorf("invalid output_format: %s", c.OutputFormat)
	}
	for _, root := range c.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("empty scan root")
		}
	}
	return nil
}

// EffectiveRoots resolves the configured roots, falling back to the fixed
// local volume default.
func (c *Config) EffectiveRoots() []string {
	if len(c.Roots) > 0 {
		return c.Roots
	}
	return scan.DefaultRoots()
}
