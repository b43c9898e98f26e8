package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/helviojunior/pathaudit/internal/tools"
	"github.com/helviojunior/pathaudit/pkg/readers"
	"github.com/helviojunior/pathaudit/pkg/runner"
	"github.com/helviojunior/pathaudit/pkg/runner/rules"
)

// NASHostsEnv overrides the configured NAS host markers (comma separated)
const NASHostsEnv = "PATHAUDIT_NAS_HOSTS"

// Config is the pathaudit configuration file
type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	Server ServerConfig `yaml:"server"`
}

// ScanConfig holds the detection and batch settings
type ScanConfig struct {
	NASHosts      []string `yaml:"nas_hosts"`
	Extensions    []string `yaml:"extensions"`
	MaxFiles      int      `yaml:"max_files"`
	MaxFileSize   string   `yaml:"max_file_size"`
	ContextRadius int      `yaml:"context_radius"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Listen      string `yaml:"listen"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// DefaultConfig returns the built in configuration
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			NASHosts:      append([]string{}, rules.DefaultNASHosts...),
			Extensions:    append([]string{}, readers.DefaultExtensions...),
			MaxFiles:      readers.DefaultMaxFiles,
			MaxFileSize:   "100MiB",
			ContextRadius: runner.DefaultContextRadius,
		},
		Server: ServerConfig{
			Listen:      "127.0.0.1:8080",
			MaxUploadMB: 1024,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if hosts := os.Getenv(NASHostsEnv); hosts != "" {
		c.Scan.NASHosts = splitList(hosts)
	}
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	if len(c.Scan.NASHosts) == 0 {
		return fmt.Errorf("at least one NAS host is required")
	}
	if c.Scan.MaxFiles < 0 {
		return fmt.Errorf("max_files must not be negative")
	}
	if c.Scan.ContextRadius < 0 {
		return fmt.Errorf("context_radius must not be negative")
	}
	if _, err := c.MaxFileSizeBytes(); err != nil {
		return fmt.Errorf("invalid max_file_size %q: %w", c.Scan.MaxFileSize, err)
	}
	return nil
}

// MaxFileSizeBytes parses the human readable size limit
func (c *Config) MaxFileSizeBytes() (int64, error) {
	if c.Scan.MaxFileSize == "" {
		return readers.DefaultMaxFileSize, nil
	}
	n, err := tools.ParseBytes(c.Scan.MaxFileSize)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// Limits returns the batch selection policy
func (c *Config) Limits() readers.Limits {
	limits := readers.DefaultLimits()
	if c.Scan.MaxFiles > 0 {
		limits.MaxFiles = c.Scan.MaxFiles
	}
	if len(c.Scan.Extensions) > 0 {
		limits.Extensions = normalizeExtensions(c.Scan.Extensions)
	}
	if n, err := c.MaxFileSizeBytes(); err == nil && n > 0 {
		limits.MaxFileSize = n
	}
	return limits
}

// Apply copies the scan settings into runner options
func (c *Config) Apply(opts *runner.Options) {
	opts.Scan.NASHosts = append([]string{}, c.Scan.NASHosts...)
	if c.Scan.ContextRadius > 0 {
		opts.Scan.ContextRadius = c.Scan.ContextRadius
	}
	opts.Scan.Limits = c.Limits()
	opts.Scan.MaxFileSize = c.Scan.MaxFileSize
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
