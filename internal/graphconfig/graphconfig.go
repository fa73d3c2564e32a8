// Package graphconfig loads the graphframe.yaml configuration that names a
// backend connection, its credentials, and the batching/audit defaults used
// across a process.
package graphconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level graphframe.yaml document.
type Config struct {
	// URI is the Bolt connection string, e.g. "neo4j://localhost:7687".
	URI string `yaml:"uri"`

	// Username and Password authenticate against the backend. Either may be
	// left empty and supplied instead via GRAPHFRAME_USERNAME/GRAPHFRAME_PASSWORD.
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Database selects a named database on multi-database deployments.
	Database string `yaml:"database,omitempty"`

	// BatchSize overrides write.DefaultBatchSize for every plan compiled
	// under this configuration.
	BatchSize int `yaml:"batch_size,omitempty"`

	// RelationshipPolicy is "single" or "keyed"; see write.RelUpsertPolicy.
	RelationshipPolicy string `yaml:"relationship_policy,omitempty"`

	// AuditLog configures the optional local commit audit trail.
	AuditLog AuditLogConfig `yaml:"audit_log,omitempty"`
}

// AuditLogConfig configures internal/auditlog.
type AuditLogConfig struct {
	// Enabled turns the audit trail on. Defaults to false: a plan compiled
	// without one carries no storage dependency.
	Enabled bool `yaml:"enabled,omitempty"`

	// Path is the SQLite database file. Defaults to "graphframe_audit.db" in
	// the current working directory.
	Path string `yaml:"path,omitempty"`
}

// LoadConfig reads and parses a graphframe.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses graphframe.yaml content from bytes. path is used only
// for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// FindConfig searches for graphframe.yaml starting from dir and walking up
// to parent directories. Returns an empty path and nil error if none is
// found anywhere above dir.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{"graphframe.yaml", "graphframe.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	if c.URI == "" {
		return fmt.Errorf("%s: uri is required", path)
	}
	switch c.RelationshipPolicy {
	case "", "single", "keyed":
	default:
		return fmt.Errorf("%s: relationship_policy must be \"single\" or \"keyed\", got %q", path, c.RelationshipPolicy)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.RelationshipPolicy == "" {
		c.RelationshipPolicy = "single"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 1000
	}
	if c.AuditLog.Enabled && c.AuditLog.Path == "" {
		c.AuditLog.Path = "graphframe_audit.db"
	}
}

// applyEnv lets GRAPHFRAME_USERNAME/GRAPHFRAME_PASSWORD supply credentials
// that callers don't want committed to graphframe.yaml.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("GRAPHFRAME_USERNAME"); ok && c.Username == "" {
		c.Username = v
	}
	if v, ok := os.LookupEnv("GRAPHFRAME_PASSWORD"); ok && c.Password == "" {
		c.Password = v
	}
}
