package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up at the workspace root.
const FileName = "compras.yaml"

// Config represents the top-level compras.yaml configuration.
type Config struct {
	DataDir    string    `yaml:"data_dir"`
	ReportsDir string    `yaml:"reports_dir"`
	Currency   string    `yaml:"currency"`
	Duplicates string    `yaml:"duplicates"` // ask, sum, overwrite, new or cancel
	Git        GitConfig `yaml:"git"`
}

// GitConfig controls the optional git history of the workspace.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a compras.yaml file from disk. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Environment variables that override compras.yaml. A .env file at the
// workspace root is read first; variables already set win over it.
const (
	EnvDataDir    = "COMPRAS_DATA_DIR"
	EnvReportsDir = "COMPRAS_REPORTS_DIR"
	EnvCurrency   = "COMPRAS_CURRENCY"
	EnvDuplicates = "COMPRAS_DUPLICATES"
	EnvAutoCommit = "COMPRAS_GIT_AUTO_COMMIT"
)

// DuplicatePolicies lists the accepted values of Duplicates.
var DuplicatePolicies = []string{"ask", "sum", "overwrite", "new", "cancel"}

// LoadDir reads <root>/compras.yaml, falling back to defaults when the
// workspace has no config file, then applies environment overrides.
func LoadDir(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load(filepath.Join(root, ".env"))
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from COMPRAS_* variables. Empty values are ignored.
func (c *Config) ApplyEnv() error {
	for env, field := range map[string]*string{
		EnvDataDir:    &c.DataDir,
		EnvReportsDir: &c.ReportsDir,
		EnvCurrency:   &c.Currency,
		EnvDuplicates: &c.Duplicates,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
	if v := os.Getenv(EnvAutoCommit); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAutoCommit, v, err)
		}
		c.Git.AutoCommit = b
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir is empty")
	}
	if strings.TrimSpace(c.ReportsDir) == "" {
		problems = append(problems, "reports_dir is empty")
	}
	if !slices.Contains(DuplicatePolicies, c.Duplicates) {
		problems = append(problems, fmt.Sprintf("duplicates %q must be one of %s", c.Duplicates, strings.Join(DuplicatePolicies, ", ")))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		DataDir:    "datos",
		ReportsDir: "reportes",
		Currency:   "$",
		Duplicates: "ask",
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Compras",
			AuthorEmail: "compras@localhost",
		},
	}
}

// Resolve returns p relative to root unless it is already absolute.
func Resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
