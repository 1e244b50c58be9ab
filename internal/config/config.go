// Package config is the project-wide configuration for the
// dns-orchestrator CLI, populated from command-line flags: the data
// directory and log settings the composition root needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v2"
)

const (
	defaultLogFormat = "text"
	defaultLogLevel  = "info"
)

// Config is the project-wide configuration.
type Config struct {
	ConfigFile string `yaml:"-"`
	DataDir    string `yaml:"dataDir"`
	LogFormat  string `yaml:"logFormat"`
	LogLevel   string `yaml:"logLevel"`
}

// New returns a new Config with nothing populated yet.
func New() *Config {
	return &Config{}
}

// RegisterFlags binds this Config's fields onto app. The caller parses
// app (alongside any of its own subcommands/flags) exactly once,
// afterwards.
func (cfg *Config) RegisterFlags(app *kingpin.Application) {
	app.Flag("config", "optional YAML config file; values in it override flags").
		Envar("DNS_ORCHESTRATOR_CONFIG").
		StringVar(&cfg.ConfigFile)
	app.Flag("data-dir", "directory holding accounts.json, credentials.json and metadata.json").
		Default(defaultDataDir()).
		Envar("DNS_ORCHESTRATOR_DATA_DIR").
		StringVar(&cfg.DataDir)
	app.Flag("log-format", "log output format: text or json").
		Default(defaultLogFormat).
		Envar("DNS_ORCHESTRATOR_LOG_FORMAT").
		EnumVar(&cfg.LogFormat, "text", "json")
	app.Flag("log-level", "log verbosity: debug, info, warn, error").
		Default(defaultLogLevel).
		Envar("DNS_ORCHESTRATOR_LOG_LEVEL").
		StringVar(&cfg.LogLevel)
}

// LoadFile overlays cfg with the YAML config file named by ConfigFile,
// if any. Fields set in the file win over their flag and environment
// counterparts; fields the file omits keep their parsed values.
func (cfg *Config) LoadFile() error {
	if cfg.ConfigFile == "" {
		return nil
	}
	contents, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", cfg.ConfigFile, err)
	}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return fmt.Errorf("parse config file %q: %w", cfg.ConfigFile, err)
	}
	return nil
}

// defaultDataDir mirrors a typical XDG-ish default: $HOME/.dns-orchestrator.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dns-orchestrator"
	}
	return filepath.Join(home, ".dns-orchestrator")
}

// AccountsPath, CredentialsPath and MetadataPath return the three
// file-store paths within DataDir.
func (cfg *Config) AccountsPath() string    { return filepath.Join(cfg.DataDir, "accounts.json") }
func (cfg *Config) CredentialsPath() string { return filepath.Join(cfg.DataDir, "credentials.json") }
func (cfg *Config) MetadataPath() string    { return filepath.Join(cfg.DataDir, "metadata.json") }

// EnsureDataDir creates DataDir if it does not already exist.
func (cfg *Config) EnsureDataDir() error {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir %q: %w", cfg.DataDir, err)
	}
	return nil
}
