package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/zgent/internal/branding"
	"github.com/agentx-labs/zgent/internal/fsutil"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys recognized in config.yaml and as ZGENT_* environment variables.
const (
	KeyDataDir         = "data_dir"
	KeyArtifactRoot    = "artifact_root"
	KeyHistoryCapacity = "history_capacity"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
)

// DefaultHistoryCapacity is the number of operations kept in memory by a
// CRUD engine when nothing else is configured.
const DefaultHistoryCapacity = 100

// Settings is the resolved view of every key the CLI consumes.
type Settings struct {
	DataDir         string
	ArtifactRoot    string
	HistoryCapacity int
	LogLevel        string
	LogFormat       string
}

// Dir returns the path to the Zgent config directory (~/.zgent/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.zgent/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyDataDir, "data")
	viper.SetDefault(KeyArtifactRoot, ".")
	viper.SetDefault(KeyHistoryCapacity, DefaultHistoryCapacity)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "console")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the settings currently visible to Viper. Load must have
// been called first for file and environment values to apply.
func Current() Settings {
	capacity := viper.GetInt(KeyHistoryCapacity)
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return Settings{
		DataDir:         viper.GetString(KeyDataDir),
		ArtifactRoot:    viper.GetString(KeyArtifactRoot),
		HistoryCapacity: capacity,
		LogLevel:        viper.GetString(KeyLogLevel),
		LogFormat:       viper.GetString(KeyLogFormat),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	exists, err := fsutil.Exists(configFile)
	if err != nil {
		return fmt.Errorf("checking config file %s: %w", configFile, err)
	}
	if !exists {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
