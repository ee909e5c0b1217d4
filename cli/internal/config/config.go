// Package config loads the querykit CLI settings from the config file,
// the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/querykit/cli/internal/version"
)

var AppFs = afero.NewOsFs()

const (
	configName = ".querykit"
	envPrefix  = "QUERYKIT"
)

// Config holds the application configuration
type Config struct {
	Dialect     string
	DatabaseURL string
	MaxResults  int
	Debug       bool
	// Requires is a version constraint the CLI must satisfy, e.g. ">= 0.2, < 1.0".
	Requires string
	// File is the config file that was read, if any.
	File string
}

// LoadConfig reads path, or searches ".", $HOME and $HOME/.config/querykit
// for .querykit.yaml when path is empty. QUERYKIT_* variables override the
// file; DATABASE_URL is the fallback for the connection string.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "querykit"))
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("dialect", "generic")
	v.SetDefault("database_url", "")
	v.SetDefault("max_results", 0)
	v.SetDefault("debug", false)
	v.SetDefault("requires", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := loadDotEnv(".env", false); err != nil {
		return nil, err
	}
	if err := loadDotEnv(".env.local", true); err != nil {
		return nil, err
	}

	cfg := &Config{
		Dialect:     v.GetString("dialect"),
		DatabaseURL: v.GetString("database_url"),
		MaxResults:  v.GetInt("max_results"),
		Debug:       v.GetBool("debug"),
		Requires:    v.GetString("requires"),
		File:        v.ConfigFileUsed(),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := version.Check(cfg.Requires); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv exports the variables of name. Unless override is set, variables
// that already hold a value are kept.
func loadDotEnv(name string, override bool) error {
	f, err := AppFs.Open(name)
	if err != nil {
		return nil
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for k, val := range vars {
		if !override && os.Getenv(k) != "" {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return err
		}
	}
	return nil
}

// DefaultPath is where SaveConfig writes when no path is given.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "querykit", configName+".yaml"), nil
}

// SaveConfig writes cfg to path, or to DefaultPath when empty, and returns
// the file written.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := AppFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("dialect", cfg.Dialect)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("max_results", cfg.MaxResults)
	v.Set("debug", cfg.Debug)
	if cfg.Requires != "" {
		v.Set("requires", cfg.Requires)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
