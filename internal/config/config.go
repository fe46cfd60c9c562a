// Package config resolves where focuslog keeps its files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// File names inside the data directory.
const (
	CategoriesFile = "categories_and_focuses.txt"
	WorkLogFile    = "work_log.csv"
	DatabaseFile   = "focuslog.db"
	DebugLogFile   = "debug.log"
)

type Config struct {
	Dir   string
	Debug bool
}

func (c *Config) CategoriesPath() string { return filepath.Join(c.Dir, CategoriesFile) }
func (c *Config) WorkLogPath() string    { return filepath.Join(c.Dir, WorkLogFile) }
func (c *Config) DatabasePath() string   { return filepath.Join(c.Dir, DatabaseFile) }
func (c *Config) DebugLogPath() string   { return filepath.Join(c.Dir, DebugLogFile) }

// DefaultDir returns ~/.config/focuslog or the platform equivalent.
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "focuslog"), nil
}

// Load reads FOCUSLOG_DIR and FOCUSLOG_DEBUG from the environment, then an
// optional config.yaml inside the data directory, and creates the
// directory.
func Load() (*Config, error) {
	def, err := DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault("dir", def)
	v.SetDefault("debug", false)
	v.SetEnvPrefix("FOCUSLOG")
	v.AutomaticEnv()

	dir, err := homedir.Expand(v.GetString("dir"))
	if err != nil {
		return nil, fmt.Errorf("expand data dir: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Config{Dir: dir, Debug: v.GetBool("debug")}, nil
}
