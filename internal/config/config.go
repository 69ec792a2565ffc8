// Package config loads and persists vartui settings and resolves the
// credentials used for remote calls.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is the API root used when neither config nor environment set one.
	DefaultBaseURL = "https://var.elaniin.com/api"
	// DefaultTheme is the theme stored in a fresh config.
	DefaultTheme = "tokyo-night"

	appDir   = "vartui"
	fileName = "config.toml"
)

// Config is the persisted user configuration.
type Config struct {
	Token   string
	BaseURL string
	// DefaultDateRange is free text parsed like the range editor input.
	// Empty means "current month to date".
	DefaultDateRange string
	Theme            string
}

// Default returns the configuration used when nothing is stored.
func Default() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Theme:   DefaultTheme,
	}
}

// Store loads and saves a Config.
type Store interface {
	// Load never fails; unreadable or missing files yield Default().
	Load() Config
	Save(cfg Config) error
}

// FileStore persists Config as TOML through viper.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a store backed by path. A nil logger discards output.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileStore{path: path, logger: logger}
}

// DefaultPath returns $VARTUI_CONFIG or <user config dir>/vartui/config.toml.
func DefaultPath() (string, error) {
	if p := os.Getenv("VARTUI_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("toml")
	def := Default()
	v.SetDefault("var_token", def.Token)
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("default_date_range", def.DefaultDateRange)
	v.SetDefault("theme", def.Theme)
	return v
}

func (s *FileStore) Load() Config {
	v := s.newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			s.logger.Info("config_missing", "path", s.path)
		} else {
			s.logger.Warn("config_load_failed", "path", s.path, "error", err.Error())
		}
		return Default()
	}

	cfg := Config{
		Token:            v.GetString("var_token"),
		BaseURL:          v.GetString("base_url"),
		DefaultDateRange: strings.TrimSpace(v.GetString("default_date_range")),
		Theme:            v.GetString("theme"),
	}
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	s.logger.Info("config_loaded", "path", s.path)
	return cfg
}

func (s *FileStore) Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	v := s.newViper()
	v.Set("var_token", cfg.Token)
	v.Set("base_url", cfg.BaseURL)
	v.Set("default_date_range", cfg.DefaultDateRange)
	v.Set("theme", cfg.Theme)
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config %s: %w", s.path, err)
	}
	return nil
}
