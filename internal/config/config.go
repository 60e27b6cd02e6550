// Package config resolves where sftm keeps its todo files and how it renders them.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	configFileName = "config.toml"
	todoDirName    = "todofiles"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Root is the per-user sftm directory; it holds config.toml.
	Root string `toml:"-"`

	TodoDir   string `toml:"todo_dir"`
	Theme     string `toml:"theme"`
	Color     string `toml:"color"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. <root>/config.toml
// 3. Environment variables
// Root flags are applied afterwards by the caller through Override.
func Load() (*Config, error) {
	root := RootDir()
	cfg := defaults(root)

	path := filepath.Join(root, configFileName)
	if err := loadFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}

	loadFromEnv(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Override applies non-empty values on top of cfg and re-validates it.
func (c *Config) Override(dir, theme, color, logLevel string) error {
	if dir != "" {
		c.TodoDir = dir
	}
	if theme != "" {
		c.Theme = theme
	}
	if color != "" {
		c.Color = color
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	return c.finalize()
}

// Path returns the config file location.
func (c *Config) Path() string {
	return filepath.Join(c.Root, configFileName)
}

// RootDir returns /home/<user>/.sftm unless SFTM_HOME is set.
func RootDir() string {
	if v := os.Getenv("SFTM_HOME"); v != "" {
		return expandPath(v)
	}
	return filepath.Join("/home", Username(), ".sftm")
}

// Username returns $USER, the OS account name, or "user".
func Username() string {
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "user"
}

func defaults(root string) *Config {
	return &Config{
		Root:      root,
		TodoDir:   filepath.Join(root, todoDirName),
		Theme:     "classic",
		Color:     "auto",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("SFTM_DIR"); v != "" {
		cfg.TodoDir = v
	}
	if v := os.Getenv("SFTM_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("SFTM_COLOR"); v != "" {
		cfg.Color = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Color = "never"
	}
	if v := os.Getenv("SFTM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SFTM_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func (c *Config) finalize() error {
	c.TodoDir = expandPath(c.TodoDir)
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	if c.TodoDir == "" {
		return fmt.Errorf("todo_dir is empty")
	}
	if err := oneOf("theme", c.Theme, "classic", "neon", "mono"); err != nil {
		return err
	}
	if err := oneOf("color", c.Color, "auto", "always", "never"); err != nil {
		return err
	}
	if err := oneOf("log_level", c.LogLevel, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	return oneOf("log_format", c.LogFormat, "text", "json", "logfmt")
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (want %s)", field, value, strings.Join(allowed, "|"))
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
