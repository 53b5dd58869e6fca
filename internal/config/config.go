// Package config provides configuration loading for the helpdesk front-end.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Session  SessionConfig  `yaml:"session"`
	Web      WebConfig      `yaml:"web"`
	LogLevel string         `yaml:"log_level"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Port the server listens on.
	Port int `yaml:"port"`
}

// APIConfig configures the remote helpdesk API the front-end renders.
type APIConfig struct {
	// BaseURL is the root of the remote API, e.g. "https://helpdesk.example.com".
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each outbound request. There is no retry.
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig configures the session store and cookie signing.
type SessionConfig struct {
	// DBPath is the SQLite file holding session and credential rows.
	DBPath string `yaml:"db_path"`
	// Secret signs the session cookie. At least 16 characters.
	Secret string `yaml:"secret"`
	// TTL is the session lifetime from login.
	TTL time.Duration `yaml:"ttl"`
}

// WebConfig configures template and static asset serving.
type WebConfig struct {
	TemplateDir string `yaml:"template_dir"`
	StaticDir   string `yaml:"static_dir"`
	// DevReload re-parses templates when files under TemplateDir change.
	DevReload bool `yaml:"dev_reload"`
}

// Default returns a Config with sensible defaults. The API base URL and the
// session secret have no useful default and must come from the config file or
// environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		API: APIConfig{
			BaseURL: "",
			Timeout: 15 * time.Second,
		},
		Session: SessionConfig{
			DBPath: "data/sessions.db",
			Secret: "",
			TTL:    24 * time.Hour,
		},
		Web: WebConfig{
			TemplateDir: "web/templates",
			StaticDir:   "web/static",
			DevReload:   false,
		},
		LogLevel: "info",
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("session.secret must be at least 16 characters")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Web.TemplateDir == "" {
		return fmt.Errorf("web.template_dir is required")
	}
	return nil
}

// Load reads configuration with the precedence defaults < file < environment.
// path may be empty, in which case only defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays HELPDESK_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("HELPDESK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HELPDESK_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HELPDESK_SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("HELPDESK_SESSION_DB"); v != "" {
		cfg.Session.DBPath = v
	}
	if v := os.Getenv("HELPDESK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
