// Package config resolves client settings from defaults, a config file,
// the environment, and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/todo/internal/remote"
)

// Defaults.
const (
	DefaultBaseURL  = "http://127.0.0.1:8080"
	DefaultLogLevel = "info"
	DefaultTheme    = "classic"
)

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

// Endpoints overrides the base URL per operation. Empty fields fall back to BaseURL.
type Endpoints struct {
	List   string `toml:"list" yaml:"list"`
	Create string `toml:"create" yaml:"create"`
	Update string `toml:"update" yaml:"update"`
	Delete string `toml:"delete" yaml:"delete"`
}

// Duration decodes "30s"-style strings from TOML and YAML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler (used by BurntSushi/toml).
func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "0" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the resolved client configuration.
type Config struct {
	BaseURL   string    `toml:"base_url" yaml:"base_url"`
	Resource  string    `toml:"resource" yaml:"resource"`
	Endpoints Endpoints `toml:"endpoints" yaml:"endpoints"`
	Timeout   Duration  `toml:"timeout" yaml:"timeout"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogFile  string `toml:"log_file" yaml:"log_file"`

	Theme   string `toml:"theme" yaml:"theme"`
	NoColor bool   `toml:"no_color" yaml:"no_color"`
	Group   bool   `toml:"group" yaml:"group"`

	// Path of the file the config was read from, if any.
	Source string `toml:"-" yaml:"-"`
}

// Default returns a Config with every default filled in.
func Default() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Resource: remote.DefaultResource,
		LogLevel: DefaultLogLevel,
		Theme:    DefaultTheme,
	}
}

// RemoteEndpoints resolves per-operation base URLs.
func (c *Config) RemoteEndpoints() remote.Endpoints {
	pick := func(v string) string {
		if strings.TrimSpace(v) != "" {
			return v
		}
		return c.BaseURL
	}
	return remote.Endpoints{
		List:   pick(c.Endpoints.List),
		Create: pick(c.Endpoints.Create),
		Update: pick(c.Endpoints.Update),
		Delete: pick(c.Endpoints.Delete),
	}
}

// Validate checks URLs, timeout and theme.
func (c *Config) Validate() error {
	ep := c.RemoteEndpoints()
	for name, raw := range map[string]string{
		"list": ep.List, "create": ep.Create, "update": ep.Update, "delete": ep.Delete,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s endpoint: %w", name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s endpoint: want http(s)://host, got %q", name, raw)
		}
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout: must not be negative")
	}
	if !validTheme(c.Theme) {
		return fmt.Errorf("invalid theme %q: must be one of %v", c.Theme, Themes)
	}
	return nil
}

func validTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}
