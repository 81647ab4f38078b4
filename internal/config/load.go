package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Flag names registered by BindFlags.
const (
	FlagConfig   = "config"
	FlagBaseURL  = "base-url"
	FlagTimeout  = "timeout"
	FlagLogLevel = "log-level"
	FlagLogFile  = "log-file"
	FlagTheme    = "theme"
	FlagNoColor  = "no-color"
)

// projectFiles are looked up in the working directory, in order.
var projectFiles = []string{"todo.toml", ".todo.toml", "todo.yaml", "todo.yml"}

// BindFlags registers the config flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "config file (toml or yaml)")
	fs.String(FlagBaseURL, "", "base URL of the todo service")
	fs.Duration(FlagTimeout, 0, "per-request timeout (0 = none)")
	fs.String(FlagLogLevel, "", "log level (debug|info|warn|error)")
	fs.String(FlagLogFile, "", "append logs to this file")
	fs.String(FlagTheme, "", "color theme (classic|neon|mono)")
	fs.Bool(FlagNoColor, false, "disable colors")
}

// Load resolves the configuration in priority order:
// 1. Defaults
// 2. Config file (--config, $TODO_CONFIG, project file, user file)
// 3. Environment variables
// 4. Flags set on fs (fs may be nil)
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	path, err := resolveConfigPath(fs)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.Source = path
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveConfigPath(fs *pflag.FlagSet) (string, error) {
	if fs != nil && fs.Changed(FlagConfig) {
		p, err := fs.GetString(FlagConfig)
		if err != nil {
			return "", err
		}
		return p, nil
	}
	if p := strings.TrimSpace(os.Getenv("TODO_CONFIG")); p != "" {
		return p, nil
	}
	for _, name := range projectFiles {
		if fileExists(name) {
			return name, nil
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
			p := filepath.Join(dir, "todo", name)
			if fileExists(p) {
				return p, nil
			}
		}
	}
	return "", nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// loadConfigFile decodes path on top of cfg, picking the codec by extension.
func loadConfigFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml", "":
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
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
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// loadFromEnv overrides config from TODO_* variables and NO_COLOR.
func loadFromEnv(cfg *Config) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"TODO_BASE_URL", &cfg.BaseURL},
		{"TODO_RESOURCE", &cfg.Resource},
		{"TODO_LIST_URL", &cfg.Endpoints.List},
		{"TODO_CREATE_URL", &cfg.Endpoints.Create},
		{"TODO_UPDATE_URL", &cfg.Endpoints.Update},
		{"TODO_DELETE_URL", &cfg.Endpoints.Delete},
		{"TODO_LOG_LEVEL", &cfg.LogLevel},
		{"TODO_LOG_FILE", &cfg.LogFile},
		{"TODO_THEME", &cfg.Theme},
	}
	for _, s := range strs {
		if v := strings.TrimSpace(os.Getenv(s.name)); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("TODO_TIMEOUT"); v != "" {
		if err := cfg.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("TODO_TIMEOUT: %w", err)
		}
	}
	// https://no-color.org: any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	if v := os.Getenv("TODO_GROUP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TODO_GROUP: %w", err)
		}
		cfg.Group = b
	}
	return nil
}

// applyFlags copies every flag the user set explicitly.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	var errs []error
	str := func(name string, dst *string) {
		if !fs.Changed(name) {
			return
		}
		v, err := fs.GetString(name)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = v
	}
	str(FlagBaseURL, &cfg.BaseURL)
	str(FlagLogLevel, &cfg.LogLevel)
	str(FlagLogFile, &cfg.LogFile)
	str(FlagTheme, &cfg.Theme)

	if fs.Changed(FlagTimeout) {
		d, err := fs.GetDuration(FlagTimeout)
		if err != nil {
			errs = append(errs, err)
		}
		cfg.Timeout.Duration = d
	}
	if fs.Changed(FlagNoColor) {
		b, err := fs.GetBool(FlagNoColor)
		if err != nil {
			errs = append(errs, err)
		}
		cfg.NoColor = b
	}
	return errors.Join(errs...)
}
