// Package config resolves where the work log lives and how it is read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"timetracker/internal/timelog"
)

const (
	ConfigKey         = "TT_CONF"
	DefaultConfigPath = "~/.config/time-tracker/conf.toml"

	LogKey         = "TT_LOG"
	DefaultLogPath = "~/.time-tracker/log.csv"
)

type Config struct {
	// ConfigFile is the config file that was read, or "" if none was found.
	ConfigFile string `mapstructure:"-"`
	// Log is the log location: a file path or a postgres:// or redis:// URL.
	Log string `mapstructure:"log"`
	// Timezone names the IANA zone days are bucketed in. Empty means local time.
	Timezone string `mapstructure:"timezone"`
	Debug    bool   `mapstructure:"debug"`
}

// Load reads the optional config file named by TT_CONF (or the default path)
// and applies the TT_LOG override. Environment beats the file, which beats the
// defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("log", DefaultLogPath)
	v.SetDefault("timezone", "")
	v.SetDefault("debug", false)
	if err := v.BindEnv("log", LogKey); err != nil {
		return nil, err
	}

	cfgPath := os.Getenv(ConfigKey)
	if cfgPath == "" {
		cfgPath = DefaultConfigPath
	}
	cfgPath, err := ExpandPath(cfgPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: config file %s: %v", timelog.ErrParse, cfgPath, err)
		}
		cfg.ConfigFile = cfgPath
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: config: %v", timelog.ErrParse, err)
	}

	cfg.Log, err = ResolveLocation(cfg.Log)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location returns the zone used for calendar days and event times.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", timelog.ErrParse, c.Timezone, err)
	}
	return loc, nil
}

// ExpandPath replaces a leading "~" with the home directory and expands
// $VAR references.
func ExpandPath(p string) (string, error) {
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: expand %q: %w", timelog.ErrIO, p, err)
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}

// ResolveLocation expands a file path log location. URLs are returned as is.
func ResolveLocation(loc string) (string, error) {
	if isURL(loc) {
		return loc, nil
	}
	return ExpandPath(loc)
}

func isURL(loc string) bool {
	scheme, _, ok := strings.Cut(loc, "://")
	return ok && scheme != "" && !strings.ContainsAny(scheme, `/\`)
}
