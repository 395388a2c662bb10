// Package config loads listings settings from .listings.yaml and LISTINGS_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	SourceSample = "sample"
	SourceDir    = "dir"
	SourceHTTP   = "http"
)

// Config holds the resolved settings for a run.
type Config struct {
	Path     string        `json:"path"`
	Source   string        `json:"source"`
	Catalog  string        `json:"catalog"`
	URL      string        `json:"url"`
	Timeout  time.Duration `json:"timeout"`
	Cities   []string      `json:"cities"`
	City     string        `json:"city"`
	Metrics  string        `json:"metrics"`
	DebugLog string        `json:"debugLog"`
}

// BasePath is where the cart is persisted.
func (c *Config) BasePath() string {
	return c.Path
}

// Load reads the config file, if any, and applies env overrides. A missing
// config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.listings.db")
	v.SetDefault("source", SourceSample)
	v.SetDefault("catalog", "./catalog")
	v.SetDefault("url", "")
	v.SetDefault("timeout", "5s")
	v.SetDefault("cities", []string{"berlin", "london"})
	v.SetDefault("city", "london")
	v.SetDefault("metrics", "")
	v.SetDefault("debugLog", "")
	v.SetConfigName(".listings") // .yaml is implicit
	v.SetEnvPrefix("LISTINGS")
	v.AutomaticEnv()
	_ = v.BindEnv("debugLog", "LISTINGS_DEBUG_LOG")

	if override := os.Getenv("LISTINGS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}

	cfg := &Config{
		Path:     path,
		Source:   v.GetString("source"),
		Catalog:  v.GetString("catalog"),
		URL:      v.GetString("url"),
		Timeout:  v.GetDuration("timeout"),
		Cities:   stringSlice(v, "cities"),
		City:     v.GetString("city"),
		Metrics:  v.GetString("metrics"),
		DebugLog: v.GetString("debugLog"),
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringSlice reads a list setting. Env values arrive as one string that
// viper only splits on whitespace, so commas are split here. Empty entries
// are dropped by Normalize.
func stringSlice(v *viper.Viper, key string) []string {
	var values []string
	for _, value := range v.GetStringSlice(key) {
		values = append(values, strings.Split(value, ",")...)
	}
	return values
}

// Normalize lower-cases city names and checks the default city is one of
// the configured cities.
func (c *Config) Normalize() error {
	cities := make([]string, 0, len(c.Cities))
	seen := make(map[string]struct{}, len(c.Cities))
	for _, city := range c.Cities {
		city = strings.ToLower(strings.TrimSpace(city))
		if city == "" {
			continue
		}
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		cities = append(cities, city)
	}
	if len(cities) == 0 {
		return fmt.Errorf("config: no cities configured")
	}
	c.Cities = cities

	c.City = strings.ToLower(strings.TrimSpace(c.City))
	if c.City == "" {
		c.City = cities[0]
	}
	if _, ok := seen[c.City]; !ok {
		return fmt.Errorf("config: city %q is not one of %s", c.City, strings.Join(cities, ", "))
	}

	switch c.Source {
	case SourceSample, SourceDir, SourceHTTP:
	case "":
		c.Source = SourceSample
	default:
		return fmt.Errorf("config: unknown source %q", c.Source)
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return nil
}
