// Package config loads process settings: an optional YAML file, then
// environment variables (with .env support) on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds every setting the CLI and API read at start-up.
type Config struct {
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogPretty bool   `yaml:"log_pretty" json:"log_pretty"`

	APIAddr string `yaml:"api_addr" json:"api_addr"`

	CurrencySymbol string `yaml:"currency_symbol" json:"currency_symbol"`
	ReportTitle    string `yaml:"report_title" json:"report_title"`

	NarrativeModel string `yaml:"narrative_model" json:"narrative_model"`
	GeminiAPIKey   string `yaml:"-" json:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		APIAddr:  ":8080",
	}
}

// Environment variable names.
const (
	EnvConfigFile     = "VALUATION_CONFIG"
	EnvLogLevel       = "VALUATION_LOG_LEVEL"
	EnvLogPretty      = "VALUATION_LOG_PRETTY"
	EnvAPIAddr        = "VALUATION_API_ADDR"
	EnvCurrencySymbol = "VALUATION_CURRENCY_SYMBOL"
	EnvReportTitle    = "VALUATION_REPORT_TITLE"
	EnvNarrativeModel = "VALUATION_NARRATIVE_MODEL"
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
)

// Load reads .env (if present), the YAML file named by VALUATION_CONFIG
// (if set) and finally the environment.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvLogLevel, &c.LogLevel)
	str(EnvAPIAddr, &c.APIAddr)
	str(EnvCurrencySymbol, &c.CurrencySymbol)
	str(EnvReportTitle, &c.ReportTitle)
	str(EnvNarrativeModel, &c.NarrativeModel)
	str(EnvGeminiAPIKey, &c.GeminiAPIKey)

	if v, ok := lookup(EnvLogPretty); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogPretty, err)
		}
		c.LogPretty = b
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	return nil
}
