package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "config.json5"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config is built once per run and passed by value to every component that
// needs it. The With* methods return modified copies.
type Config struct {
	// APIKey is not used by the browser scraper; it is kept so existing
	// config files and environments keep loading.
	APIKey string

	// DefaultLocation is appended to the search when no location is given.
	DefaultLocation      string
	MaxResults           int
	DelayBetweenRequests time.Duration
	Timeout              time.Duration
	Headless             bool
	CategoryFilter       string
	UserAgent            string
	// FormatPhone rewrites phone numbers to a uniform shape; see
	// services.FormatPhone.
	FormatPhone          bool

	ChromeBin   string
	OutputDir   string
	LogFile     string
	PostgresDSN string
}

// fileConfig mirrors the JSON5 config file. Pointers mark keys that may be
// set to their zero value on purpose.
type fileConfig struct {
	APIKey               string   `json:"apiKey"`
	DefaultLocation      string   `json:"defaultLocation"`
	MaxResults           int      `json:"maxResults"`
	DelayBetweenRequests *float64 `json:"delayBetweenRequests"`
	TimeoutSeconds       int      `json:"timeoutSeconds"`
	Headless             *bool    `json:"headless"`
	CategoryFilter       string   `json:"categoryFilter"`
	UserAgent            string   `json:"userAgent"`
	FormatPhone          *bool    `json:"formatPhone"`
	ChromeBin            string   `json:"chromeBin"`
	OutputDir            string   `json:"outputDir"`
	LogFile              string   `json:"logFile"`
	PostgresDSN          string   `json:"postgresDSN"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxResults:           20,
		DelayBetweenRequests: 3 * time.Second,
		Timeout:              15 * time.Second,
		Headless:             true,
		UserAgent:            defaultUserAgent,
		OutputDir:            "outputs",
		LogFile:              "scraper.log",
	}
}

// Load layers the config file at path (and its .local override), then the
// environment (with .env loaded first), over the defaults. A missing file is
// only an error when path is not DefaultPath.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, falling back to system env vars")
	}

	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	fc, err := readConfigFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
	case err != nil:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	default:
		cfg = cfg.applyFile(fc)
	}

	cfg = cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the scraper cannot run with.
func (c Config) Validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("config: maxResults must be positive, got %d", c.MaxResults)
	}
	if c.DelayBetweenRequests < 0 {
		return fmt.Errorf("config: delayBetweenRequests must not be negative, got %v", c.DelayBetweenRequests)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeoutSeconds must be positive, got %v", c.Timeout)
	}
	return nil
}

func (c Config) WithMaxResults(n int) Config {
	c.MaxResults = n
	return c
}

func (c Config) WithHeadless(headless bool) Config {
	c.Headless = headless
	return c
}

func (c Config) WithCategoryFilter(category string) Config {
	c.CategoryFilter = category
	return c
}

func (c Config) WithFormatPhone(on bool) Config {
	c.FormatPhone = on
	return c
}

func (c Config) WithOutputDir(dir string) Config {
	c.OutputDir = dir
	return c
}

// readConfigFile reads name and merges <name>.local.<ext> on top of it when
// present.
func readConfigFile(name string) (fileConfig, error) {
	var out fileConfig

	data, err := os.ReadFile(name)
	if err != nil {
		return out, err
	}
	if err := json5.Unmarshal(data, &out); err != nil {
		return out, err
	}

	ext := filepath.Ext(name)
	localPath := strings.TrimSuffix(name, ext) + ".local" + ext
	localData, err := os.ReadFile(localPath)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, err
	}

	var override fileConfig
	if err := json5.Unmarshal(localData, &override); err != nil {
		return out, fmt.Errorf("%s: %w", localPath, err)
	}
	if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
		return out, err
	}
	slog.Debug("merged config with local overrides", "local", localPath)
	return out, nil
}

func (c Config) applyFile(fc fileConfig) Config {
	if fc.APIKey != "" {
		c.APIKey = fc.APIKey
	}
	if fc.DefaultLocation != "" {
		c.DefaultLocation = fc.DefaultLocation
	}
	if fc.MaxResults != 0 {
		c.MaxResults = fc.MaxResults
	}
	if fc.DelayBetweenRequests != nil {
		c.DelayBetweenRequests = seconds(*fc.DelayBetweenRequests)
	}
	if fc.TimeoutSeconds != 0 {
		c.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	if fc.Headless != nil {
		c.Headless = *fc.Headless
	}
	if fc.CategoryFilter != "" {
		c.CategoryFilter = fc.CategoryFilter
	}
	if fc.UserAgent != "" {
		c.UserAgent = fc.UserAgent
	}
	if fc.FormatPhone != nil {
		c.FormatPhone = *fc.FormatPhone
	}
	if fc.ChromeBin != "" {
		c.ChromeBin = fc.ChromeBin
	}
	if fc.OutputDir != "" {
		c.OutputDir = fc.OutputDir
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.PostgresDSN != "" {
		c.PostgresDSN = fc.PostgresDSN
	}
	return c
}

func (c Config) applyEnv() Config {
	c.APIKey = getEnv("GOOGLE_MAPS_API_KEY", c.APIKey)
	c.DefaultLocation = getEnv("DEFAULT_LOCATION", c.DefaultLocation)
	c.MaxResults = getEnvInt("MAX_RESULTS", c.MaxResults)
	if v := os.Getenv("DELAY_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.DelayBetweenRequests = seconds(f)
		}
	}
	if n := getEnvInt("TIMEOUT_SECONDS", 0); n > 0 {
		c.Timeout = time.Duration(n) * time.Second
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Headless = b
		}
	}
	if v := os.Getenv("FORMAT_PHONE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.FormatPhone = b
		}
	}
	c.CategoryFilter = getEnv("CATEGORY_FILTER", c.CategoryFilter)
	c.UserAgent = getEnv("USER_AGENT", c.UserAgent)
	c.ChromeBin = getEnv("CHROME_BIN", c.ChromeBin)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.PostgresDSN = getEnv("POSTGRES_DSN", c.PostgresDSN)
	return c
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
