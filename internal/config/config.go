package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL = "http://localhost:8000"
	DefaultAddr   = ":3000"

	ModeWeb    = "web"
	ModeTUI    = "tui"
	ModeRender = "render"
)

// Environment variables read by FromEnv. The API URL honours the name used by
// the original web front end as a fallback.
const (
	EnvAPIURL       = "PRICEFORM_API_URL"
	EnvPublicAPIURL = "NEXT_PUBLIC_API_URL"
	EnvAddr         = "PRICEFORM_ADDR"
	EnvTimeout      = "PRICEFORM_TIMEOUT"
	EnvTheme        = "PRICEFORM_THEME"
	EnvVariant      = "PRICEFORM_THEME_VARIANT"
	EnvMode         = "PRICEFORM_MODE"
	EnvSchema       = "PRICEFORM_SCHEMA"
	EnvUISchemaDir  = "PRICEFORM_UI_SCHEMA_DIR"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the settings resolved once at startup.
type Config struct {
	// APIURL is the prediction service base URL; requests go to APIURL/predict.
	APIURL string
	// Addr is the listen address in web mode.
	Addr string
	// Timeout bounds each prediction request. Zero means no timeout.
	Timeout time.Duration
	Theme   string
	Variant string
	Mode    string
	// Schema optionally points at an OpenAPI document (file path or URL)
	// replacing the embedded contract.
	Schema string
	// UISchemaDir optionally replaces the embedded UI schema overlay.
	UISchemaDir string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		APIURL: DefaultAPIURL,
		Addr:   DefaultAddr,
		Mode:   ModeWeb,
	}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment and resolves the configuration from it. Missing files
// are ignored; variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv resolves the configuration through getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	if getenv == nil {
		return cfg, nil
	}

	lookup := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}

	if value := lookup(EnvAPIURL); value != "" {
		cfg.APIURL = value
	} else if value := lookup(EnvPublicAPIURL); value != "" {
		cfg.APIURL = value
	}
	if value := lookup(EnvAddr); value != "" {
		cfg.Addr = value
	}
	if value := lookup(EnvTimeout); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalid, EnvTimeout, err)
		}
		cfg.Timeout = timeout
	}
	if value := lookup(EnvMode); value != "" {
		cfg.Mode = strings.ToLower(value)
	}
	cfg.Theme = lookup(EnvTheme)
	cfg.Variant = lookup(EnvVariant)
	cfg.Schema = lookup(EnvSchema)
	cfg.UISchemaDir = lookup(EnvUISchemaDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadEnvFile parses a .env file without touching the process environment and
// returns a getenv function over its values.
func ReadEnvFile(path string) (func(string) string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return func(key string) string {
		return values[key]
	}, nil
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	parsed, err := url.ParseRequestURI(c.APIURL)
	if err != nil {
		return fmt.Errorf("%w: api url %q: %v", ErrInvalid, c.APIURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: api url %q must use http or https", ErrInvalid, c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalid)
	}
	switch c.Mode {
	case ModeWeb, ModeTUI, ModeRender:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	if c.Mode == ModeWeb && strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: listen address is required", ErrInvalid)
	}
	return nil
}
