package config

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDriver is the WebDriver endpoint used when nothing overrides it.
const DefaultDriver = "http://localhost:4444"

// Config holds all configurable tauri-browse settings.
type Config struct {
	Driver         string `json:"driver"`          // WebDriver base URL
	Display        string `json:"display"`         // X display for raster capture
	TimeoutSeconds int    `json:"timeout_seconds"` // bound on every protocol call
	TestIDAttr     string `json:"test_id_attr"`    // attribute used by find testid
	StateDir       string `json:"state_dir"`       // override for saved page-state files
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Driver:         DefaultDriver,
		TimeoutSeconds: 10,
		TestIDAttr:     "data-testid",
	}
}

// LoadGlobal reads ~/.config/tauri-browse/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "tauri-browse", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .tauri-browse.json in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".tauri-browse.json", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// FromEnv reads TAURI_BROWSE_* environment variables, after loading a project
// .env file if one exists. Real environment variables win over .env entries
// because godotenv.Load never overwrites variables already set.
func FromEnv() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Driver:  os.Getenv("TAURI_BROWSE_DRIVER"),
		Display: os.Getenv("TAURI_BROWSE_DISPLAY"),
	}
	if cfg.Driver == "" && cfg.Display == "" {
		return nil
	}
	return cfg
}

// Merge combines config layers, later layers taking precedence.
// Missing keys fall back to earlier layers, then defaults.
func Merge(layers ...*Config) Config {
	result := Defaults()
	for _, l := range layers {
		if l == nil {
			continue
		}
		if l.Driver != "" {
			result.Driver = l.Driver
		}
		if l.Display != "" {
			result.Display = l.Display
		}
		if l.TimeoutSeconds > 0 {
			result.TimeoutSeconds = l.TimeoutSeconds
		}
		if l.TestIDAttr != "" {
			result.TestIDAttr = l.TestIDAttr
		}
		if l.StateDir != "" {
			result.StateDir = l.StateDir
		}
	}
	return result
}

// PgrepRunner executes pgrep and returns its output.
// This abstraction allows mocking in tests.
type PgrepRunner func(pattern string) (string, error)

func defaultPgrepRunner(pattern string) (string, error) {
	out, err := exec.Command("pgrep", "-a", pattern).Output()
	return string(out), err
}

// DetectXvfbDisplay finds a running Xvfb server's display number, e.g. ":99".
// Returns "" when none is found or pgrep is unavailable.
func DetectXvfbDisplay(runner PgrepRunner) string {
	if runner == nil {
		runner = defaultPgrepRunner
	}
	out, err := runner("Xvfb")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		for _, token := range strings.Fields(line) {
			if strings.HasPrefix(token, ":") {
				return token
			}
		}
	}
	return ""
}

// ResolveDisplay picks the display used for raster capture: explicit override
// first, then a running Xvfb, then the ambient DISPLAY.
func ResolveDisplay(cfg Config, runner PgrepRunner) string {
	if cfg.Display != "" {
		return cfg.Display
	}
	if d := DetectXvfbDisplay(runner); d != "" {
		return d
	}
	return os.Getenv("DISPLAY")
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
