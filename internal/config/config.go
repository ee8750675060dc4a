// Package config holds runtime configuration: defaults, optional .env
// loading, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by .env values ([ApplyEnv]), and finally mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir  string
	OutputDir string // Defaults to InputDir (organize in place).

	// Rule catalog.
	RulesFile       string // Optional YAML catalog; built-in rules when empty.
	DefaultProvider string // Overrides the catalog default when non-empty.
	DefaultPayment  string // Overrides the catalog default when non-empty.

	// Minimal-content heuristic for forced-date overrides.
	MinContentWords int // Default: 12.
	MinContentChars int // Default: 80.

	// Extraction.
	OCREnabled    bool   // Default: true. Cleared by --no-ocr.
	TesseractLang string // Default: "spa".

	// Concurrency.
	MaxWorkers int // Default: 4.

	// Behavior flags.
	DryRun bool

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before [ApplyEnv] and [ParseFlags] layer overrides on top.
func DefaultConfig() Config {
	return Config{
		MinContentWords: 12,
		MinContentChars: 80,
		OCREnabled:      true,
		TesseractLang:   "spa",
		MaxWorkers:      4,
		ColorMode:       ColorAuto,
	}
}

// ApplyEnv loads a .env file when present (missing files are fine) and
// copies any FACTURADO_* variables into cfg. Flags still win over env.
func ApplyEnv(cfg *Config) error {
	_ = godotenv.Load()

	if v := os.Getenv("FACTURADO_RULES"); v != "" {
		cfg.RulesFile = v
	}
	if v := os.Getenv("FACTURADO_DEFAULT_PROVIDER"); v != "" {
		cfg.DefaultProvider = v
	}
	if v := os.Getenv("FACTURADO_DEFAULT_PAYMENT"); v != "" {
		cfg.DefaultPayment = v
	}
	if v := os.Getenv("FACTURADO_TESSERACT_LANG"); v != "" {
		cfg.TesseractLang = v
	}
	if v := os.Getenv("FACTURADO_WORKERS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return fmt.Errorf("invalid FACTURADO_WORKERS %q (use a positive integer)", v)
		}
		cfg.MaxWorkers = n
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path. The
// filesystem root "/" is returned unchanged so we don't produce an empty
// string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and numeric fields, and (outside CheckOnly mode)
// requires an input directory. An empty output directory falls back to the
// input directory, i.e. organize in place.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	if c.MaxWorkers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.MinContentWords < 0 || c.MinContentChars < 0 {
		return errors.New("minimal-content thresholds must not be negative")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("need an input directory")
	}
	if c.OutputDir == "" {
		c.OutputDir = c.InputDir
	}
	return nil
}

// ValidatePaths ensures a distinct output directory is not nested inside the
// input directory, which would make the walker rediscover freshly organized
// files. Equal paths are allowed: that is the organize-in-place mode.
// Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if outputAbs == inputAbs {
		return nil
	}
	sep := string(filepath.Separator)
	if strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
