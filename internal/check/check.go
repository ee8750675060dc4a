// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for tesseract, the rule catalog, and
// output-directory permissions.
package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/facturado/internal/config"
	"github.com/backmassage/facturado/internal/rules"
)

// Sentinel errors returned by CheckDeps when a required dependency is missing.
var (
	ErrTesseractNotFound = errors.New("tesseract not found on PATH (use --no-ocr to skip image files)")
	ErrBadRulesFile      = errors.New("rules file could not be loaded")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// (rather than importing the logging package) so that check remains
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints tesseract availability
// and languages, rule-catalog health, and output-directory writability.
// This is informational only; it does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkTesseract(cfg, log)
	checkRules(cfg, log)
	checkOutputDir(cfg, log)
}

// checkTesseract verifies tesseract is on PATH, logs its version, and lists
// the installed language packs.
func checkTesseract(cfg *config.Config, log Logger) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		log.Error("tesseract not found")
		return
	}
	out, err := exec.Command("tesseract", "--version").CombinedOutput()
	if err != nil {
		log.Warn("tesseract found but --version failed: %v", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s", firstLine)

	langs, err := exec.Command("tesseract", "--list-langs").Output()
	if err != nil {
		log.Warn("Could not list language packs: %v", err)
		return
	}
	found := false
	for _, line := range strings.Split(string(langs), "\n") {
		if strings.TrimSpace(line) == cfg.TesseractLang {
			found = true
			break
		}
	}
	if found {
		log.Success("Language pack %q installed", cfg.TesseractLang)
	} else {
		log.Warn("Language pack %q not installed", cfg.TesseractLang)
	}
}

// checkRules loads the configured rule catalog (or reports the built-in one)
// and prints how many rules it carries.
func checkRules(cfg *config.Config, log Logger) {
	if cfg.RulesFile == "" {
		set := rules.BuiltinSet()
		log.Info("Rules: built-in catalog (%d rules)", len(set.Rules))
		return
	}
	set, err := rules.Load(cfg.RulesFile)
	if err != nil {
		log.Error("Rules file %s: %v", cfg.RulesFile, err)
		return
	}
	log.Success("Rules: %s (%d rules, defaults %s/%s)",
		cfg.RulesFile, len(set.Rules), set.DefaultProvider, set.DefaultPayment)
}

// checkOutputDir verifies the output directory exists (or names the input
// fallback) and that a file can be created in it.
func checkOutputDir(cfg *config.Config, log Logger) {
	dir := cfg.OutputDir
	if dir == "" {
		dir = cfg.InputDir
	}
	if dir == "" {
		log.Info("Output dir: none configured (pass input_dir to test write access)")
		return
	}
	probe := filepath.Join(dir, ".facturado-write-test")
	f, err := os.Create(probe)
	if err != nil {
		log.Error("Output dir %s is not writable: %v", dir, err)
		return
	}
	f.Close()
	os.Remove(probe)
	log.Success("Output dir %s is writable", dir)
}

// CheckDeps is the pre-pipeline validation gate: tesseract must be on PATH
// when OCR is enabled, and a configured rules file must parse. Returns a
// sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if cfg.OCREnabled {
		if _, err := exec.LookPath("tesseract"); err != nil {
			return ErrTesseractNotFound
		}
	}
	if cfg.RulesFile != "" {
		if _, err := rules.Load(cfg.RulesFile); err != nil {
			return errors.Join(ErrBadRulesFile, err)
		}
	}
	return nil
}
