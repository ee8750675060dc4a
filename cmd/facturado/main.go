// Command facturado is the entrypoint for the bill classifier and filer.
// It parses flags, validates config and paths, and either runs system
// diagnostics (--check) or the classify/rename/organize pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/facturado/internal/check"
	"github.com/backmassage/facturado/internal/config"
	"github.com/backmassage/facturado/internal/display"
	"github.com/backmassage/facturado/internal/logging"
	"github.com/backmassage/facturado/internal/pipeline"
	"github.com/backmassage/facturado/internal/rules"
)

func main() {
	// 1. Load config from defaults, .env, and CLI flags; exit on parse or
	// validation error.
	cfg := config.DefaultConfig()
	if err := config.ApplyEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "facturado: %v\n", err)
		os.Exit(1)
	}
	if err := config.ParseFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "facturado: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "facturado: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "facturado: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	display.PrintBanner()

	// 2. If the user asked for a system check, run it and exit successfully.
	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		os.Exit(0)
	}

	// 3. Resolve and validate paths: input must exist, output is created if
	// needed, a distinct output must not be nested inside the input.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		os.Exit(1)
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		os.Exit(1)
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	// 4. Fail fast when tesseract is needed but missing or the rules file is
	// broken; load the catalog.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	set, err := loadRules(&cfg)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("=== Facturado v%s ===", config.Version())
	log.Info("In:  %s", cfg.InputDir)
	if cfg.OutputDir != cfg.InputDir {
		log.Info("Out: %s", cfg.OutputDir)
	}

	// 5. Run the pipeline. SIGINT/SIGTERM stop new files from being picked
	// up; in-flight files finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats := pipeline.Run(ctx, &cfg, log, set)
	if stats.Failed > 0 {
		os.Exit(1)
	}
}

// loadRules builds the rule catalog from the configured file or the built-in
// set, applying CLI/env overrides for defaults and thresholds.
func loadRules(cfg *config.Config) (*rules.Set, error) {
	var (
		set *rules.Set
		err error
	)
	if cfg.RulesFile != "" {
		set, err = rules.Load(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
	} else {
		set = rules.BuiltinSet()
	}

	if cfg.DefaultProvider != "" {
		set.DefaultProvider = cfg.DefaultProvider
	}
	if cfg.DefaultPayment != "" {
		set.DefaultPayment = cfg.DefaultPayment
	}
	set.MinContentWords = cfg.MinContentWords
	set.MinContentChars = cfg.MinContentChars
	return set, nil
}

// absPath returns the absolute path with symlinks resolved, for comparing
// input vs output hierarchy.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
