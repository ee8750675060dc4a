package config

// This file implements CLI flag parsing and help text. Flags are grouped
// into rules, extraction, behavior, display, and utility. Negated flags
// (e.g. --no-ocr) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
)

// version is shown in --version and help; override at build time with
// -ldflags "-X ...config.version=...".
var version = "1.0.0-dev"

// Version returns the build version string.
func Version() string { return version }

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing input dir).
func ParseFlags(cfg *Config) error {
	fs := flag.NewFlagSet("facturado", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	// Negated/override flags: we capture bools then apply to cfg after
	// Parse, so that defaults from DefaultConfig() hold unless the user
	// passes the flag.
	var negated negatedFlags

	defineRuleFlags(fs, cfg)
	defineExtractionFlags(fs, cfg, &negated)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "facturado v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags applied after Parse. These either invert
// a default (e.g. noOCR -> OCREnabled=false) or trigger exit (showHelp,
// showVersion).
type negatedFlags struct {
	noOCR       bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineRuleFlags registers -r/--rules, --provider, --payment, --min-content-words, --min-content-chars.
func defineRuleFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "YAML rule catalog (built-in rules when omitted)")
	fs.StringVar(&cfg.RulesFile, "r", cfg.RulesFile, "Same as --rules")
	fs.StringVar(&cfg.DefaultProvider, "provider", cfg.DefaultProvider, "Default provider token when no rule matches")
	fs.StringVar(&cfg.DefaultPayment, "payment", cfg.DefaultPayment, "Default payment token when no rule matches")
	fs.IntVar(&cfg.MinContentWords, "min-content-words", cfg.MinContentWords, "Word count at or below which a forced date applies")
	fs.IntVar(&cfg.MinContentChars, "min-content-chars", cfg.MinContentChars, "Character count at or below which a forced date applies")
}

// defineExtractionFlags registers --no-ocr, --lang, -w/--workers.
func defineExtractionFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.noOCR, "no-ocr", false, "Skip image files instead of running tesseract")
	fs.StringVar(&cfg.TesseractLang, "lang", cfg.TesseractLang, "Tesseract language pack")
	fs.IntVar(&cfg.MaxWorkers, "workers", cfg.MaxWorkers, "Maximum files processed in parallel")
	fs.IntVar(&cfg.MaxWorkers, "w", cfg.MaxWorkers, "Same as --workers")
}

// defineBehaviorFlags registers -d/--dry-run.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not rename or move files")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noOCR {
		cfg.OCREnabled = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir and OutputDir from the positional args
// when not in CheckOnly mode. The output directory is optional and defaults
// to the input directory.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	switch len(args) {
	case 1:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = cfg.InputDir
	case 2:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = NormalizeDirArg(args[1])
	default:
		return fmt.Errorf("need input_dir (and optionally output_dir)")
	}
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "Facturado v" + version + " — utility-bill classifier and filer"},
		{"", ""},
		{"  facturado [OPTIONS] <input_dir> [output_dir]", ""},
		{"", ""},
		{"Rules", ""},
		{"  -r, --rules <file>", "YAML rule catalog (built-in rules when omitted)"},
		{"  --provider <token>", "Default provider when no rule matches"},
		{"  --payment <token>", "Default payment method when no rule matches"},
		{"  --min-content-words <n>", "Forced-date threshold in words (default: 12)"},
		{"  --min-content-chars <n>", "Forced-date threshold in characters (default: 80)"},
		{"", ""},
		{"Extraction", ""},
		{"  --no-ocr", "Skip image files instead of running tesseract"},
		{"  --lang <code>", "Tesseract language pack (default: spa)"},
		{"  -w, --workers <n>", "Files processed in parallel (default: 4)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -d, --dry-run", "Preview only; do not rename or move files"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (tesseract, rules, permissions)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
