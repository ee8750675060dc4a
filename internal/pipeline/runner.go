package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/facturado/internal/config"
	"github.com/backmassage/facturado/internal/dates"
	"github.com/backmassage/facturado/internal/display"
	"github.com/backmassage/facturado/internal/extract"
	"github.com/backmassage/facturado/internal/logging"
	"github.com/backmassage/facturado/internal/organizer"
	"github.com/backmassage/facturado/internal/rules"
)

// Pipeline bundles the shared, read-only collaborators handed to every
// worker. The organizer carries the single mutex that serializes all
// rename/move critical sections; everything else here is safe to share.
type Pipeline struct {
	cfg       *config.Config
	log       *logging.Logger
	rules     *rules.Set
	extractor *extract.Extractor
	org       *organizer.Organizer
}

// Run is the top-level batch entry point. It discovers candidate files,
// processes them on a bounded worker pool, and returns aggregate stats.
// Cancelling ctx stops new files from being picked up; in-flight files run
// to completion.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, set *rules.Set) RunStats {
	var stats RunStats

	files, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}
	stats.Total = len(files)

	p := &Pipeline{
		cfg:       cfg,
		log:       log,
		rules:     set,
		extractor: extract.New(cfg.OCREnabled, cfg.TesseractLang),
		org:       organizer.New(cfg.OutputDir, cfg.DryRun),
	}

	logBatchHeader(cfg, log, &stats)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(cfg.MaxWorkers)

	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		path := path
		g.Go(func() error {
			p.processFile(ctx, path, &stats)
			return nil
		})
	}
	_ = g.Wait()

	logSummary(log, &stats, time.Since(start))
	return stats
}

// processFile handles one document: validate, classify, date-extract,
// rename, place. Every failure is logged and counted here so the batch
// never aborts on a single file.
func (p *Pipeline) processFile(ctx context.Context, path string, stats *RunStats) {
	base := filepath.Base(path)
	p.log.Info("[%d/%d] %s", stats.next(), stats.Total, base)

	if _, err := os.Stat(path); err != nil {
		p.log.Error("File not found: %s", path)
		stats.addFailed()
		return
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	// Idempotence fast path: a canonical name already carries its date, so
	// content re-extraction is skipped and only placement is re-checked.
	if rules.IsAlreadyNamedFilename(stem) {
		p.log.Debug("  Already named, checking placement")
		p.placeFile(path, dates.ExtractDateFromFilename(base), stats)
		return
	}

	content, err := p.extractor.Content(ctx, path)
	if err != nil {
		p.log.Error("Extraction failed for %s: %v", base, err)
		stats.addFailed()
		return
	}
	if strings.TrimSpace(content) == "" {
		p.log.Warn("Skip (no extractable content): %s", base)
		stats.addSkipped()
		return
	}

	date := dates.ExtractDateFromContent(content)
	if date == "" {
		date = time.Now().Format("2006-01-02")
		p.log.Debug("  No date found, falling back to today (%s)", date)
	}

	newBase := p.rules.GenerateFilename(content, date) + strings.ToLower(ext)
	cur := path
	if newBase != base {
		if p.cfg.DryRun {
			p.log.Success("[DRY] Would rename %s -> %s", base, newBase)
		}
		cur, err = p.org.RenameFile(path, newBase)
		if err != nil {
			p.log.Error("Rename failed for %s: %v", base, err)
			stats.addFailed()
			return
		}
		if !p.cfg.DryRun {
			p.log.Success("Renamed: %s -> %s", base, filepath.Base(cur))
		}
		stats.addRenamed()
	} else {
		p.log.Debug("  Name already canonical")
	}

	// Placement follows the date embedded in the chosen filename, which may
	// differ from the extracted one when a collision suffix or forced date
	// changed the name.
	placeDate := dates.ExtractDateFromFilename(filepath.Base(cur))
	if placeDate == "" {
		placeDate = date
	}
	p.placeFile(cur, placeDate, stats)
}

// placeFile runs the directory-organization step and books the outcome.
func (p *Pipeline) placeFile(path, date string, stats *RunStats) {
	final, err := p.org.OrganizeFileIntoDirectoryStructure(path, date)
	if err != nil {
		p.log.Error("Move failed for %s: %v", filepath.Base(path), err)
		stats.addFailed()
		return
	}
	switch {
	case final == path:
		p.log.Debug("  Already in place: %s", filepath.Base(path))
		stats.addSkipped()
	case p.cfg.DryRun:
		p.log.Success("[DRY] Would move %s -> %s", filepath.Base(path), final)
		stats.addMoved()
	default:
		p.log.Success("Moved: %s -> %s", filepath.Base(path), final)
		stats.addMoved()
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d files", stats.Total)
	log.Info("Workers: %d", cfg.MaxWorkers)
	if cfg.RulesFile != "" {
		log.Info("Rules: %s", cfg.RulesFile)
	} else {
		log.Info("Rules: built-in catalog")
	}
	if cfg.OCREnabled {
		log.Info("OCR: tesseract (%s)", cfg.TesseractLang)
	} else {
		log.Info("OCR: disabled (image files are skipped)")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be renamed or moved")
	}
}

func logSummary(log *logging.Logger, stats *RunStats, elapsed time.Duration) {
	log.Info("==============================")
	log.Info("Done in %s: %d renamed, %d moved, %d skipped, %d failed",
		display.FormatDuration(elapsed), stats.Renamed, stats.Moved, stats.Skipped, stats.Failed)
	log.Info("  Total files processed: %d/%d", stats.Processed(), stats.Total)
}
