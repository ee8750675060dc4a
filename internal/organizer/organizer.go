// Package organizer places files into the <base>/<YYYY>/<MM>_<mes>/ layout
// and owns the one mutual-exclusion domain of the pipeline: resolving a
// unique target name, creating directories, and moving the file happen as a
// single critical section so concurrent workers never race a rename.
package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// monthNames indexes Spanish month names by month number - 1.
var monthNames = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// GetMonthName returns the Spanish name for a 1-12 month number, or the
// sentinel "mes_desconocido" for anything out of range. Never panics.
func GetMonthName(month int) string {
	if month < 1 || month > 12 {
		return "mes_desconocido"
	}
	return monthNames[month-1]
}

// MonthFolderName builds the "MM_<mes>" folder name for a month number.
func MonthFolderName(month int) string {
	return fmt.Sprintf("%02d_%s", month, GetMonthName(month))
}

var (
	reYearFolder  = regexp.MustCompile(`^\d{4}$`)
	reMonthFolder = regexp.MustCompile(`^\d{2}_[a-zñ_]+$`)
)

// IsInYearMonthStructure reports whether path already sits inside the
// year/month hierarchy: its parent is a month folder under a 4-digit year
// folder, or the path itself is a 4-digit year folder.
func IsInYearMonthStructure(path string) bool {
	if reYearFolder.MatchString(filepath.Base(path)) {
		return true
	}
	parent := filepath.Dir(path)
	if !reMonthFolder.MatchString(filepath.Base(parent)) {
		return false
	}
	return reYearFolder.MatchString(filepath.Base(filepath.Dir(parent)))
}

// Organizer moves files into the year/month hierarchy rooted at BaseDir.
// The embedded mutex serializes every check-then-act sequence (existence
// check, directory creation, unique-name resolution, rename) across all
// workers sharing the instance.
type Organizer struct {
	mu      sync.Mutex
	baseDir string
	dryRun  bool
}

// New creates an Organizer rooted at baseDir. With dryRun set, no directory
// is created and no file is moved; methods return the paths they would have
// produced.
func New(baseDir string, dryRun bool) *Organizer {
	return &Organizer{baseDir: baseDir, dryRun: dryRun}
}

// OrganizeFileIntoDirectoryStructure moves path into <year>/<MM>_<mes>/ for
// dateStr (yyyy-MM-dd) and returns the final resting path. Policy decisions:
//
//   - blank or unparseable dateStr: leave the file alone, return path.
//   - already in the right month folder: no filesystem write, return path.
//   - parent is a bare year folder matching the target year: reuse it
//     instead of creating a new year level under the base.
//   - target name taken: resolve with the _<N> uniqueness suffix.
func (o *Organizer) OrganizeFileIntoDirectoryStructure(path, dateStr string) (string, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return path, nil
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return path, nil
	}

	year := t.Format("2006")
	monthFolder := MonthFolderName(int(t.Month()))

	dir := filepath.Dir(path)
	targetDir := o.targetDir(dir, year, monthFolder)
	if dir == targetDir {
		return path, nil
	}

	if o.dryRun {
		return filepath.Join(targetDir, filepath.Base(path)), nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return path, fmt.Errorf("create %s: %w", targetDir, err)
	}
	finalPath := uniquePath(targetDir, filepath.Base(path))
	if err := os.Rename(path, finalPath); err != nil {
		return path, fmt.Errorf("move %s: %w", filepath.Base(path), err)
	}
	return finalPath, nil
}

// targetDir resolves the destination month directory for a file currently in
// dir. A file already under some year/month pair is re-rooted above that
// structure (so a wrong month or year hops sideways, not deeper); a parent
// that is the matching bare year folder is reused rather than re-created
// nested under itself; everything else lands under the base directory.
func (o *Organizer) targetDir(dir, year, monthFolder string) string {
	base := filepath.Base(dir)
	parent := filepath.Base(filepath.Dir(dir))
	switch {
	case base == monthFolder && parent == year:
		return dir
	case reMonthFolder.MatchString(base) && reYearFolder.MatchString(parent):
		return filepath.Join(filepath.Dir(filepath.Dir(dir)), year, monthFolder)
	case base == year:
		return filepath.Join(dir, monthFolder)
	case reYearFolder.MatchString(base):
		return filepath.Join(filepath.Dir(dir), year, monthFolder)
	default:
		return filepath.Join(o.baseDir, year, monthFolder)
	}
}

// RenameFile renames path to newBase within its directory, resolving name
// collisions with the uniqueness suffix. Returns the resulting path.
func (o *Organizer) RenameFile(path, newBase string) (string, error) {
	dir := filepath.Dir(path)
	if filepath.Base(path) == newBase {
		return path, nil
	}
	if o.dryRun {
		return filepath.Join(dir, newBase), nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	target := uniquePath(dir, newBase)
	if err := os.Rename(path, target); err != nil {
		return path, fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return target, nil
}

// GenerateUniqueFilename returns dir/baseName, or the first free _<N>
// variant when that path is taken. Exported for callers outside the move
// path; it takes the same lock, so a name handed out here cannot also be
// handed to a concurrent mover.
func (o *Organizer) GenerateUniqueFilename(dir, baseName string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return uniquePath(dir, baseName)
}

// uniquePath computes the collision-free path for baseName in dir. When the
// plain name is taken it scans siblings sharing the stem, finds the highest
// _<N> suffix, and returns stem_<N+1>. Callers must hold the organizer lock.
func uniquePath(dir, baseName string) string {
	candidate := filepath.Join(dir, baseName)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}

	ext := filepath.Ext(baseName)
	stem := strings.TrimSuffix(baseName, ext)

	reSuffix := regexp.MustCompile(
		`^` + regexp.QuoteMeta(stem) + `_(\d+)` + regexp.QuoteMeta(ext) + `$`)

	highest := 1
	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, e := range entries {
			m := reSuffix.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
				highest = n
			}
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, highest+1, ext))
}
