package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/facturado/internal/config"
	"github.com/backmassage/facturado/internal/extract"
	"github.com/backmassage/facturado/internal/logging"
	"github.com/backmassage/facturado/internal/organizer"
	"github.com/backmassage/facturado/internal/rules"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	return write(t, dir, name, "x")
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bill.pdf")
	touch(t, dir, "scan.jpg")
	touch(t, dir, "receipt.txt")
	touch(t, dir, "notes.md")
	touch(t, dir, "music.mp3")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"bill.pdf", "receipt.txt", "scan.jpg"}
	got := basenames(files)
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "2024", "03_marzo"), 0o755)
	touch(t, filepath.Join(dir, "2024", "03_marzo"), "b.pdf")
	touch(t, dir, "a.pdf")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// Paths sort lexicographically, so the nested 2024/... file comes first.
	want := []string{"b.pdf", "a.pdf"}
	got := basenames(files)
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_SkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bill.pdf")
	os.MkdirAll(filepath.Join(dir, ".trash"), 0o755)
	touch(t, filepath.Join(dir, ".trash"), "old.pdf")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files, want 1 (hidden dirs should be skipped)", len(files))
	}
}

// --- End-to-end pipeline tests (plain-text extraction path) ---

func newTestPipeline(t *testing.T, dir string) *Pipeline {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = dir
	cfg.OutputDir = dir
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	return &Pipeline{
		cfg:       &cfg,
		log:       log,
		rules:     rules.BuiltinSet(),
		extractor: extract.New(false, "spa"),
		org:       organizer.New(dir, false),
	}
}

func TestProcessFile_VencimientoBill(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)
	var stats RunStats
	stats.Total = 1

	path := write(t, dir, "scan001.txt",
		"AYSA Agua y Saneamientos\nTotal $12.345\nvencimiento 21/03/2025\n")
	p.processFile(context.Background(), path, &stats)

	want := filepath.Join(dir, "2025", "03_marzo", "aysa_2025-03-21_santander.txt")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected %s: %v", want, err)
	}
	if stats.Renamed != 1 || stats.Moved != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestProcessFile_SpanishLongFormWithRulePayment(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)
	var stats RunStats
	stats.Total = 1

	path := write(t, dir, "recibo.txt",
		"Recibo de Gloria por servicios prestados, emitido el 8 de agosto de 2025. "+
			"Detalle completo de los trabajos realizados durante el período facturado.\n")
	p.processFile(context.Background(), path, &stats)

	want := filepath.Join(dir, "2025", "08_agosto", "gloria_2025-08-08_mercadopago.txt")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected %s: %v", want, err)
	}
}

func TestProcessFile_AlreadyNamedFastPath(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)
	var stats RunStats
	stats.Total = 1

	// Content would classify as aysa, but the fast path must not read it.
	path := write(t, dir, "edesur_2024-01-05_santander.txt", "AYSA vencimiento 21/03/2025")
	p.processFile(context.Background(), path, &stats)

	want := filepath.Join(dir, "2024", "01_enero", "edesur_2024-01-05_santander.txt")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected fast-path placement at %s: %v", want, err)
	}
	if stats.Renamed != 0 {
		t.Errorf("fast path renamed the file: %+v", stats)
	}
}

func TestProcessFile_SecondRunIsNoOp(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)
	var stats RunStats
	stats.Total = 2

	path := write(t, dir, "factura.txt", "AYSA vencimiento 21/03/2025 con más palabras de relleno")
	p.processFile(context.Background(), path, &stats)

	organized := filepath.Join(dir, "2025", "03_marzo", "aysa_2025-03-21_santander.txt")
	if _, err := os.Stat(organized); err != nil {
		t.Fatalf("first run did not organize: %v", err)
	}

	moved := stats.Moved
	p.processFile(context.Background(), organized, &stats)
	if stats.Moved != moved {
		t.Errorf("second run moved the file again")
	}
	if _, err := os.Stat(organized); err != nil {
		t.Errorf("file missing after second run: %v", err)
	}
}

func TestProcessFile_EmptyContentSkipped(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)
	var stats RunStats
	stats.Total = 1

	path := write(t, dir, "blank.txt", "   \n\t  ")
	p.processFile(context.Background(), path, &stats)

	if stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 skipped", stats)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("empty file should be left in place: %v", err)
	}
}

func TestProcessFile_MissingFileFails(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(t, dir)
	var stats RunStats
	stats.Total = 1

	p.processFile(context.Background(), filepath.Join(dir, "gone.txt"), &stats)
	if stats.Failed != 1 {
		t.Errorf("stats = %+v, want 1 failed", stats)
	}
}

func TestRun_ProcessesBatch(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.InputDir = dir
	cfg.OutputDir = dir
	cfg.ColorMode = config.ColorNever
	cfg.OCREnabled = false
	cfg.MaxWorkers = 4
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	defer log.Close()

	for i := 0; i < 6; i++ {
		write(t, dir, fmt.Sprintf("scan%03d.txt", i),
			"AYSA vencimiento 21/03/2025 con texto suficiente para la factura")
	}

	stats := Run(context.Background(), &cfg, log, rules.BuiltinSet())
	if stats.Failed != 0 {
		t.Errorf("stats = %+v, want 0 failed", stats)
	}
	if stats.Moved == 0 {
		t.Errorf("expected files to be moved, stats = %+v", stats)
	}

	// All six land in the same month folder with distinct suffixes.
	entries, err := os.ReadDir(filepath.Join(dir, "2025", "03_marzo"))
	if err != nil {
		t.Fatalf("read target dir: %v", err)
	}
	if len(entries) != 6 {
		t.Errorf("got %d organized files, want 6", len(entries))
	}
}
