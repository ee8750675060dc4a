package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
	return path
}

func TestGetMonthName(t *testing.T) {
	tests := []struct {
		month int
		want  string
	}{
		{1, "enero"},
		{3, "marzo"},
		{8, "agosto"},
		{12, "diciembre"},
		{0, "mes_desconocido"},
		{13, "mes_desconocido"},
		{-5, "mes_desconocido"},
	}
	for _, tt := range tests {
		if got := GetMonthName(tt.month); got != tt.want {
			t.Errorf("GetMonthName(%d) = %q, want %q", tt.month, got, tt.want)
		}
	}
}

func TestMonthFolderName(t *testing.T) {
	if got := MonthFolderName(3); got != "03_marzo" {
		t.Errorf("MonthFolderName(3) = %q, want 03_marzo", got)
	}
	if got := MonthFolderName(11); got != "11_noviembre" {
		t.Errorf("MonthFolderName(11) = %q, want 11_noviembre", got)
	}
}

func TestIsInYearMonthStructure(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"in month under year", "/bills/2025/03_marzo/aysa.pdf", true},
		{"path is year folder", "/bills/2025", true},
		{"month without year", "/bills/03_marzo/aysa.pdf", false},
		{"year without month", "/bills/2025/aysa.pdf", false},
		{"plain directory", "/bills/pending/aysa.pdf", false},
		{"five-digit folder", "/bills/20255/03_marzo/aysa.pdf", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInYearMonthStructure(tt.path); got != tt.want {
				t.Errorf("IsInYearMonthStructure(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGenerateUniqueFilename(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, false)

	// Free name comes back unchanged.
	got := o.GenerateUniqueFilename(dir, "f.pdf")
	if got != filepath.Join(dir, "f.pdf") {
		t.Errorf("free name: got %q", got)
	}

	// Highest existing suffix plus one.
	touch(t, dir, "f.pdf")
	touch(t, dir, "f_2.pdf")
	touch(t, dir, "f_3.pdf")
	got = o.GenerateUniqueFilename(dir, "f.pdf")
	if want := filepath.Join(dir, "f_4.pdf"); got != want {
		t.Errorf("suffixed name: got %q, want %q", got, want)
	}

	// Unrelated files sharing a prefix do not bump the counter.
	touch(t, dir, "g.pdf")
	touch(t, dir, "g_longer_name_7.pdf")
	got = o.GenerateUniqueFilename(dir, "g.pdf")
	if want := filepath.Join(dir, "g_2.pdf"); got != want {
		t.Errorf("prefix isolation: got %q, want %q", got, want)
	}
}

func TestOrganize_MovesIntoYearMonth(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, false)
	path := touch(t, dir, "aysa_2025-03-21_santander.pdf")

	got, err := o.OrganizeFileIntoDirectoryStructure(path, "2025-03-21")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	want := filepath.Join(dir, "2025", "03_marzo", "aysa_2025-03-21_santander.pdf")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("file not at target: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("source still present")
	}
}

func TestOrganize_Idempotent(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, false)
	path := touch(t, dir, "bill.pdf")

	first, err := o.OrganizeFileIntoDirectoryStructure(path, "2024-07-01")
	if err != nil {
		t.Fatalf("first organize: %v", err)
	}
	second, err := o.OrganizeFileIntoDirectoryStructure(first, "2024-07-01")
	if err != nil {
		t.Fatalf("second organize: %v", err)
	}
	if second != first {
		t.Errorf("second call moved the file: %q -> %q", first, second)
	}
}

func TestOrganize_LeavesFileAloneOnBadDate(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, false)
	path := touch(t, dir, "bill.pdf")

	for _, date := range []string{"", "   ", "not-a-date", "2024-13-45"} {
		got, err := o.OrganizeFileIntoDirectoryStructure(path, date)
		if err != nil {
			t.Fatalf("organize(%q): %v", date, err)
		}
		if got != path {
			t.Errorf("organize(%q) moved file to %q", date, got)
		}
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file moved despite bad dates: %v", err)
	}
}

func TestOrganize_ReusesBareYearFolder(t *testing.T) {
	dir := t.TempDir()
	yearDir := filepath.Join(dir, "2025")
	if err := os.MkdirAll(yearDir, 0o755); err != nil {
		t.Fatal(err)
	}
	o := New(dir, false)
	path := touch(t, yearDir, "bill.pdf")

	got, err := o.OrganizeFileIntoDirectoryStructure(path, "2025-03-21")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	want := filepath.Join(yearDir, "03_marzo", "bill.pdf")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	// No nested year folder was created.
	if _, err := os.Stat(filepath.Join(yearDir, "2025")); !os.IsNotExist(err) {
		t.Errorf("year folder was nested under itself")
	}
}

func TestOrganize_MovesBetweenMonths(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, false)
	path := touch(t, dir, "bill.pdf")

	first, err := o.OrganizeFileIntoDirectoryStructure(path, "2025-03-21")
	if err != nil {
		t.Fatal(err)
	}
	// Reorganizing with a different month hops sideways, not deeper.
	second, err := o.OrganizeFileIntoDirectoryStructure(first, "2025-08-08")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "2025", "08_agosto", "bill.pdf")
	if second != want {
		t.Errorf("got %q, want %q", second, want)
	}
}

func TestOrganize_ResolvesCollisions(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, false)
	target := filepath.Join(dir, "2025", "03_marzo")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, target, "bill.pdf")

	path := touch(t, dir, "bill.pdf")
	got, err := o.OrganizeFileIntoDirectoryStructure(path, "2025-03-21")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if want := filepath.Join(target, "bill_2.pdf"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOrganize_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, true)
	path := touch(t, dir, "bill.pdf")

	got, err := o.OrganizeFileIntoDirectoryStructure(path, "2025-03-21")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if want := filepath.Join(dir, "2025", "03_marzo", "bill.pdf"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("dry run moved the file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2025")); !os.IsNotExist(err) {
		t.Errorf("dry run created directories")
	}
}

func TestRenameFile(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, false)

	path := touch(t, dir, "scan001.pdf")
	got, err := o.RenameFile(path, "aysa_2025-03-21_santander.pdf")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if want := filepath.Join(dir, "aysa_2025-03-21_santander.pdf"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Same target name from another source picks up a suffix.
	other := touch(t, dir, "scan002.pdf")
	got, err = o.RenameFile(other, "aysa_2025-03-21_santander.pdf")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if want := filepath.Join(dir, "aysa_2025-03-21_santander_2.pdf"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Renaming to the current name is a no-op.
	got, err = o.RenameFile(filepath.Join(dir, "aysa_2025-03-21_santander.pdf"), "aysa_2025-03-21_santander.pdf")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if want := filepath.Join(dir, "aysa_2025-03-21_santander.pdf"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenameFile_ConcurrentTargetsAreDistinct(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, false)

	const n = 16
	sources := make([]string, n)
	for i := range sources {
		sources[i] = touch(t, dir, fmt.Sprintf("scan%03d.pdf", i))
	}

	results := make([]string, n)
	var wg sync.WaitGroup
	for i := range sources {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := o.RenameFile(sources[i], "f.pdf")
			if err != nil {
				t.Errorf("rename %d: %v", i, err)
				return
			}
			results[i] = got
		}()
	}
	wg.Wait()

	sort.Strings(results)
	for i := 1; i < len(results); i++ {
		if results[i] == results[i-1] {
			t.Fatalf("two workers received the same path: %q", results[i])
		}
	}
	for _, r := range results {
		if _, err := os.Stat(r); err != nil {
			t.Errorf("missing result file %q: %v", r, err)
		}
	}
}
