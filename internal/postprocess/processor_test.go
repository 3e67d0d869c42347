package postprocess

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

const samplePage = `<html><body>
<div class="csl-entry">Maus, A. (2021). A paper.</div>
</body></html>
`

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindPage(t *testing.T) {
	dir := t.TempDir()
	site := filepath.Join(dir, "_site", "publications.html")
	root := filepath.Join(dir, "publications.html")

	if _, ok := FindPage([]string{site, root}); ok {
		t.Error("FindPage() found a page in an empty dir")
	}

	writeFile(t, root, "root")
	if got, ok := FindPage([]string{site, root}); !ok || got != root {
		t.Errorf("FindPage() = %q, %v; want %q", got, ok, root)
	}

	writeFile(t, site, "site")
	if got, ok := FindPage([]string{site, root}); !ok || got != site {
		t.Errorf("FindPage() = %q, %v; want %q", got, ok, site)
	}
}

func TestCopyBibFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "assets", "bib")
	dst := filepath.Join(dir, "_site", "assets", "bib")

	writeFile(t, filepath.Join(src, "10_1_a.bib"), "@article{a}")
	writeFile(t, filepath.Join(src, "10_1_b.bib"), "@article{b}")
	writeFile(t, filepath.Join(src, "notes.txt"), "skip")

	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(src, "10_1_a.bib"), old, old); err != nil {
		t.Fatal(err)
	}

	n, err := CopyBibFiles(src, dst)
	if err != nil {
		t.Fatalf("CopyBibFiles() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CopyBibFiles() = %d, want 2", n)
	}

	data, err := os.ReadFile(filepath.Join(dst, "10_1_a.bib"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "@article{a}" {
		t.Errorf("copied content = %q", data)
	}
	info, err := os.Stat(filepath.Join(dst, "10_1_a.bib"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), old)
	}
	if _, err := os.Stat(filepath.Join(dst, "notes.txt")); !os.IsNotExist(err) {
		t.Error("non-.bib file was copied")
	}
}

func TestCopyBibFilesSameDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "assets", "bib")
	writeFile(t, filepath.Join(src, "x.bib"), "@misc{x}")

	n, err := CopyBibFiles(src, filepath.Join(dir, "assets", ".", "bib"))
	if err != nil {
		t.Fatalf("CopyBibFiles() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CopyBibFiles() = %d, want 0 for identical dirs", n)
	}
}

func TestProcessorRun(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "_site", "publications.html")
	bibDir := filepath.Join(dir, "assets", "bib")
	writeFile(t, page, samplePage)
	writeFile(t, filepath.Join(bibDir, "10_1_a.bib"), "@article{a}")

	p := New(
		WithLogger(quietLogger()),
		WithPageCandidates(page, filepath.Join(dir, "publications.html")),
		WithBibDir(bibDir),
	)

	report, err := p.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Found || !report.Changed {
		t.Errorf("report = %+v, want found and changed", report)
	}

	data, _ := os.ReadFile(page)
	want := `<div class="csl-entry"><strong>Maus</strong>, A. (2021). A paper.</div>`
	if !strings.Contains(string(data), want) {
		t.Errorf("page = %s, want it to contain %s", data, want)
	}

	// Absolute bib dirs mirror into the default layout beside the page.
	copied := filepath.Join(dir, "_site", "assets", "bib", "10_1_a.bib")
	if _, err := os.Stat(copied); err != nil {
		t.Errorf("expected %s: %v", copied, err)
	}
	if report.Copied != 1 {
		t.Errorf("Copied = %d, want 1", report.Copied)
	}

	// Second run leaves the page alone.
	report, err = p.Run()
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if report.Changed {
		t.Error("second Run() rewrote an already processed page")
	}
}

func TestProcessorRunNoPage(t *testing.T) {
	dir := t.TempDir()
	p := New(
		WithLogger(quietLogger()),
		WithPageCandidates(filepath.Join(dir, "missing.html")),
	)

	report, err := p.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Found {
		t.Error("Found = true for missing page")
	}
}

func TestProcessorRunMissingBibDir(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "publications.html")
	writeFile(t, page, samplePage)

	p := New(
		WithLogger(quietLogger()),
		WithPageCandidates(page),
		WithBibDir(filepath.Join(dir, "nope")),
	)

	report, err := p.Run()
	if err != nil {
		t.Fatalf("Run() error = %v, want warning only", err)
	}
	if !report.Changed || report.Copied != 0 {
		t.Errorf("report = %+v", report)
	}
}
