package postprocess

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrSourceMissing indicates the per-publication .bib directory does not exist.
var ErrSourceMissing = errors.New("bib source directory does not exist")

// FindPage returns the first candidate path that exists.
func FindPage(candidates []string) (string, bool) {
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// CopyBibFiles copies every .bib file in srcDir into destDir, keeping mode and
// modification time. It returns the number of files copied. When both
// directories resolve to the same path nothing is copied.
func CopyBibFiles(srcDir, destDir string) (int, error) {
	info, err := os.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", ErrSourceMissing, srcDir)
	}

	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", srcDir, err)
	}
	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", destDir, err)
	}
	if absSrc == absDest {
		return 0, nil
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", srcDir, err)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", destDir, err)
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".bib") {
			continue
		}
		if err := copyFile(filepath.Join(srcDir, e.Name()), filepath.Join(destDir, e.Name())); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
