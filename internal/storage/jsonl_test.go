package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleEntries() []Entry {
	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return []Entry{
		{DOI: "10.1/new", Year: 2024, File: "assets/bib/10_1_new.bib", RunID: "run-1", FetchedAt: at},
		{DOI: "10.1/old", Year: 2018, File: "assets/bib/10_1_old.bib", RunID: "run-1", FetchedAt: at},
		{DOI: "10.1/undated", Year: 0, File: "assets/bib/10_1_undated.bib", RunID: "run-1", FetchedAt: at},
	}
}

func TestWriteAllReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "references.jsonl")
	want := sampleEntries()

	if err := WriteAll(path, want); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("ReadAll() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].DOI != want[i].DOI || got[i].Year != want[i].Year || got[i].File != want[i].File {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
		if !got[i].FetchedAt.Equal(want[i].FetchedAt) {
			t.Errorf("entry %d FetchedAt = %v, want %v", i, got[i].FetchedAt, want[i].FetchedAt)
		}
	}
}

func TestWriteAll_ReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "references.jsonl")

	if err := WriteAll(path, sampleEntries()); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := WriteAll(path, sampleEntries()[:1]); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ReadAll() returned %d entries after rewrite, want 1", len(got))
	}
}

func TestReadAll_Missing(t *testing.T) {
	got, err := ReadAll(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got != nil {
		t.Errorf("ReadAll() = %v, want nil", got)
	}
}

func TestReadAll_SkipsBlankLinesAndReportsBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "references.jsonl")
	content := `{"doi":"10.1/a","year":2020}

{"doi":"10.1/b","year":2021}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ReadAll() returned %d entries, want 2", len(got))
	}

	if err := os.WriteFile(path, []byte("{\"doi\":\"10.1/a\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadAll(path); err == nil {
		t.Error("ReadAll() should fail on malformed line")
	}
}
