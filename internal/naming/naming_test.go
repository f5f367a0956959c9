package naming

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSafeName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"report.pdf", "report.pdf"},
		{"  my   file.txt  ", "my file.txt"},
		{`bad/na*me?.jpg`, "badname.jpg"},
		{"trailing dots...", "trailing dots"},
		{"", "unnamed"},
		{"///", "unnamed"},
		{"tab\there.txt", "tab here.txt"},
	}
	for _, tc := range cases {
		if got := SafeName(tc.input); got != tc.want {
			t.Errorf("SafeName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSafeNameCapsLengthKeepingExtension(t *testing.T) {
	long := strings.Repeat("a", 300) + ".pdf"
	got := SafeName(long)
	if len(got) > 200 {
		t.Fatalf("name too long: %d", len(got))
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("extension lost: %q", got)
	}
}

func TestSafeNameCapsLengthOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 150) + ".txt"
	got := SafeName(long)
	if len(got) > 200 {
		t.Fatalf("name too long: %d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, ".txt") {
		t.Fatalf("extension lost: %q", got)
	}
}

func TestDestPath(t *testing.T) {
	got := DestPath("/organized", "Images", "Photos", "beach.jpg")
	want := filepath.Join("/organized", "Images", "Photos", "beach.jpg")
	if got != want {
		t.Fatalf("DestPath = %q, want %q", got, want)
	}
}

func TestDestPathWithoutSubcategory(t *testing.T) {
	got := DestPath("/organized", "PDFs", "", "report.pdf")
	want := filepath.Join("/organized", "PDFs", "report.pdf")
	if got != want {
		t.Fatalf("DestPath = %q, want %q", got, want)
	}
}

func TestFolderTitle(t *testing.T) {
	if got := FolderTitle("financial documents"); got != "Financial Documents" {
		t.Fatalf("FolderTitle = %q", got)
	}
	if got := FolderTitle(""); got != "" {
		t.Fatalf("expected empty folder for empty input, got %q", got)
	}
}

func TestEnsureUniqueNoCollision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	got, err := EnsureUnique(path)
	if err != nil {
		t.Fatalf("EnsureUnique: %v", err)
	}
	if got != path {
		t.Fatalf("expected untouched path, got %q", got)
	}
}

func TestEnsureUniqueAppendsCounter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file (1).txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := EnsureUnique(path)
	if err != nil {
		t.Fatalf("EnsureUnique: %v", err)
	}
	if got != filepath.Join(dir, "file (2).txt") {
		t.Fatalf("expected counter 2, got %q", got)
	}
}
