// Package naming builds destination names and paths for organized files.
// All functions are pure except EnsureUnique, which probes the filesystem.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxNameLength caps sanitized file names, keeping room for collision
// suffixes within common filesystem limits.
const maxNameLength = 200

var titleCaser = cases.Title(language.English)

// SafeName strips filesystem-unsafe characters from a raw name, collapses
// whitespace, and caps the length. The result is never empty.
func SafeName(raw string) string {
	trimmed := strings.TrimSpace(raw)

	var b strings.Builder
	lastSpace := false
	for _, r := range trimmed {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			continue
		case r < 0x20 || r == 0x7f:
			continue
		case r == ' ' || r == '\t':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	name := strings.Trim(b.String(), " .")
	if len(name) > maxNameLength {
		ext := filepath.Ext(name)
		if len(ext) >= maxNameLength {
			ext = ""
		}
		// Byte cap, trimmed back to a rune boundary.
		cut := name[:maxNameLength-len(ext)]
		for len(cut) > 0 && !utf8.ValidString(cut) {
			cut = cut[:len(cut)-1]
		}
		name = strings.TrimSpace(cut) + ext
	}
	if name == "" {
		return "unnamed"
	}
	return name
}

// FolderTitle normalizes a category or subcategory into a folder name.
func FolderTitle(value string) string {
	cleaned := SafeName(value)
	if cleaned == "unnamed" {
		return ""
	}
	return titleCaser.String(cleaned)
}

// DestPath builds the destination path for a file inside the organized root:
// <root>/<Category>[/<Subcategory>]/<name>.
func DestPath(root, category, subcategory, name string) string {
	parts := []string{root}
	if folder := FolderTitle(category); folder != "" {
		parts = append(parts, folder)
	}
	if folder := FolderTitle(subcategory); folder != "" {
		parts = append(parts, folder)
	}
	parts = append(parts, SafeName(name))
	return filepath.Join(parts...)
}

// EnsureUnique returns the first path that does not exist, appending a
// " (n)" counter before the extension. Existing files are never overwritten.
func EnsureUnique(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	} else if err != nil {
		return "", fmt.Errorf("stat destination: %w", err)
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("stat destination: %w", err)
		}
	}
}
