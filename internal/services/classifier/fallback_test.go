package classifier

import (
	"reflect"
	"testing"
)

func TestFallbackCategories(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"image/jpeg", CategoryImages},
		{"image/png", CategoryImages},
		{"video/mp4", CategoryVideos},
		{"audio/mpeg", CategoryAudio},
		{"application/pdf", CategoryPDFs},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", CategoryDocuments},
		{"text/plain", CategoryDocuments},
		{"application/octet-stream", CategoryOther},
		{"", CategoryOther},
	}
	for _, tc := range cases {
		got := Fallback(FileInfo{Name: "f", MimeType: tc.mime})
		if got.Category != tc.want {
			t.Errorf("Fallback(%q).Category = %q, want %q", tc.mime, got.Category, tc.want)
		}
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	info := FileInfo{Name: "data.xyz", FileType: "xyz", MimeType: "application/x-custom", Size: 42}
	first := Fallback(info)
	for i := 0; i < 5; i++ {
		if got := Fallback(info); !reflect.DeepEqual(got, first) {
			t.Fatalf("fallback varied between calls: %+v != %+v", got, first)
		}
	}
}

func TestFallbackShape(t *testing.T) {
	got := Fallback(FileInfo{Name: "clip.mov", FileType: "MOV", MimeType: "video/quicktime"})
	if got.SuggestedName != "clip.mov" {
		t.Fatalf("suggested name must be the original, got %q", got.SuggestedName)
	}
	if got.Confidence != fallbackConfidence {
		t.Fatalf("unexpected confidence %v", got.Confidence)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "mov" {
		t.Fatalf("expected lowercased file type tag, got %v", got.Tags)
	}
	if got.Subcategory != "" {
		t.Fatalf("fallback must not invent subcategories, got %q", got.Subcategory)
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("images"); got != CategoryImages {
		t.Fatalf("expected case-insensitive match, got %q", got)
	}
	if got := NormalizeCategory("  PDFs "); got != CategoryPDFs {
		t.Fatalf("expected trimmed match, got %q", got)
	}
	if got := NormalizeCategory("Stuff"); got != CategoryOther {
		t.Fatalf("expected Other for unknown value, got %q", got)
	}
}
