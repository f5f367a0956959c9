package classifier

import "strings"

const (
	fallbackConfidence = 0.3
	fallbackReasoning  = "classified from MIME type after the model was unavailable"
)

// Fallback derives a deterministic classification from the file's MIME type.
// Identical inputs always produce identical results.
func Fallback(info FileInfo) Classification {
	mime := strings.ToLower(strings.TrimSpace(info.MimeType))

	var category string
	switch {
	case strings.HasPrefix(mime, "image/"):
		category = CategoryImages
	case strings.HasPrefix(mime, "video/"):
		category = CategoryVideos
	case strings.HasPrefix(mime, "audio/"):
		category = CategoryAudio
	case strings.Contains(mime, "pdf"):
		category = CategoryPDFs
	case strings.Contains(mime, "document"), strings.Contains(mime, "text"):
		category = CategoryDocuments
	default:
		category = CategoryOther
	}

	var tags []string
	if info.FileType != "" {
		tags = []string{strings.ToLower(info.FileType)}
	}

	return Classification{
		Category:      category,
		SuggestedName: info.Name,
		Tags:          tags,
		Confidence:    fallbackConfidence,
		Reasoning:     fallbackReasoning,
	}
}
