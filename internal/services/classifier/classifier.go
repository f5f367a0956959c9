package classifier

import "context"

// FileInfo describes the file under classification. Only metadata is sent to
// the model, never file contents.
type FileInfo struct {
	Name     string
	FileType string
	MimeType string
	Size     int64
}

// Classification is the outcome of classifying one file.
type Classification struct {
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	SuggestedName string   `json:"suggestedName"`
	Tags          []string `json:"tags"`
	Confidence    float64  `json:"confidence"`
	Reasoning     string   `json:"reasoning"`
}

// Service classifies files. Classify always returns a usable classification;
// backend failures degrade to the deterministic fallback.
type Service interface {
	Classify(ctx context.Context, info FileInfo) Classification
}
