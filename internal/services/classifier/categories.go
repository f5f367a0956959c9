package classifier

import "strings"

// Library categories. Every classification resolves to one of these;
// anything unrecognized becomes CategoryOther.
const (
	CategoryImages        = "Images"
	CategoryDocuments     = "Documents"
	CategoryPDFs          = "PDFs"
	CategorySpreadsheets  = "Spreadsheets"
	CategoryPresentations = "Presentations"
	CategoryVideos        = "Videos"
	CategoryAudio         = "Audio"
	CategoryArchives      = "Archives"
	CategoryCode          = "Code"
	CategoryOther         = "Other"
)

var categories = []string{
	CategoryImages,
	CategoryDocuments,
	CategoryPDFs,
	CategorySpreadsheets,
	CategoryPresentations,
	CategoryVideos,
	CategoryAudio,
	CategoryArchives,
	CategoryCode,
	CategoryOther,
}

// Categories returns the known category names in display order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// NormalizeCategory maps a free-form category value onto the known set.
func NormalizeCategory(value string) string {
	trimmed := strings.TrimSpace(value)
	for _, known := range categories {
		if strings.EqualFold(trimmed, known) {
			return known
		}
	}
	return CategoryOther
}
