package assistant

import "strings"

// knowledgeEntry answers common questions without a model round trip.
type knowledgeEntry struct {
	keywords []string
	answer   string
}

var knowledgeBase = []knowledgeEntry{
	{
		keywords: []string{"how do i organize", "how to organize", "start organizing", "organize my files"},
		answer: "Press the Organize button (or POST /api/organize) and every uploaded file is classified and moved into a category folder such as Images, PDFs, or Documents. You can watch the progress stream while it runs.",
	},
	{
		keywords: []string{"undo", "revert", "put back", "restore"},
		answer: "Every organization run can be undone. Pick the run you want to revert (or POST /api/organize/undo with its id) and all files move back to their original locations; empty category folders are cleaned up too.",
	},
	{
		keywords: []string{"supported", "file type", "file types", "formats", "what files"},
		answer: "All file types are accepted. Files are sorted into Images, Documents, PDFs, Spreadsheets, Presentations, Videos, Audio, Archives, Code, and Other. Anything unrecognized lands in Other.",
	},
	{
		keywords: []string{"not working", "problem", "error", "stuck", "failed"},
		answer: "If a run reports errors, individual files may have been skipped; check the run summary for per-file failure reasons. Files that fail to move stay where they were and can be organized again on the next run.",
	},
	{
		keywords: []string{"stats", "statistics", "analytics", "how many files"},
		answer: "The stats view (GET /api/stats) shows total files, how many are organized, total storage used, and a per-category breakdown.",
	},
}

// knowledgeAnswer returns the first knowledge-base answer whose keyword
// appears in the message.
func knowledgeAnswer(message string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return "", false
	}
	for _, entry := range knowledgeBase {
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				return entry.answer, true
			}
		}
	}
	return "", false
}
