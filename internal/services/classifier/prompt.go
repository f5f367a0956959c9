package classifier

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a file organization assistant. Classify the file described by the user into exactly one category from this list:

Images, Documents, PDFs, Spreadsheets, Presentations, Videos, Audio, Archives, Code, Other

Respond with a single JSON object and nothing else:
{
  "category": "<one of the categories above>",
  "subcategory": "<short optional refinement such as Photos, Invoices, Reports; empty string if none>",
  "suggestedName": "<a clean human-readable file name including the extension>",
  "tags": ["<lowercase keyword>", ...],
  "confidence": <number between 0 and 1>,
  "reasoning": "<one sentence explaining the choice>"
}

Keep the original file extension in suggestedName. Do not invent file contents; classify from the name, type, and size only.`

func buildUserPrompt(info FileInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File name: %s\n", info.Name)
	if info.FileType != "" {
		fmt.Fprintf(&b, "File type: %s\n", info.FileType)
	}
	if info.MimeType != "" {
		fmt.Fprintf(&b, "MIME type: %s\n", info.MimeType)
	}
	fmt.Fprintf(&b, "Size in bytes: %d\n", info.Size)
	return b.String()
}
