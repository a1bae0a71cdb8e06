package agenda

import (
	"fmt"
	"strings"

	"github.com/designdesk/agendasync/internal/docx"
)

// documentPromptTemplate instructs the model to extract action items from
// annotated meeting notes. Each line of the rendered notes begins with a
// paragraph index and a [DONE]/[TODO] tag that must bias the item status.
const documentPromptTemplate = `You are a JSON-only extractor. Extract action items from the meeting notes below.

Each line begins with a paragraph index and a status hint tag:
- If tagged [DONE], the extracted action item MUST have "status": "done"
- If tagged [TODO], the extracted action item MUST have "status": "todo" unless the text clearly indicates it is already completed.

Return a JSON array of objects exactly like:
[
  {
    "text": "short description (required)",
    "owner": "Full Name or null",
    "owner_email": "email or null",
    "due_date": "YYYY-MM-DD or null",
    "priority": "low|medium|high",
    "status": "todo|done",
    "context": "one sentence summary of where it came from",
    "paragraph_index": 12
  },
  ...
]

Meeting notes:
%s

Important: Return only valid JSON array. If there are no action items, return [].`

// notesPromptTemplate is the simpler variant for unstructured free-form text
// with no paragraph indices or formatting signals.
const notesPromptTemplate = `You are a JSON-only extractor. Extract action items from the notes below.

Return a JSON array of objects exactly like:
[
  {
    "text": "short description (required)",
    "owner": "Full Name or null",
    "owner_email": "email or null",
    "due_date": "YYYY-MM-DD or null",
    "priority": "low|medium|high",
    "status": "todo|done",
    "context": "one sentence summary of where it came from"
  },
  ...
]

An item is "done" only when the text clearly states it is completed; otherwise use "todo".

Notes:
%s

Important: Return only valid JSON array. If there are no action items, return [].`

// JoinParagraphs renders annotated paragraphs one per line:
//
//	0007 [DONE] (strike=0.850, section=done) Add to Nick agenda...
func JoinParagraphs(pars []docx.Paragraph) string {
	lines := make([]string, 0, len(pars))
	for _, p := range pars {
		tag := "[TODO]"
		if p.StatusHint == docx.StatusDone {
			tag = "[DONE]"
		}
		section := "none"
		if p.SectionStatusHint != "" {
			section = string(p.SectionStatusHint)
		}
		lines = append(lines, fmt.Sprintf("%04d %s (strike=%.3f, section=%s) %s",
			p.Index, tag, p.StrikeRatio, section, p.Text))
	}
	return strings.Join(lines, "\n")
}

// BuildDocumentPrompt embeds rendered paragraphs in the structured extraction
// template. Pure string substitution; never invents content.
func BuildDocumentPrompt(pars []docx.Paragraph) string {
	return fmt.Sprintf(documentPromptTemplate, JoinParagraphs(pars))
}

// BuildNotesPrompt embeds free-form text in the unstructured extraction template.
func BuildNotesPrompt(text string) string {
	return fmt.Sprintf(notesPromptTemplate, text)
}
