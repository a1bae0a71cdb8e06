package graph

import (
	"html"
	"regexp"
	"strings"
)

var (
	brTags      = regexp.MustCompile(`(?i)<br\s*/?>`)
	pCloseTags  = regexp.MustCompile(`(?i)</p\s*>`)
	pOpenTags   = regexp.MustCompile(`(?i)<p[^>]*>`)
	styleBlocks = regexp.MustCompile(`(?is)<style.*?>.*?</style>`)
	scriptBlock = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText converts a simple HTML mail body to readable plain text.
// Paragraphs and line breaks become newlines, style and script blocks are
// dropped, remaining tags are stripped, and entities are unescaped.
func HTMLToText(source string) string {
	if source == "" {
		return ""
	}
	text := brTags.ReplaceAllString(source, "\n")
	text = pCloseTags.ReplaceAllString(text, "\n\n")
	text = pOpenTags.ReplaceAllString(text, "")
	text = styleBlocks.ReplaceAllString(text, "")
	text = scriptBlock.ReplaceAllString(text, "")
	text = anyTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
