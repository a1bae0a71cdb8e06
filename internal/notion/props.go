package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// Plain-text accessors for query results. Notion rich text arrives as a list
// of fragments; these join the fragments and fall back to empty strings for
// absent or differently typed properties.

func titleValue(props notionapi.Properties, name string) string {
	p, ok := props[name].(*notionapi.TitleProperty)
	if !ok {
		return ""
	}
	return joinRichText(p.Title)
}

func richTextValue(props notionapi.Properties, name string) string {
	p, ok := props[name].(*notionapi.RichTextProperty)
	if !ok {
		return ""
	}
	return joinRichText(p.RichText)
}

func selectValue(props notionapi.Properties, name string) string {
	p, ok := props[name].(*notionapi.SelectProperty)
	if !ok {
		return ""
	}
	return p.Select.Name
}

func joinRichText(fragments []notionapi.RichText) string {
	var b strings.Builder
	for _, f := range fragments {
		if f.PlainText != "" {
			b.WriteString(f.PlainText)
		} else if f.Text != nil {
			b.WriteString(f.Text.Content)
		}
	}
	return b.String()
}

// truncateRichText keeps a value inside Notion's rich text length limit.
func truncateRichText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
