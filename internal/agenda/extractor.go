package agenda

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/designdesk/agendasync/internal/docx"
	"github.com/designdesk/agendasync/internal/llm"
	"github.com/designdesk/agendasync/internal/logging"
)

// Extraction call parameters. Temperature 0 keeps the output as deterministic
// as the endpoint allows; the token ceiling bounds cost per document.
const (
	extractionTemperature = 0.0
	extractionMaxTokens   = 1500
)

// Completer is the LLM call the extractor depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string, options ...llm.Option) (string, error)
}

// Extractor turns meeting text into normalized action items via an LLM call.
type Extractor struct {
	llm    Completer
	logger *slog.Logger
}

// NewExtractor creates an extractor. A nil logger falls back to slog.Default.
func NewExtractor(completer Completer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{llm: completer, logger: logger}
}

// FromParagraphs extracts action items from an annotated structured document.
// An unparseable LLM response is an error on this path.
func (e *Extractor) FromParagraphs(ctx context.Context, pars []docx.Paragraph) ([]ActionItem, error) {
	if len(pars) == 0 {
		return nil, nil
	}

	raw, err := e.llm.Complete(ctx, BuildDocumentPrompt(pars),
		llm.WithTemperature(extractionTemperature),
		llm.WithMaxTokens(extractionMaxTokens))
	if err != nil {
		return nil, err
	}

	parsed, err := parseItemArray(raw)
	if err != nil {
		return nil, err
	}

	return normalizeItems(parsed, false), nil
}

// FromNotes extracts action items from unstructured free-form text. On this
// path an unparseable LLM response degrades to an empty list instead of an
// error; network and API failures still propagate.
func (e *Extractor) FromNotes(ctx context.Context, text string) ([]ActionItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	raw, err := e.llm.Complete(ctx, BuildNotesPrompt(text),
		llm.WithTemperature(extractionTemperature),
		llm.WithMaxTokens(extractionMaxTokens))
	if err != nil {
		return nil, err
	}

	parsed, err := parseItemArray(raw)
	if err != nil {
		e.logger.Warn("discarding unparseable extraction response",
			logging.Operation("agenda.extract_notes"), logging.Err(err))
		return []ActionItem{}, nil
	}

	return normalizeItems(parsed, true), nil
}

// parseItemArray coerces a raw LLM response into a JSON array of objects.
// It first tries a strict parse of the whole response, then the substring
// between the first '[' and the last ']'.
func parseItemArray(raw string) ([]map[string]any, error) {
	var parsed []map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed, nil
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start != -1 && end != -1 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err == nil {
			return parsed, nil
		}
	}

	return nil, &ParseError{Raw: raw}
}

// normalizeItems applies the fixed schema to loosely shaped LLM output.
// freeForm selects the paragraph_index default: nil for structured documents,
// the item's 1-based ordinal position for free-form notes.
func normalizeItems(parsed []map[string]any, freeForm bool) []ActionItem {
	items := make([]ActionItem, 0, len(parsed))
	for i, m := range parsed {
		status := strings.ToLower(strings.TrimSpace(stringField(m, "status")))
		if status != StatusTodo && status != StatusDone {
			status = StatusTodo
		}

		priority := strings.ToLower(strings.TrimSpace(stringField(m, "priority")))
		if priority != PriorityLow && priority != PriorityMedium && priority != PriorityHigh {
			priority = PriorityMedium
		}

		item := ActionItem{
			Text:       stringField(m, "text"),
			Owner:      optionalString(m, "owner"),
			OwnerEmail: optionalString(m, "owner_email"),
			DueDate:    optionalString(m, "due_date"),
			Priority:   priority,
			Status:     status,
			Context:    optionalString(m, "context"),
		}

		if idx, ok := intField(m, "paragraph_index"); ok {
			item.ParagraphIndex = &idx
		} else if freeForm {
			ordinal := i + 1
			item.ParagraphIndex = &ordinal
		}

		items = append(items, item)
	}
	return items
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// optionalString returns nil for absent, null, or empty values.
func optionalString(m map[string]any, key string) *string {
	v, ok := m[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func intField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}
