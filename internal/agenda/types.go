// Package agenda implements the action item extraction pipeline: rendering
// parsed meeting documents into LLM prompts, tolerantly parsing the model's
// JSON response, normalizing items to a fixed schema, and computing stable
// identifiers for idempotent syncing.
package agenda

import (
	"context"
	"fmt"
)

// Priority levels for an action item.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Action item status values.
const (
	StatusTodo = "todo"
	StatusDone = "done"
)

// ActionItem is a normalized task record extracted from meeting text.
// Nullable fields use pointers so that absent values round-trip as JSON null.
type ActionItem struct {
	Text           string  `json:"text"`
	Owner          *string `json:"owner"`
	OwnerEmail     *string `json:"owner_email"`
	DueDate        *string `json:"due_date"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	Context        *string `json:"context"`
	ParagraphIndex *int    `json:"paragraph_index"`

	// Provenance, attached during Drive folder walking only.
	SourceCategory string `json:"source_category,omitempty"`
	SourceFolder   string `json:"source_folder,omitempty"`
	SourceDocument string `json:"source_doc,omitempty"`
	DocLink        string `json:"doc_link,omitempty"`
}

// Store persists action items keyed by their external ID.
// Upsert returns the destination record identifier and whether it was created
// (as opposed to updated in place).
type Store interface {
	Upsert(ctx context.Context, item ActionItem, sourceDoc string) (id string, created bool, err error)
}

// ParseError reports an LLM response that could not be coerced into a JSON
// array by either the strict or the bracket-salvage parse.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse JSON array from LLM output (%d bytes)", len(e.Raw))
}
