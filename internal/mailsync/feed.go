package mailsync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/designdesk/agendasync/internal/graph"
)

// EmailRecord is one row of the dashboard feed. "From" carries the display
// name (org chart name when known), "Email" the raw address used for replies.
type EmailRecord struct {
	ID               string `json:"id"`
	From             string `json:"from"`
	Subject          string `json:"subject"`
	Email            string `json:"email"`
	Summary          string `json:"summary"`
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	Date             string `json:"date"`
	ReplyInstruction string `json:"reply_instruction"`
	DraftStatus      string `json:"draft_status"`
	WorkflowStatus   string `json:"workflow_status"`
}

// NewEmailRecord builds a dashboard record from a classified message. An
// empty displayName falls back to the sender address.
func NewEmailRecord(m graph.Message, displayName string) EmailRecord {
	if displayName == "" {
		displayName = m.SenderEmail
	}
	return EmailRecord{
		ID:             m.ID,
		From:           displayName,
		Subject:        m.Subject,
		Email:          m.SenderEmail,
		Summary:        m.Snippet,
		Category:       m.Category,
		Priority:       m.Priority,
		Date:           m.ReceivedAt,
		DraftStatus:    "new",
		WorkflowStatus: "idle",
	}
}

// WriteFeed writes the dashboard feed atomically: the file is complete or
// untouched, never half-written under a reading dashboard.
func WriteFeed(path string, records []EmailRecord) error {
	if records == nil {
		records = []EmailRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal email feed: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create feed directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".emails-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp feed file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write email feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close email feed: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace email feed: %w", err)
	}
	return nil
}

// ReadFeed loads a previously written feed. A missing file yields an empty
// feed.
func ReadFeed(path string) ([]EmailRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []EmailRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read email feed: %w", err)
	}
	var records []EmailRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse email feed: %w", err)
	}
	return records, nil
}
