// Package jsonstore persists action items as a flat JSON array on disk.
//
// Unlike the hosted-store variant this file has no server-side query; the
// whole array is read, merged in memory keyed by external ID, and rewritten.
// Concurrent invocations are not guarded against; callers must serialize
// access externally.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/designdesk/agendasync/internal/agenda"
)

// Record is an action item plus its deduplication key as stored on disk.
type Record struct {
	agenda.ActionItem
	ExternalID string `json:"external_id"`
}

// Store is a local JSON collection of action items.
type Store struct {
	path string
}

// New creates a store backed by the JSON file at path. The file is created on
// first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Upsert merges the item into the collection keyed by its external ID:
// an existing record with the same ID is replaced in place, otherwise the
// item is appended. Returns the external ID and whether a new record was
// added.
func (s *Store) Upsert(ctx context.Context, item agenda.ActionItem, sourceDoc string) (string, bool, error) {
	records, err := s.load()
	if err != nil {
		return "", false, err
	}

	externalID := agenda.ItemExternalID(item, sourceDoc)
	if item.SourceDocument == "" {
		item.SourceDocument = sourceDoc
	}
	record := Record{ActionItem: item, ExternalID: externalID}

	created := true
	for i, existing := range records {
		if existing.ExternalID == externalID {
			records[i] = record
			created = false
			break
		}
	}
	if created {
		records = append(records, record)
	}

	if err := s.save(records); err != nil {
		return "", false, err
	}
	return externalID, created, nil
}

// All returns every record in the collection. A missing file yields an empty
// slice.
func (s *Store) All() ([]Record, error) {
	return s.load()
}

func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read item store %s: %w", s.path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("item store %s is not a JSON array: %w", s.path, err)
	}
	return records, nil
}

func (s *Store) save(records []Record) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode item store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write item store %s: %w", s.path, err)
	}
	return nil
}
