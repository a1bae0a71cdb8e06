package agenda

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// WriteResults writes the per-document result map as indented JSON, creating
// parent directories as needed.
func WriteResults(path string, results map[string][]ActionItem) error {
	return writeJSON(path, results)
}

// WriteFlat writes a flattened item list as indented JSON.
func WriteFlat(path string, items []ActionItem) error {
	if items == nil {
		items = []ActionItem{}
	}
	return writeJSON(path, items)
}

// Flatten collapses a per-document result map into a single item list,
// ordered by document name for stable output.
func Flatten(results map[string][]ActionItem) []ActionItem {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	flat := make([]ActionItem, 0)
	for _, name := range names {
		flat = append(flat, results[name]...)
	}
	return flat
}

// ReadItems loads a results file in either of its two shapes: a map from
// document name to item list (flattened on read) or an already flat list.
func ReadItems(path string) ([]ActionItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file %s: %w", path, err)
	}

	var byDoc map[string][]ActionItem
	if err := json.Unmarshal(data, &byDoc); err == nil {
		return Flatten(byDoc), nil
	}

	var flat []ActionItem
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("results file %s is neither a document map nor an item list: %w", path, err)
	}
	return flat, nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
