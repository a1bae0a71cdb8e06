package drive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteResult persists a walk result as indented JSON, creating the parent
// directory when needed.
func WriteResult(path string, result *WalkResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal walk result: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write walk result: %w", err)
	}
	return nil
}
