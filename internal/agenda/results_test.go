package agenda

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadResultsMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "action_items.json")

	results := map[string][]ActionItem{
		"b.docx": {{Text: "second", Priority: PriorityMedium, Status: StatusTodo}},
		"a.docx": {{Text: "first", Priority: PriorityHigh, Status: StatusDone}},
	}
	require.NoError(t, WriteResults(path, results))

	items, err := ReadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Flattened in document-name order.
	assert.Equal(t, "first", items[0].Text)
	assert.Equal(t, "second", items[1].Text)
}

func TestReadItemsFlatList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, WriteFlat(path, []ActionItem{{Text: "only one"}}))

	items, err := ReadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "only one", items[0].Text)
}

func TestWriteFlatNilBecomesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, WriteFlat(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestReadItemsRejectsOtherShapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`"just a string"`), 0o644))

	_, err := ReadItems(path)
	require.Error(t, err)
}

func TestActionItemJSONNullFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, WriteFlat(path, []ActionItem{{Text: "x", Priority: PriorityMedium, Status: StatusTodo}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"owner": null`)
	assert.Contains(t, string(data), `"due_date": null`)
	assert.NotContains(t, string(data), "source_doc")
}
