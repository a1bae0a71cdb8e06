package agenda

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDocx writes a minimal .docx with one paragraph per text.
func writeDocx(t *testing.T, dir, name string, texts ...string) string {
	t.Helper()

	var body bytes.Buffer
	for _, text := range texts {
		fmt.Fprintf(&body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, text)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`, body.String())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// memStore collects upserts keyed by external ID.
type memStore struct {
	records map[string]ActionItem
	fail    map[string]bool // item text → force error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]ActionItem), fail: make(map[string]bool)}
}

func (s *memStore) Upsert(ctx context.Context, item ActionItem, sourceDoc string) (string, bool, error) {
	if s.fail[item.Text] {
		return "", false, errors.New("store rejected item")
	}
	id := ItemExternalID(item, sourceDoc)
	_, exists := s.records[id]
	s.records[id] = item
	return id, !exists, nil
}

func TestProcessFolderBatchResilience(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, dir, "a.docx", "task for alice")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.docx"), []byte("corrupt"), 0o644))
	writeDocx(t, dir, "c.docx", "task for carol")

	completer := &fakeCompleter{response: `[{"text":"extracted","paragraph_index":0}]`}
	p := NewProcessor(NewExtractor(completer, nil), nil, nil)

	results, summary, err := p.ProcessFolder(context.Background(), dir)
	require.NoError(t, err)

	require.Contains(t, results, "a.docx")
	require.Contains(t, results, "b.docx")
	require.Contains(t, results, "c.docx")
	assert.Len(t, results["a.docx"], 1)
	assert.Empty(t, results["b.docx"])
	assert.Len(t, results["c.docx"], 1)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Errored)
}

func TestProcessFolderIdempotentUpsert(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, dir, "agenda.docx", "email nick")

	completer := &fakeCompleter{response: `[{"text":"Email Nick","paragraph_index":0}]`}
	store := newMemStore()
	p := NewProcessor(NewExtractor(completer, nil), store, nil)

	_, first, err := p.ProcessFolder(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 0, first.Updated)

	_, second, err := p.ProcessFolder(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)

	assert.Len(t, store.records, 1)
}

func TestProcessFolderItemErrorDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, dir, "agenda.docx", "two items here")

	completer := &fakeCompleter{response: `[{"text":"bad item","paragraph_index":0},{"text":"good item","paragraph_index":1}]`}
	store := newMemStore()
	store.fail["bad item"] = true
	p := NewProcessor(NewExtractor(completer, nil), store, nil)

	_, summary, err := p.ProcessFolder(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Errored)
	assert.Len(t, store.records, 1)
}

func TestProcessFolderEmpty(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(NewExtractor(&fakeCompleter{response: "[]"}, nil), nil, nil)

	results, summary, err := p.ProcessFolder(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, Summary{}, summary)
}

func TestSummaryString(t *testing.T) {
	s := Summary{Processed: 3, Created: 2, Updated: 1, Errored: 1}
	assert.Equal(t, "3 processed, 2 created, 1 updated, 1 errored", s.String())
}

func TestUpsertAllCountsOutcomes(t *testing.T) {
	store := newMemStore()
	store.fail["broken"] = true

	items := []ActionItem{
		{Text: "ship release notes", SourceDocument: "ops.docx"},
		{Text: "broken"},
		{Text: "book the room"},
	}

	summary := UpsertAll(context.Background(), store, items, "fallback.docx", nil)
	assert.Equal(t, Summary{Processed: 3, Created: 2, Errored: 1}, summary)

	// syncing again updates in place instead of creating
	summary = UpsertAll(context.Background(), store, items, "fallback.docx", nil)
	assert.Equal(t, Summary{Processed: 3, Updated: 2, Errored: 1}, summary)
}

func TestUpsertAllFallbackDocument(t *testing.T) {
	store := newMemStore()
	item := ActionItem{Text: "file the report"}

	UpsertAll(context.Background(), store, []ActionItem{item}, "weekly.docx", nil)

	_, exists := store.records[ItemExternalID(item, "weekly.docx")]
	assert.True(t, exists)
}
