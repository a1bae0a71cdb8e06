package drive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designdesk/agendasync/internal/agenda"
)

// fakeService serves a canned folder tree from memory.
type fakeService struct {
	children map[string][]*File // folder ID → children
	exports  map[string]string  // file ID → exported text
	raw      map[string][]byte  // file ID → downloaded bytes
	failList map[string]bool    // folder ID → force list error
}

func (s *fakeService) ListChildren(ctx context.Context, folderID string) ([]*File, error) {
	if s.failList[folderID] {
		return nil, errors.New("403: insufficient permissions")
	}
	return s.children[folderID], nil
}

func (s *fakeService) ExportPlainText(ctx context.Context, fileID string) (string, error) {
	text, ok := s.exports[fileID]
	if !ok {
		return "", fmt.Errorf("404: file %s not found", fileID)
	}
	return text, nil
}

func (s *fakeService) DownloadBytes(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := s.raw[fileID]
	if !ok {
		return nil, fmt.Errorf("404: file %s not found", fileID)
	}
	return data, nil
}

// fakeExtractor yields one item per line of text, failing when the text
// contains "explode".
type fakeExtractor struct{}

func (fakeExtractor) FromNotes(ctx context.Context, text string) ([]agenda.ActionItem, error) {
	if strings.Contains(text, "explode") {
		return nil, errors.New("model returned garbage")
	}
	var items []agenda.ActionItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, agenda.ActionItem{Text: line, Status: agenda.StatusTodo})
		}
	}
	return items, nil
}

func docxBytes(t *testing.T, texts ...string) []byte {
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
	return buf.Bytes()
}

func folder(id, name string) *File {
	return &File{ID: id, Name: name, MimeType: FolderMimeType}
}

func gdoc(id, name string) *File {
	return &File{ID: id, Name: name, MimeType: GoogleDocMimeType}
}

func TestWalkThreeLevels(t *testing.T) {
	svc := &fakeService{
		children: map[string][]*File{
			"root": {
				folder("cat-staff", "Staff Meetings"),
				folder("cat-arch", "**Archive"),
				folder("cat-proj", "Projects"),
				gdoc("stray", "2026 stray doc"), // files at root level are ignored
			},
			"cat-staff": {
				gdoc("direct-1", "2026 Sunny"),
				gdoc("old-1", "2025 Sunny"), // excluded year
				folder("sub-alice", "Alice"),
				folder("sub-arch", "*Archived 1:1s"),
			},
			"sub-alice": {
				gdoc("alice-1", "Agenda 2026 Alice"),
				gdoc("alice-old", "Agenda 2024 Alice"), // no include token
			},
			"cat-proj": {
				folder("sub-website", "Website"),
			},
			"sub-website": {
				{ID: "site-1", Name: "Plan 2026.docx", MimeType: DocxMimeType},
			},
		},
		exports: map[string]string{
			"direct-1": "call Sunny\nbook room",
			"alice-1":  "review budget",
		},
		raw: map[string][]byte{
			"site-1": docxBytes(t, "launch checklist"),
		},
	}

	w := NewWalker(svc, fakeExtractor{}, "2026", "2025", nil)
	result, err := w.Walk(context.Background(), "root")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.CategoryFolders)
	assert.Equal(t, 3, result.Stats.DocsProcessed)

	staff := result.ByFolder["Staff Meetings"]
	require.NotNil(t, staff)
	require.Len(t, staff[DirectDocsSection], 1)
	assert.Equal(t, "2026 Sunny", staff[DirectDocsSection][0].DocName)
	assert.Len(t, staff[DirectDocsSection][0].Items, 2)
	require.Len(t, staff["Alice"], 1)
	assert.Equal(t, "Agenda 2026 Alice", staff["Alice"][0].DocName)

	_, archived := result.ByFolder["**Archive"]
	assert.False(t, archived)
	_, archivedSub := staff["*Archived 1:1s"]
	assert.False(t, archivedSub)

	website := result.ByFolder["Projects"]["Website"]
	require.Len(t, website, 1)
	assert.Equal(t, []string{"launch checklist"}, itemTexts(website[0].Items))

	assert.Len(t, result.AllItems, 4)
	for _, item := range result.AllItems {
		assert.NotEmpty(t, item.SourceCategory)
		assert.NotEmpty(t, item.SourceFolder)
		assert.NotEmpty(t, item.SourceDocument)
		assert.NotEmpty(t, item.DocLink)
	}
}

func itemTexts(items []agenda.ActionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

func TestWalkRecordsDocumentErrorsAndContinues(t *testing.T) {
	svc := &fakeService{
		children: map[string][]*File{
			"root": {folder("cat", "Deans Office")},
			"cat":  {folder("sub", "Sandy")},
			"sub": {
				gdoc("missing", "2026 missing"),
				gdoc("bad-llm", "2026 rambling"),
				gdoc("good", "2026 good"),
			},
		},
		exports: map[string]string{
			"bad-llm": "explode",
			"good":    "send minutes",
		},
	}

	w := NewWalker(svc, fakeExtractor{}, "2026", "2025", nil)
	result, err := w.Walk(context.Background(), "root")
	require.NoError(t, err)

	docs := result.ByFolder["Deans Office"]["Sandy"]
	require.Len(t, docs, 3)
	assert.Contains(t, docs[0].Err, "not found")
	assert.Empty(t, docs[0].Items)
	assert.Contains(t, docs[1].Err, "garbage")
	assert.Empty(t, docs[1].Items)
	assert.Empty(t, docs[2].Err)
	assert.Len(t, result.AllItems, 1)
}

func TestWalkSkipsUnlistableCategory(t *testing.T) {
	svc := &fakeService{
		children: map[string][]*File{
			"root": {folder("locked", "Locked"), folder("open", "Open")},
			"open": {gdoc("d1", "2026 notes")},
		},
		exports:  map[string]string{"d1": "one thing"},
		failList: map[string]bool{"locked": true},
	}

	w := NewWalker(svc, fakeExtractor{}, "2026", "2025", nil)
	result, err := w.Walk(context.Background(), "root")
	require.NoError(t, err)

	assert.Empty(t, result.ByFolder["Locked"])
	assert.Len(t, result.ByFolder["Open"][DirectDocsSection], 1)
	assert.Len(t, result.AllItems, 1)
}

func TestWalkFailsWhenRootUnlistable(t *testing.T) {
	svc := &fakeService{failList: map[string]bool{"root": true}}
	w := NewWalker(svc, fakeExtractor{}, "2026", "2025", nil)
	_, err := w.Walk(context.Background(), "root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agendas folder")
}

func TestDocumentLink(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/document/d/abc/edit",
		DocumentLink(gdoc("abc", "x")))
	assert.Equal(t,
		"https://drive.google.com/file/d/xyz/view",
		DocumentLink(&File{ID: "xyz", MimeType: DocxMimeType}))
}

func TestIsArchivedFolder(t *testing.T) {
	cases := []struct {
		name     string
		archived bool
	}{
		{"**Archive", true},
		{"** Archive 2024", true},
		{"*Archived projects", true},
		{"*old archive", true},
		{"Archive", false},
		{"Staff Meetings", false},
		{"", false},
		{"*notes", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.archived, isArchivedFolder(tc.name), tc.name)
	}
}

func TestMatchesYearFilter(t *testing.T) {
	w := NewWalker(nil, nil, "2026", "2025", nil)
	assert.True(t, w.matchesYearFilter("2026 Sunny"))
	assert.False(t, w.matchesYearFilter("2025 Sunny"))
	assert.False(t, w.matchesYearFilter("2025-2026 plan"))
	assert.False(t, w.matchesYearFilter("Sunny"))

	open := NewWalker(nil, nil, "", "", nil)
	assert.True(t, open.matchesYearFilter("anything"))
}
