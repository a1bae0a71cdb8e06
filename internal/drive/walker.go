package drive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/designdesk/agendasync/internal/agenda"
	"github.com/designdesk/agendasync/internal/docx"
	"github.com/designdesk/agendasync/internal/logging"
)

// Service is the Drive surface the walker needs. Client implements it.
type Service interface {
	ListChildren(ctx context.Context, folderID string) ([]*File, error)
	ExportPlainText(ctx context.Context, fileID string) (string, error)
	DownloadBytes(ctx context.Context, fileID string) ([]byte, error)
}

// Extractor turns free-form note text into action items.
type Extractor interface {
	FromNotes(ctx context.Context, text string) ([]agenda.ActionItem, error)
}

// Walker traverses a three-level agendas folder structure and extracts
// action items from each readable document:
//
//	Root → category folders → person/project folders → documents
//
// Documents sitting directly in a category folder are grouped under the
// synthetic "This folder" section. Only documents whose name contains the
// include-year token and not the exclude-year token are processed.
type Walker struct {
	service     Service
	extractor   Extractor
	includeYear string
	excludeYear string
	logger      *slog.Logger
}

// DirectDocsSection is the section name for documents that live directly
// in a category folder rather than in a person/project subfolder.
const DirectDocsSection = "This folder"

// NewWalker creates a walker. Empty year tokens disable the respective
// half of the filename filter.
func NewWalker(service Service, extractor Extractor, includeYear, excludeYear string, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{
		service:     service,
		extractor:   extractor,
		includeYear: includeYear,
		excludeYear: excludeYear,
		logger:      logger,
	}
}

// Walk traverses the folder tree under rootFolderID. Per-document failures
// are recorded as DocResult errors and never stop the walk; only a failure
// to list the root folder aborts it.
func (w *Walker) Walk(ctx context.Context, rootFolderID string) (*WalkResult, error) {
	if rootFolderID == "" {
		return nil, fmt.Errorf("root folder ID is required")
	}

	children, err := w.service.ListChildren(ctx, rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agendas folder: %w", err)
	}

	result := &WalkResult{
		ByFolder: make(map[string]map[string][]DocResult),
		AllItems: []agenda.ActionItem{},
	}

	var categories []*File
	for _, c := range children {
		if c.IsFolder() && !isArchivedFolder(c.Name) {
			categories = append(categories, c)
		}
	}
	result.Stats.CategoryFolders = len(categories)
	w.logger.Info("walking agenda folders", logging.Items(len(categories)))

	for _, category := range categories {
		w.walkCategory(ctx, category, result)
	}
	return result, nil
}

func (w *Walker) walkCategory(ctx context.Context, category *File, result *WalkResult) {
	result.ByFolder[category.Name] = make(map[string][]DocResult)

	children, err := w.service.ListChildren(ctx, category.ID)
	if err != nil {
		w.logger.Warn("failed to list category folder, skipping",
			logging.Folder(category.Name), logging.Err(err))
		return
	}

	var subfolders []*File
	var directDocs []*File
	for _, c := range children {
		switch {
		case c.IsFolder():
			if !isArchivedFolder(c.Name) {
				subfolders = append(subfolders, c)
			}
		case c.IsDocument():
			if w.matchesYearFilter(c.Name) {
				directDocs = append(directDocs, c)
			}
		}
	}

	if len(directDocs) > 0 {
		w.logger.Info("reading documents in category folder",
			logging.Folder(category.Name), logging.Items(len(directDocs)))
		for _, doc := range directDocs {
			out := w.processDoc(ctx, doc, category.Name, DirectDocsSection)
			result.ByFolder[category.Name][DirectDocsSection] = append(result.ByFolder[category.Name][DirectDocsSection], out)
			result.AllItems = append(result.AllItems, out.Items...)
			result.Stats.DocsProcessed++
		}
	}

	for _, folder := range subfolders {
		result.ByFolder[category.Name][folder.Name] = []DocResult{}

		docs, err := w.service.ListChildren(ctx, folder.ID)
		if err != nil {
			w.logger.Warn("failed to list subfolder, skipping",
				logging.Folder(folder.Name), logging.Err(err))
			continue
		}
		for _, doc := range docs {
			if !doc.IsDocument() || !w.matchesYearFilter(doc.Name) {
				continue
			}
			out := w.processDoc(ctx, doc, category.Name, folder.Name)
			result.ByFolder[category.Name][folder.Name] = append(result.ByFolder[category.Name][folder.Name], out)
			result.AllItems = append(result.AllItems, out.Items...)
			result.Stats.DocsProcessed++
		}
	}
}

func (w *Walker) processDoc(ctx context.Context, doc *File, categoryName, folderName string) DocResult {
	out := DocResult{
		DocName: doc.Name,
		DocID:   doc.ID,
		DocLink: DocumentLink(doc),
		Items:   []agenda.ActionItem{},
	}
	w.logger.Info("reading document", logging.Document(doc.Name), logging.Folder(folderName))

	text, err := w.documentText(ctx, doc)
	if err != nil {
		out.Err = err.Error()
		w.logger.Warn("failed to read document", logging.Document(doc.Name), logging.Err(err))
		return out
	}
	if text == "" {
		out.Err = "document is empty"
		return out
	}

	items, err := w.extractor.FromNotes(ctx, text)
	if err != nil {
		out.Err = err.Error()
		w.logger.Warn("failed to extract items", logging.Document(doc.Name), logging.Err(err))
		return out
	}

	for i := range items {
		items[i].SourceCategory = categoryName
		items[i].SourceFolder = folderName
		items[i].SourceDocument = doc.Name
		items[i].DocLink = out.DocLink
	}
	out.Items = items
	w.logger.Info("extracted items", logging.Document(doc.Name), logging.Items(len(items)))
	return out
}

// documentText reads a document as plain text: native Google Docs are
// exported, uploaded .docx files are downloaded and parsed.
func (w *Walker) documentText(ctx context.Context, doc *File) (string, error) {
	if doc.MimeType == DocxMimeType {
		data, err := w.service.DownloadBytes(ctx, doc.ID)
		if err != nil {
			return "", err
		}
		if len(data) == 0 {
			return "", fmt.Errorf("empty file")
		}
		text, err := docx.PlainText(data)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}
	return w.service.ExportPlainText(ctx, doc.ID)
}

// DocumentLink builds a browser link for a Drive document: the Docs editor
// for native documents, the Drive viewer for uploaded files.
func DocumentLink(doc *File) string {
	if doc.MimeType == GoogleDocMimeType {
		return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", doc.ID)
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", doc.ID)
}

func (w *Walker) matchesYearFilter(name string) bool {
	if w.includeYear != "" && !strings.Contains(name, w.includeYear) {
		return false
	}
	if w.excludeYear != "" && strings.Contains(name, w.excludeYear) {
		return false
	}
	return true
}

// isArchivedFolder reports whether a folder name marks an archive, such as
// "**Archive", "*Archived projects" or "** archive 2024". Plain "Archive"
// without a leading asterisk is kept.
func isArchivedFolder(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if !strings.Contains(n, "archive") {
		return false
	}
	if strings.HasPrefix(n, "**") || strings.HasPrefix(n, "*archive") || strings.Contains(n, "**archive") {
		return true
	}
	return strings.HasPrefix(n, "*")
}
