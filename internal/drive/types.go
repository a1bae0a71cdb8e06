package drive

import "github.com/designdesk/agendasync/internal/agenda"

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// GoogleDocMimeType is the MIME type for native Google Docs
	GoogleDocMimeType = "application/vnd.google-apps.document"

	// DocxMimeType is the MIME type for uploaded Word documents
	DocxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// File is the subset of Drive file metadata the walker needs.
type File struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`
}

// IsFolder reports whether the file is a Drive folder.
func (f *File) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// IsDocument reports whether the file is a readable agenda document,
// either a native Google Doc or an uploaded .docx.
func (f *File) IsDocument() bool {
	return f.MimeType == GoogleDocMimeType || f.MimeType == DocxMimeType
}

// DocResult is the outcome of reading one document and extracting its
// action items. Err is a short message when the document could not be
// read or processed; the walk records it and moves on.
type DocResult struct {
	DocName string              `json:"doc_name"`
	DocID   string              `json:"doc_id"`
	DocLink string              `json:"doc_link"`
	Items   []agenda.ActionItem `json:"items"`
	Err     string              `json:"error,omitempty"`
}

// WalkResult groups extracted items by category folder and person/project
// subfolder, plus a flat list of every item with provenance attached.
type WalkResult struct {
	ByFolder map[string]map[string][]DocResult `json:"by_folder"`
	AllItems []agenda.ActionItem               `json:"all_items_flat"`
	Stats    WalkStats                         `json:"stats"`
}

// WalkStats carries walk diagnostics.
type WalkStats struct {
	CategoryFolders int `json:"category_folders"`
	DocsProcessed   int `json:"total_docs_processed"`
}
