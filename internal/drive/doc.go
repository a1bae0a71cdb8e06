// Package drive reads agenda documents from Google Drive.
//
// The Client wraps the Drive v3 API with the three read operations the
// pipeline needs: listing folder children (Shared Drive aware), exporting
// native Google Docs as plain text, and downloading uploaded files such as
// .docx. The Walker traverses a three-level agendas folder structure
// (root → category → person/project → documents), filters documents by
// year tokens in the filename, skips archived folders, and runs the
// action-item extractor over every readable document.
//
// Per-document failures are recorded in the walk result instead of
// aborting the traversal, so one unreadable document never loses the rest
// of the run.
package drive
