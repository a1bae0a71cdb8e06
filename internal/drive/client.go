package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client wraps the Google Drive API service for read-only agenda access.
type Client struct {
	service *drive.Service
}

// NewClient creates a Drive client authenticated by the given token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	if ts == nil {
		return nil, fmt.Errorf("token source is required")
	}

	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// ListChildren lists the direct children (folders and files) of a folder,
// sorted by name. Works for both My Drive and Shared Drives: when the folder
// lives in a Shared Drive the listing must be scoped to that drive or the
// API returns an empty result.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]*File, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folderID is required")
	}

	driveID, err := c.folderDriveID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	call := c.service.Files.List().
		Context(ctx).
		Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
		Fields("files(id, name, mimeType)").
		PageSize(200).
		OrderBy("name").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)
	if driveID != "" {
		call = call.Corpora("drive").DriveId(driveID)
	}

	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, formatAPIError(err))
	}

	files := make([]*File, len(list.Files))
	for i, f := range list.Files {
		files[i] = &File{ID: f.Id, Name: f.Name, MimeType: f.MimeType}
	}
	return files, nil
}

// folderDriveID returns the Shared Drive ID containing the folder, or
// empty when the folder is in My Drive.
func (c *Client) folderDriveID(ctx context.Context, folderID string) (string, error) {
	meta, err := c.service.Files.Get(folderID).
		Context(ctx).
		Fields("driveId").
		SupportsAllDrives(true).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to get folder %s: %w", folderID, formatAPIError(err))
	}
	return meta.DriveId, nil
}

// ExportPlainText exports a native Google Doc as plain text.
func (c *Client) ExportPlainText(ctx context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", fmt.Errorf("fileID is required")
	}

	resp, err := c.service.Files.Export(fileID, "text/plain").
		Context(ctx).
		Download()
	if err != nil {
		return "", fmt.Errorf("failed to export document %s: %w", fileID, formatAPIError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read export of %s: %w", fileID, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// DownloadBytes downloads the raw content of an uploaded file, such as a
// .docx. Media downloads work for Shared Drive files by file ID alone.
func (c *Client) DownloadBytes(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	resp, err := c.service.Files.Get(fileID).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, formatAPIError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// formatAPIError flattens a googleapi.Error into a short, stable message so
// walk results stay readable.
func formatAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return fmt.Errorf("%d: %s", apiErr.Code, msg)
	}
	return err
}
