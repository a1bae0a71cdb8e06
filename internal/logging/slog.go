package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyDocument  = "document"
	KeyFolder    = "folder"
	KeyCategory  = "category"
	KeyItems     = "items"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// New returns a text logger writing to stderr. The level is taken from the
// LOG_LEVEL environment variable (debug, info, warn, error), defaulting to info.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Document returns a slog attribute for a source document name.
func Document(name string) slog.Attr {
	return slog.String(KeyDocument, name)
}

// Folder returns a slog attribute for a folder name.
func Folder(name string) slog.Attr {
	return slog.String(KeyFolder, name)
}

// Category returns a slog attribute for a category folder name.
func Category(name string) slog.Attr {
	return slog.String(KeyCategory, name)
}

// Items returns a slog attribute for an item count.
func Items(n int) slog.Attr {
	return slog.Int(KeyItems, n)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
