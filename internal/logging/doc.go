// Package logging provides structured logging utilities for the agendasync application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(logging.New(), "agenda.extract")
//	logger.Info("document processed",
//	    logging.Document("2026 Nick.docx"),
//	    logging.Items(4))
package logging
