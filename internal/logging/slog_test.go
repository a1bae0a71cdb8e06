package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("operation done", Err(nil))

	out := buf.String()
	assert.Contains(t, out, "operation done")
	assert.NotContains(t, out, "error=")
}

func TestErrSet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Error("operation failed", Err(errors.New("boom")))

	assert.Contains(t, buf.String(), "error=boom")
}

func TestWithOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithOperation(logger, "agenda.extract").Info("start")

	assert.Contains(t, buf.String(), "operation=agenda.extract")
}

func TestDomainAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("walk step",
		Category("Projects"),
		Folder("Nick"),
		Document("2026 Plan.docx"),
		Items(3),
		Status(StatusSuccess),
	)

	out := buf.String()
	assert.Contains(t, out, "category=Projects")
	assert.Contains(t, out, "folder=Nick")
	assert.Contains(t, out, `document="2026 Plan.docx"`)
	assert.Contains(t, out, "items=3")
	assert.Contains(t, out, "status=success")
}
