package agenda

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/designdesk/agendasync/internal/docx"
	"github.com/designdesk/agendasync/internal/logging"
)

// Summary counts the outcome of a batch run. It is produced even when
// individual documents or items failed.
type Summary struct {
	Processed int
	Created   int
	Updated   int
	Errored   int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d processed, %d created, %d updated, %d errored",
		s.Processed, s.Created, s.Updated, s.Errored)
}

// Processor runs the extraction pipeline over local .docx agenda folders.
type Processor struct {
	extractor *Extractor
	store     Store
	logger    *slog.Logger
}

// NewProcessor creates a batch processor. The store may be nil, in which case
// extraction results are only collected, not synced.
func NewProcessor(extractor *Extractor, store Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{extractor: extractor, store: store, logger: logger}
}

// ProcessDocument parses one .docx and extracts its action items.
func (p *Processor) ProcessDocument(ctx context.Context, path string) ([]ActionItem, error) {
	pars, err := docx.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.extractor.FromParagraphs(ctx, pars)
}

// ProcessFolder extracts action items from every .docx in folder and, when a
// store is configured, upserts each item keyed by its external ID. A failing
// document contributes an empty result and the batch continues; a failing
// item is counted and the remaining items are still synced.
func (p *Processor) ProcessFolder(ctx context.Context, folder string) (map[string][]ActionItem, Summary, error) {
	pattern := filepath.Join(folder, "*.docx")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to list agenda folder %s: %w", folder, err)
	}
	sort.Strings(paths)

	results := make(map[string][]ActionItem)
	var summary Summary

	for _, path := range paths {
		filename := filepath.Base(path)
		logger := p.logger.With(logging.Document(filename))

		items, err := p.ProcessDocument(ctx, path)
		if err != nil {
			logger.Error("extraction failed", logging.Err(err))
			results[filename] = []ActionItem{}
			summary.Errored++
			continue
		}

		results[filename] = items
		summary.Processed++
		logger.Info("extracted action items", logging.Items(len(items)))

		if p.store == nil {
			continue
		}

		for _, item := range items {
			_, created, err := p.store.Upsert(ctx, item, filename)
			if err != nil {
				logger.Error("sync failed for item",
					slog.String("text", truncate(item.Text, 60)), logging.Err(err))
				summary.Errored++
				continue
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
	}

	return results, summary, nil
}

// UpsertAll syncs already-extracted items into the store, one upsert per
// item, and counts outcomes. Items carrying Drive provenance keep their own
// source document; fallbackDoc covers untagged items. A failing item is
// counted and the rest of the batch continues.
func UpsertAll(ctx context.Context, store Store, items []ActionItem, fallbackDoc string, logger *slog.Logger) Summary {
	if logger == nil {
		logger = slog.Default()
	}

	var summary Summary
	for _, item := range items {
		summary.Processed++
		doc := item.SourceDocument
		if doc == "" {
			doc = fallbackDoc
		}
		_, created, err := store.Upsert(ctx, item, doc)
		if err != nil {
			logger.Error("sync failed for item",
				slog.String("text", truncate(item.Text, 60)), logging.Err(err))
			summary.Errored++
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}
	return summary
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
