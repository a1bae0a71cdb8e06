package mailsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/designdesk/agendasync/internal/graph"
	"github.com/designdesk/agendasync/internal/logging"
	"github.com/designdesk/agendasync/internal/notion"
	"github.com/designdesk/agendasync/internal/orgchart"
)

// MailFetcher is the Outlook surface the syncer needs.
type MailFetcher interface {
	FetchUnread(ctx context.Context) ([]graph.Message, error)
}

// EmailStore is the Notion surface the syncer needs.
type EmailStore interface {
	PageByMessageID(ctx context.Context, messageID string) (string, error)
	CreateIfAbsent(ctx context.Context, email notion.Email) (bool, error)
	SetWorkflowStatus(ctx context.Context, messageID, status string) error
	SetEmailBody(ctx context.Context, messageID, text string) error
}

// Summary counts what one sync run did.
type Summary struct {
	Fetched int
	Created int
	Skipped int
	Errored int
}

func (s Summary) String() string {
	return fmt.Sprintf("fetched=%d created=%d skipped=%d errored=%d",
		s.Fetched, s.Created, s.Skipped, s.Errored)
}

// Syncer pulls unread mail, classifies and summarizes it, and records new
// messages in the Notion email database. It also produces dashboard feed
// records for everything fetched.
type Syncer struct {
	fetcher    MailFetcher
	store      EmailStore
	summarizer *Summarizer
	classifier *graph.Classifier
	chart      orgchart.Chart
	logger     *slog.Logger
}

// NewSyncer creates a syncer. The chart may be empty.
func NewSyncer(fetcher MailFetcher, store EmailStore, summarizer *Summarizer, classifier *graph.Classifier, chart orgchart.Chart, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		fetcher:    fetcher,
		store:      store,
		summarizer: summarizer,
		classifier: classifier,
		chart:      chart,
		logger:     logger,
	}
}

// Sync fetches unread mail and records each new message in Notion. Messages
// already present are skipped so manual dashboard edits survive. Per-message
// failures are logged and counted; the run continues.
func (s *Syncer) Sync(ctx context.Context) ([]EmailRecord, Summary, error) {
	messages, err := s.fetcher.FetchUnread(ctx)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to fetch unread mail: %w", err)
	}

	summary := Summary{Fetched: len(messages)}
	records := make([]EmailRecord, 0, len(messages))

	for i := range messages {
		m := &messages[i]
		s.classifier.ClassifyMessage(m)
		display, orgCategory := s.resolveSender(m)
		if orgCategory != "" {
			m.Category = orgCategory
		}
		records = append(records, NewEmailRecord(*m, display))

		created, err := s.syncMessage(ctx, m, display)
		switch {
		case err != nil:
			summary.Errored++
			s.logger.Warn("failed to sync message",
				slog.String("subject", m.Subject), logging.Err(err))
			if werr := s.store.SetWorkflowStatus(ctx, m.ID, notion.WorkflowError); werr != nil {
				s.logger.Warn("failed to flag workflow error", logging.Err(werr))
			}
		case created:
			summary.Created++
		default:
			summary.Skipped++
		}
	}

	s.logger.Info("mail sync complete", slog.String("summary", summary.String()))
	return records, summary, nil
}

// syncMessage records one message in Notion unless it is already there.
// Returns true when a new page was created.
func (s *Syncer) syncMessage(ctx context.Context, m *graph.Message, display string) (bool, error) {
	pageID, err := s.store.PageByMessageID(ctx, m.ID)
	if err != nil {
		return false, err
	}
	if pageID != "" {
		return false, nil
	}

	text := graph.HTMLToText(m.Body)
	email := notion.Email{
		Subject:        m.Subject,
		SenderDisplay:  display,
		Summary:        s.summarizer.Summarize(ctx, m.Body),
		Priority:       m.Priority,
		Category:       m.Category,
		MessageID:      m.ID,
		ResponseEffort: ResponseEffort(m.Body),
		ReceivedAt:     parseReceivedAt(m.ReceivedAt),
	}

	created, err := s.store.CreateIfAbsent(ctx, email)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	if err := s.store.SetEmailBody(ctx, m.ID, text); err != nil {
		return true, err
	}
	return true, s.store.SetWorkflowStatus(ctx, m.ID, notion.WorkflowIdle)
}

// resolveSender returns the display name and org chart category for the
// sender. Unlisted senders fall back to a name pulled from the signature,
// then to the raw address.
func (s *Syncer) resolveSender(m *graph.Message) (display, category string) {
	if name, cat, ok := s.chart.LookupByEmail(m.SenderEmail); ok {
		return name, cat
	}
	if name := orgchart.ExtractNameFromSignature(graph.HTMLToText(m.Body)); name != "" {
		return name, ""
	}
	if m.SenderName != "" {
		return m.SenderName, ""
	}
	return m.SenderEmail, ""
}

func parseReceivedAt(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}
