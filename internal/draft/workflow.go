package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/designdesk/agendasync/internal/graph"
	"github.com/designdesk/agendasync/internal/logging"
	"github.com/designdesk/agendasync/internal/notion"
	"github.com/designdesk/agendasync/internal/orgchart"
)

// Store is the Notion surface the workflow needs.
type Store interface {
	PendingReplies(ctx context.Context) ([]notion.ReplyTask, error)
	RevisionRequests(ctx context.Context) ([]notion.RevisionTask, error)
	ApprovedDrafts(ctx context.Context) ([]notion.SendTask, error)
	SaveDraftReply(ctx context.Context, pageID, draftHTML string) error
	MarkDraftSent(ctx context.Context, pageID, sentBody string) error
	SetWorkflowStatus(ctx context.Context, messageID, status string) error
}

// Mail is the Outlook surface the workflow needs.
type Mail interface {
	FetchMessage(ctx context.Context, messageID string) (*graph.Message, error)
	SendReply(ctx context.Context, messageID, htmlBody string) error
}

// Workflow drives the review loop: generate drafts for new reply
// instructions, regenerate drafts the reviewer sent back, and send what was
// approved. Per-task failures flag the page and never stop the batch.
type Workflow struct {
	store     Store
	mail      Mail
	generator *Generator
	chart     orgchart.Chart
	logger    *slog.Logger
}

// NewWorkflow creates a workflow.
func NewWorkflow(store Store, mail Mail, generator *Generator, chart orgchart.Chart, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		store:     store,
		mail:      mail,
		generator: generator,
		chart:     chart,
		logger:    logger,
	}
}

// GenerateDrafts writes a draft for every reply instruction that has no
// draft under review or approved yet. Returns how many drafts were saved.
func (w *Workflow) GenerateDrafts(ctx context.Context) (int, error) {
	tasks, err := w.store.PendingReplies(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending replies: %w", err)
	}

	count := 0
	for _, task := range tasks {
		if task.DraftStatus == notion.DraftStatusPendingReview || task.DraftStatus == notion.DraftStatusApproved {
			continue
		}
		if task.Instruction == "" {
			continue
		}
		if err := w.draftFor(ctx, task, ""); err != nil {
			w.flagError(ctx, task.MessageID, err)
			continue
		}
		w.logger.Info("draft created", slog.String("subject", task.Subject))
		count++
	}
	return count, nil
}

// ReviseDrafts regenerates every draft the reviewer sent back, folding the
// revision notes into the prompt.
func (w *Workflow) ReviseDrafts(ctx context.Context) (int, error) {
	tasks, err := w.store.RevisionRequests(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list revision requests: %w", err)
	}

	count := 0
	for _, task := range tasks {
		if err := w.store.SetWorkflowStatus(ctx, task.MessageID, notion.WorkflowRevising); err != nil {
			w.logger.Warn("failed to set workflow status", logging.Err(err))
		}
		if err := w.draftFor(ctx, task.ReplyTask, task.RevisionNotes); err != nil {
			w.flagError(ctx, task.MessageID, err)
			continue
		}
		w.logger.Info("draft revised", slog.String("subject", task.Subject))
		count++
	}
	return count, nil
}

// SendApproved sends every approved draft as a reply to its original
// message and closes out the Notion page.
func (w *Workflow) SendApproved(ctx context.Context) (int, error) {
	tasks, err := w.store.ApprovedDrafts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved drafts: %w", err)
	}

	count := 0
	for _, task := range tasks {
		if task.DraftReply == "" {
			w.flagError(ctx, task.MessageID, fmt.Errorf("approved page has no draft"))
			continue
		}
		if err := w.mail.SendReply(ctx, task.MessageID, task.DraftReply); err != nil {
			w.flagError(ctx, task.MessageID, err)
			continue
		}
		if err := w.store.MarkDraftSent(ctx, task.PageID, task.DraftReply); err != nil {
			w.flagError(ctx, task.MessageID, err)
			continue
		}
		w.logger.Info("reply sent", slog.String("subject", task.Subject))
		count++
	}
	return count, nil
}

// draftFor fetches the original message, generates a draft (optionally with
// revision notes) and saves it for review.
func (w *Workflow) draftFor(ctx context.Context, task notion.ReplyTask, revisionNotes string) error {
	if revisionNotes == "" {
		if err := w.store.SetWorkflowStatus(ctx, task.MessageID, notion.WorkflowGeneratingDraft); err != nil {
			w.logger.Warn("failed to set workflow status", logging.Err(err))
		}
	}

	original, err := w.mail.FetchMessage(ctx, task.MessageID)
	if err != nil {
		return err
	}

	senderName := original.SenderName
	if senderName == "" || senderName == original.SenderEmail {
		senderName = nameFromEmail(original.SenderEmail)
	}

	html := w.generator.Generate(ctx, Request{
		Instruction:    task.Instruction,
		OriginalBody:   original.Body,
		SenderName:     senderName,
		SenderCategory: w.chart.CategoryByEmail(original.SenderEmail),
		RevisionNotes:  revisionNotes,
	})

	// SaveDraftReply flips the page to Pending Review / Draft Ready itself.
	return w.store.SaveDraftReply(ctx, task.PageID, html)
}

func (w *Workflow) flagError(ctx context.Context, messageID string, err error) {
	w.logger.Warn("reply workflow task failed",
		slog.String("message_id", messageID), logging.Err(err))
	if serr := w.store.SetWorkflowStatus(ctx, messageID, notion.WorkflowError); serr != nil {
		w.logger.Warn("failed to flag workflow error", logging.Err(serr))
	}
}

// nameFromEmail turns "jordan.li@example.edu" into "Jordan Li".
func nameFromEmail(email string) string {
	local := email
	if i := strings.Index(local, "@"); i >= 0 {
		local = local[:i]
	}
	if local == "" {
		return ""
	}
	parts := strings.Split(strings.ReplaceAll(local, ".", " "), " ")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}
