package notion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jomei/notionapi"
)

// Email database property names.
const (
	PropSubject          = "Subject"
	PropSender           = "Sender"
	PropSummary          = "Summary"
	PropPriority         = "Priority"
	PropCategory         = "Category"
	PropMessageID        = "Message ID"
	PropEmailStatus      = "Status"
	PropResponseEffort   = "Response Effort"
	PropDateReceived     = "Date Received"
	PropEmailBody        = "Email"
	PropReplyInstruction = "Reply Instruction"
	PropDraftStatus      = "Draft Status"
	PropDraftReply       = "Draft Reply"
	PropRevisionNotes    = "Revision Notes"
	PropWorkflowStatus   = "Workflow Status"
	PropSentReply        = "Sent Reply"
	PropReplySentOn      = "Reply Sent On"
)

// Select values used by the reply workflow.
const (
	EmailStatusNew         = "New"
	EmailStatusPendingSend = "Pending Send"
	EmailStatusSent        = "Sent"

	DraftStatusPendingReview     = "Pending Review"
	DraftStatusApproved          = "Approved"
	DraftStatusRevisionRequested = "Revision Requested"
	DraftStatusSent              = "Sent"

	WorkflowIdle            = "Idle"
	WorkflowSyncing         = "Syncing"
	WorkflowGeneratingDraft = "Generating Draft"
	WorkflowRevising        = "Revising"
	WorkflowDraftReady      = "Draft Ready"
	WorkflowSending         = "Sending"
	WorkflowComplete        = "Complete"
	WorkflowError           = "Error"
)

// WorkflowForDraftStatus maps a draft status to the workflow badge shown on
// the dashboard. Unknown or empty statuses read as Idle.
func WorkflowForDraftStatus(draftStatus string) string {
	switch draftStatus {
	case DraftStatusRevisionRequested:
		return WorkflowRevising
	case DraftStatusApproved:
		return WorkflowSending
	case DraftStatusSent:
		return WorkflowComplete
	case DraftStatusPendingReview:
		return WorkflowDraftReady
	default:
		return WorkflowIdle
	}
}

// richTextLimit is Notion's per-fragment content cap, kept slightly under the
// documented 2000 characters.
const richTextLimit = 1900

// Email is an inbound message to record in the email database.
type Email struct {
	Subject        string
	SenderDisplay  string
	Summary        string
	Priority       string
	Category       string
	MessageID      string
	ResponseEffort string
	ReceivedAt     *time.Time
}

// ReplyTask is a page whose reply instruction awaits a generated draft.
type ReplyTask struct {
	PageID      string
	MessageID   string
	Subject     string
	Instruction string
	DraftStatus string
}

// RevisionTask is a draft the reviewer sent back with notes.
type RevisionTask struct {
	ReplyTask
	RevisionNotes string
}

// SendTask is an approved draft ready to go out.
type SendTask struct {
	PageID     string
	MessageID  string
	Subject    string
	DraftReply string
}

// MailStore reads and writes the Notion email database that backs the
// human-in-the-loop reply workflow.
type MailStore struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
	logger     *slog.Logger
}

// NewMailStore creates a store for the email database.
func NewMailStore(apiKey, databaseID string, logger *slog.Logger) *MailStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MailStore{
		client:     notionapi.NewClient(notionapi.Token(apiKey)),
		databaseID: notionapi.DatabaseID(databaseID),
		logger:     logger,
	}
}

// CreateIfAbsent records the email unless a page with its Message ID already
// exists. Existing pages are left untouched so manual edits survive re-syncs.
// Returns true when a page was created.
func (s *MailStore) CreateIfAbsent(ctx context.Context, email Email) (bool, error) {
	existing, err := s.PageByMessageID(ctx, email.MessageID)
	if err != nil {
		return false, err
	}
	if existing != "" {
		return false, nil
	}

	props := notionapi.Properties{
		PropSubject: &notionapi.TitleProperty{
			Title: richText(truncateRichText(email.Subject, richTextLimit)),
		},
		PropSender: &notionapi.RichTextProperty{
			RichText: richText(truncateRichText(email.SenderDisplay, richTextLimit)),
		},
		PropSummary: &notionapi.RichTextProperty{
			RichText: richText(truncateRichText(email.Summary, richTextLimit)),
		},
		PropPriority: &notionapi.SelectProperty{
			Select: notionapi.Option{Name: email.Priority},
		},
		PropCategory: &notionapi.SelectProperty{
			Select: notionapi.Option{Name: email.Category},
		},
		PropMessageID: &notionapi.RichTextProperty{
			RichText: richText(email.MessageID),
		},
		PropEmailStatus: &notionapi.SelectProperty{
			Select: notionapi.Option{Name: EmailStatusNew},
		},
		PropResponseEffort: &notionapi.SelectProperty{
			Select: notionapi.Option{Name: email.ResponseEffort},
		},
	}

	if email.ReceivedAt != nil {
		d := notionapi.Date(*email.ReceivedAt)
		props[PropDateReceived] = &notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &d},
		}
	}

	_, err = s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.databaseID,
		},
		Properties: props,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create email page: %w", err)
	}
	return true, nil
}

// PageByMessageID returns the page ID holding the message, or empty.
func (s *MailStore) PageByMessageID(ctx context.Context, messageID string) (string, error) {
	resp, err := s.client.Database.Query(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: PropMessageID,
			RichText: &notionapi.TextFilterCondition{Equals: messageID},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to query by message id: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

// PendingReplies lists pages marked Pending Send, newest first. Pages whose
// draft is already under review or approved are filtered by the caller via
// the DraftStatus field.
func (s *MailStore) PendingReplies(ctx context.Context) ([]ReplyTask, error) {
	resp, err := s.client.Database.Query(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: PropEmailStatus,
			Select:   &notionapi.SelectFilterCondition{Equals: EmailStatusPendingSend},
		},
		Sorts: []notionapi.SortObject{
			{Property: PropDateReceived, Direction: notionapi.SortOrderDESC},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query pending replies: %w", err)
	}

	tasks := make([]ReplyTask, 0, len(resp.Results))
	for _, page := range resp.Results {
		tasks = append(tasks, ReplyTask{
			PageID:      string(page.ID),
			MessageID:   richTextValue(page.Properties, PropMessageID),
			Subject:     titleValue(page.Properties, PropSubject),
			Instruction: richTextValue(page.Properties, PropReplyInstruction),
			DraftStatus: selectValue(page.Properties, PropDraftStatus),
		})
	}
	return tasks, nil
}

// RevisionRequests lists drafts the reviewer sent back.
func (s *MailStore) RevisionRequests(ctx context.Context) ([]RevisionTask, error) {
	resp, err := s.client.Database.Query(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: PropDraftStatus,
			Select:   &notionapi.SelectFilterCondition{Equals: DraftStatusRevisionRequested},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query revision requests: %w", err)
	}

	tasks := make([]RevisionTask, 0, len(resp.Results))
	for _, page := range resp.Results {
		tasks = append(tasks, RevisionTask{
			ReplyTask: ReplyTask{
				PageID:      string(page.ID),
				MessageID:   richTextValue(page.Properties, PropMessageID),
				Subject:     titleValue(page.Properties, PropSubject),
				Instruction: richTextValue(page.Properties, PropReplyInstruction),
				DraftStatus: selectValue(page.Properties, PropDraftStatus),
			},
			RevisionNotes: richTextValue(page.Properties, PropRevisionNotes),
		})
	}
	return tasks, nil
}

// ApprovedDrafts lists drafts approved for sending.
func (s *MailStore) ApprovedDrafts(ctx context.Context) ([]SendTask, error) {
	resp, err := s.client.Database.Query(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: PropDraftStatus,
			Select:   &notionapi.SelectFilterCondition{Equals: DraftStatusApproved},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query approved drafts: %w", err)
	}

	tasks := make([]SendTask, 0, len(resp.Results))
	for _, page := range resp.Results {
		tasks = append(tasks, SendTask{
			PageID:     string(page.ID),
			MessageID:  richTextValue(page.Properties, PropMessageID),
			Subject:    titleValue(page.Properties, PropSubject),
			DraftReply: richTextValue(page.Properties, PropDraftReply),
		})
	}
	return tasks, nil
}

// SaveDraftReply stores a generated draft and flags it for review.
func (s *MailStore) SaveDraftReply(ctx context.Context, pageID, draftHTML string) error {
	_, err := s.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			PropDraftReply: &notionapi.RichTextProperty{
				RichText: richText(truncateRichText(draftHTML, richTextLimit)),
			},
			PropDraftStatus: &notionapi.SelectProperty{
				Select: notionapi.Option{Name: DraftStatusPendingReview},
			},
			PropWorkflowStatus: &notionapi.SelectProperty{
				Select: notionapi.Option{Name: WorkflowForDraftStatus(DraftStatusPendingReview)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to save draft reply: %w", err)
	}
	return nil
}

// MarkDraftSent records the sent reply and closes out the page.
func (s *MailStore) MarkDraftSent(ctx context.Context, pageID, sentBody string) error {
	d := notionapi.Date(time.Now().UTC())
	_, err := s.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			PropEmailStatus: &notionapi.SelectProperty{
				Select: notionapi.Option{Name: EmailStatusSent},
			},
			PropDraftStatus: &notionapi.SelectProperty{
				Select: notionapi.Option{Name: DraftStatusSent},
			},
			PropSentReply: &notionapi.RichTextProperty{
				RichText: richText(truncateRichText(sentBody, richTextLimit)),
			},
			PropReplySentOn: &notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &d},
			},
			PropWorkflowStatus: &notionapi.SelectProperty{
				Select: notionapi.Option{Name: WorkflowForDraftStatus(DraftStatusSent)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to mark draft sent: %w", err)
	}
	return nil
}

// SetWorkflowStatus updates the workflow badge for the page holding the
// message. Unknown messages are ignored.
func (s *MailStore) SetWorkflowStatus(ctx context.Context, messageID, status string) error {
	pageID, err := s.PageByMessageID(ctx, messageID)
	if err != nil {
		return err
	}
	if pageID == "" {
		return nil
	}
	_, err = s.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			PropWorkflowStatus: &notionapi.SelectProperty{
				Select: notionapi.Option{Name: status},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set workflow status: %w", err)
	}
	return nil
}

// SetEmailBody stores the plain text body on the page holding the message.
func (s *MailStore) SetEmailBody(ctx context.Context, messageID, text string) error {
	pageID, err := s.PageByMessageID(ctx, messageID)
	if err != nil {
		return err
	}
	if pageID == "" {
		return nil
	}
	_, err = s.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			PropEmailBody: &notionapi.RichTextProperty{
				RichText: richText(truncateRichText(text, richTextLimit)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set email body: %w", err)
	}
	return nil
}
