package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designdesk/agendasync/internal/graph"
	"github.com/designdesk/agendasync/internal/llm"
	"github.com/designdesk/agendasync/internal/notion"
	"github.com/designdesk/agendasync/internal/orgchart"
)

type fakeStore struct {
	pending   []notion.ReplyTask
	revisions []notion.RevisionTask
	approved  []notion.SendTask

	drafts   map[string]string // page ID → saved draft
	sent     map[string]string // page ID → sent body
	workflow map[string]string // message ID → status

	failSave bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		drafts:   make(map[string]string),
		sent:     make(map[string]string),
		workflow: make(map[string]string),
	}
}

func (s *fakeStore) PendingReplies(ctx context.Context) ([]notion.ReplyTask, error) {
	return s.pending, nil
}

func (s *fakeStore) RevisionRequests(ctx context.Context) ([]notion.RevisionTask, error) {
	return s.revisions, nil
}

func (s *fakeStore) ApprovedDrafts(ctx context.Context) ([]notion.SendTask, error) {
	return s.approved, nil
}

func (s *fakeStore) SaveDraftReply(ctx context.Context, pageID, draftHTML string) error {
	if s.failSave {
		return errors.New("notion write failed")
	}
	s.drafts[pageID] = draftHTML
	return nil
}

func (s *fakeStore) MarkDraftSent(ctx context.Context, pageID, sentBody string) error {
	s.sent[pageID] = sentBody
	return nil
}

func (s *fakeStore) SetWorkflowStatus(ctx context.Context, messageID, status string) error {
	s.workflow[messageID] = status
	return nil
}

type fakeMail struct {
	messages map[string]*graph.Message
	replies  map[string]string // message ID → sent HTML
	failSend bool
}

func newFakeMail() *fakeMail {
	return &fakeMail{
		messages: make(map[string]*graph.Message),
		replies:  make(map[string]string),
	}
}

func (m *fakeMail) FetchMessage(ctx context.Context, messageID string) (*graph.Message, error) {
	msg, ok := m.messages[messageID]
	if !ok {
		return nil, errors.New("message not found")
	}
	return msg, nil
}

func (m *fakeMail) SendReply(ctx context.Context, messageID, htmlBody string) error {
	if m.failSend {
		return errors.New("send rejected")
	}
	m.replies[messageID] = htmlBody
	return nil
}

type echoChatter struct{}

func (echoChatter) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "<p>Generated reply from Robin Vale</p>", nil
}

func testWorkflow(store *fakeStore, mail *fakeMail, chart orgchart.Chart) *Workflow {
	gen := NewGenerator(echoChatter{}, testPersona, nil)
	return NewWorkflow(store, mail, gen, chart, nil)
}

func TestGenerateDrafts(t *testing.T) {
	store := newFakeStore()
	store.pending = []notion.ReplyTask{
		{PageID: "p1", MessageID: "m1", Subject: "Budget", Instruction: "Agree to the meeting"},
		{PageID: "p2", MessageID: "m2", Subject: "Reviewed", Instruction: "x", DraftStatus: notion.DraftStatusPendingReview},
		{PageID: "p3", MessageID: "m3", Subject: "Approved", Instruction: "x", DraftStatus: notion.DraftStatusApproved},
		{PageID: "p4", MessageID: "m4", Subject: "No instruction"},
	}
	mail := newFakeMail()
	mail.messages["m1"] = &graph.Message{
		ID:          "m1",
		SenderName:  "Jordan Li",
		SenderEmail: "jordan@example.edu",
		Body:        "<p>Can we meet?</p>",
	}

	w := testWorkflow(store, mail, orgchart.Chart{})
	count, err := w.GenerateDrafts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Contains(t, store.drafts["p1"], "Generated reply")
	assert.Equal(t, notion.WorkflowGeneratingDraft, store.workflow["m1"])

	_, drafted := store.drafts["p2"]
	assert.False(t, drafted)
}

func TestGenerateDraftsFlagsFetchFailure(t *testing.T) {
	store := newFakeStore()
	store.pending = []notion.ReplyTask{
		{PageID: "p1", MessageID: "gone", Instruction: "reply"},
		{PageID: "p2", MessageID: "m2", Instruction: "reply"},
	}
	mail := newFakeMail()
	mail.messages["m2"] = &graph.Message{ID: "m2", SenderEmail: "a@b.com"}

	w := testWorkflow(store, mail, orgchart.Chart{})
	count, err := w.GenerateDrafts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, notion.WorkflowError, store.workflow["gone"])
	assert.Contains(t, store.drafts, "p2")
}

func TestReviseDrafts(t *testing.T) {
	store := newFakeStore()
	store.revisions = []notion.RevisionTask{
		{
			ReplyTask:     notion.ReplyTask{PageID: "p1", MessageID: "m1", Subject: "Budget", Instruction: "Agree"},
			RevisionNotes: "Make it shorter",
		},
	}
	mail := newFakeMail()
	mail.messages["m1"] = &graph.Message{ID: "m1", SenderName: "Jordan Li", SenderEmail: "jordan@example.edu"}

	w := testWorkflow(store, mail, orgchart.Chart{})
	count, err := w.ReviseDrafts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Contains(t, store.drafts["p1"], "Generated reply")
	assert.Equal(t, notion.WorkflowRevising, store.workflow["m1"])
}

func TestSendApproved(t *testing.T) {
	store := newFakeStore()
	store.approved = []notion.SendTask{
		{PageID: "p1", MessageID: "m1", Subject: "Budget", DraftReply: "<p>Approved reply</p>"},
		{PageID: "p2", MessageID: "m2", Subject: "Empty"},
	}
	mail := newFakeMail()

	w := testWorkflow(store, mail, orgchart.Chart{})
	count, err := w.SendApproved(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, "<p>Approved reply</p>", mail.replies["m1"])
	assert.Equal(t, "<p>Approved reply</p>", store.sent["p1"])
	assert.Equal(t, notion.WorkflowError, store.workflow["m2"])
}

func TestSendApprovedFlagsSendFailure(t *testing.T) {
	store := newFakeStore()
	store.approved = []notion.SendTask{
		{PageID: "p1", MessageID: "m1", DraftReply: "<p>x</p>"},
	}
	mail := newFakeMail()
	mail.failSend = true

	w := testWorkflow(store, mail, orgchart.Chart{})
	count, err := w.SendApproved(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, count)
	assert.Equal(t, notion.WorkflowError, store.workflow["m1"])
	assert.Empty(t, store.sent)
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "Jordan Li", nameFromEmail("jordan.li@example.edu"))
	assert.Equal(t, "Sam", nameFromEmail("sam@example.edu"))
	assert.Equal(t, "", nameFromEmail("@example.edu"))
}
