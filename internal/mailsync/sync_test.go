package mailsync

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

type fakeFetcher struct {
	messages []graph.Message
	err      error
}

func (f *fakeFetcher) FetchUnread(ctx context.Context) ([]graph.Message, error) {
	return f.messages, f.err
}

type fakeEmailStore struct {
	pages    map[string]notion.Email // message ID → stored email
	bodies   map[string]string
	workflow map[string]string
	failFor  map[string]bool // message ID → force create error
}

func newFakeEmailStore() *fakeEmailStore {
	return &fakeEmailStore{
		pages:    make(map[string]notion.Email),
		bodies:   make(map[string]string),
		workflow: make(map[string]string),
		failFor:  make(map[string]bool),
	}
}

func (s *fakeEmailStore) PageByMessageID(ctx context.Context, messageID string) (string, error) {
	if _, ok := s.pages[messageID]; ok {
		return "page-" + messageID, nil
	}
	return "", nil
}

func (s *fakeEmailStore) CreateIfAbsent(ctx context.Context, email notion.Email) (bool, error) {
	if s.failFor[email.MessageID] {
		return false, errors.New("notion rejected the page")
	}
	if _, ok := s.pages[email.MessageID]; ok {
		return false, nil
	}
	s.pages[email.MessageID] = email
	return true, nil
}

func (s *fakeEmailStore) SetWorkflowStatus(ctx context.Context, messageID, status string) error {
	s.workflow[messageID] = status
	return nil
}

func (s *fakeEmailStore) SetEmailBody(ctx context.Context, messageID, text string) error {
	s.bodies[messageID] = text
	return nil
}

type fakeChatter struct {
	reply string
	err   error
}

func (c *fakeChatter) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return c.reply, c.err
}

func testSyncer(fetcher *fakeFetcher, store *fakeEmailStore, chart orgchart.Chart, chatter Chatter) *Syncer {
	return NewSyncer(
		fetcher,
		store,
		NewSummarizer(chatter, nil),
		graph.NewClassifier("director@design.example.edu"),
		chart,
		nil,
	)
}

func TestSyncCreatesNewMessages(t *testing.T) {
	fetcher := &fakeFetcher{messages: []graph.Message{
		{
			ID:          "m1",
			Subject:     "Budget",
			SenderName:  "Pat",
			SenderEmail: "pat@design.example.edu",
			Snippet:     "about the budget",
			Body:        "<p>Can we talk about the budget?</p>",
			ReceivedAt:  "2026-02-01T10:00:00Z",
		},
	}}
	store := newFakeEmailStore()
	chart := orgchart.Chart{
		"Assistant Director": {"Pat Jones": "pat@design.example.edu"},
	}

	syncer := testSyncer(fetcher, store, chart, &fakeChatter{reply: "Pat asks about the budget."})
	records, summary, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Fetched: 1, Created: 1}, summary)

	stored := store.pages["m1"]
	assert.Equal(t, "Pat Jones", stored.SenderDisplay)
	assert.Equal(t, "Assistant Director", stored.Category)
	assert.Equal(t, "Pat asks about the budget.", stored.Summary)
	assert.Equal(t, "Quick", stored.ResponseEffort)
	require.NotNil(t, stored.ReceivedAt)
	assert.Equal(t, 2026, stored.ReceivedAt.Year())

	assert.Equal(t, "Can we talk about the budget?", store.bodies["m1"])
	assert.Equal(t, notion.WorkflowIdle, store.workflow["m1"])

	require.Len(t, records, 1)
	assert.Equal(t, "Pat Jones", records[0].From)
	assert.Equal(t, "pat@design.example.edu", records[0].Email)
	assert.Equal(t, "new", records[0].DraftStatus)
}

func TestSyncSkipsExistingAndContinuesOnError(t *testing.T) {
	fetcher := &fakeFetcher{messages: []graph.Message{
		{ID: "old", Subject: "Seen before", SenderEmail: "a@x.com"},
		{ID: "bad", Subject: "Will fail", SenderEmail: "b@x.com"},
		{ID: "new", Subject: "Fresh", SenderEmail: "c@x.com"},
	}}
	store := newFakeEmailStore()
	store.pages["old"] = notion.Email{MessageID: "old"}
	store.failFor["bad"] = true

	syncer := testSyncer(fetcher, store, orgchart.Chart{}, &fakeChatter{reply: "summary"})
	records, summary, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Fetched: 3, Created: 1, Skipped: 1, Errored: 1}, summary)
	assert.Equal(t, notion.WorkflowError, store.workflow["bad"])
	_, created := store.pages["new"]
	assert.True(t, created)

	// The feed still carries every fetched message.
	assert.Len(t, records, 3)
}

func TestSyncFailsWhenFetchFails(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("token expired")}
	syncer := testSyncer(fetcher, newFakeEmailStore(), orgchart.Chart{}, &fakeChatter{})
	_, _, err := syncer.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unread mail")
}

func TestResolveSenderFallsBackToSignature(t *testing.T) {
	store := newFakeEmailStore()
	syncer := testSyncer(&fakeFetcher{}, store, orgchart.Chart{}, &fakeChatter{})

	m := &graph.Message{
		SenderEmail: "unknown@gmail.com",
		SenderName:  "unknown@gmail.com",
		Body:        "<p>Quick question.</p><p>Thanks,<br>Morgan Lee</p>",
	}
	display, category := syncer.resolveSender(m)
	assert.Equal(t, "Morgan Lee", display)
	assert.Equal(t, "", category)
}
