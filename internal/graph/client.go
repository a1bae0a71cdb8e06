package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// unreadPageSize bounds how many unread messages one fetch returns.
const unreadPageSize = 20

// Client talks to the Microsoft Graph mail API.
type Client struct {
	user       string
	baseURL    string
	tokens     oauth2.TokenSource
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Graph endpoint, mainly for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a Graph mail client for the given mailbox.
func NewClient(user string, tokens oauth2.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		user:    user,
		baseURL: DefaultBaseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUnread returns the newest unread messages in the mailbox.
func (c *Client) FetchUnread(ctx context.Context) ([]Message, error) {
	query := url.Values{}
	query.Set("$filter", "isRead eq false")
	query.Set("$top", fmt.Sprintf("%d", unreadPageSize))
	query.Set("$select", "id,subject,from,bodyPreview,receivedDateTime,body")

	var result struct {
		Value []graphMessage `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, "/me/messages?"+query.Encode(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch unread messages: %w", err)
	}

	messages := make([]Message, len(result.Value))
	for i := range result.Value {
		messages[i] = result.Value[i].toMessage()
	}
	return messages, nil
}

// FetchMessage retrieves a single message by ID.
func (c *Client) FetchMessage(ctx context.Context, messageID string) (*Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	query := url.Values{}
	query.Set("$select", "id,subject,from,body")

	var raw graphMessage
	path := fmt.Sprintf("/me/messages/%s?%s", url.PathEscape(messageID), query.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}

	msg := raw.toMessage()
	if msg.ID == "" {
		msg.ID = messageID
	}
	return &msg, nil
}

// SendMail sends a plain-text message from the configured mailbox.
func (c *Client) SendMail(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient is required")
	}

	payload := map[string]any{
		"message": map[string]any{
			"subject": subject,
			"body":    map[string]string{"contentType": "Text", "content": body},
			"toRecipients": []map[string]any{
				{"emailAddress": map[string]string{"address": to}},
			},
		},
		"saveToSentItems": true,
	}

	path := fmt.Sprintf("/users/%s/sendMail", url.PathEscape(c.user))
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// CreateReply creates a reply draft for a message and returns the draft ID.
func (c *Client) CreateReply(ctx context.Context, messageID string) (string, error) {
	var draft struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/me/messages/%s/createReply", url.PathEscape(messageID))
	if err := c.do(ctx, http.MethodPost, path, nil, &draft); err != nil {
		return "", fmt.Errorf("failed to create reply draft: %w", err)
	}
	if draft.ID == "" {
		return "", fmt.Errorf("reply draft has no ID")
	}
	return draft.ID, nil
}

// UpdateDraftBody replaces a draft's body with HTML content.
func (c *Client) UpdateDraftBody(ctx context.Context, draftID, htmlBody string) error {
	payload := map[string]any{
		"body": map[string]string{"contentType": "HTML", "content": htmlBody},
	}
	path := "/me/messages/" + url.PathEscape(draftID)
	if err := c.do(ctx, http.MethodPatch, path, payload, nil); err != nil {
		return fmt.Errorf("failed to update draft body: %w", err)
	}
	return nil
}

// SendDraft sends a previously created draft.
func (c *Client) SendDraft(ctx context.Context, draftID string) error {
	path := fmt.Sprintf("/me/messages/%s/send", url.PathEscape(draftID))
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("failed to send draft: %w", err)
	}
	return nil
}

// SendReply runs the full reply flow for a message: create a reply draft,
// replace its body with the HTML reply, and send it.
func (c *Client) SendReply(ctx context.Context, messageID, htmlBody string) error {
	draftID, err := c.CreateReply(ctx, messageID)
	if err != nil {
		return err
	}
	if err := c.UpdateDraftBody(ctx, draftID, htmlBody); err != nil {
		return err
	}
	return c.SendDraft(ctx, draftID)
}

// do issues one Graph request. A nil out skips response decoding.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}
	token.SetAuthHeader(req)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("graph api error (status %d): %s", resp.StatusCode, truncateBody(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func truncateBody(data []byte) string {
	const max = 300
	s := string(data)
	if len(s) > max {
		return s[:max]
	}
	return s
}
