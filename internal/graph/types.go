package graph

import "fmt"

// Message is an Outlook mail message as the pipelines see it.
type Message struct {
	// ID is the Graph message ID, used to address replies.
	ID string `json:"message_id"`

	// Subject is the mail subject line.
	Subject string `json:"subject"`

	// SenderName is the display name of the sender, falling back to the
	// address when Graph has no name.
	SenderName string `json:"sender_name"`

	// SenderEmail is the sender's address, used for org chart lookups.
	SenderEmail string `json:"sender"`

	// Snippet is the short body preview Graph computes.
	Snippet string `json:"snippet"`

	// Body is the full message body, usually HTML.
	Body string `json:"full_body"`

	// ReceivedAt is the RFC 3339 receipt timestamp.
	ReceivedAt string `json:"received_at"`

	// Category and Priority are filled in by the classifier.
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// SenderDisplay renders the sender as "Name <address>".
func (m *Message) SenderDisplay() string {
	return fmt.Sprintf("%s <%s>", m.SenderName, m.SenderEmail)
}

// wire types for Graph API responses

type graphEmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	ID               string         `json:"id"`
	Subject          string         `json:"subject"`
	From             graphRecipient `json:"from"`
	BodyPreview      string         `json:"bodyPreview"`
	ReceivedDateTime string         `json:"receivedDateTime"`
	Body             graphBody      `json:"body"`
}

func (g *graphMessage) toMessage() Message {
	name := g.From.EmailAddress.Name
	if name == "" {
		name = g.From.EmailAddress.Address
	}
	body := g.Body.Content
	if body == "" {
		body = g.BodyPreview
	}
	return Message{
		ID:          g.ID,
		Subject:     g.Subject,
		SenderName:  name,
		SenderEmail: g.From.EmailAddress.Address,
		Snippet:     g.BodyPreview,
		Body:        body,
		ReceivedAt:  g.ReceivedDateTime,
	}
}
