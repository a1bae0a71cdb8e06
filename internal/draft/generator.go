// Package draft generates HTML reply drafts for the human-in-the-loop
// mail workflow: drafts are written to Notion for review, revised on
// request, and sent only after approval.
package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/designdesk/agendasync/internal/llm"
	"github.com/designdesk/agendasync/internal/logging"
)

const (
	draftTemperature = 0.3
	draftMaxTokens   = 800

	// originalBodyLimit caps how much of the original mail goes into the
	// prompt as context.
	originalBodyLimit = 6000
)

// Persona identifies who replies are written as. The signature built from
// it is guaranteed to appear in every generated draft.
type Persona struct {
	Name  string
	Title string
	Org   string
}

// SignatureHTML renders the closing signature block.
func (p Persona) SignatureHTML() string {
	return fmt.Sprintf("Best regards,<br><strong>%s</strong><br>%s<br>%s", p.Name, p.Title, p.Org)
}

// Chatter is the LLM surface the generator needs.
type Chatter interface {
	Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error)
}

// Request describes one draft to generate.
type Request struct {
	// Instruction is the reviewer's note on what the reply should say.
	Instruction string

	// OriginalBody is the mail being replied to, for context.
	OriginalBody string

	// SenderName goes into the greeting.
	SenderName string

	// SenderCategory selects the tone of the system prompt. Empty means
	// the sender is not in the org chart.
	SenderCategory string

	// RevisionNotes, when set, asks for changes to a previous draft.
	RevisionNotes string
}

// Generator produces HTML reply drafts in the persona's voice.
type Generator struct {
	llm     Chatter
	persona Persona
	logger  *slog.Logger
}

// NewGenerator creates a generator.
func NewGenerator(chatter Chatter, persona Persona, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: chatter, persona: persona, logger: logger}
}

// systemPromptFor adjusts tone to the sender's role.
func systemPromptFor(category string) string {
	switch category {
	case "Assistant Director":
		return "You are a precise executive assistant. Use a collegial, collaborative, and respectful tone. Address the Assistant Director as a peer, but maintain professionalism."
	case "Faculty":
		return "You are a precise executive assistant. Use a respectful, collegial, and supportive tone for faculty."
	case "Staff":
		return "You are a precise executive assistant. Use a friendly, clear, and supportive tone for staff."
	case "Student Worker", "Part Time Staff":
		return "You are a precise executive assistant. Use a warm, encouraging, and clear tone for students and part-time staff."
	default:
		return "You are a precise executive assistant. Always complete your response fully."
	}
}

const draftPromptTemplate = `
You are %s, %s at %s.
Write a complete, warm, professional email reply in clean HTML format.

Requirements:
- Start with a personalized greeting: "Dear %s," or "Hi %s," if appropriate.
- Directly and clearly address the instruction below.
- Keep tone polite, positive, and concise.
- End with a professional closing ("Best regards," or "Thanks,") followed by full signature:
  %s

- Use <p> for paragraphs and <br> for line breaks.
- Write complete sentences, never truncate or cut off mid-sentence.
- Do NOT include subject, date, or any placeholders.

Instruction:
%s
%s
Original email (for context only):
%s

Sender's name (use in greeting):
%s

Now write ONLY the full HTML email body:
`

const revisionSectionTemplate = `
IMPORTANT - REVISION REQUESTED:
A previous draft was reviewed and the following changes were requested:
%s

Please incorporate these changes into your response.
`

// Generate returns an HTML reply body. It never fails: when the model call
// breaks, a short static acknowledgement carrying the signature stands in.
func (g *Generator) Generate(ctx context.Context, req Request) string {
	body := req.OriginalBody
	if len(body) > originalBodyLimit {
		body = body[:originalBodyLimit]
	}

	revisionSection := ""
	if req.RevisionNotes != "" {
		revisionSection = fmt.Sprintf(revisionSectionTemplate, req.RevisionNotes)
	}

	prompt := fmt.Sprintf(draftPromptTemplate,
		g.persona.Name, g.persona.Title, g.persona.Org,
		req.SenderName, firstName(req.SenderName),
		g.persona.SignatureHTML(),
		req.Instruction,
		revisionSection,
		body,
		req.SenderName,
	)

	messages := []llm.Message{
		{Role: "system", Content: systemPromptFor(req.SenderCategory)},
		{Role: "user", Content: prompt},
	}

	reply, err := g.llm.Chat(ctx, messages,
		llm.WithTemperature(draftTemperature),
		llm.WithMaxTokens(draftMaxTokens),
	)
	if err != nil {
		g.logger.Warn("draft generation failed, using fallback reply", logging.Err(err))
		return g.fallbackReply(req.SenderName)
	}

	reply = strings.TrimSpace(reply)
	if !strings.Contains(reply, g.persona.Name) {
		reply += "\n<br><br>" + g.persona.SignatureHTML()
	}
	return reply
}

func (g *Generator) fallbackReply(senderName string) string {
	greeting := firstName(senderName)
	if greeting == "" {
		greeting = "Colleague"
	}
	return fmt.Sprintf("<p>Dear %s,</p>\n<p>Thank you for your email. I will follow up on your request shortly.</p>\n<p>%s</p>",
		greeting, g.persona.SignatureHTML())
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
