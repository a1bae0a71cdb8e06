// Package mailsync pulls unread Outlook mail into the Notion email
// database and the dashboard JSON feed.
package mailsync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/designdesk/agendasync/internal/llm"
	"github.com/designdesk/agendasync/internal/logging"
)

const (
	summaryTemperature = 0.2
	summaryMaxTokens   = 300

	// summaryInputLimit caps how much of the body goes to the model.
	summaryInputLimit = 6000

	// fallbackSummaryLimit caps the truncation fallback when the model
	// is unavailable.
	fallbackSummaryLimit = 500
)

const summarySystemPrompt = "You are a precise and professional summarizer. Always provide a complete, context-rich summary."

const summaryPromptTemplate = `
You are an expert executive assistant.
Summarize the following email in 2-3 concise, professional sentences. Your summary must clearly capture:
- The sender's intent and main request
- Any key details, questions, or action items
- The overall context, so a director can quickly understand what is needed

Be specific, objective, and do not omit important context. If the sender's name or role is mentioned in the signature or body, include it. Limit to 120 words.

Email content:
%s
`

// Chatter is the LLM surface the summarizer needs.
type Chatter interface {
	Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error)
}

// Summarizer produces short summaries of mail bodies, degrading to plain
// truncation when the model fails.
type Summarizer struct {
	llm    Chatter
	logger *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(chatter Chatter, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{llm: chatter, logger: logger}
}

// Summarize returns a 2-3 sentence summary of the mail body. When the model
// call fails the body itself, truncated, stands in so the sync never blocks
// on the LLM.
func (s *Summarizer) Summarize(ctx context.Context, body string) string {
	input := body
	if len(input) > summaryInputLimit {
		input = input[:summaryInputLimit]
	}

	messages := []llm.Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: fmt.Sprintf(summaryPromptTemplate, input)},
	}

	summary, err := s.llm.Chat(ctx, messages,
		llm.WithTemperature(summaryTemperature),
		llm.WithMaxTokens(summaryMaxTokens),
	)
	if err != nil {
		s.logger.Warn("summarization failed, falling back to truncation", logging.Err(err))
		return truncatedSummary(body)
	}
	return strings.TrimSpace(summary)
}

func truncatedSummary(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > fallbackSummaryLimit {
		return body[:fallbackSummaryLimit] + "..."
	}
	return body
}

// ResponseEffort estimates how much work a reply takes from the body length.
func ResponseEffort(body string) string {
	switch length := len(body); {
	case length < 500:
		return "Quick"
	case length < 1500:
		return "Moderate"
	default:
		return "High"
	}
}
