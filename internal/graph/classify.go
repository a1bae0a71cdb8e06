package graph

import "strings"

// Priority and category labels used on synced mail.
const (
	PriorityCritical = "Critical"
	PriorityInternal = "Internal"
	PriorityExternal = "External"
	PriorityOthers   = "Others"
	PriorityStudents = "Others / Students"
)

// criticalKeywords mark a message Critical when any appears in the
// subject, preview or body.
var criticalKeywords = []string{
	"important", "asap", "urgent", "deadline", "time sensitive", "immediately",
}

// categoryRule matches keywords against the sender line and body; rules are
// checked in order and the first hit wins.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Assistant Directors", []string{"assistant director"}},
	{"Program Heads", []string{"program head", "head of program", "associate head"}},
	{"Special Program Leadership", []string{"special program leadership", "program leader"}},
	{"Staff Leadership", []string{"staff leadership", "staff lead"}},
	{"Faculty", []string{"faculty", "professor", "lecturer", "clinical"}},
}

var parentKeywords = []string{"parent", "mom", "dad", "daughter", "son"}

var studentKeywords = []string{"student", "alumnus", "graduate", "alumni"}

// Classifier buckets incoming mail by sender role keywords. Senders on the
// configured internal domain that match no role rule become Employees.
type Classifier struct {
	domain string
}

// NewClassifier creates a classifier. The internal domain is derived from
// the mailbox address, e.g. "director@design.example.edu" → "design.example.edu".
func NewClassifier(user string) *Classifier {
	domain := ""
	if i := strings.LastIndex(user, "@"); i >= 0 {
		domain = user[i+1:]
	}
	return &Classifier{domain: strings.ToLower(domain)}
}

// Classify determines the category and priority for a message. The sender
// argument is the display form ("Name <address>") so role keywords in
// display names count too.
func (c *Classifier) Classify(sender, subject, snippet, body string) (category, priority string) {
	sender = strings.ToLower(sender)
	subject = strings.ToLower(subject)
	snippet = strings.ToLower(snippet)
	body = strings.ToLower(body)

	priority = PriorityOthers
	if containsAny(subject, criticalKeywords) ||
		containsAny(snippet, criticalKeywords) ||
		containsAny(body, criticalKeywords) {
		priority = PriorityCritical
	}

	for _, rule := range categoryRules {
		if containsAny(sender, rule.keywords) || containsAny(body, rule.keywords) {
			return rule.category, priority
		}
	}

	if c.domain != "" && strings.HasSuffix(sender, "@"+c.domain+">") {
		return "Employees", PriorityInternal
	}

	if containsAny(snippet, parentKeywords) || containsAny(body, parentKeywords) {
		return "Parents", PriorityExternal
	}

	if containsAny(sender, studentKeywords) || containsAny(body, studentKeywords) {
		return "Students", PriorityStudents
	}

	return "Others", priority
}

// ClassifyMessage fills in the message's Category and Priority.
func (c *Classifier) ClassifyMessage(m *Message) {
	m.Category, m.Priority = c.Classify(m.SenderDisplay(), m.Subject, m.Snippet, m.Body)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
