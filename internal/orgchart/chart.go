// Package orgchart resolves mail senders against an organization chart.
//
// The chart is a JSON file mapping category names to people:
//
//	{
//	  "Assistant Director": {"Pat Jones": "pat@design.example.edu"},
//	  "Faculty": {"Dana Reyes": "reyes@design.example.edu"}
//	}
//
// When a sender is not in the chart, ExtractNameFromSignature can often
// recover a display name from the mail body.
package orgchart

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
)

// Chart maps category → person name → email address.
type Chart map[string]map[string]string

// Load reads an organization chart from a JSON file. A missing file is not
// an error: sender lookups just return no match.
func Load(path string) (Chart, error) {
	if path == "" {
		return Chart{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Chart{}, nil
		}
		return nil, fmt.Errorf("failed to read org chart: %w", err)
	}
	var chart Chart
	if err := json.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse org chart: %w", err)
	}
	return chart, nil
}

// LookupByEmail finds the person and category for an email address,
// case-insensitively. Returns ok=false when the address is not in the chart.
func (c Chart) LookupByEmail(email string) (name, category string, ok bool) {
	for cat, people := range c {
		for person, addr := range people {
			if strings.EqualFold(email, addr) {
				return person, cat, true
			}
		}
	}
	return "", "", false
}

// CategoryByEmail returns just the category for an address, or empty.
func (c Chart) CategoryByEmail(email string) string {
	_, category, _ := c.LookupByEmail(email)
	return category
}

var signaturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)(?:Thanks|Thank you|Best|Regards|Sincerely|Kind regards|Warm regards|Cheers|Respectfully)[,\s]*([A-Z][a-z]+(?: [A-Z][a-z]+)+)`),
	regexp.MustCompile(`(?m)^--+[ \t]*\n?([A-Z][a-z]+(?: [A-Z][a-z]+)+)`),
}

// ExtractNameFromSignature pulls a likely sender name out of a mail body:
// a capitalized full name after a closing phrase ("Best regards," etc.) or
// a signature delimiter, falling back to a last line that looks like a
// name (2-4 capitalized words). Returns empty when nothing matches.
func ExtractNameFromSignature(body string) string {
	for _, pattern := range signaturePatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	lines := strings.Split(body, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		if len(words) >= 2 && len(words) <= 4 && allCapitalized(words) {
			return line
		}
		break
	}
	return ""
}

func allCapitalized(words []string) bool {
	for _, w := range words {
		r := []rune(w)
		if len(r) == 0 || !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return true
}
