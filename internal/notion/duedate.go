package notion

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"
)

var explicitYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// now is swapped out by tests.
var now = time.Now

// parseDueDate parses a natural-language due date. When the input carries no
// explicit year and the parsed date has already passed, the date is shifted
// forward a year: due dates name upcoming deadlines far more often than past
// ones.
func parseDueDate(raw string) (time.Time, bool) {
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, false
	}

	if !explicitYear.MatchString(raw) && t.Before(now()) {
		t = t.AddDate(1, 0, 0)
	}

	return t, true
}
