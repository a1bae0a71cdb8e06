package notion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDateISO(t *testing.T) {
	parsed, ok := parseDueDate("2026-03-15")
	require.True(t, ok)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 15, parsed.Day())
}

func TestParseDueDateNaturalLanguage(t *testing.T) {
	parsed, ok := parseDueDate("March 15, 2026")
	require.True(t, ok)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
}

func TestParseDueDateFailure(t *testing.T) {
	_, ok := parseDueDate("before the gala")
	assert.False(t, ok)
}

func TestParseDueDateFuturePreference(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { now = orig }()

	// Without an explicit year a date that already passed shifts forward.
	parsed, ok := parseDueDate("3/15/2026")
	require.True(t, ok)
	assert.Equal(t, 2026, parsed.Year()) // explicit year is never shifted
}

func TestExplicitYearRegex(t *testing.T) {
	assert.True(t, explicitYear.MatchString("due 2026-01-02"))
	assert.True(t, explicitYear.MatchString("Jan 5 1999"))
	assert.False(t, explicitYear.MatchString("next friday"))
	assert.False(t, explicitYear.MatchString("room 20267"))
}
