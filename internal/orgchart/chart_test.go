package orgchart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "organization_chart.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"Assistant Director": {"Pat Jones": "pat@design.example.edu"},
		"Faculty": {"Dana Reyes": "Reyes@design.example.edu"}
	}`), 0o644))

	chart, err := Load(path)
	require.NoError(t, err)

	name, category, ok := chart.LookupByEmail("pat@design.example.edu")
	require.True(t, ok)
	assert.Equal(t, "Pat Jones", name)
	assert.Equal(t, "Assistant Director", category)

	// Case-insensitive on both sides.
	name, category, ok = chart.LookupByEmail("reyes@DESIGN.example.edu")
	require.True(t, ok)
	assert.Equal(t, "Dana Reyes", name)
	assert.Equal(t, "Faculty", category)

	_, _, ok = chart.LookupByEmail("stranger@gmail.com")
	assert.False(t, ok)
	assert.Equal(t, "", chart.CategoryByEmail("stranger@gmail.com"))
}

func TestLoadMissingFileIsEmptyChart(t *testing.T) {
	chart, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, chart)

	chart, err = Load("")
	require.NoError(t, err)
	assert.Empty(t, chart)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestExtractNameFromSignature(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "closing phrase",
			body: "Can you send the report?\n\nBest regards,\nJordan Li",
			want: "Jordan Li",
		},
		{
			name: "thanks",
			body: "See you then.\nThanks, Maria Santos Garcia",
			want: "Maria Santos Garcia",
		},
		{
			name: "signature delimiter",
			body: "body text\n--\nChris Park",
			want: "Chris Park",
		},
		{
			name: "fallback last line",
			body: "Quick question about parking.\n\nAlex Kim",
			want: "Alex Kim",
		},
		{
			name: "last line too long",
			body: "hello\nThis Is A Very Long Name Line Indeed",
			want: "",
		},
		{
			name: "last line not capitalized",
			body: "hello\nsent from my phone",
			want: "",
		},
		{
			name: "empty",
			body: "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractNameFromSignature(tc.body))
		})
	}
}
