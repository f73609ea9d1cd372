package service

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
)

func TestParseTaskQuery(t *testing.T) {
	cursor := pagination.Encode(pagination.Cursor{CreatedAt: fixedNow, ID: 4})

	f, err := ParseTaskQuery(url.Values{
		"status":   {"In progress"},
		"deadline": {"2026-01-05T10:00:00 03:00"},
		"day":      {"wEDNESDAY"},
		"search":   {"  report "},
		"ordering": {"created_at"},
		"cursor":   {cursor},
	})
	require.NoError(t, err)
	require.NotNil(t, f.Status)
	assert.Equal(t, model.StatusInProgress, *f.Status)
	require.NotNil(t, f.Deadline)
	assert.Equal(t, time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC), *f.Deadline)
	require.NotNil(t, f.Weekday)
	assert.Equal(t, time.Wednesday, *f.Weekday)
	assert.Equal(t, "report", f.Search)
	assert.True(t, f.Ascending)
	require.NotNil(t, f.Cursor)
	assert.Equal(t, int64(4), f.Cursor.ID)

	f, err = ParseTaskQuery(url.Values{"ordering": {"-created_at"}})
	require.NoError(t, err)
	assert.False(t, f.Ascending)
}

func TestParseTaskQueryErrors(t *testing.T) {
	_, err := ParseTaskQuery(url.Values{
		"status":   {"Someday"},
		"day":      {"Funday"},
		"deadline": {"tomorrow"},
		"cursor":   {"!!"},
	})
	fields := fieldsOf(t, err)
	assert.Equal(t, []string{invalidStatusMsg}, fields["status"])
	assert.Equal(t, []string{invalidDayMsg}, fields["day"])
	assert.Equal(t, []string{invalidDateMsg}, fields["deadline"])
	assert.Equal(t, []string{invalidCursorMsg}, fields["cursor"])
}

func TestParseSubTaskQuery(t *testing.T) {
	f, err := ParseSubTaskQuery(url.Values{"task_title": {"Report"}, "search": {"draft"}})
	require.NoError(t, err)
	assert.Equal(t, "Report", f.TaskTitle)
	assert.Equal(t, "draft", f.Search)

	_, err = ParseSubTaskQuery(url.Values{"status": {"NotARealStatus"}})
	assert.EqualError(t, err, "Invalid status. Use: New, In progress, Pending, Blocked, Done")
}

func TestCapitalize(t *testing.T) {
	for in, want := range map[string]string{"monday": "Monday", "SUNDAY": "Sunday", "x": "X", "": ""} {
		assert.Equal(t, want, capitalize(in), in)
	}
}
