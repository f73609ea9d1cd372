package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Open(t *testing.T) {
	for _, st := range Statuses {
		assert.Equal(t, st != StatusDone, st.Open(), st)
	}
	assert.Equal(t, []string{"Done"}, ClosedStatuses())
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("In progress")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, st)

	_, ok = ParseStatus("in progress")
	assert.False(t, ok, "statuses are case sensitive")
}
