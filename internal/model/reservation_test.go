package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminalStatus(t *testing.T) {
	assert.False(t, IsTerminalStatus(StatusPending))
	assert.True(t, IsTerminalStatus(StatusPickedUp))
	assert.True(t, IsTerminalStatus(StatusCancelledByUser))
	assert.True(t, IsTerminalStatus(StatusCancelledByStore))
	assert.False(t, IsTerminalStatus(""))
	assert.False(t, IsTerminalStatus("picked up")) // statuses are case-sensitive
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to picked up", StatusPending, StatusPickedUp, true},
		{"pending to cancelled by client", StatusPending, StatusCancelledByUser, true},
		{"pending to cancelled by store", StatusPending, StatusCancelledByStore, true},
		{"pending to pending", StatusPending, StatusPending, false},
		{"picked up is final", StatusPickedUp, StatusCancelledByStore, false},
		{"cancelled is final", StatusCancelledByUser, StatusPending, false},
		{"cancelled stays cancelled", StatusCancelledByStore, StatusPickedUp, false},
		{"unknown source", "Reserved", StatusPickedUp, false},
		{"unknown target", StatusPending, "Done", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

// The current/history screens split on terminal vs non-terminal, so the
// terminal set must be exactly the three closed statuses and Pending must
// stay outside it.
func TestTerminalStatusesPartition(t *testing.T) {
	assert.Len(t, TerminalStatuses, 3)
	seen := map[string]bool{}
	for _, s := range TerminalStatuses {
		assert.NotEqual(t, StatusPending, s)
		assert.False(t, seen[s], "duplicate terminal status %q", s)
		seen[s] = true
	}
}
