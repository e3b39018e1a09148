package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePickupWindow(t *testing.T) {
	day := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		window    string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{name: "typical window", window: "12:30pm - 4:30pm", wantStart: "12:30", wantEnd: "16:30"},
		{name: "hour only", window: "1pm - 5pm", wantStart: "13:00", wantEnd: "17:00"},
		{name: "mixed forms", window: "11am - 2:15pm", wantStart: "11:00", wantEnd: "14:15"},
		{name: "uppercase and inner spaces", window: "12 : 30 PM - 4:30 PM", wantStart: "12:30", wantEnd: "16:30"},
		{name: "no dash", window: "around noon", wantErr: true},
		{name: "too many parts", window: "1pm - 2pm - 3pm", wantErr: true},
		{name: "end before start", window: "5pm - 1pm", wantErr: true},
		{name: "end equals start", window: "2pm - 2pm", wantErr: true},
		{name: "garbage side", window: "soon - 4pm", wantErr: true},
		{name: "empty", window: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start, end, err := ParsePickupWindow(tc.window, day)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrBadPickupWindow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, start.Format("15:04"))
			assert.Equal(t, tc.wantEnd, end.Format("15:04"))
			assert.Equal(t, day.Year(), start.Year())
			assert.Equal(t, day.Month(), start.Month())
			assert.Equal(t, day.Day(), start.Day())
			assert.Equal(t, time.UTC, start.Location())
			assert.True(t, end.After(start))
		})
	}
}
