package utils

import (
	"errors"
	"strings"
	"time"
)

// ErrBadPickupWindow is returned when a pickup_hour string cannot be
// parsed into a start and end time.
var ErrBadPickupWindow = errors.New("invalid pickup window")

// pickupLayouts are tried in order when parsing one side of the window.
// The data comes from free-text employee input, so both "4pm" and
// "4:30pm" forms appear in practice.
var pickupLayouts = []string{"3:04pm", "3pm"}

// ParsePickupWindow parses a free-text window such as "12:30pm - 4:30 pm"
// into concrete start and end times on the given day, in UTC.  Whitespace
// inside either side is ignored and the am/pm marker is case-insensitive.
// An end time at or before the start time is rejected, as is anything
// that is not exactly two dash-separated clock times.
func ParsePickupWindow(window string, day time.Time) (start, end time.Time, err error) {
	parts := strings.Split(window, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, ErrBadPickupWindow
	}
	start, err = parseClock(parts[0], day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = parseClock(parts[1], day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrBadPickupWindow
	}
	return start, end, nil
}

// parseClock turns one side of the window ("4:30 pm") into a timestamp on
// the given day.
func parseClock(s string, day time.Time) (time.Time, error) {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, layout := range pickupLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrBadPickupWindow
}
