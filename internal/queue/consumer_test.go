package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() ReservationEvent {
	return ReservationEvent{
		Kind:        EventReservationCreated,
		OrderRef:    "6f1c2a34-9b7d-4e2f-8a10-3c5d6e7f8a9b",
		Status:      "Pending",
		BagID:       12,
		BagName:     "Bakery surprise",
		ShopID:      4,
		ShopName:    "Boulangerie Lucette",
		ClientID:    33,
		EmployeeID:  8,
		Quantity:    2,
		AmountCents: 1198,
		OccurredAt:  "2026-03-14T17:05:00Z",
	}
}

func TestFormatAuditLine(t *testing.T) {
	line := formatAuditLine(sampleEvent())
	assert.Equal(t,
		"[2026-03-14T17:05:00Z] reservation.created | order_ref=6f1c2a34-9b7d-4e2f-8a10-3c5d6e7f8a9b | "+
			"status=\"Pending\" | bag=\"Bakery surprise\" | shop=\"Boulangerie Lucette\" | "+
			"client_id=33 | qty=2 | amount=1198 cents\n",
		line)
}

// chdir switches the working directory for the duration of the test,
// matching the behavior of t.Chdir (added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}

func TestHandleMessageAppendsToAuditLog(t *testing.T) {
	chdir(t, t.TempDir())

	ev := sampleEvent()
	require.NoError(t, handleMessage(mustJSON(t, ev)))
	require.NoError(t, handleMessage(mustJSON(t, ev)))

	data, err := os.ReadFile(filepath.Join("logs", "reservations.log"))
	require.NoError(t, err)
	assert.Equal(t, formatAuditLine(ev)+formatAuditLine(ev), string(data))
}

func TestHandleMessageRejectsBadJSON(t *testing.T) {
	chdir(t, t.TempDir())
	assert.Error(t, handleMessage([]byte("{not json")))
}

func mustJSON(t *testing.T, ev ReservationEvent) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return b
}
