// Package queue defines message payloads exchanged over the message broker.
package queue

// Reservation event kinds, used as the Kind field of ReservationEvent.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationPickedUp  = "reservation.picked_up"
)

// ReservationEvent is published after a reservation lifecycle
// transaction commits.  It carries enough denormalized detail for
// downstream consumers to log, notify or feed analytics without
// querying the primary database.
type ReservationEvent struct {
	Kind        string `json:"kind"`
	OrderRef    string `json:"order_ref"`
	Status      string `json:"status"`
	BagID       uint64 `json:"bag_id"`
	BagName     string `json:"bag_name"`
	ShopID      uint64 `json:"shop_id"`
	ShopName    string `json:"shop_name"`
	ClientID    uint64 `json:"client_id"`
	EmployeeID  uint64 `json:"employee_id"`
	Quantity    uint32 `json:"quantity"`
	AmountCents uint32 `json:"amount_cents"`
	OccurredAt  string `json:"occurred_at"`
}
