package model

import "time"

// Status names for a reservation.  The strings are stored verbatim in the
// reservations.status column and shown to users, so they are sentence-cased
// rather than SCREAMING_CASE.
const (
	StatusPending          = "Pending"
	StatusPickedUp         = "Picked up"
	StatusCancelledByUser  = "Cancelled by client"
	StatusCancelledByStore = "Cancelled by store"
)

// TerminalStatuses lists the states a reservation can never leave.
var TerminalStatuses = []string{StatusPickedUp, StatusCancelledByUser, StatusCancelledByStore}

// IsTerminalStatus reports whether s is one of the three end states.
func IsTerminalStatus(s string) bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// CanTransition reports whether a reservation may move from one status to
// another.  The only legal moves are Pending to a terminal state; a
// terminal state admits nothing, and Pending to Pending is not a move.
func CanTransition(from, to string) bool {
	return from == StatusPending && IsTerminalStatus(to)
}

// Reservation records a client's claim on a quantity of a surprise bag.
// It carries a server-generated order reference, the parsed pickup window
// and the amount charged.  The status lifecycle is Pending followed by
// exactly one terminal state.
//
// Fields:
//  ID          – primary key identifier.
//  OrderRef    – UUIDv4 reference shown to the client (reservations.order_ref, unique).
//  BagID       – surprise bag being reserved.
//  ShopID      – shop the bag belongs to.
//  ClientID    – client who made the reservation.
//  EmployeeID  – employee owning the shop, denormalized for notification fan-out.
//  Status      – current lifecycle state.
//  Quantity    – number of bags reserved.
//  AmountCents – total charged in cents (bag price * quantity at creation time).
//  PickupHour  – the free-text window copied from the bag (e.g. "12:30pm - 4:30pm").
//  PickupStart – parsed start of the window in UTC.
//  PickupEnd   – parsed end of the window in UTC.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Reservation struct {
	ID          uint64    // reservations.id
	OrderRef    string    // reservations.order_ref
	BagID       uint64    // reservations.bag_id
	ShopID      uint64    // reservations.shop_id
	ClientID    uint64    // reservations.client_id
	EmployeeID  uint64    // reservations.employee_id
	Status      string    // reservations.status
	Quantity    uint32    // reservations.quantity
	AmountCents uint32    // reservations.amount_cents
	PickupHour  string    // reservations.pickup_hour
	PickupStart time.Time // reservations.pickup_start
	PickupEnd   time.Time // reservations.pickup_end
	CreatedAt   time.Time // reservations.created_at
	UpdatedAt   time.Time // reservations.updated_at
}
