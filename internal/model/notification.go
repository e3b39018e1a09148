package model

import "time"

// Notification recipient types.  A user id is only unique within its
// type, so every notification is addressed to a (user_id, user_type)
// pair and all reads and deletes are scoped to that pair.
const (
	NotifyClient   = "client"
	NotifyEmployee = "employee"
)

// Notification is an append-only message row.  There is no per-message
// delete; the only mutation is a bulk clear per (user, type).
type Notification struct {
	ID        uint64    // notifications.id
	UserID    uint64    // notifications.user_id
	UserType  string    // notifications.user_type ("client" | "employee")
	Message   string    // notifications.message
	CreatedAt time.Time // notifications.created_at
}

// Favorite links a client to a surprise bag.  The (client_id, bag_id)
// pair is unique, which makes adds idempotent.
type Favorite struct {
	ID        uint64    // favorites.id
	ClientID  uint64    // favorites.client_id
	BagID     uint64    // favorites.bag_id
	CreatedAt time.Time // favorites.created_at
}
