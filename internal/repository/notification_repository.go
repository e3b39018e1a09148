package repository

import (
	"context"
	"database/sql"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// NotificationRepo persists the append-only notifications table.  Every
// row is addressed to a (user_id, user_type) pair and reads and clears
// are always scoped to that pair, so a client and an employee sharing a
// numeric id never see each other's messages.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// InsertTx appends a notification within a transaction.  Reservation
// lifecycle events insert both recipients' rows inside the same
// transaction as the status change, so partial fan-out cannot happen.
func (r *NotificationRepo) InsertTx(ctx context.Context, tx *sql.Tx, userID uint64, userType, message string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO notifications (user_id, user_type, message) VALUES (?,?,?)",
		userID, userType, message)
	return err
}

// Insert appends a standalone notification (e.g. the registration
// welcome message) outside any transaction.
func (r *NotificationRepo) Insert(ctx context.Context, userID uint64, userType, message string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (user_id, user_type, message) VALUES (?,?,?)",
		userID, userType, message)
	return err
}

// ListForUser returns all notifications for the pair, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64, userType string) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, user_type, message, created_at FROM notifications WHERE user_id=? AND user_type=? ORDER BY created_at DESC",
		userID, userType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.UserType, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ClearForUser deletes every notification for the pair and reports the
// count.  Rows for other users, and rows for the same user id under the
// other type, are untouched by construction of the predicate.
func (r *NotificationRepo) ClearForUser(ctx context.Context, userID uint64, userType string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM notifications WHERE user_id=? AND user_type=?",
		userID, userType)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
