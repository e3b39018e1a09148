package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// ReservationRepo provides the persistence side of the reservation
// lifecycle.  Status strings follow model: a reservation starts as
// Pending and ends in exactly one of the three terminal states.  All
// writes that belong to one lifecycle event (status change, inventory
// mutation, notification fan-out) run inside a transaction owned by the
// handler; this repository only exposes the Tx building blocks.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationColumns = `id, order_ref, bag_id, shop_id, client_id, employee_id,
	status, quantity, amount_cents, pickup_hour, pickup_start, pickup_end,
	created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.OrderRef, &res.BagID, &res.ShopID, &res.ClientID, &res.EmployeeID,
		&res.Status, &res.Quantity, &res.AmountCents, &res.PickupHour, &res.PickupStart, &res.PickupEnd,
		&res.CreatedAt, &res.UpdatedAt)
	return res, err
}

// CreateTx inserts a Pending reservation within an existing transaction
// and populates the generated ID.  order_ref carries a unique index; a
// duplicate reference (idempotent retry of the same create) maps to
// ErrConflict so the handler can fetch and return the existing row.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (order_ref, bag_id, shop_id, client_id, employee_id,
			status, quantity, amount_cents, pickup_hour, pickup_start, pickup_end)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		res.OrderRef, res.BagID, res.ShopID, res.ClientID, res.EmployeeID,
		res.Status, res.Quantity, res.AmountCents, res.PickupHour, res.PickupStart, res.PickupEnd)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByRef returns a reservation by its order reference.
func (r *ReservationRepo) GetByRef(ctx context.Context, orderRef string) (model.Reservation, error) {
	return scanReservation(r.DB.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE order_ref=? LIMIT 1`, orderRef))
}

// GetByRefTx reads a reservation inside a transaction with a row lock.
// Lifecycle handlers use this to pin the row before the guarded status
// update, so two concurrent transitions serialize on the lock instead
// of both reading Pending.
func (r *ReservationRepo) GetByRefTx(ctx context.Context, tx *sql.Tx, orderRef string) (model.Reservation, error) {
	return scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE order_ref=? LIMIT 1 FOR UPDATE`, orderRef))
}

// TransitionTx performs the status-guarded update from -> to within a
// transaction.  The WHERE clause re-checks the source status, so even
// without the row lock a transition out of a terminal state affects
// zero rows and returns ErrConflict.
func (r *ReservationRepo) TransitionTx(ctx context.Context, tx *sql.Tx, orderRef, from, to string) error {
	if !model.CanTransition(from, to) {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE order_ref=? AND status=?",
		to, orderRef, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// terminalPlaceholders builds the "(?,?,?)" list and args for the three
// terminal statuses, shared by the partition queries below.
func terminalPlaceholders() (string, []any) {
	ph := make([]string, len(model.TerminalStatuses))
	args := make([]any, len(model.TerminalStatuses))
	for i, s := range model.TerminalStatuses {
		ph[i] = "?"
		args[i] = s
	}
	return "(" + strings.Join(ph, ",") + ")", args
}

// OrderDetail is a reservation joined with its bag and shop display
// fields, shaped for the client order screens.
type OrderDetail struct {
	OrderRef    string `json:"order_ref"`
	Status      string `json:"status"`
	Quantity    uint32 `json:"quantity"`
	AmountCents uint32 `json:"amount_cents"`
	PickupHour  string `json:"pickup_hour"`
	PickupStart string `json:"pickup_start"`
	PickupEnd   string `json:"pickup_end"`
	BagID       uint64 `json:"bag_id"`
	BagName     string `json:"bag_name"`
	BagNumber   string `json:"bag_number"`
	ImageURL    string `json:"image_url"`
	ShopID      uint64 `json:"shop_id"`
	ShopName    string `json:"shop_name"`
	ShopAddress string `json:"shop_address"`
}

const orderDetailSelect = `SELECT r.order_ref, r.status, r.quantity, r.amount_cents,
	r.pickup_hour, r.pickup_start, r.pickup_end,
	b.id, b.name, b.bag_number, b.image_url,
	s.id, s.name, s.address
	FROM reservations r
	JOIN surprise_bags b ON b.id = r.bag_id
	JOIN shops s ON s.id = r.shop_id`

func (r *ReservationRepo) queryOrderDetails(ctx context.Context, q string, args ...any) ([]OrderDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OrderDetail, 0)
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(&d.OrderRef, &d.Status, &d.Quantity, &d.AmountCents,
			&d.PickupHour, &d.PickupStart, &d.PickupEnd,
			&d.BagID, &d.BagName, &d.BagNumber, &d.ImageURL,
			&d.ShopID, &d.ShopName, &d.ShopAddress); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListCurrentByClient returns a client's open orders: exactly the rows
// whose status is Pending.  Together with ListHistoryByClient this
// partitions the client's reservations; the two predicates are the
// negation of each other, so the partitions are disjoint and complete.
func (r *ReservationRepo) ListCurrentByClient(ctx context.Context, clientID uint64) ([]OrderDetail, error) {
	ph, args := terminalPlaceholders()
	q := orderDetailSelect + ` WHERE r.client_id=? AND r.status NOT IN ` + ph + ` ORDER BY r.created_at DESC`
	return r.queryOrderDetails(ctx, q, append([]any{clientID}, args...)...)
}

// ListHistoryByClient returns a client's finished orders: the rows whose
// status is one of the three terminal states.
func (r *ReservationRepo) ListHistoryByClient(ctx context.Context, clientID uint64) ([]OrderDetail, error) {
	ph, args := terminalPlaceholders()
	q := orderDetailSelect + ` WHERE r.client_id=? AND r.status IN ` + ph + ` ORDER BY r.created_at DESC`
	return r.queryOrderDetails(ctx, q, append([]any{clientID}, args...)...)
}

// ShopReservation is a reservation decorated for the employee screens:
// bag display fields plus the reserving client's name.
type ShopReservation struct {
	OrderRef    string `json:"order_ref"`
	Status      string `json:"status"`
	Quantity    uint32 `json:"quantity"`
	AmountCents uint32 `json:"amount_cents"`
	PickupHour  string `json:"pickup_hour"`
	BagID       uint64 `json:"bag_id"`
	BagName     string `json:"bag_name"`
	BagNumber   string `json:"bag_number"`
	Validation  string `json:"validation"`
	ImageURL    string `json:"image_url"`
	ClientID    uint64 `json:"client_id"`
	ClientName  string `json:"client_name"`
}

// ListByShopForEmployee returns every reservation against the
// employee's shop, newest first, with bag and client display fields.
// Ownership is part of the predicate: an employee only ever sees rows
// whose employee_id is their own.
func (r *ReservationRepo) ListByShopForEmployee(ctx context.Context, employeeID uint64) ([]ShopReservation, error) {
	const q = `SELECT r.order_ref, r.status, r.quantity, r.amount_cents, r.pickup_hour,
			b.id, b.name, b.bag_number, b.validation, b.image_url,
			r.client_id, c.full_name
		FROM reservations r
		JOIN surprise_bags b ON b.id = r.bag_id
		JOIN clients c ON c.user_id = r.client_id
		WHERE r.employee_id=?
		ORDER BY r.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ShopReservation, 0)
	for rows.Next() {
		var sr ShopReservation
		if err := rows.Scan(&sr.OrderRef, &sr.Status, &sr.Quantity, &sr.AmountCents, &sr.PickupHour,
			&sr.BagID, &sr.BagName, &sr.BagNumber, &sr.Validation, &sr.ImageURL,
			&sr.ClientID, &sr.ClientName); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// ClearCompletedForShop deletes the employee's terminal-status
// reservations and returns how many rows went.  Pending rows are never
// touched; the status predicate keeps live orders safe.
func (r *ReservationRepo) ClearCompletedForShop(ctx context.Context, employeeID uint64) (int64, error) {
	ph, args := terminalPlaceholders()
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM reservations WHERE employee_id=? AND status IN "+ph,
		append([]any{employeeID}, args...)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
