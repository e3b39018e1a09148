package repository

import (
	"context"
	"database/sql"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// BagRepo provides CRUD operations for surprise bags and owns the two
// reservation-side inventory mutations.  The reservation lifecycle only
// ever moves quantity_left through DecrementTx and RestoreTx, which are
// both atomic on the database side.  The one absolute write is Update,
// used by the owning employee to restock or correct their own listing.
type BagRepo struct{ DB *sql.DB }

func NewBagRepo(db *sql.DB) *BagRepo { return &BagRepo{DB: db} }

const bagColumns = `id, shop_id, employee_id, name, bag_number, price_cents,
	pickup_hour, validation, category, description, image_url, quantity_left,
	created_at, updated_at`

func scanBag(row interface{ Scan(...any) error }) (model.SurpriseBag, error) {
	var b model.SurpriseBag
	err := row.Scan(&b.ID, &b.ShopID, &b.EmployeeID, &b.Name, &b.BagNumber, &b.PriceCents,
		&b.PickupHour, &b.Validation, &b.Category, &b.Description, &b.ImageURL, &b.QuantityLeft,
		&b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Create inserts a new bag under the employee's shop.
func (r *BagRepo) Create(ctx context.Context, b *model.SurpriseBag) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO surprise_bags (shop_id, employee_id, name, bag_number, price_cents,
			pickup_hour, validation, category, description, image_url, quantity_left)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		b.ShopID, b.EmployeeID, b.Name, b.BagNumber, b.PriceCents,
		b.PickupHour, b.Validation, b.Category, b.Description, b.ImageURL, b.QuantityLeft)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID returns a bag or ErrBagNotFound.
func (r *BagRepo) GetByID(ctx context.Context, id uint64) (model.SurpriseBag, error) {
	b, err := scanBag(r.DB.QueryRowContext(ctx,
		`SELECT `+bagColumns+` FROM surprise_bags WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return model.SurpriseBag{}, ErrBagNotFound
	}
	return b, err
}

// GetByIDTx reads a bag inside a transaction with a row lock, so that
// reservation creation sees a consistent price and pickup window while
// it also decrements the inventory.
func (r *BagRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.SurpriseBag, error) {
	b, err := scanBag(tx.QueryRowContext(ctx,
		`SELECT `+bagColumns+` FROM surprise_bags WHERE id=? LIMIT 1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return model.SurpriseBag{}, ErrBagNotFound
	}
	return b, err
}

// Update overwrites the employee-editable fields.  Ownership is enforced
// in the WHERE clause; updating someone else's bag affects zero rows and
// returns ErrForbidden.
func (r *BagRepo) Update(ctx context.Context, employeeID uint64, b *model.SurpriseBag) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE surprise_bags SET name=?, bag_number=?, price_cents=?, pickup_hour=?,
			validation=?, category=?, description=?, image_url=?, quantity_left=?
		 WHERE id=? AND employee_id=?`,
		b.Name, b.BagNumber, b.PriceCents, b.PickupHour,
		b.Validation, b.Category, b.Description, b.ImageURL, b.QuantityLeft,
		b.ID, employeeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrForbidden
	}
	return nil
}

// Delete removes a bag.  Only the owning employee can delete, enforced
// the same way as Update.
func (r *BagRepo) Delete(ctx context.Context, employeeID, bagID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM surprise_bags WHERE id=? AND employee_id=?", bagID, employeeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrForbidden
	}
	return nil
}

// ListByShop returns all bags of a shop, newest first.
func (r *BagRepo) ListByShop(ctx context.Context, shopID uint64) ([]model.SurpriseBag, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bagColumns+` FROM surprise_bags WHERE shop_id=? ORDER BY created_at DESC`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bags := make([]model.SurpriseBag, 0)
	for rows.Next() {
		b, err := scanBag(rows)
		if err != nil {
			return nil, err
		}
		bags = append(bags, b)
	}
	return bags, rows.Err()
}

// ListAvailable returns in-stock bags of approved shops for the public
// browse surface.
func (r *BagRepo) ListAvailable(ctx context.Context) ([]model.SurpriseBag, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.shop_id, b.employee_id, b.name, b.bag_number, b.price_cents,
			b.pickup_hour, b.validation, b.category, b.description, b.image_url, b.quantity_left,
			b.created_at, b.updated_at
		 FROM surprise_bags b
		 JOIN shops s ON s.id = b.shop_id
		 WHERE b.quantity_left > 0 AND s.status=?
		 ORDER BY b.created_at DESC`, model.ShopStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bags := make([]model.SurpriseBag, 0)
	for rows.Next() {
		b, err := scanBag(rows)
		if err != nil {
			return nil, err
		}
		bags = append(bags, b)
	}
	return bags, rows.Err()
}

// DecrementTx atomically takes qty units from a bag's inventory inside
// a transaction.  The WHERE guard makes the check-and-decrement a single
// statement: when fewer than qty units are left no row is updated and
// ErrInsufficientStock is returned, which must abort the enclosing
// transaction.
func (r *BagRepo) DecrementTx(ctx context.Context, tx *sql.Tx, bagID uint64, qty uint32) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE surprise_bags SET quantity_left = quantity_left - ? WHERE id = ? AND quantity_left >= ?",
		qty, bagID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreTx atomically returns qty units to a bag's inventory inside a
// transaction, used when a reservation is cancelled.  The increment is
// by the reserved quantity, never a recomputed absolute value, so
// concurrent cancellations cannot corrupt the counter.
func (r *BagRepo) RestoreTx(ctx context.Context, tx *sql.Tx, bagID uint64, qty uint32) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE surprise_bags SET quantity_left = quantity_left + ? WHERE id = ?",
		qty, bagID)
	return err
}
