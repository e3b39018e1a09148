package repository

import (
	"context"
	"database/sql"
)

// FavoriteRepo is the single authoritative favorites implementation: a
// persisted set of (client, bag) pairs.  Adds are idempotent through
// INSERT IGNORE against the unique (client_id, bag_id) index.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Add records a favorite.  Re-adding an existing pair is a no-op.
func (r *FavoriteRepo) Add(ctx context.Context, clientID, bagID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO favorites (client_id, bag_id) VALUES (?,?)",
		clientID, bagID)
	return err
}

// Remove deletes a favorite.  Removing a pair that is not present is a
// no-op, keeping remove idempotent like add.
func (r *FavoriteRepo) Remove(ctx context.Context, clientID, bagID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM favorites WHERE client_id=? AND bag_id=?",
		clientID, bagID)
	return err
}

// Has reports whether the client has favorited the bag.
func (r *FavoriteRepo) Has(ctx context.Context, clientID, bagID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM favorites WHERE client_id=? AND bag_id=? LIMIT 1",
		clientID, bagID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FavoriteBag is a favorited bag joined with display fields for the
// favorites screen.
type FavoriteBag struct {
	BagID        uint64 `json:"bag_id"`
	BagName      string `json:"bag_name"`
	PriceCents   uint32 `json:"price_cents"`
	PickupHour   string `json:"pickup_hour"`
	ImageURL     string `json:"image_url"`
	QuantityLeft uint32 `json:"quantity_left"`
	ShopID       uint64 `json:"shop_id"`
	ShopName     string `json:"shop_name"`
}

// ListByClient returns the client's favorites, most recently added
// first, joined with bag and shop display fields.
func (r *FavoriteRepo) ListByClient(ctx context.Context, clientID uint64) ([]FavoriteBag, error) {
	const q = `SELECT b.id, b.name, b.price_cents, b.pickup_hour, b.image_url, b.quantity_left,
			s.id, s.name
		FROM favorites f
		JOIN surprise_bags b ON b.id = f.bag_id
		JOIN shops s ON s.id = b.shop_id
		WHERE f.client_id=?
		ORDER BY f.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]FavoriteBag, 0)
	for rows.Next() {
		var fb FavoriteBag
		if err := rows.Scan(&fb.BagID, &fb.BagName, &fb.PriceCents, &fb.PickupHour,
			&fb.ImageURL, &fb.QuantityLeft, &fb.ShopID, &fb.ShopName); err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}
