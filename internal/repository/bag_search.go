package repository

import (
	"context"
	"strings"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// BagSearchQuery defines the filter and pagination for the public name
// search.
type BagSearchQuery struct {
	Term     string
	Page     int
	PageSize int
}

// BagSearchRow is a bag decorated with its shop's display fields, shaped
// for the search results screen.
type BagSearchRow struct {
	BagID        uint64 `json:"bag_id"`
	Name         string `json:"name"`
	BagNumber    string `json:"bag_number"`
	PriceCents   uint32 `json:"price_cents"`
	PickupHour   string `json:"pickup_hour"`
	Category     string `json:"category"`
	ImageURL     string `json:"image_url"`
	QuantityLeft uint32 `json:"quantity_left"`
	ShopID       uint64 `json:"shop_id"`
	ShopName     string `json:"shop_name"`
	ShopAddress  string `json:"shop_address"`
}

// Search returns the bags of approved shops whose shop name or bag name
// contains the term, case-insensitively, newest first.  The count runs
// on the same predicate so the total stays consistent with the page.
func (r *BagRepo) Search(ctx context.Context, q BagSearchQuery) ([]BagSearchRow, int64, error) {
	term := "%" + strings.ToLower(q.Term) + "%"
	cond := `s.status=? AND (LOWER(s.name) LIKE ? OR LOWER(b.name) LIKE ?)`
	args := []any{model.ShopStatusApproved, term, term}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM surprise_bags b
		JOIN shops s ON s.id = b.shop_id
		WHERE ` + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT b.id, b.name, b.bag_number, b.price_cents, b.pickup_hour,
			b.category, b.image_url, b.quantity_left,
			s.id, s.name, s.address
		FROM surprise_bags b
		JOIN shops s ON s.id = b.shop_id
		WHERE ` + cond + `
		ORDER BY b.created_at DESC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]BagSearchRow, 0, limit)
	for rows.Next() {
		var d BagSearchRow
		if err := rows.Scan(
			&d.BagID,
			&d.Name,
			&d.BagNumber,
			&d.PriceCents,
			&d.PickupHour,
			&d.Category,
			&d.ImageURL,
			&d.QuantityLeft,
			&d.ShopID,
			&d.ShopName,
			&d.ShopAddress,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
