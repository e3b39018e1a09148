package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

// ShopRepo provides CRUD and geo lookups over the shops table.  A shop
// is owned by exactly one employee (unique index on employee_id) and is
// invisible to clients until its status is 'approved'.
type ShopRepo struct{ DB *sql.DB }

func NewShopRepo(db *sql.DB) *ShopRepo { return &ShopRepo{DB: db} }

const shopColumns = `id, employee_id, name, address, latitude, longitude,
	opening_hour, weekend, category, image_url, status, created_at, updated_at`

func scanShop(row interface{ Scan(...any) error }) (model.Shop, error) {
	var s model.Shop
	err := row.Scan(&s.ID, &s.EmployeeID, &s.Name, &s.Address, &s.Latitude, &s.Longitude,
		&s.OpeningHour, &s.Weekend, &s.Category, &s.ImageURL, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create registers a shop for an employee with status 'pending'.  A
// second registration by the same employee hits the unique index and
// maps to ErrShopExists.
func (r *ShopRepo) Create(ctx context.Context, s *model.Shop) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO shops (employee_id, name, address, latitude, longitude,
			opening_hour, weekend, category, image_url, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		s.EmployeeID, s.Name, s.Address, s.Latitude, s.Longitude,
		s.OpeningHour, s.Weekend, s.Category, s.ImageURL, model.ShopStatusPending)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrShopExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.ShopStatusPending
	return nil
}

// GetByID returns a shop or ErrShopNotFound.
func (r *ShopRepo) GetByID(ctx context.Context, id uint64) (model.Shop, error) {
	s, err := scanShop(r.DB.QueryRowContext(ctx,
		`SELECT `+shopColumns+` FROM shops WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return model.Shop{}, ErrShopNotFound
	}
	return s, err
}

// GetByEmployee returns the shop owned by an employee, or ErrShopNotFound
// when the employee has not registered one yet.
func (r *ShopRepo) GetByEmployee(ctx context.Context, employeeID uint64) (model.Shop, error) {
	s, err := scanShop(r.DB.QueryRowContext(ctx,
		`SELECT `+shopColumns+` FROM shops WHERE employee_id=? LIMIT 1`, employeeID))
	if err == sql.ErrNoRows {
		return model.Shop{}, ErrShopNotFound
	}
	return s, err
}

// Update overwrites the employee-editable fields of a shop.  Ownership
// is enforced by the WHERE clause: updating someone else's shop affects
// zero rows and returns ErrForbidden.
func (r *ShopRepo) Update(ctx context.Context, employeeID uint64, s *model.Shop) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE shops SET name=?, address=?, latitude=?, longitude=?,
			opening_hour=?, weekend=?, category=?, image_url=?
		 WHERE id=? AND employee_id=?`,
		s.Name, s.Address, s.Latitude, s.Longitude,
		s.OpeningHour, s.Weekend, s.Category, s.ImageURL,
		s.ID, employeeID)
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

// UpdateStatus flips the approval status.  Approval itself happens out
// of band; this is also used to re-submit a shop as 'pending' after
// registration paperwork is completed.
func (r *ShopRepo) UpdateStatus(ctx context.Context, shopID uint64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE shops SET status=? WHERE id=?", status, shopID)
	return err
}

// ListApproved returns all approved shops for the public browse surface.
func (r *ShopRepo) ListApproved(ctx context.Context) ([]model.Shop, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+shopColumns+` FROM shops WHERE status=? ORDER BY name`,
		model.ShopStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shops := make([]model.Shop, 0)
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

// haversineExpr computes the great-circle distance in kilometres between
// (?, ?) and the shop's coordinates.  Bound parameters: lat, lng, lat.
const haversineExpr = `(6371 * ACOS(
	COS(RADIANS(?)) * COS(RADIANS(latitude)) * COS(RADIANS(longitude) - RADIANS(?))
	+ SIN(RADIANS(?)) * SIN(RADIANS(latitude))))`

// NearbyShop is a shop row extended with its distance from the query
// point, returned by the geo lookups.
type NearbyShop struct {
	model.Shop
	DistanceKm float64 `json:"distance_km"`
}

// WithinDistance returns approved shops within distanceKm of the given
// point, nearest first.  This replaces the hosted backend's
// shops-within-distance procedure with a plain Haversine query.
func (r *ShopRepo) WithinDistance(ctx context.Context, lat, lng, distanceKm float64) ([]NearbyShop, error) {
	q := `SELECT ` + shopColumns + `, ` + haversineExpr + ` AS distance_km
	      FROM shops
	      WHERE status=?
	      HAVING distance_km <= ?
	      ORDER BY distance_km`
	rows, err := r.DB.QueryContext(ctx, q, lat, lng, lat, model.ShopStatusApproved, distanceKm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]NearbyShop, 0)
	for rows.Next() {
		var n NearbyShop
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Name, &n.Address, &n.Latitude, &n.Longitude,
			&n.OpeningHour, &n.Weekend, &n.Category, &n.ImageURL, &n.Status,
			&n.CreatedAt, &n.UpdatedAt, &n.DistanceKm); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// NearbyBag is one available bag joined with its shop and the shop's
// distance from the query point.  It backs the radius search that the
// client home screen renders as "bags near you".
type NearbyBag struct {
	BagID        uint64  `json:"bag_id"`
	BagName      string  `json:"bag_name"`
	PriceCents   uint32  `json:"price_cents"`
	PickupHour   string  `json:"pickup_hour"`
	Category     string  `json:"category"`
	ImageURL     string  `json:"image_url"`
	QuantityLeft uint32  `json:"quantity_left"`
	ShopID       uint64  `json:"shop_id"`
	ShopName     string  `json:"shop_name"`
	ShopAddress  string  `json:"shop_address"`
	DistanceKm   float64 `json:"distance_km"`
}

// BagsWithinRadius returns one row per in-stock bag sold by an approved
// shop within radiusKm of the point, nearest shop first.  This replaces
// the original's bag-joined radius procedure.
func (r *ShopRepo) BagsWithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyBag, error) {
	q := `SELECT b.id, b.name, b.price_cents, b.pickup_hour, b.category, b.image_url, b.quantity_left,
	             s.id, s.name, s.address,
	             (6371 * ACOS(
	                 COS(RADIANS(?)) * COS(RADIANS(s.latitude)) * COS(RADIANS(s.longitude) - RADIANS(?))
	                 + SIN(RADIANS(?)) * SIN(RADIANS(s.latitude)))) AS distance_km
	      FROM surprise_bags b
	      JOIN shops s ON s.id = b.shop_id
	      WHERE s.status=? AND b.quantity_left > 0
	      HAVING distance_km <= ?
	      ORDER BY distance_km, b.name`
	rows, err := r.DB.QueryContext(ctx, q, lat, lng, lat, model.ShopStatusApproved, radiusKm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]NearbyBag, 0)
	for rows.Next() {
		var n NearbyBag
		if err := rows.Scan(&n.BagID, &n.BagName, &n.PriceCents, &n.PickupHour, &n.Category,
			&n.ImageURL, &n.QuantityLeft, &n.ShopID, &n.ShopName, &n.ShopAddress, &n.DistanceKm); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
