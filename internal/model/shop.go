package model

import "time"

// Shop approval states.  A shop is created as pending when the employee
// submits its registration and becomes visible to clients only once
// approved.
const (
	ShopStatusPending  = "pending"
	ShopStatusApproved = "approved"
)

// Shop is a food shop operated by exactly one employee account (enforced
// with a unique index on employee_id).  Coordinates are used for the
// distance-based lookups on the public browse surface.
//
// Fields:
//  ID          – primary key identifier.
//  EmployeeID  – owning employee account.
//  Name        – display name.
//  Address     – street address shown on reservations.
//  Latitude    – geographic latitude in degrees.
//  Longitude   – geographic longitude in degrees.
//  OpeningHour – free-text weekday opening hours.
//  Weekend     – free-text weekend opening hours.
//  Category    – shop category (bakery, grocery...).
//  ImageURL    – shop image.
//  Status      – pending or approved.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Shop struct {
	ID          uint64    // shops.id
	EmployeeID  uint64    // shops.employee_id
	Name        string    // shops.name
	Address     string    // shops.address
	Latitude    float64   // shops.latitude
	Longitude   float64   // shops.longitude
	OpeningHour string    // shops.opening_hour
	Weekend     string    // shops.weekend
	Category    string    // shops.category
	ImageURL    string    // shops.image_url
	Status      string    // shops.status
	CreatedAt   time.Time // shops.created_at
	UpdatedAt   time.Time // shops.updated_at
}
