package model

import "time"

// SurpriseBag is a discounted, contents-unknown bundle of surplus food
// sold by a shop.  QuantityLeft is the live inventory counter; the
// reservation lifecycle moves it only through the guarded decrement and
// atomic restore queries in the repository, while the owning employee may
// set it absolutely when editing the listing.
//
// Fields:
//  ID           – primary key identifier.
//  ShopID       – owning shop.
//  EmployeeID   – employee who uploaded the bag, denormalized from the shop.
//  Name         – display name.
//  BagNumber    – shop-local bag number shown on pickup.
//  PriceCents   – unit price in cents.
//  PickupHour   – free-text pickup window, e.g. "12:30pm - 4:30pm".
//  Validation   – free-text validity date range.
//  Category     – bag category.
//  Description  – what the client could get.
//  ImageURL     – bag image.
//  QuantityLeft – remaining units; never negative.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type SurpriseBag struct {
	ID           uint64    // surprise_bags.id
	ShopID       uint64    // surprise_bags.shop_id
	EmployeeID   uint64    // surprise_bags.employee_id
	Name         string    // surprise_bags.name
	BagNumber    string    // surprise_bags.bag_number
	PriceCents   uint32    // surprise_bags.price_cents
	PickupHour   string    // surprise_bags.pickup_hour
	Validation   string    // surprise_bags.validation
	Category     string    // surprise_bags.category
	Description  string    // surprise_bags.description
	ImageURL     string    // surprise_bags.image_url
	QuantityLeft uint32    // surprise_bags.quantity_left
	CreatedAt    time.Time // surprise_bags.created_at
	UpdatedAt    time.Time // surprise_bags.updated_at
}
