// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between failure scenarios. For example,
// ErrForbidden indicates that the current user is not authorized to
// operate on a resource owned by someone else, while ErrInsufficientStock
// signals that a guarded inventory decrement found fewer units left than
// the reservation asked for.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as trying to move a reservation out of a
// terminal status. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInsufficientStock is returned when a reservation asks for more
// units than the bag has left. The guarded decrement makes this check
// atomic on the database side. Handlers translate it into HTTP 409.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrEmailExists is returned on registration when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrShopExists is returned when an employee who already owns a shop
// tries to register a second one.
var ErrShopExists = errors.New("employee already has a shop")

// ErrShopNotFound is returned when a shop lookup matches no row.
var ErrShopNotFound = errors.New("shop not found")

// ErrBagNotFound is returned when a surprise bag lookup matches no row.
var ErrBagNotFound = errors.New("surprise bag not found")
