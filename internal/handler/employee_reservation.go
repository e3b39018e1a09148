package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/metrics"
	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/queue"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
)

// EmployeeReservationHandler is the store side of the reservation
// lifecycle: finalizing orders and managing the shop's order list.
type EmployeeReservationHandler struct {
	DB            *sql.DB
	Reservations  *repository.ReservationRepo
	Bags          *repository.BagRepo
	Notifications *repository.NotificationRepo
}

func NewEmployeeReservationHandler(db *sql.DB, r *repository.ReservationRepo, b *repository.BagRepo, n *repository.NotificationRepo) *EmployeeReservationHandler {
	if db == nil || r == nil || b == nil || n == nil {
		panic("nil dependency passed to NewEmployeeReservationHandler")
	}
	return &EmployeeReservationHandler{DB: db, Reservations: r, Bags: b, Notifications: n}
}

// List returns every reservation placed against the employee's shop.
func (h *EmployeeReservationHandler) List(c echo.Context) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Reservations.ListByShopForEmployee(ctx, employeeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": rows})
}

// finalize loads an order owned by the employee, applies a guarded
// transition and notifies the client, all inside one transaction. The
// restock flag controls whether the reserved quantity goes back on sale.
func (h *EmployeeReservationHandler) finalize(c echo.Context, to, clientMsg string, restock bool) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderRef := strings.TrimSpace(c.Param("order_ref"))
	if orderRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_ref required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetByRefTx(ctx, tx, orderRef)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if res.EmployeeID != employeeID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your shop's order"})
	}

	if err := h.Reservations.TransitionTx(ctx, tx, orderRef, model.StatusPending, to); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "order already finalized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if restock {
		if err := h.Bags.RestoreTx(ctx, tx, res.BagID, res.Quantity); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore stock failed"})
		}
	}
	if err := h.Notifications.InsertTx(ctx, tx, res.ClientID, model.NotifyClient, clientMsg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "notify failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	metrics.NotificationsInsertedTotal.WithLabelValues(model.NotifyClient).Inc()
	res.Status = to
	kind := queue.EventReservationPickedUp
	if to == model.StatusCancelledByStore {
		kind = queue.EventReservationCancelled
		metrics.ReservationsCancelledTotal.WithLabelValues("store").Inc()
	} else {
		metrics.ReservationsPickedUpTotal.Inc()
	}
	publishReservationEvent(kind, res, "", "")

	return c.JSON(http.StatusOK, echo.Map{"order_ref": orderRef, "status": to})
}

// Cancel rejects a pending order on behalf of the store. The quantity
// returns to stock and the client is told.
func (h *EmployeeReservationHandler) Cancel(c echo.Context) error {
	return h.finalize(c, model.StatusCancelledByStore, "Your reservation was cancelled by the store.", true)
}

// ConfirmPickup marks a pending order as collected. Stock is already
// gone with the bag, so nothing is restored.
func (h *EmployeeReservationHandler) ConfirmPickup(c echo.Context) error {
	return h.finalize(c, model.StatusPickedUp, "Your reservation has been picked up.", false)
}

// ClearCompleted removes the shop's finished orders from the list.
func (h *EmployeeReservationHandler) ClearCompleted(c echo.Context) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Reservations.ClearCompletedForShop(ctx, employeeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}
