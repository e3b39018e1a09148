package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sauvesaveurs/marketplace-api/internal/metrics"
	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/queue"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
	qp "github.com/sauvesaveurs/marketplace-api/internal/service"
	"github.com/sauvesaveurs/marketplace-api/internal/utils"
)

// ClientReservationHandler owns the client side of the reservation
// lifecycle: creating orders, cancelling them and reading them back.
type ClientReservationHandler struct {
	DB            *sql.DB
	Reservations  *repository.ReservationRepo
	Bags          *repository.BagRepo
	Shops         *repository.ShopRepo
	Notifications *repository.NotificationRepo
}

func NewClientReservationHandler(db *sql.DB, r *repository.ReservationRepo, b *repository.BagRepo, s *repository.ShopRepo, n *repository.NotificationRepo) *ClientReservationHandler {
	if db == nil || r == nil || b == nil || s == nil || n == nil {
		panic("nil dependency passed to NewClientReservationHandler")
	}
	return &ClientReservationHandler{DB: db, Reservations: r, Bags: b, Shops: s, Notifications: n}
}

type createReservationReq struct {
	BagID    uint64 `json:"bag_id"`
	Quantity uint32 `json:"quantity"`
	// OrderRef lets a client retry a create safely: resending the same ref
	// returns the already stored order instead of reserving twice.
	OrderRef string `json:"order_ref"`
}

type reservationResp struct {
	OrderRef    string `json:"order_ref"`
	Status      string `json:"status"`
	BagID       uint64 `json:"bag_id"`
	ShopID      uint64 `json:"shop_id"`
	Quantity    uint32 `json:"quantity"`
	AmountCents uint32 `json:"amount_cents"`
	PickupHour  string `json:"pickup_hour"`
	PickupStart string `json:"pickup_start"`
	PickupEnd   string `json:"pickup_end"`
}

func toReservationResp(r model.Reservation) reservationResp {
	return reservationResp{
		OrderRef:    r.OrderRef,
		Status:      r.Status,
		BagID:       r.BagID,
		ShopID:      r.ShopID,
		Quantity:    r.Quantity,
		AmountCents: r.AmountCents,
		PickupHour:  r.PickupHour,
		PickupStart: r.PickupStart.Format(time.RFC3339),
		PickupEnd:   r.PickupEnd.Format(time.RFC3339),
	}
}

// Create reserves a surprise bag. The insert, the guarded stock decrement
// and both notifications commit in one transaction so a stored order always
// has its stock taken and its messages written. The broker event goes out
// only after the commit.
func (h *ClientReservationHandler) Create(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.BagID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bag_id required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	req.OrderRef = strings.TrimSpace(req.OrderRef)

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

	// Lock the bag row for the duration of the transaction.
	bag, err := h.Bags.GetByIDTx(ctx, tx, req.BagID)
	if err != nil {
		if err == repository.ErrBagNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "surprise bag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	shop, err := h.Shops.GetByID(ctx, bag.ShopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if shop.Status != model.ShopStatusApproved {
		return c.JSON(http.StatusConflict, echo.Map{"error": "shop is not accepting reservations"})
	}

	pickupStart, pickupEnd, err := utils.ParsePickupWindow(bag.PickupHour, time.Now().UTC())
	if err != nil {
		zap.L().Warn("unparseable pickup window", zap.Uint64("bag_id", bag.ID), zap.String("window", bag.PickupHour))
		return c.JSON(http.StatusConflict, echo.Map{"error": "bag has no valid pickup window"})
	}

	orderRef := req.OrderRef
	if orderRef == "" {
		orderRef = uuid.NewString()
	}
	res := &model.Reservation{
		OrderRef:    orderRef,
		BagID:       bag.ID,
		ShopID:      shop.ID,
		ClientID:    clientID,
		EmployeeID:  bag.EmployeeID,
		Status:      model.StatusPending,
		Quantity:    req.Quantity,
		AmountCents: bag.PriceCents * req.Quantity,
		PickupHour:  bag.PickupHour,
		PickupStart: pickupStart,
		PickupEnd:   pickupEnd,
	}

	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		if err == repository.ErrConflict && req.OrderRef != "" {
			// Same ref seen before: the deferred rollback undoes this
			// attempt and the stored order goes back to the client.
			existing, gerr := h.Reservations.GetByRef(ctx, orderRef)
			if gerr != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
			if existing.ClientID != clientID {
				return c.JSON(http.StatusConflict, echo.Map{"error": "order_ref already in use"})
			}
			return c.JSON(http.StatusOK, toReservationResp(existing))
		}
		metrics.OperationErrorsTotal.WithLabelValues("reservation_create").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	if err := h.Bags.DecrementTx(ctx, tx, bag.ID, req.Quantity); err != nil {
		if err == repository.ErrInsufficientStock {
			metrics.InsufficientStockTotal.Inc()
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough bags left"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update stock failed"})
	}

	if err := h.Notifications.InsertTx(ctx, tx, clientID, model.NotifyClient, "Your reservation was created successfully."); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "notify failed"})
	}
	if err := h.Notifications.InsertTx(ctx, tx, bag.EmployeeID, model.NotifyEmployee, "You have a new reservation."); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "notify failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	metrics.ReservationsCreatedTotal.Inc()
	metrics.NotificationsInsertedTotal.WithLabelValues(model.NotifyClient).Inc()
	metrics.NotificationsInsertedTotal.WithLabelValues(model.NotifyEmployee).Inc()

	publishReservationEvent(queue.EventReservationCreated, *res, bag.Name, shop.Name)

	return c.JSON(http.StatusCreated, toReservationResp(*res))
}

// Cancel moves a Pending order to "Cancelled by client" and returns the
// reserved quantity to the bag's stock, all in one transaction.
func (h *ClientReservationHandler) Cancel(c echo.Context) error {
	clientID, err := getUserID(c)
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
	if res.ClientID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your order"})
	}

	if err := h.Reservations.TransitionTx(ctx, tx, orderRef, model.StatusPending, model.StatusCancelledByUser); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "order already finalized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := h.Bags.RestoreTx(ctx, tx, res.BagID, res.Quantity); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore stock failed"})
	}
	if err := h.Notifications.InsertTx(ctx, tx, res.EmployeeID, model.NotifyEmployee, "A client cancelled a reservation."); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "notify failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	metrics.ReservationsCancelledTotal.WithLabelValues("client").Inc()
	metrics.NotificationsInsertedTotal.WithLabelValues(model.NotifyEmployee).Inc()

	res.Status = model.StatusCancelledByUser
	publishReservationEvent(queue.EventReservationCancelled, res, "", "")

	return c.JSON(http.StatusOK, echo.Map{"order_ref": orderRef, "status": model.StatusCancelledByUser})
}

// Current lists the client's open orders.
func (h *ClientReservationHandler) Current(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Reservations.ListCurrentByClient(ctx, clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// History lists the client's finished orders.
func (h *ClientReservationHandler) History(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Reservations.ListHistoryByClient(ctx, clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Get returns one order by ref, owner only.
func (h *ClientReservationHandler) Get(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderRef := strings.TrimSpace(c.Param("order_ref"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByRef(ctx, orderRef)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if res.ClientID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your order"})
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// publishReservationEvent fires a broker event after a committed lifecycle
// change. Publishing is best effort: the order is already durable, so a
// broker outage only costs the audit trail entry.
func publishReservationEvent(kind string, res model.Reservation, bagName, shopName string) {
	ev := queue.ReservationEvent{
		Kind:        kind,
		OrderRef:    res.OrderRef,
		Status:      res.Status,
		BagID:       res.BagID,
		BagName:     bagName,
		ShopID:      res.ShopID,
		ShopName:    shopName,
		ClientID:    res.ClientID,
		EmployeeID:  res.EmployeeID,
		Quantity:    res.Quantity,
		AmountCents: res.AmountCents,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := qp.PublishReservationEvent(ctx, ev); err != nil {
			zap.L().Warn("publish reservation event failed", zap.String("order_ref", ev.OrderRef), zap.Error(err))
		}
	}()
}
