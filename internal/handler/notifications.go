package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/repository"
)

// NotificationHandler serves the in-app notification feed. The same two
// endpoints work for clients and employees; the role claim picks the
// recipient type, so one user id never reads the other table's rows.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n}
}

type notificationResp struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns the user's notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Notifications.ListForUser(ctx, uid, userTypeFor(currentRole(c)))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]notificationResp, 0, len(rows))
	for _, n := range rows {
		out = append(out, notificationResp{ID: n.ID, Message: n.Message, CreatedAt: n.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": out})
}

// Clear deletes all of the user's notifications and reports the count.
func (h *NotificationHandler) Clear(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Notifications.ClearForUser(ctx, uid, userTypeFor(currentRole(c)))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}
