package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
)

// AdminShopHandler carries the out-of-band shop approval flow. There is no
// admin role in the user table; the endpoint is guarded by a shared ops
// token instead and stays disabled when no token is configured.
type AdminShopHandler struct {
	Token string
	Shops *repository.ShopRepo
}

func NewAdminShopHandler(token string, s *repository.ShopRepo) *AdminShopHandler {
	return &AdminShopHandler{Token: token, Shops: s}
}

func (h *AdminShopHandler) authorized(c echo.Context) bool {
	if h.Token == "" {
		return false
	}
	got := c.Request().Header.Get("X-Admin-Token")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) == 1
}

// SetStatus flips a shop between pending and approved.
func (h *AdminShopHandler) SetStatus(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	shopID, err := strconv.ParseUint(c.Param("shop_id"), 10, 64)
	if err != nil || shopID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop_id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != model.ShopStatusPending && req.Status != model.ShopStatusApproved {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending or approved"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Shops.GetByID(ctx, shopID); err != nil {
		if err == repository.ErrShopNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Shops.UpdateStatus(ctx, shopID, req.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shop_id": shopID, "status": req.Status})
}
