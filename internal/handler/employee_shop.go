package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
)

// EmployeeShopHandler manages the one shop each employee account owns.
type EmployeeShopHandler struct {
	Shops *repository.ShopRepo
}

func NewEmployeeShopHandler(s *repository.ShopRepo) *EmployeeShopHandler {
	return &EmployeeShopHandler{Shops: s}
}

type shopReq struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	OpeningHour string  `json:"opening_hour"`
	Weekend     string  `json:"weekend"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

type shopResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	OpeningHour string  `json:"opening_hour"`
	Weekend     string  `json:"weekend"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	Status      string  `json:"status"`
}

func toShopResp(s model.Shop) shopResp {
	return shopResp{
		ID:          s.ID,
		Name:        s.Name,
		Address:     s.Address,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		OpeningHour: s.OpeningHour,
		Weekend:     s.Weekend,
		Category:    s.Category,
		ImageURL:    s.ImageURL,
		Status:      s.Status,
	}
}

// Register submits a new shop. It stays in the pending state until it is
// approved, and an employee can own at most one shop.
func (h *EmployeeShopHandler) Register(c echo.Context) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req shopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/address required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shop := &model.Shop{
		EmployeeID:  employeeID,
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OpeningHour: req.OpeningHour,
		Weekend:     req.Weekend,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := h.Shops.Create(ctx, shop); err != nil {
		if err == repository.ErrShopExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a shop"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create shop failed"})
	}
	return c.JSON(http.StatusCreated, toShopResp(*shop))
}

// Mine returns the employee's own shop regardless of approval status.
func (h *EmployeeShopHandler) Mine(c echo.Context) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shop, err := h.Shops.GetByEmployee(ctx, employeeID)
	if err != nil {
		if err == repository.ErrShopNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no shop registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toShopResp(shop))
}

// Update rewrites the shop's editable fields. Approval status is not
// touchable from here.
func (h *EmployeeShopHandler) Update(c echo.Context) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req shopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/address required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Shops.GetByEmployee(ctx, employeeID)
	if err != nil {
		if err == repository.ErrShopNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no shop registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	shop := &model.Shop{
		ID:          existing.ID,
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OpeningHour: req.OpeningHour,
		Weekend:     req.Weekend,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := h.Shops.Update(ctx, employeeID, shop); err != nil {
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no shop registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}
