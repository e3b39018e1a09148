package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
	"github.com/sauvesaveurs/marketplace-api/internal/utils"
)

// EmployeeBagHandler manages the surprise bags of the employee's shop.
type EmployeeBagHandler struct {
	Bags  *repository.BagRepo
	Shops *repository.ShopRepo
}

func NewEmployeeBagHandler(b *repository.BagRepo, s *repository.ShopRepo) *EmployeeBagHandler {
	return &EmployeeBagHandler{Bags: b, Shops: s}
}

type bagReq struct {
	Name         string `json:"name"`
	BagNumber    string `json:"bag_number"`
	PriceCents   uint32 `json:"price_cents"`
	PickupHour   string `json:"pickup_hour"`
	Validation   string `json:"validation"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	QuantityLeft uint32 `json:"quantity_left"`
}

type bagResp struct {
	ID           uint64 `json:"id"`
	ShopID       uint64 `json:"shop_id"`
	Name         string `json:"name"`
	BagNumber    string `json:"bag_number"`
	PriceCents   uint32 `json:"price_cents"`
	PickupHour   string `json:"pickup_hour"`
	Validation   string `json:"validation"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	QuantityLeft uint32 `json:"quantity_left"`
}

func toBagResp(b model.SurpriseBag) bagResp {
	return bagResp{
		ID:           b.ID,
		ShopID:       b.ShopID,
		Name:         b.Name,
		BagNumber:    b.BagNumber,
		PriceCents:   b.PriceCents,
		PickupHour:   b.PickupHour,
		Validation:   b.Validation,
		Category:     b.Category,
		Description:  b.Description,
		ImageURL:     b.ImageURL,
		QuantityLeft: b.QuantityLeft,
	}
}

func (h *EmployeeBagHandler) validate(req *bagReq) string {
	req.Name = strings.TrimSpace(req.Name)
	req.PickupHour = strings.TrimSpace(req.PickupHour)
	if req.Name == "" {
		return "name required"
	}
	if req.PriceCents == 0 {
		return "price_cents required"
	}
	// Reject windows the reservation flow could not parse later.
	if _, _, err := utils.ParsePickupWindow(req.PickupHour, time.Now().UTC()); err != nil {
		return "pickup_hour must look like '12:30pm - 4:30pm'"
	}
	return ""
}

// Create adds a bag to the employee's shop.
func (h *EmployeeBagHandler) Create(c echo.Context) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bagReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := h.validate(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shop, err := h.Shops.GetByEmployee(ctx, employeeID)
	if err != nil {
		if err == repository.ErrShopNotFound {
			return c.JSON(http.StatusConflict, echo.Map{"error": "register a shop first"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	bag := &model.SurpriseBag{
		ShopID:       shop.ID,
		EmployeeID:   employeeID,
		Name:         req.Name,
		BagNumber:    req.BagNumber,
		PriceCents:   req.PriceCents,
		PickupHour:   req.PickupHour,
		Validation:   req.Validation,
		Category:     req.Category,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		QuantityLeft: req.QuantityLeft,
	}
	if err := h.Bags.Create(ctx, bag); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create bag failed"})
	}
	return c.JSON(http.StatusCreated, toBagResp(*bag))
}

// Update rewrites a bag the employee owns.
func (h *EmployeeBagHandler) Update(c echo.Context) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bagID, err := strconv.ParseUint(c.Param("bag_id"), 10, 64)
	if err != nil || bagID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bag_id"})
	}
	var req bagReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := h.validate(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bag := &model.SurpriseBag{
		ID:           bagID,
		Name:         req.Name,
		BagNumber:    req.BagNumber,
		PriceCents:   req.PriceCents,
		PickupHour:   req.PickupHour,
		Validation:   req.Validation,
		Category:     req.Category,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		QuantityLeft: req.QuantityLeft,
	}
	if err := h.Bags.Update(ctx, employeeID, bag); err != nil {
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete removes a bag the employee owns.
func (h *EmployeeBagHandler) Delete(c echo.Context) error {
	employeeID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bagID, err := strconv.ParseUint(c.Param("bag_id"), 10, 64)
	if err != nil || bagID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bag_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bags.Delete(ctx, employeeID, bagID); err != nil {
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns all bags of the employee's shop, sold out included.
func (h *EmployeeBagHandler) List(c echo.Context) error {
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
	bags, err := h.Bags.ListByShop(ctx, shop.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bagResp, 0, len(bags))
	for _, b := range bags {
		out = append(out, toBagResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bags": out})
}
