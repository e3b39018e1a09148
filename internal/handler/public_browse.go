package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
)

// PublicBrowseHandler serves the unauthenticated discovery surface:
// approved shops, available bags and the two distance lookups. These
// routes sit behind the response cache and the rate limiter.
type PublicBrowseHandler struct {
	Shops *repository.ShopRepo
	Bags  *repository.BagRepo
}

func NewPublicBrowseHandler(s *repository.ShopRepo, b *repository.BagRepo) *PublicBrowseHandler {
	return &PublicBrowseHandler{Shops: s, Bags: b}
}

// ListShops returns every approved shop.
func (h *PublicBrowseHandler) ListShops(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shops, err := h.Shops.ListApproved(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]shopResp, 0, len(shops))
	for _, s := range shops {
		out = append(out, toShopResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"shops": out})
}

// GetShop returns one shop with its bags. Pending shops stay invisible.
func (h *PublicBrowseHandler) GetShop(c echo.Context) error {
	shopID, err := strconv.ParseUint(c.Param("shop_id"), 10, 64)
	if err != nil || shopID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shop, err := h.Shops.GetByID(ctx, shopID)
	if err != nil {
		if err == repository.ErrShopNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if shop.Status != model.ShopStatusApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
	}
	bags, err := h.Bags.ListByShop(ctx, shop.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	bagOut := make([]bagResp, 0, len(bags))
	for _, b := range bags {
		bagOut = append(bagOut, toBagResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"shop": toShopResp(shop), "bags": bagOut})
}

// ListBags returns every bag still in stock at an approved shop.
func (h *PublicBrowseHandler) ListBags(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bags, err := h.Bags.ListAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bagResp, 0, len(bags))
	for _, b := range bags {
		out = append(out, toBagResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bags": out})
}

// coords reads lat/lng query params.
func coords(c echo.Context) (lat, lng float64, ok bool) {
	var err error
	if lat, err = strconv.ParseFloat(c.QueryParam("lat"), 64); err != nil {
		return 0, 0, false
	}
	if lng, err = strconv.ParseFloat(c.QueryParam("lng"), 64); err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// ShopsNearby returns approved shops within distance_km of the caller.
func (h *PublicBrowseHandler) ShopsNearby(c echo.Context) error {
	lat, lng, ok := coords(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat/lng required"})
	}
	distKm, err := strconv.ParseFloat(c.QueryParam("distance_km"), 64)
	if err != nil || distKm <= 0 {
		distKm = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shops, err := h.Shops.WithinDistance(ctx, lat, lng, distKm)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shops": shops})
}

// BagsNearby returns in-stock bags at approved shops within radius_km.
func (h *PublicBrowseHandler) BagsNearby(c echo.Context) error {
	lat, lng, ok := coords(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat/lng required"})
	}
	radiusKm, err := strconv.ParseFloat(c.QueryParam("radius_km"), 64)
	if err != nil || radiusKm <= 0 {
		radiusKm = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bags, err := h.Shops.BagsWithinRadius(ctx, lat, lng, radiusKm)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bags": bags})
}
