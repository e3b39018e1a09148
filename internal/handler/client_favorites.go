package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sauvesaveurs/marketplace-api/internal/repository"
)

// FavoriteHandler lets clients keep a persistent list of saved bags.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Bags      *repository.BagRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo, b *repository.BagRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: f, Bags: b}
}

func bagIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("bag_id"), 10, 64)
}

// Add saves a bag. Adding the same bag twice is a no-op, not an error.
func (h *FavoriteHandler) Add(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bagID, err := bagIDParam(c)
	if err != nil || bagID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bag_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Bags.GetByID(ctx, bagID); err != nil {
		if err == repository.ErrBagNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "surprise bag not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Favorites.Add(ctx, clientID, bagID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"favorited": true})
}

// Remove unsaves a bag.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bagID, err := bagIDParam(c)
	if err != nil || bagID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bag_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Favorites.Remove(ctx, clientID, bagID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Status reports whether one bag is currently saved.
func (h *FavoriteHandler) Status(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bagID, err := bagIDParam(c)
	if err != nil || bagID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bag_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	saved, err := h.Favorites.Has(ctx, clientID, bagID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"favorited": saved})
}

// List returns the client's saved bags with their shop display fields.
func (h *FavoriteHandler) List(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bags, err := h.Favorites.ListByClient(ctx, clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"favorites": bags})
}
