package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
)

func newBrowseEnv(t *testing.T) (*PublicBrowseHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPublicBrowseHandler(repository.NewShopRepo(db), repository.NewBagRepo(db)), mock
}

func getSearch(h *PublicBrowseHandler, target string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return rec, h.Search(e.NewContext(req, rec))
}

func TestSearchRequiresTerm(t *testing.T) {
	h, mock := newBrowseEnv(t)

	rec, err := getSearch(h, "/v1/search")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchMatchesShopAndBagNames(t *testing.T) {
	h, mock := newBrowseEnv(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(model.ShopStatusApproved, "%bakery%", "%bakery%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("FROM surprise_bags b").
		WithArgs(model.ShopStatusApproved, "%bakery%", "%bakery%", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "bag_number", "price_cents", "pickup_hour",
			"category", "image_url", "quantity_left", "shop_id", "shop_name", "shop_address",
		}).
			AddRow(10, "Pastry bag", "B-12", 599, "12:30pm - 4:30pm", "bakery", "", 4, 3, "Corner Bakery", "1 Main St").
			AddRow(11, "Bread bag", "B-13", 399, "5pm - 7pm", "bakery", "", 2, 3, "Corner Bakery", "1 Main St"))

	rec, err := getSearch(h, "/v1/search?q=Bakery")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total":2`)
	assert.Contains(t, rec.Body.String(), "Corner Bakery")
	assert.Contains(t, rec.Body.String(), "Bread bag")

	assert.NoError(t, mock.ExpectationsWereMet())
}
