package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
	"github.com/sauvesaveurs/marketplace-api/internal/repository"
)

const (
	testClientID   = uint64(42)
	testEmployeeID = uint64(7)
	testBagID      = uint64(10)
	testShopID     = uint64(3)
)

func newReservationEnv(t *testing.T) (*ClientReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewClientReservationHandler(db,
		repository.NewReservationRepo(db),
		repository.NewBagRepo(db),
		repository.NewShopRepo(db),
		repository.NewNotificationRepo(db))
	return h, mock
}

func lockedBagRow(quantityLeft uint32) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "shop_id", "employee_id", "name", "bag_number", "price_cents",
		"pickup_hour", "validation", "category", "description", "image_url", "quantity_left",
		"created_at", "updated_at",
	}).AddRow(testBagID, testShopID, testEmployeeID, "Pastry bag", "B-12", 599,
		"12:30pm - 4:30pm", "valid all week", "bakery", "three pastries", "", quantityLeft,
		now, now)
}

func approvedShopRow() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "employee_id", "name", "address", "latitude", "longitude",
		"opening_hour", "weekend", "category", "image_url", "status", "created_at", "updated_at",
	}).AddRow(testShopID, testEmployeeID, "Corner Bakery", "1 Main St", 48.85, 2.35,
		"9am - 6pm", "closed", "bakery", "", model.ShopStatusApproved, now, now)
}

func pendingReservationRow(orderRef string, quantity uint32) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "order_ref", "bag_id", "shop_id", "client_id", "employee_id",
		"status", "quantity", "amount_cents", "pickup_hour", "pickup_start", "pickup_end",
		"created_at", "updated_at",
	}).AddRow(41, orderRef, testBagID, testShopID, testClientID, testEmployeeID,
		model.StatusPending, quantity, 599*quantity, "12:30pm - 4:30pm", now, now.Add(4*time.Hour),
		now, now)
}

func postAsClient(h func(echo.Context) error, target, body string, params ...string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", testClientID)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return rec, h(c)
}

func expectCreate(mock sqlmock.Sqlmock, quantity uint32) {
	mock.ExpectBegin()
	mock.ExpectQuery("FROM surprise_bags WHERE id=.+FOR UPDATE").
		WithArgs(testBagID).
		WillReturnRows(lockedBagRow(5))
	mock.ExpectQuery("FROM shops WHERE id=").
		WithArgs(testShopID).
		WillReturnRows(approvedShopRow())
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(sqlmock.AnyArg(), testBagID, testShopID, testClientID, testEmployeeID,
			model.StatusPending, quantity, 599*quantity, "12:30pm - 4:30pm",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectExec("UPDATE surprise_bags SET quantity_left = quantity_left -").
		WithArgs(quantity, testBagID, quantity).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(testClientID, model.NotifyClient, "Your reservation was created successfully.").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(testEmployeeID, model.NotifyEmployee, "You have a new reservation.").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
}

func TestReservationCreateThenClientCancel(t *testing.T) {
	h, mock := newReservationEnv(t)

	expectCreate(mock, 2)

	rec, err := postAsClient(h.Create, "/v1/reservations", `{"bag_id":10,"quantity":2}`)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		OrderRef    string `json:"order_ref"`
		Status      string `json:"status"`
		Quantity    uint32 `json:"quantity"`
		AmountCents uint32 `json:"amount_cents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.OrderRef)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, uint32(2), created.Quantity)
	assert.Equal(t, uint32(1198), created.AmountCents)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE order_ref=.+FOR UPDATE").
		WithArgs(created.OrderRef).
		WillReturnRows(pendingReservationRow(created.OrderRef, 2))
	mock.ExpectExec("UPDATE reservations SET status=").
		WithArgs(model.StatusCancelledByUser, created.OrderRef, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The restore must return exactly the reserved quantity.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE surprise_bags SET quantity_left = quantity_left + ?")).
		WithArgs(uint32(2), testBagID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(testEmployeeID, model.NotifyEmployee, "A client cancelled a reservation.").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	rec, err = postAsClient(h.Cancel, "/v1/reservations/"+created.OrderRef+"/cancel", "",
		"order_ref", created.OrderRef)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), model.StatusCancelledByUser)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateRejectsInsufficientStock(t *testing.T) {
	h, mock := newReservationEnv(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM surprise_bags WHERE id=.+FOR UPDATE").
		WithArgs(testBagID).
		WillReturnRows(lockedBagRow(1))
	mock.ExpectQuery("FROM shops WHERE id=").
		WithArgs(testShopID).
		WillReturnRows(approvedShopRow())
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(sqlmock.AnyArg(), testBagID, testShopID, testClientID, testEmployeeID,
			model.StatusPending, uint32(3), uint32(1797), "12:30pm - 4:30pm",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(41, 1))
	// The guarded decrement matches zero rows, so everything above rolls back.
	mock.ExpectExec("UPDATE surprise_bags SET quantity_left = quantity_left -").
		WithArgs(uint32(3), testBagID, uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rec, err := postAsClient(h.Create, "/v1/reservations", `{"bag_id":10,"quantity":3}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough bags left")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCancelAlreadyFinalized(t *testing.T) {
	h, mock := newReservationEnv(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE order_ref=.+FOR UPDATE").
		WithArgs("ref-done").
		WillReturnRows(pendingReservationRow("ref-done", 1))
	// A concurrent transition finalized the row between the read and the
	// guarded update.
	mock.ExpectExec("UPDATE reservations SET status=").
		WithArgs(model.StatusCancelledByUser, "ref-done", model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rec, err := postAsClient(h.Cancel, "/v1/reservations/ref-done/cancel", "",
		"order_ref", "ref-done")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "order already finalized")

	assert.NoError(t, mock.ExpectationsWereMet())
}
