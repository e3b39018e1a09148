package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

func sampleBag() model.SurpriseBag {
	return model.SurpriseBag{
		ID:           10,
		ShopID:       3,
		EmployeeID:   7,
		Name:         "Pastry bag",
		BagNumber:    "B-12",
		PriceCents:   599,
		PickupHour:   "12:30pm - 4:30pm",
		Validation:   "valid all week",
		Category:     "bakery",
		Description:  "three pastries",
		QuantityLeft: 4,
	}
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func beginTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return tx
}

func TestDecrementTxGuardsStock(t *testing.T) {
	t.Run("enough stock", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)

		mock.ExpectExec("UPDATE surprise_bags SET quantity_left = quantity_left -").
			WithArgs(uint32(2), uint64(10), uint32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewBagRepo(db).DecrementTx(context.Background(), tx, 10, 2)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not enough stock", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)

		// The WHERE guard lets the statement match zero rows instead of
		// driving the counter negative.
		mock.ExpectExec("UPDATE surprise_bags SET quantity_left = quantity_left -").
			WithArgs(uint32(5), uint64(10), uint32(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewBagRepo(db).DecrementTx(context.Background(), tx, 10, 5)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRestoreTxReturnsExactQuantity(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE surprise_bags SET quantity_left = quantity_left + ?")).
		WithArgs(uint32(3), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewBagRepo(db).RestoreTx(context.Background(), tx, 10, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateIsTheEmployeeEditPath(t *testing.T) {
	bag := sampleBag()

	t.Run("own bag", func(t *testing.T) {
		db, mock := newMockDB(t)

		// Update writes quantity_left absolutely; only the owner's rows
		// match the WHERE clause.
		mock.ExpectExec("UPDATE surprise_bags SET name=").
			WithArgs(bag.Name, bag.BagNumber, bag.PriceCents, bag.PickupHour,
				bag.Validation, bag.Category, bag.Description, bag.ImageURL, bag.QuantityLeft,
				bag.ID, uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewBagRepo(db).Update(context.Background(), 7, &bag)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("someone else's bag", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("UPDATE surprise_bags SET name=").
			WithArgs(bag.Name, bag.BagNumber, bag.PriceCents, bag.PickupHour,
				bag.Validation, bag.Category, bag.Description, bag.ImageURL, bag.QuantityLeft,
				bag.ID, uint64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewBagRepo(db).Update(context.Background(), 99, &bag)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
