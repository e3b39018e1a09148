package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/sauvesaveurs/marketplace-api/internal/model"
)

func TestTransitionTxRejectsIllegalMoveWithoutTouchingTheRow(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	// A terminal source state fails before any SQL runs; the mock would
	// report an unexpected statement otherwise.
	err := NewReservationRepo(db).TransitionTx(context.Background(), tx,
		"ref-1", model.StatusPickedUp, model.StatusCancelledByUser)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionTxReChecksStatusInTheWhereClause(t *testing.T) {
	t.Run("row still pending", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)

		mock.ExpectExec("UPDATE reservations SET status=").
			WithArgs(model.StatusPickedUp, "ref-1", model.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewReservationRepo(db).TransitionTx(context.Background(), tx,
			"ref-1", model.StatusPending, model.StatusPickedUp)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row already finalized", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)

		// Another transition won the race: the status predicate matches
		// zero rows and the caller gets a conflict, not a double move.
		mock.ExpectExec("UPDATE reservations SET status=").
			WithArgs(model.StatusCancelledByStore, "ref-1", model.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewReservationRepo(db).TransitionTx(context.Background(), tx,
			"ref-1", model.StatusPending, model.StatusCancelledByStore)
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateTxMapsDuplicateRefToConflict(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'ref-1' for key 'reservations.order_ref'"))

	res := &model.Reservation{OrderRef: "ref-1", BagID: 10, ShopID: 3, ClientID: 42,
		EmployeeID: 7, Status: model.StatusPending, Quantity: 1, AmountCents: 599}
	err := NewReservationRepo(db).CreateTx(context.Background(), tx, res)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
