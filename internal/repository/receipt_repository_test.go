package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

const (
	insertUserSQL    = "INSERT INTO users (first_name,last_name,email,seat_number,section) VALUES (?,?,?,?,?)"
	insertReceiptSQL = "INSERT INTO receipts (user_id,from_station,to_station,price) VALUES (?,?,?,?)"
)

func newReceiptRepoMock(t *testing.T) (*ReceiptRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewReceiptRepo(db), mock
}

func TestCreateWithUser(t *testing.T) {
	t.Run("commits both rows and fills the ids", func(t *testing.T) {
		repo, mock := newReceiptRepoMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
			WithArgs("Ada", "Lovelace", "ada@x.com", 1, "SECTION_A").
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectExec(regexp.QuoteMeta(insertReceiptSQL)).
			WithArgs(7, "London", "Paris", 20.0).
			WillReturnResult(sqlmock.NewResult(9, 1))
		mock.ExpectCommit()

		u := model.User{
			FirstName: "Ada", LastName: "Lovelace", Email: " ADA@x.com ",
			SeatNumber: 1, Section: model.SectionA,
		}
		rc := model.Receipt{FromStation: "London", ToStation: "Paris", Price: 20}

		require.NoError(t, repo.CreateWithUser(context.Background(), &u, &rc))
		assert.Equal(t, uint64(7), u.ID)
		assert.Equal(t, uint64(9), rc.ID)
		assert.Equal(t, uint64(7), rc.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email rolls back as ErrEmailExists", func(t *testing.T) {
		repo, mock := newReceiptRepoMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
			WithArgs("Ada", "Lovelace", "ada@x.com", 1, "SECTION_A").
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'ada@x.com' for key 'uq_users_email'"))
		mock.ExpectRollback()

		u := model.User{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com",
			SeatNumber: 1, Section: model.SectionA,
		}
		rc := model.Receipt{FromStation: "London", ToStation: "Paris", Price: 20}

		err := repo.CreateWithUser(context.Background(), &u, &rc)

		assert.ErrorIs(t, err, ErrEmailExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
