package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

const selectUserSQL = "SELECT " + userColumns + " FROM users WHERE (id=? AND ?<>0) OR (email=? AND ?<>'') LIMIT 1"

func newUserRepoMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func userRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email",
		"seat_number", "section", "created_at", "updated_at",
	}).AddRow(7, "Ada", "Lovelace", "ada@x.com", 1, "SECTION_A", now, now)
}

func TestGetByIDOrEmail(t *testing.T) {
	t.Run("binds the id into both placeholders", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectUserSQL)).
			WithArgs(7, 7, "", "").
			WillReturnRows(userRow())

		u, err := repo.GetByIDOrEmail(context.Background(), 7, "")

		require.NoError(t, err)
		assert.Equal(t, uint64(7), u.ID)
		assert.Equal(t, model.SectionA, u.Section)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a zero id disables the id arm and the email is normalized", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectUserSQL)).
			WithArgs(0, 0, "ada@x.com", "ada@x.com").
			WillReturnRows(userRow())

		u, err := repo.GetByIDOrEmail(context.Background(), 0, "  ADA@X.com ")

		require.NoError(t, err)
		assert.Equal(t, "ada@x.com", u.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matching row maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectUserSQL)).
			WithArgs(42, 42, "", "").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByIDOrEmail(context.Background(), 42, "")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateSeatQuery(t *testing.T) {
	t.Run("persists seat and section", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET seat_number=?, section=? WHERE id=?")).
			WithArgs(6, "SECTION_B", 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateSeat(context.Background(), 7, 6, model.SectionB))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected is ErrNotFound", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET seat_number=?, section=? WHERE id=?")).
			WithArgs(6, "SECTION_B", 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateSeat(context.Background(), 99, 6, model.SectionB)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteQuery(t *testing.T) {
	t.Run("zero rows affected is ErrNotFound", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=?")).
			WithArgs(99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), 99)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
