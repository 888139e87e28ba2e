package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

const userColumns = "id,first_name,last_name,email,seat_number,section,created_at,updated_at"

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByIDOrEmail fetches a user matching either the id or the
// normalized email. A zero id means "match by email only"; an empty
// email means "match by id only".
func (r *UserRepo) GetByIDOrEmail(ctx context.Context, id uint64, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE (id=? AND ?<>0) OR (email=? AND ?<>'') LIMIT 1",
		id, id, email, email)
	return scanUser(row)
}

// ListBySection returns all users seated in the given section, in
// insertion (id) order.
func (r *UserRepo) ListBySection(ctx context.Context, sec model.Section) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE section=? ORDER BY id", string(sec))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email,
			&u.SeatNumber, &u.Section, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateSeat persists a new seat assignment for the user.
func (r *UserRepo) UpdateSeat(ctx context.Context, id uint64, seat int, sec model.Section) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET seat_number=?, section=? WHERE id=?", seat, string(sec), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user row; the receipt goes with it via the
// foreign-key cascade.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanUser reads a single user row, mapping sql.ErrNoRows to the
// package sentinel.
func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email,
		&u.SeatNumber, &u.Section, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}
