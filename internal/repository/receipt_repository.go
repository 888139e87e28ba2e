package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// ReceiptRepo provides access to the 'receipts' table.
type ReceiptRepo struct{ DB *sql.DB }

func NewReceiptRepo(db *sql.DB) *ReceiptRepo { return &ReceiptRepo{DB: db} }

// CreateWithUser inserts the user and their receipt in one
// transaction so an allocation is all-or-nothing. On success both
// IDs are filled in on the passed structs.
func (r *ReceiptRepo) CreateWithUser(ctx context.Context, u *model.User, rc *model.Receipt) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (first_name,last_name,email,seat_number,section) VALUES (?,?,?,?,?)",
		u.FirstName, u.LastName, strings.ToLower(strings.TrimSpace(u.Email)),
		u.SeatNumber, string(u.Section))
	if err != nil {
		// 1062 = duplicate entry on the unique email key
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	uid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(uid)

	res, err = tx.ExecContext(ctx,
		"INSERT INTO receipts (user_id,from_station,to_station,price) VALUES (?,?,?,?)",
		u.ID, rc.FromStation, rc.ToStation, rc.Price)
	if err != nil {
		return err
	}
	rid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rc.ID = uint64(rid)
	rc.UserID = u.ID

	return tx.Commit()
}

// GetByUserID fetches the receipt owned by the given user.
func (r *ReceiptRepo) GetByUserID(ctx context.Context, userID uint64) (model.Receipt, error) {
	var rc model.Receipt
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,from_station,to_station,price,created_at FROM receipts WHERE user_id=? LIMIT 1",
		userID).Scan(&rc.ID, &rc.UserID, &rc.FromStation, &rc.ToStation, &rc.Price, &rc.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Receipt{}, ErrNotFound
	}
	return rc, err
}
