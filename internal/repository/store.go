package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// Store bundles the user and receipt repositories behind the single
// persistence surface the seating engine consumes.  The method set
// matches seating.Store.
type Store struct {
	Users    *UserRepo
	Receipts *ReceiptRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{Users: NewUserRepo(db), Receipts: NewReceiptRepo(db)}
}

func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.Users.GetByEmail(ctx, email)
}

func (s *Store) UserByIDOrEmail(ctx context.Context, id uint64, email string) (model.User, error) {
	return s.Users.GetByIDOrEmail(ctx, id, email)
}

func (s *Store) UsersBySection(ctx context.Context, sec model.Section) ([]model.User, error) {
	return s.Users.ListBySection(ctx, sec)
}

func (s *Store) SaveUserSeat(ctx context.Context, id uint64, seat int, sec model.Section) error {
	return s.Users.UpdateSeat(ctx, id, seat, sec)
}

func (s *Store) DeleteUser(ctx context.Context, id uint64) error {
	return s.Users.Delete(ctx, id)
}

func (s *Store) CreateUserWithReceipt(ctx context.Context, u *model.User, rc *model.Receipt) error {
	return s.Receipts.CreateWithUser(ctx, u, rc)
}

func (s *Store) ReceiptByUserID(ctx context.Context, userID uint64) (model.Receipt, error) {
	return s.Receipts.GetByUserID(ctx, userID)
}
