package seating

import (
	"context"
	"sort"
	"strings"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// fakeStore is an in-memory Store used by the engine tests. It
// mirrors the repository semantics: sentinel errors, unique email,
// id-ordered section listings, receipt deleted with its user.
type fakeStore struct {
	nextUserID    uint64
	nextReceiptID uint64
	users         map[uint64]model.User
	receipts      map[uint64]model.Receipt // keyed by user id

	createErr error // forced failure for CreateUserWithReceipt
	saveErr   error // forced failure for SaveUserSeat
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uint64]model.User),
		receipts: make(map[uint64]model.Receipt),
	}
}

func (s *fakeStore) UserByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeStore) UserByIDOrEmail(_ context.Context, id uint64, email string) (model.User, error) {
	if id != 0 {
		if u, ok := s.users[id]; ok {
			return u, nil
		}
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		for _, u := range s.users {
			if u.Email == email {
				return u, nil
			}
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeStore) UsersBySection(_ context.Context, sec model.Section) ([]model.User, error) {
	ids := make([]uint64, 0, len(s.users))
	for id, u := range s.users {
		if u.Section == sec {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *fakeStore) SaveUserSeat(_ context.Context, id uint64, seat int, sec model.Section) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.SeatNumber = seat
	u.Section = sec
	s.users[id] = u
	return nil
}

func (s *fakeStore) DeleteUser(_ context.Context, id uint64) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	delete(s.receipts, id) // cascade
	return nil
}

func (s *fakeStore) CreateUserWithReceipt(_ context.Context, u *model.User, rc *model.Receipt) error {
	if s.createErr != nil {
		return s.createErr
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.users {
		if existing.Email == email {
			return repository.ErrEmailExists
		}
	}
	s.nextUserID++
	s.nextReceiptID++
	u.ID = s.nextUserID
	u.Email = email
	rc.ID = s.nextReceiptID
	rc.UserID = u.ID
	s.users[u.ID] = *u
	s.receipts[u.ID] = *rc
	return nil
}

func (s *fakeStore) ReceiptByUserID(_ context.Context, userID uint64) (model.Receipt, error) {
	rc, ok := s.receipts[userID]
	if !ok {
		return model.Receipt{}, repository.ErrNotFound
	}
	return rc, nil
}
