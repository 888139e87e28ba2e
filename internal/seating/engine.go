// Package seating implements the seat allocation engine: it owns the
// fixed seat->section map and the pool of vacant seats, and drives
// every allocate / lookup / reassign / remove operation against the
// persistence collaborator.
package seating

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/metrics"
	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// defaultPrice is charged when the submitted receipt carries no price.
const defaultPrice = 20

// Store is the persistence collaborator the engine consumes. It is
// the system of record for users and receipts; the engine treats all
// single calls as atomic and never spans multi-row transactions
// beyond "create receipt and its linked user together".
type Store interface {
	UserByEmail(ctx context.Context, email string) (model.User, error)
	UserByIDOrEmail(ctx context.Context, id uint64, email string) (model.User, error)
	UsersBySection(ctx context.Context, sec model.Section) ([]model.User, error)
	SaveUserSeat(ctx context.Context, id uint64, seat int, sec model.Section) error
	DeleteUser(ctx context.Context, id uint64) error
	CreateUserWithReceipt(ctx context.Context, u *model.User, rc *model.Receipt) error
	ReceiptByUserID(ctx context.Context, userID uint64) (model.Receipt, error)
}

// AllocationRequest carries the fields of a submitted receipt.
type AllocationRequest struct {
	FirstName string
	LastName  string
	Email     string
	From      string
	To        string
	Price     *float64 // nil -> defaultPrice
}

// ReceiptDetails joins a receipt with its owning user for response
// shaping.
type ReceiptDetails struct {
	Receipt model.Receipt
	User    model.User
}

// SeatAssignment is one row of the by-section listing.
type SeatAssignment struct {
	UserID     uint64
	Email      string
	SeatNumber int
	Section    model.Section
}

// SeatChange reports the outcome of a seat update.
type SeatChange struct {
	UserID  uint64
	NewSeat int
}

// SeatStatus is one seat of the operator seat-map view.
type SeatStatus struct {
	Seat     int
	Section  model.Section
	Occupied bool
	UserID   uint64
	Email    string
}

// Engine owns the vacant-seat pool. The pool is shared mutable state
// across all requests; a single mutex serializes every
// check-then-act sequence together with its paired durable write, so
// two concurrent allocations can never claim the same seat.
type Engine struct {
	mu     sync.Mutex
	seats  *SeatMap
	vacant []int // removals append to the tail; seat changes reinsert in ascending position
	store  Store
	log    *zap.Logger
	m      *metrics.Metrics
}

// NewEngine builds an engine with every seat vacant, in ascending
// order. metrics may be nil (tests).
func NewEngine(store Store, seats *SeatMap, log *zap.Logger, m *metrics.Metrics) *Engine {
	e := &Engine{
		seats:  seats,
		vacant: append([]int(nil), seats.Seats()...),
		store:  store,
		log:    log,
		m:      m,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// Restore removes every persisted seat assignment from the vacant
// pool so a restart over a non-empty database does not double-book.
func (e *Engine) Restore(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, sec := range []model.Section{model.SectionA, model.SectionB} {
		users, err := e.store.UsersBySection(ctx, sec)
		if err != nil {
			return err
		}
		for _, u := range users {
			e.removeVacant(u.SeatNumber)
		}
	}
	e.log.Info("seat pool restored",
		zap.Int("vacant", len(e.vacant)),
		zap.Int("total", e.seats.Size()))
	e.gauge()
	return nil
}

// Allocate creates a user and their receipt bound to the
// lowest-numbered vacant seat. It fails with 422 when the email
// already holds a reservation or when the coach is full.
func (e *Engine) Allocate(ctx context.Context, req AllocationRequest) (ReceiptDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.store.UserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		e.count("conflict")
		return ReceiptDetails{}, errConflict("this user is already inside the train")
	case !errors.Is(err, repository.ErrNotFound):
		e.count("error")
		return ReceiptDetails{}, err
	}

	if len(e.vacant) == 0 {
		e.count("full")
		return ReceiptDetails{}, errConflict("all seats have been filled")
	}

	seat := e.lowestVacant()
	sec, _ := e.seats.SectionFor(seat)

	price := float64(defaultPrice)
	if req.Price != nil {
		price = *req.Price
	}
	user := model.User{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		SeatNumber: seat,
		Section:    sec,
	}
	receipt := model.Receipt{
		FromStation: req.From,
		ToStation:   req.To,
		Price:       price,
	}
	if err := e.store.CreateUserWithReceipt(ctx, &user, &receipt); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			e.count("conflict")
			return ReceiptDetails{}, errConflict("this user is already inside the train")
		}
		e.count("error")
		return ReceiptDetails{}, err
	}

	e.removeVacant(seat)
	e.count("success")
	e.gauge()
	e.log.Info("seat allocated",
		zap.Uint64("user_id", user.ID),
		zap.Int("seat", seat),
		zap.String("section", string(sec)))
	return ReceiptDetails{Receipt: receipt, User: user}, nil
}

// ReceiptDetails looks up a user by id or email and returns their
// receipt. At least one of the two keys must be given.
func (e *Engine) ReceiptDetails(ctx context.Context, userID uint64, email string) (ReceiptDetails, error) {
	if userID == 0 && email == "" {
		return ReceiptDetails{}, errInvalid("one of user id or email is mandatory")
	}
	user, err := e.store.UserByIDOrEmail(ctx, userID, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReceiptDetails{}, errNotFound("no user found with given details")
		}
		return ReceiptDetails{}, err
	}
	// Every persisted user has exactly one receipt; allocate maintains
	// that invariant.
	receipt, err := e.store.ReceiptByUserID(ctx, user.ID)
	if err != nil {
		return ReceiptDetails{}, err
	}
	return ReceiptDetails{Receipt: receipt, User: user}, nil
}

// UsersBySection returns the seat assignments of everyone seated in
// the given section, in the order the store returns them.
func (e *Engine) UsersBySection(ctx context.Context, sec model.Section) ([]SeatAssignment, error) {
	users, err := e.store.UsersBySection(ctx, sec)
	if err != nil {
		return nil, err
	}
	out := make([]SeatAssignment, 0, len(users))
	for _, u := range users {
		out = append(out, SeatAssignment{
			UserID:     u.ID,
			Email:      u.Email,
			SeatNumber: u.SeatNumber,
			Section:    u.Section,
		})
	}
	return out, nil
}

// RemoveUser deletes the user (the receipt cascades) and returns
// their seat to the vacant pool.
func (e *Engine) RemoveUser(ctx context.Context, userID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.store.UserByIDOrEmail(ctx, userID, "")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errNotFound("user not found with given id")
		}
		return err
	}
	if err := e.store.DeleteUser(ctx, user.ID); err != nil {
		return err
	}
	e.vacant = append(e.vacant, user.SeatNumber)
	e.gauge()
	e.log.Info("user removed",
		zap.Uint64("user_id", user.ID),
		zap.Int("freed_seat", user.SeatNumber))
	return nil
}

// UpdateSeat moves the user to newSeat when that seat is in the
// vacant pool, then releases their previous seat back into the pool
// in ascending position. A seat number outside the coach is rejected
// the same way as an occupied one: it is simply not vacant.
func (e *Engine) UpdateSeat(ctx context.Context, userID uint64, newSeat int) (SeatChange, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.store.UserByIDOrEmail(ctx, userID, "")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SeatChange{}, errNotFound("user not found with given id")
		}
		return SeatChange{}, err
	}
	if !e.isVacant(newSeat) {
		return SeatChange{}, errSeatTaken("the given seat is already occupied")
	}

	oldSeat := user.SeatNumber
	sec, _ := e.seats.SectionFor(newSeat)
	if err := e.store.SaveUserSeat(ctx, user.ID, newSeat, sec); err != nil {
		return SeatChange{}, err
	}

	e.removeVacant(newSeat)
	e.insertVacant(oldSeat)
	e.log.Info("seat updated",
		zap.Uint64("user_id", user.ID),
		zap.Int("old_seat", oldSeat),
		zap.Int("new_seat", newSeat))
	return SeatChange{UserID: user.ID, NewSeat: newSeat}, nil
}

// SeatCount returns the total number of seats in the coach.
func (e *Engine) SeatCount() int { return e.seats.Size() }

// VacantSeats returns a snapshot of the vacant pool in release order.
func (e *Engine) VacantSeats() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.vacant...)
}

// Occupancy returns the full seat map with the current occupant of
// each taken seat, for the operator view.
func (e *Engine) Occupancy(ctx context.Context) ([]SeatStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	bySeat := make(map[int]model.User)
	for _, sec := range []model.Section{model.SectionA, model.SectionB} {
		users, err := e.store.UsersBySection(ctx, sec)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			bySeat[u.SeatNumber] = u
		}
	}

	out := make([]SeatStatus, 0, e.seats.Size())
	for _, seat := range e.seats.Seats() {
		sec, _ := e.seats.SectionFor(seat)
		st := SeatStatus{Seat: seat, Section: sec}
		if u, ok := bySeat[seat]; ok {
			st.Occupied = true
			st.UserID = u.ID
			st.Email = u.Email
		}
		out = append(out, st)
	}
	return out, nil
}

// lowestVacant scans the pool for the smallest seat number. The pool
// keeps release order, so the head is not necessarily the minimum
// once seats have been recycled.
func (e *Engine) lowestVacant() int {
	low := e.vacant[0]
	for _, s := range e.vacant[1:] {
		if s < low {
			low = s
		}
	}
	return low
}

func (e *Engine) isVacant(seat int) bool {
	for _, s := range e.vacant {
		if s == seat {
			return true
		}
	}
	return false
}

// insertVacant returns a seat to the pool before the first larger
// seat number, so a recycled seat keeps its ascending position among
// the seats that were never taken.
func (e *Engine) insertVacant(seat int) {
	i := 0
	for i < len(e.vacant) && e.vacant[i] < seat {
		i++
	}
	e.vacant = append(e.vacant, 0)
	copy(e.vacant[i+1:], e.vacant[i:])
	e.vacant[i] = seat
}

func (e *Engine) removeVacant(seat int) {
	for i, s := range e.vacant {
		if s == seat {
			e.vacant = append(e.vacant[:i], e.vacant[i+1:]...)
			return
		}
	}
}

func (e *Engine) count(status string) {
	if e.m != nil {
		e.m.AllocationsTotal.WithLabelValues(status).Inc()
	}
}

func (e *Engine) gauge() {
	if e.m != nil {
		e.m.OccupiedSeats.Set(float64(e.seats.Size() - len(e.vacant)))
	}
}
