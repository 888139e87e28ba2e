package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/seating"
)

// memStore is an in-memory seating.Store for handler tests.
type memStore struct {
	nextID   uint64
	users    map[uint64]model.User
	receipts map[uint64]model.Receipt
}

func newMemStore() *memStore {
	return &memStore{users: map[uint64]model.User{}, receipts: map[uint64]model.Receipt{}}
}

func (s *memStore) UserByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memStore) UserByIDOrEmail(ctx context.Context, id uint64, email string) (model.User, error) {
	if id != 0 {
		if u, ok := s.users[id]; ok {
			return u, nil
		}
	}
	if email != "" {
		return s.UserByEmail(ctx, email)
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memStore) UsersBySection(_ context.Context, sec model.Section) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.Section == sec {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) SaveUserSeat(_ context.Context, id uint64, seat int, sec model.Section) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.SeatNumber = seat
	u.Section = sec
	s.users[id] = u
	return nil
}

func (s *memStore) DeleteUser(_ context.Context, id uint64) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	delete(s.receipts, id)
	return nil
}

func (s *memStore) CreateUserWithReceipt(_ context.Context, u *model.User, rc *model.Receipt) error {
	s.nextID++
	u.ID = s.nextID
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	rc.ID = s.nextID
	rc.UserID = u.ID
	s.users[u.ID] = *u
	s.receipts[u.ID] = *rc
	return nil
}

func (s *memStore) ReceiptByUserID(_ context.Context, userID uint64) (model.Receipt, error) {
	rc, ok := s.receipts[userID]
	if !ok {
		return model.Receipt{}, repository.ErrNotFound
	}
	return rc, nil
}

// newReceiptServer wires an Echo instance the way main does, minus
// redis and the broker. published counts fired events.
func newReceiptServer(t *testing.T) (*echo.Echo, *seating.Engine, *int64) {
	t.Helper()
	engine := seating.NewEngine(newMemStore(), seating.NewSeatMap(), nil, nil)

	var published int64
	h := NewReceiptHandler(engine)
	h.Publish = func(context.Context, queue.ReceiptIssuedEvent) error {
		atomic.AddInt64(&published, 1)
		return nil
	}

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(zap.NewNop())
	e.POST("/api/receipt/submit", h.Submit)
	e.GET("/api/receipt", h.GetDetails)
	e.GET("/api/receipt/:section", h.ListBySection)
	e.DELETE("/api/receipt/:id", h.Remove)
	e.PATCH("/api/receipt", h.UpdateSeat)
	return e, engine, &published
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSubmitReceipt(t *testing.T) {
	t.Run("allocates the first seat", func(t *testing.T) {
		e, _, published := newReceiptServer(t)

		rec := doJSON(e, http.MethodPost, "/api/receipt/submit",
			`{"from":"London","to":"Paris","firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			ID   uint64  `json:"id"`
			From string  `json:"from"`
			To   string  `json:"to"`
			User struct {
				ID         uint64 `json:"id"`
				Email      string `json:"email"`
				SeatNumber int    `json:"seatNumber"`
				Section    string `json:"section"`
			} `json:"user"`
			Price float64 `json:"price"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "London", resp.From)
		assert.Equal(t, "ada@x.com", resp.User.Email)
		assert.Equal(t, 1, resp.User.SeatNumber)
		assert.Equal(t, "SECTION_A", resp.User.Section)
		assert.Equal(t, float64(20), resp.Price)
		// The event is published from a goroutine after the response.
		assert.Eventually(t, func() bool {
			return atomic.LoadInt64(published) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		e, _, published := newReceiptServer(t)

		rec := doJSON(e, http.MethodPost, "/api/receipt/submit",
			`{"from":"London","to":"Paris","firstName":"Ada"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, atomic.LoadInt64(published))
	})

	t.Run("second submit with the same email is a 422", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)
		body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`
		require.Equal(t, http.StatusOK, doJSON(e, http.MethodPost, "/api/receipt/submit", body).Code)

		rec := doJSON(e, http.MethodPost, "/api/receipt/submit", body)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "this user is already inside the train", rec.Body.String())
	})
}

func TestGetReceiptDetails(t *testing.T) {
	t.Run("no lookup key is a 422", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)

		rec := doJSON(e, http.MethodGet, "/api/receipt", "")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "one of user id or email is mandatory", rec.Body.String())
	})

	t.Run("unknown user is a 404", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)

		rec := doJSON(e, http.MethodGet, "/api/receipt?userId=42", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "no user found with given details", rec.Body.String())
	})

	t.Run("non-numeric userId is a 400", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)

		rec := doJSON(e, http.MethodGet, "/api/receipt?userId=abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("finds by email", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)
		doJSON(e, http.MethodPost, "/api/receipt/submit",
			`{"from":"London","to":"Paris","firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`)

		rec := doJSON(e, http.MethodGet, "/api/receipt?email=ada@x.com", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"seatNumber":1`)
	})
}

func TestListBySection(t *testing.T) {
	t.Run("invalid section is a 400", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)

		rec := doJSON(e, http.MethodGet, "/api/receipt/SECTION_C", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lists section occupants", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)
		doJSON(e, http.MethodPost, "/api/receipt/submit", `{"firstName":"A","lastName":"A","email":"a@x.com"}`)
		doJSON(e, http.MethodPost, "/api/receipt/submit", `{"firstName":"B","lastName":"B","email":"b@x.com"}`)

		rec := doJSON(e, http.MethodGet, "/api/receipt/SECTION_A", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var out []struct {
			UserID     uint64 `json:"userId"`
			Email      string `json:"email"`
			SeatNumber int    `json:"seatNumber"`
			Section    string `json:"section"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Len(t, out, 2)
		assert.Equal(t, "a@x.com", out[0].Email)
		assert.Equal(t, 1, out[0].SeatNumber)
		assert.Equal(t, "b@x.com", out[1].Email)

		rec = doJSON(e, http.MethodGet, "/api/receipt/SECTION_B", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})
}

func TestRemoveUser(t *testing.T) {
	t.Run("removes and frees the seat", func(t *testing.T) {
		e, engine, _ := newReceiptServer(t)
		doJSON(e, http.MethodPost, "/api/receipt/submit", `{"firstName":"A","lastName":"A","email":"a@x.com"}`)

		rec := doJSON(e, http.MethodDelete, "/api/receipt/1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Successfully removed user", rec.Body.String())
		assert.Len(t, engine.VacantSeats(), 10)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)

		rec := doJSON(e, http.MethodDelete, "/api/receipt/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "user not found with given id", rec.Body.String())
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)

		rec := doJSON(e, http.MethodDelete, "/api/receipt/abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateSeat(t *testing.T) {
	t.Run("moves to a vacant seat", func(t *testing.T) {
		e, engine, _ := newReceiptServer(t)
		doJSON(e, http.MethodPost, "/api/receipt/submit", `{"firstName":"A","lastName":"A","email":"a@x.com"}`)

		rec := doJSON(e, http.MethodPatch, "/api/receipt", `{"userId":1,"newSeat":6}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"userId":1,"newSeat":6}`, rec.Body.String())
		assert.Contains(t, engine.VacantSeats(), 1)
		assert.NotContains(t, engine.VacantSeats(), 6)
	})

	t.Run("occupied seat is a 400", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)
		doJSON(e, http.MethodPost, "/api/receipt/submit", `{"firstName":"A","lastName":"A","email":"a@x.com"}`)
		doJSON(e, http.MethodPost, "/api/receipt/submit", `{"firstName":"B","lastName":"B","email":"b@x.com"}`)

		rec := doJSON(e, http.MethodPatch, "/api/receipt", `{"userId":1,"newSeat":2}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "the given seat is already occupied", rec.Body.String())
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		e, _, _ := newReceiptServer(t)

		rec := doJSON(e, http.MethodPatch, "/api/receipt", `{"userId":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
