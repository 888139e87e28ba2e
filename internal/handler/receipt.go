package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/seating"
	queue_publisher "github.com/iliyamo/train-seat-reservation/internal/service"
)

// ReceiptHandler bundles dependencies for the public receipt endpoints.
// Publish is called after a successful allocation; it defaults to the
// RabbitMQ publisher and can be swapped in tests.
type ReceiptHandler struct {
	Engine  *seating.Engine
	Publish func(ctx context.Context, ev queue.ReceiptIssuedEvent) error
}

func NewReceiptHandler(e *seating.Engine) *ReceiptHandler {
	return &ReceiptHandler{Engine: e, Publish: queue_publisher.PublishReceiptIssued}
}

// ----- DTOs -----

type submitReq struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	FirstName string   `json:"firstName" validate:"required"`
	LastName  string   `json:"lastName" validate:"required"`
	Email     string   `json:"email" validate:"required"`
	Price     *float64 `json:"price"`
}

type seatUpdateReq struct {
	UserID  *uint64 `json:"userId" validate:"required"`
	NewSeat *int    `json:"newSeat" validate:"required"`
}

type userPart struct {
	ID         uint64        `json:"id"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	Email      string        `json:"email"`
	SeatNumber int           `json:"seatNumber"`
	Section    model.Section `json:"section"`
}

type receiptResp struct {
	ID    uint64   `json:"id"`
	From  string   `json:"from"`
	To    string   `json:"to"`
	User  userPart `json:"user"`
	Price float64  `json:"price"`
}

type seatUpdateResp struct {
	UserID  uint64 `json:"userId"`
	NewSeat int    `json:"newSeat"`
}

type userSeatResp struct {
	UserID     uint64        `json:"userId"`
	Email      string        `json:"email"`
	SeatNumber int           `json:"seatNumber"`
	Section    model.Section `json:"section"`
}

func toReceiptResp(d seating.ReceiptDetails) receiptResp {
	return receiptResp{
		ID:   d.Receipt.ID,
		From: d.Receipt.FromStation,
		To:   d.Receipt.ToStation,
		User: userPart{
			ID:         d.User.ID,
			FirstName:  d.User.FirstName,
			LastName:   d.User.LastName,
			Email:      d.User.Email,
			SeatNumber: d.User.SeatNumber,
			Section:    d.User.Section,
		},
		Price: d.Receipt.Price,
	}
}

// Submit handles POST /api/receipt/submit: allocate a seat and issue
// the receipt.
func (h *ReceiptHandler) Submit(c echo.Context) error {
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Engine.Allocate(ctx, seating.AllocationRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		From:      req.From,
		To:        req.To,
		Price:     req.Price,
	})
	if err != nil {
		return err
	}

	// Fire-and-forget: a broker outage never fails the allocation.
	if h.Publish != nil {
		ev := queue.ReceiptIssuedEvent{
			ReceiptID:   details.Receipt.ID,
			UserID:      details.User.ID,
			Email:       details.User.Email,
			SeatNumber:  details.User.SeatNumber,
			Section:     string(details.User.Section),
			FromStation: details.Receipt.FromStation,
			ToStation:   details.Receipt.ToStation,
			Price:       details.Receipt.Price,
			IssuedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = h.Publish(context.Background(), ev) }()
	}

	return c.JSON(http.StatusOK, toReceiptResp(details))
}

// GetDetails handles GET /api/receipt?userId=&email= and returns the
// receipt joined with its user. At least one lookup key is required;
// the engine answers 422 when both are absent.
func (h *ReceiptHandler) GetDetails(c echo.Context) error {
	var userID uint64
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		userID = id
	}
	email := c.QueryParam("email")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Engine.ReceiptDetails(ctx, userID, email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReceiptResp(details))
}

// ListBySection handles GET /api/receipt/:section and returns the
// seat assignments of the section's occupants.
func (h *ReceiptHandler) ListBySection(c echo.Context) error {
	sec, ok := model.ParseSection(c.Param("section"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid section")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	assignments, err := h.Engine.UsersBySection(ctx, sec)
	if err != nil {
		return err
	}
	out := make([]userSeatResp, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, userSeatResp{
			UserID:     a.UserID,
			Email:      a.Email,
			SeatNumber: a.SeatNumber,
			Section:    a.Section,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Remove handles DELETE /api/receipt/:id; the freed seat returns to
// the vacant pool.
func (h *ReceiptHandler) Remove(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Engine.RemoveUser(ctx, id); err != nil {
		return err
	}
	return c.String(http.StatusOK, "Successfully removed user")
}

// UpdateSeat handles PATCH /api/receipt: move the user to a vacant
// seat.
func (h *ReceiptHandler) UpdateSeat(c echo.Context) error {
	var req seatUpdateReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	change, err := h.Engine.UpdateSeat(ctx, *req.UserID, *req.NewSeat)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, seatUpdateResp{UserID: change.UserID, NewSeat: change.NewSeat})
}
