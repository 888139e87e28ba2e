package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/seating"
	"github.com/iliyamo/train-seat-reservation/internal/utils"
)

// OperatorRole is the role claim carried by operator access tokens.
const OperatorRole = "OPERATOR"

// AdminHandler serves the operator surface: login against the single
// env-configured operator account and read-only views over the seat
// pool. passwordHash is the bcrypt hash of the operator password,
// computed once at startup.
type AdminHandler struct {
	Cfg          config.Config
	Engine       *seating.Engine
	passwordHash string
}

func NewAdminHandler(cfg config.Config, e *seating.Engine, passwordHash string) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Engine: e, passwordHash: passwordHash}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type seatStatusResp struct {
	Seat     int           `json:"seat"`
	Section  model.Section `json:"section"`
	Occupied bool          `json:"occupied"`
	UserID   uint64        `json:"userId,omitempty"`
	Email    string        `json:"email,omitempty"`
}

// Login verifies the operator credentials and returns a short-lived
// access token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	if req.Email != strings.ToLower(h.Cfg.AdminEmail) || !utils.VerifyPassword(h.passwordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Email, OperatorRole, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Seats returns the full seat map with the occupant of every taken
// seat.
func (h *AdminHandler) Seats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	statuses, err := h.Engine.Occupancy(ctx)
	if err != nil {
		return err
	}
	out := make([]seatStatusResp, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, seatStatusResp{
			Seat:     s.Seat,
			Section:  s.Section,
			Occupied: s.Occupied,
			UserID:   s.UserID,
			Email:    s.Email,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Vacancy returns a snapshot of the vacant pool. The seat list keeps
// pool order: seats freed by a removal sit at the tail.
func (h *AdminHandler) Vacancy(c echo.Context) error {
	vacant := h.Engine.VacantSeats()
	return c.JSON(http.StatusOK, echo.Map{
		"vacant":      len(vacant),
		"occupied":    h.Engine.SeatCount() - len(vacant),
		"total":       h.Engine.SeatCount(),
		"vacantSeats": vacant,
	})
}
