// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not belong to a specific
// surface: the health check for load balancers and the Prometheus
// scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterReceipt registers the public receipt surface under
// /api/receipt. These routes are anonymous; the vacant-seat engine
// enforces all domain rules.
func RegisterReceipt(e *echo.Echo, h *handler.ReceiptHandler) {
	g := e.Group("/api/receipt")
	// Submit a travel receipt; allocates the lowest vacant seat.
	g.POST("/submit", h.Submit)
	// Look up a receipt by userId and/or email query params.
	g.GET("", h.GetDetails)
	// List seat assignments for a section (SECTION_A or SECTION_B).
	g.GET("/:section", h.ListBySection)
	// Remove a user and free their seat.
	g.DELETE("/:id", h.Remove)
	// Move a user to a vacant seat.
	g.PATCH("", h.UpdateSeat)
}

// RegisterAdmin registers the operator surface. Login is open; the
// seat-map and vacancy views require a bearer token with the
// OPERATOR role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	e.POST("/api/admin/login", a.Login)

	g := e.Group("/api/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(handler.OperatorRole))
	g.GET("/seats", a.Seats)
	g.GET("/vacancy", a.Vacancy)
}
