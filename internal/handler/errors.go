package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/seating"
)

// HTTPErrorHandler maps errors escaping the handlers onto the wire.
// Domain errors from the seating engine carry their own status and
// are answered with the message as plain text; echo's own errors keep
// their code; anything else becomes a 400 with the underlying message
// so unexpected failures surface to the caller without stack traces.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var msg string

		var se *seating.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &se):
			status = se.Status
			msg = se.Message
		case errors.As(err, &he):
			status = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = fmt.Sprint(he.Message)
			}
		default:
			status = http.StatusBadRequest
			msg = err.Error()
		}

		log.Warn("request error",
			zap.Int("status", status),
			zap.String("path", c.Request().URL.Path),
			zap.String("message", msg))

		if werr := c.String(status, msg); werr != nil {
			log.Error("error response write failed", zap.Error(werr))
		}
	}
}
