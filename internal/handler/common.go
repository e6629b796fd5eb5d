package handler // HTTP handlers for the ticketline API

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lukbre/ticketline/internal/booking"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWT numeric claims arrive as float64; other representations
// are handled for completeness.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err == nil {
				return n, nil
			}
		}
	}
	return 0, errors.New("no user id in context")
}

// respondError translates engine sentinel errors into HTTP responses.
// The specific error text is forwarded so clients can tell, say, a
// taken seat from a reserved ticket within the same status code.
func respondError(c echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, booking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, booking.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, booking.ErrUnprocessable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrBadRequest):
		status = http.StatusBadRequest
	default:
		logrus.WithError(err).Error("internal error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
