package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lukbre/ticketline/internal/booking"
)

// BrowseHandler serves the public, cacheable read endpoints: event
// details, seat maps and the merchandise catalog. No authentication is
// required here; the responses contain no user data.
type BrowseHandler struct {
	Svc *booking.Service
}

// NewBrowseHandler constructs a BrowseHandler.
func NewBrowseHandler(svc *booking.Service) *BrowseHandler {
	if svc == nil {
		panic("nil service passed to NewBrowseHandler")
	}
	return &BrowseHandler{Svc: svc}
}

// GetEvent handles GET /v1/events/:id.
func (h *BrowseHandler) GetEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	event, err := h.Svc.EventByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// GetEventSeats handles GET /v1/events/:id/seats. Only seats with a
// ticket row appear; everything else is free.
func (h *BrowseHandler) GetEventSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	seats, err := h.Svc.EventSeats(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": seats})
}

// GetSeatAvailability handles GET /v1/events/:id/seats/:seatId.
func (h *BrowseHandler) GetSeatAvailability(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	seatID, err := pathID(c, "seatId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	free, err := h.Svc.IsSeatFree(c.Request().Context(), eventID, seatID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"event_id": eventID, "seat_id": seatID, "free": free})
}

// ListMerchandise handles GET /v1/merchandise.
func (h *BrowseHandler) ListMerchandise(c echo.Context) error {
	list, err := h.Svc.Catalog(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"merchandise": list})
}
