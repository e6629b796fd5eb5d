package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lukbre/ticketline/internal/queue"
	queue_publisher "github.com/lukbre/ticketline/internal/service"
)

// Reserve handles POST /v1/reservations. The batch is reserved
// atomically for the authenticated user; any unavailable ticket aborts
// the whole request.
func (h *BookingHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		TicketIDs []uint64 `json:"ticket_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	detail, err := h.Svc.Reserve(c.Request().Context(), userID, body.TicketIDs)
	if err != nil {
		return respondError(c, err)
	}

	seats := make([]string, 0, len(detail.Tickets))
	for _, t := range detail.Tickets {
		seats = append(seats, fmt.Sprintf("seat-%d", t.SeatID))
	}
	go publishReservationCreated(detail.Reservation.Number, userID, detail.Reservation.EventID, seats)

	return c.JSON(http.StatusCreated, detail)
}

// ListReservations handles GET /v1/reservations.
func (h *BookingHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Svc.ReservationsByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// GetReservation handles GET /v1/reservations/:id.
func (h *BookingHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	detail, err := h.Svc.ReservationByID(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// CancelReservations handles POST /v1/reservations/cancel. The named
// tickets are released atomically; their seats become free again.
func (h *BookingHandler) CancelReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		TicketIDs []uint64 `json:"ticket_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Svc.CancelReservations(c.Request().Context(), userID, body.TicketIDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func publishReservationCreated(number string, userID, eventID uint64, seats []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishReservationCreated(ctx, queue.ReservationCreatedEvent{
		ReservationNumber: number,
		UserID:            userID,
		EventID:           eventID,
		Seats:             seats,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	})
}
