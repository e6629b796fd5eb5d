package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/queue"
	queue_publisher "github.com/lukbre/ticketline/internal/service"
)

// BookingHandler exposes the order engine over HTTP: tickets,
// reservations, carts, checkout and invoices. JWT authentication has
// already run by the time any method here is invoked.
type BookingHandler struct {
	Svc *booking.Service
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// CreateTicket handles POST /v1/tickets. It claims a seat for an event;
// a seat already claimed in that event yields 409.
func (h *BookingHandler) CreateTicket(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		EventID uint64 `json:"event_id"`
		SeatID  uint64 `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == 0 || body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and seat_id are required"})
	}
	ticket, err := h.Svc.CreateTicket(c.Request().Context(), body.EventID, body.SeatID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ticket)
}

// GetTicket handles GET /v1/tickets/:id.
func (h *BookingHandler) GetTicket(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ticket, err := h.Svc.TicketByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

type ticketBatchBody struct {
	TicketIDs []uint64 `json:"ticket_ids"`
	Payment   struct {
		Method string `json:"method"`
		Detail string `json:"detail"`
	} `json:"payment"`
}

// PurchaseTickets handles POST /v1/tickets/purchase. The whole batch is
// invoiced atomically; any invalid ticket aborts the purchase.
func (h *BookingHandler) PurchaseTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body ticketBatchBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	payment := booking.PaymentInfo{Method: body.Payment.Method, Detail: body.Payment.Detail}
	invoice, err := h.Svc.PurchaseTickets(c.Request().Context(), userID, body.TicketIDs, payment)
	if err != nil {
		return respondError(c, err)
	}

	go publishOrderCompleted(invoice.Number, userID, invoice.EventID, len(body.TicketIDs), 0, invoice.GrossTotal)

	return c.JSON(http.StatusCreated, invoice)
}

// CreditTickets handles POST /v1/tickets/credit. Purchased tickets are
// reversed onto credit invoices and their seats freed.
func (h *BookingHandler) CreditTickets(c echo.Context) error {
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
	invoices, err := h.Svc.CreditTickets(c.Request().Context(), userID, body.TicketIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"credit_invoices": invoices})
}

// Me handles GET /v1/me.
func (h *BookingHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	user, err := h.Svc.Me(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":                user.ID,
		"email":             user.Email,
		"first_name":        user.FirstName,
		"last_name":         user.LastName,
		"reward_points":     user.RewardPoints,
		"total_cents_spent": user.TotalCentsSpent,
		"regular_customer":  user.RegularCustomer(),
	})
}

// publishOrderCompleted fires the order.completed event. Failures are
// logged inside the publisher and otherwise ignored; the order itself
// has already committed.
func publishOrderCompleted(number string, userID uint64, eventID *uint64, ticketCount, lineCount int, gross float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishOrderCompleted(ctx, queue.OrderCompletedEvent{
		InvoiceNumber: number,
		UserID:        userID,
		EventID:       eventID,
		TicketCount:   ticketCount,
		LineCount:     lineCount,
		GrossTotal:    gross,
		CompletedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}
