package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lukbre/ticketline/internal/booking"
)

// GetCart handles GET /v1/cart, creating the cart on first access.
func (h *BookingHandler) GetCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	detail, err := h.Svc.Cart(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// AddCartTickets handles POST /v1/cart/tickets. Tickets are staged
// without changing their state; a duplicate add is a no-op.
func (h *BookingHandler) AddCartTickets(c echo.Context) error {
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
	detail, err := h.Svc.AddTickets(c.Request().Context(), userID, body.TicketIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// AddCartMerchandise handles POST /v1/cart/merchandise. Repeating the
// add for the same article and mode accumulates the quantity.
func (h *BookingHandler) AddCartMerchandise(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		MerchandiseID    uint64 `json:"merchandise_id"`
		Quantity         uint32 `json:"quantity"`
		RedeemWithPoints bool   `json:"redeem_with_points"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MerchandiseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "merchandise_id is required"})
	}
	item, err := h.Svc.AddMerchandise(c.Request().Context(), userID, body.MerchandiseID, body.Quantity, body.RedeemWithPoints)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveCartItem handles DELETE /v1/cart/items/:id.
func (h *BookingHandler) RemoveCartItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Svc.RemoveItem(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveCartTicket handles DELETE /v1/cart/tickets/:ticketId.
func (h *BookingHandler) RemoveCartTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "ticketId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Svc.RemoveTicket(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout handles POST /v1/cart/checkout. On success it returns up to
// two invoices (tickets and merchandise) and the cart is left empty.
func (h *BookingHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Payment struct {
			Method string `json:"method"`
			Detail string `json:"detail"`
		} `json:"payment"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	payment := booking.PaymentInfo{Method: body.Payment.Method, Detail: body.Payment.Detail}
	result, err := h.Svc.Checkout(c.Request().Context(), userID, payment)
	if err != nil {
		return respondError(c, err)
	}

	if inv := result.TicketInvoice; inv != nil {
		go publishOrderCompleted(inv.Number, userID, inv.EventID, 0, 0, inv.GrossTotal)
	}
	if inv := result.MerchandiseInvoice; inv != nil {
		go publishOrderCompleted(inv.Number, userID, nil, 0, 0, inv.GrossTotal)
	}

	return c.JSON(http.StatusCreated, result)
}
