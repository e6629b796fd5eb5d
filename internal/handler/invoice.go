package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListInvoices handles GET /v1/invoices.
func (h *BookingHandler) ListInvoices(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Svc.InvoicesByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"invoices": list})
}

// GetInvoice handles GET /v1/invoices/:id, returning the invoice with
// its lines and tickets.
func (h *BookingHandler) GetInvoice(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	detail, err := h.Svc.InvoiceByID(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
