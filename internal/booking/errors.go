// Package booking implements the seat/ticket inventory and order
// processing engine: ticket creation under the (event, seat) uniqueness
// invariant, reservations, purchases, credit invoices and cart checkout.
// Every batch operation runs inside one store transaction and either
// applies completely or not at all.
package booking

import (
	"errors"
	"fmt"
)

// Category sentinels. Handlers translate these into HTTP status codes:
// ErrNotFound -> 404, ErrForbidden -> 403, ErrConflict -> 409,
// ErrUnprocessable -> 422, ErrBadRequest -> 400. Specific failures below
// wrap one of these so errors.Is works against both the category and the
// exact cause.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrUnprocessable = errors.New("unprocessable")
	ErrBadRequest    = errors.New("bad request")
)

var (
	// ErrSeatTaken is returned when a non-cancelled ticket already
	// exists for the requested (event, seat) pair. The loser of two
	// concurrent creation attempts observes this error.
	ErrSeatTaken = fmt.Errorf("seat already has a ticket for this event: %w", ErrConflict)

	// ErrTicketReserved is returned when a ticket targeted for
	// reservation is already held by a reservation.
	ErrTicketReserved = fmt.Errorf("ticket already reserved: %w", ErrConflict)

	// ErrTicketPurchased is returned when a ticket targeted for
	// reservation, carting or purchase is already attached to an invoice.
	ErrTicketPurchased = fmt.Errorf("ticket already purchased: %w", ErrConflict)

	// ErrTicketNotReserved is returned when cancelling a ticket that is
	// not currently held by any reservation.
	ErrTicketNotReserved = fmt.Errorf("ticket is not reserved: %w", ErrConflict)

	// ErrEmptyBatch is returned for batch operations invoked with no
	// ticket IDs.
	ErrEmptyBatch = fmt.Errorf("at least one ticket id is required: %w", ErrBadRequest)

	// ErrMixedEvents is returned when a reservation is requested over
	// tickets belonging to different events.
	ErrMixedEvents = fmt.Errorf("tickets belong to different events: %w", ErrBadRequest)

	// ErrInvalidQuantity is returned for a non-positive cart quantity.
	ErrInvalidQuantity = fmt.Errorf("quantity must be positive: %w", ErrBadRequest)

	// ErrEmptyCart is returned when checkout finds nothing to commit.
	ErrEmptyCart = fmt.Errorf("cart is empty: %w", ErrUnprocessable)

	// ErrExceedsStock is returned when a requested merchandise quantity
	// exceeds the remaining stock.
	ErrExceedsStock = fmt.Errorf("quantity exceeds remaining quantity: %w", ErrUnprocessable)

	// ErrNotRedeemable is returned when redeeming merchandise that is
	// not flagged redeemable with points.
	ErrNotRedeemable = fmt.Errorf("merchandise cannot be redeemed with points: %w", ErrUnprocessable)

	// ErrNotRegularCustomer is returned when a user without purchase
	// history attempts a points redemption.
	ErrNotRegularCustomer = fmt.Errorf("not a regular customer: %w", ErrUnprocessable)

	// ErrInsufficientPoints is returned when the user's point balance
	// cannot cover the redemption cost of the cart.
	ErrInsufficientPoints = fmt.Errorf("insufficient reward points: %w", ErrUnprocessable)

	// ErrTicketNotInvoiced is returned when crediting a ticket that was
	// never purchased.
	ErrTicketNotInvoiced = fmt.Errorf("ticket has no invoice to credit: %w", ErrUnprocessable)
)
