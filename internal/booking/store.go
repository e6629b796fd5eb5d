package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lukbre/ticketline/internal/model"
)

// Store is the engine's persistence port. InTx runs fn inside one
// transaction: when fn returns an error the transaction is rolled back
// and no write becomes visible, which is what makes every batch
// operation all-or-nothing. The MySQL implementation lives in
// internal/repository; tests supply an in-memory one.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the set of operations available inside a transaction. Lookups
// return ErrNotFound (wrapped) for missing rows; InsertTicket returns
// ErrSeatTaken when the (event, seat) uniqueness invariant is violated.
// Implementations are expected to lock ticket, merchandise and user rows
// read inside a transaction so that concurrent transitions serialize.
type Tx interface {
	// Seats and events (read-only collaborators).
	SeatByID(ctx context.Context, id uint64) (*model.Seat, error)
	EventByID(ctx context.Context, id uint64) (*model.Event, error)

	// Tickets.
	TicketByID(ctx context.Context, id uint64) (*model.Ticket, error)
	InsertTicket(ctx context.Context, t *model.Ticket) error
	UpdateTicketBinding(ctx context.Context, ticketID uint64, reservationID, invoiceID *uint64) error
	DeleteTicket(ctx context.Context, id uint64) error
	TicketsByEvent(ctx context.Context, eventID uint64) ([]model.Ticket, error)
	TicketsByReservation(ctx context.Context, reservationID uint64) ([]model.Ticket, error)
	TicketsByInvoice(ctx context.Context, invoiceID uint64) ([]model.Ticket, error)

	// Reservations.
	InsertReservation(ctx context.Context, r *model.Reservation) error
	ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	DeleteReservation(ctx context.Context, id uint64) error

	// Invoices.
	InsertInvoice(ctx context.Context, inv *model.Invoice) error
	InvoiceByID(ctx context.Context, id uint64) (*model.Invoice, error)
	InvoicesByUser(ctx context.Context, userID uint64) ([]model.Invoice, error)
	InsertInvoiceLine(ctx context.Context, line *model.InvoiceLine) error
	LinesByInvoice(ctx context.Context, invoiceID uint64) ([]model.InvoiceLine, error)

	// Carts.
	CartByUser(ctx context.Context, userID uint64) (*model.Cart, error)
	InsertCart(ctx context.Context, cart *model.Cart) error
	CartItems(ctx context.Context, cartID uint64) ([]model.CartItem, error)
	CartItemByID(ctx context.Context, id uint64) (*model.CartItem, error)
	InsertCartItem(ctx context.Context, item *model.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, itemID uint64, quantity uint32) error
	DeleteCartItem(ctx context.Context, id uint64) error

	// Merchandise.
	MerchandiseByID(ctx context.Context, id uint64) (*model.Merchandise, error)
	ListMerchandise(ctx context.Context) ([]model.Merchandise, error)
	UpdateMerchandiseStock(ctx context.Context, id uint64, stock uint32) error

	// Users.
	UserByID(ctx context.Context, id uint64) (*model.User, error)
	UpdateUserCounters(ctx context.Context, id uint64, rewardPoints, totalCentsSpent int64) error
}

// Service is the order engine. All methods are safe for concurrent use;
// ordering guarantees come from the store's transaction isolation plus
// the ticket uniqueness invariant, not from any in-process locking.
type Service struct {
	store Store

	// Injected for tests; default to time.Now and uuid.NewString.
	now       func() time.Time
	newNumber func() string
}

// NewService returns a Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		newNumber: uuid.NewString,
	}
}

// PaymentInfo is the opaque payment capture attached to an invoice. It
// is recorded as-is; this engine never validates or charges it.
type PaymentInfo struct {
	Method string
	Detail string
}

// dedupe returns ids with duplicates removed, preserving order, and
// reports whether anything remains.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
