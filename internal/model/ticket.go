package model

import (
	"math"
	"time"
)

// DefaultTaxRate is the tax rate applied to tickets at creation time and
// to merchandise lines that do not carry their own rate.
const DefaultTaxRate = 0.20

// Ticket binds one seat to one event. At most one non-cancelled ticket
// may exist per (event, seat) pair; the database enforces this with a
// unique index, and cancelled tickets are hard-deleted rather than
// flagged, so the invariant is a plain uniqueness constraint.
//
// A ticket is owned by at most one of a reservation or an invoice at any
// time. A freshly created ticket has neither; it is either reserved next
// or heads straight to purchase through cart checkout. Prices are
// computed once at creation from the seat's base price and are immutable
// afterwards.
//
// Fields:
//  ID            – primary key identifier.
//  EventID       – event the ticket is valid for.
//  SeatID        – seat being bound.
//  NetPrice      – net price in currency units.
//  TaxRate       – tax rate applied at creation (0.20).
//  GrossPrice    – gross price in currency units.
//  ReservationID – owning reservation, nil when not reserved.
//  InvoiceID     – owning invoice, nil when not purchased.
//  CreatedAt     – creation timestamp.
type Ticket struct {
	ID            uint64    // tickets.id
	EventID       uint64    // tickets.event_id
	SeatID        uint64    // tickets.seat_id
	NetPrice      float64   // tickets.net_price
	TaxRate       float64   // tickets.tax_rate
	GrossPrice    float64   // tickets.gross_price
	ReservationID *uint64   // tickets.reservation_id (nullable)
	InvoiceID     *uint64   // tickets.invoice_id (nullable)
	CreatedAt     time.Time // tickets.created_at
}

// Reserved reports whether the ticket is currently held by a reservation.
func (t *Ticket) Reserved() bool { return t.ReservationID != nil }

// Purchased reports whether the ticket is attached to an invoice.
func (t *Ticket) Purchased() bool { return t.InvoiceID != nil }

// TicketPrice computes the price triple for a ticket from a base price
// in cents: the net price is the base price in currency units, the tax
// rate is fixed at 20%, and the gross price is net plus tax. A 5000 cent
// base yields net 50.00 and gross 60.00.
func TicketPrice(basePriceCents uint32) (net, taxRate, gross float64) {
	net = Round2(float64(basePriceCents) / 100)
	taxRate = DefaultTaxRate
	gross = Round2(net * (1 + taxRate))
	return net, taxRate, gross
}

// Round2 rounds a currency amount to two decimal places.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// Cents converts a currency amount to integer cents for the spend counter.
func Cents(v float64) int64 { return int64(math.Round(v * 100)) }
