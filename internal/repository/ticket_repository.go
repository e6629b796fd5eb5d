package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/model"
)

const ticketColumns = `id, event_id, seat_id, net_price, tax_rate, gross_price,
        reservation_id, invoice_id, created_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.Ticket, error) {
	var (
		t     model.Ticket
		resID sql.NullInt64
		invID sql.NullInt64
	)
	err := row.Scan(
		&t.ID, &t.EventID, &t.SeatID, &t.NetPrice, &t.TaxRate, &t.GrossPrice,
		&resID, &invID, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if resID.Valid {
		v := uint64(resID.Int64)
		t.ReservationID = &v
	}
	if invID.Valid {
		v := uint64(invID.Int64)
		t.InvoiceID = &v
	}
	return &t, nil
}

// TicketByID loads one ticket and locks its row for the duration of the
// transaction.
func (t *Tx) TicketByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ? FOR UPDATE`
	ticket, err := scanTicket(t.tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ticket %d: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// InsertTicket creates a ticket row and populates the generated ID. A
// duplicate (event_id, seat_id) pair maps to booking.ErrSeatTaken, which
// is how exactly one of two concurrent claims on the same seat wins.
func (t *Tx) InsertTicket(ctx context.Context, ticket *model.Ticket) error {
	const q = `INSERT INTO tickets (event_id, seat_id, net_price, tax_rate, gross_price, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		ticket.EventID, ticket.SeatID, ticket.NetPrice, ticket.TaxRate,
		ticket.GrossPrice, ticket.CreatedAt,
	)
	if isDuplicateKey(err) {
		return fmt.Errorf("event %d seat %d: %w", ticket.EventID, ticket.SeatID, booking.ErrSeatTaken)
	}
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ticket.ID = uint64(id)
	return nil
}

// UpdateTicketBinding rewrites a ticket's reservation and invoice
// references in one statement.
func (t *Tx) UpdateTicketBinding(ctx context.Context, ticketID uint64, reservationID, invoiceID *uint64) error {
	const q = `UPDATE tickets SET reservation_id = ?, invoice_id = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, nullableID(reservationID), nullableID(invoiceID), ticketID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("ticket %d: %w", ticketID, booking.ErrNotFound)
	}
	return nil
}

// DeleteTicket removes a ticket row, freeing its (event, seat) pair.
func (t *Tx) DeleteTicket(ctx context.Context, id uint64) error {
	const q = `DELETE FROM tickets WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, id)
	return err
}

// TicketsByEvent lists every ticket row for an event ordered by seat.
func (t *Tx) TicketsByEvent(ctx context.Context, eventID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id = ? ORDER BY seat_id`
	return t.queryTickets(ctx, q, eventID)
}

// TicketsByReservation lists the tickets still attached to a reservation.
func (t *Tx) TicketsByReservation(ctx context.Context, reservationID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE reservation_id = ? ORDER BY id`
	return t.queryTickets(ctx, q, reservationID)
}

// TicketsByInvoice lists the tickets attached to an invoice.
func (t *Tx) TicketsByInvoice(ctx context.Context, invoiceID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE invoice_id = ? ORDER BY id`
	return t.queryTickets(ctx, q, invoiceID)
}

func (t *Tx) queryTickets(ctx context.Context, q string, arg any) ([]model.Ticket, error) {
	rows, err := t.tx.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Ticket
	for rows.Next() {
		tk, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tk)
	}
	return out, rows.Err()
}

func nullableID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}
