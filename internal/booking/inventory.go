package booking

import (
	"context"

	"github.com/lukbre/ticketline/internal/model"
)

// SeatStatus is the sale state of one seat within one event.
type SeatStatus string

const (
	SeatFree      SeatStatus = "FREE"
	SeatReserved  SeatStatus = "RESERVED"
	SeatPurchased SeatStatus = "PURCHASED"
)

// EventSeat is one seat's status in an event's seat map.
type EventSeat struct {
	Seat     model.Seat
	Status   SeatStatus
	TicketID *uint64
}

// EventByID returns one event.
func (s *Service) EventByID(ctx context.Context, id uint64) (*model.Event, error) {
	var event *model.Event
	err := s.store.InTx(ctx, func(tx Tx) error {
		e, err := tx.EventByID(ctx, id)
		if err != nil {
			return err
		}
		event = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// EventSeats returns the status of every seat that has a ticket row for
// the event. A seat with no ticket row is free; crediting or cancelling
// deletes the row, so absence is the ground truth for availability.
func (s *Service) EventSeats(ctx context.Context, eventID uint64) ([]EventSeat, error) {
	var out []EventSeat
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.EventByID(ctx, eventID); err != nil {
			return err
		}
		tickets, err := tx.TicketsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		out = make([]EventSeat, 0, len(tickets))
		for i := range tickets {
			t := tickets[i]
			seat, err := tx.SeatByID(ctx, t.SeatID)
			if err != nil {
				return err
			}
			status := SeatFree
			switch {
			case t.Purchased():
				status = SeatPurchased
			case t.Reserved():
				status = SeatReserved
			}
			out = append(out, EventSeat{Seat: *seat, Status: status, TicketID: &t.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IsSeatFree reports whether no ticket row exists for the seat in the
// given event.
func (s *Service) IsSeatFree(ctx context.Context, eventID, seatID uint64) (bool, error) {
	free := true
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.EventByID(ctx, eventID); err != nil {
			return err
		}
		if _, err := tx.SeatByID(ctx, seatID); err != nil {
			return err
		}
		tickets, err := tx.TicketsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		for _, t := range tickets {
			if t.SeatID == seatID {
				free = false
				break
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return free, nil
}

// Catalog lists all merchandise articles.
func (s *Service) Catalog(ctx context.Context) ([]model.Merchandise, error) {
	var out []model.Merchandise
	err := s.store.InTx(ctx, func(tx Tx) error {
		list, err := tx.ListMerchandise(ctx)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InvoiceDetail is an invoice together with its lines and tickets.
type InvoiceDetail struct {
	Invoice model.Invoice
	Lines   []model.InvoiceLine
	Tickets []model.Ticket
}

// InvoicesByUser lists the user's invoices, newest first as returned by
// the store.
func (s *Service) InvoicesByUser(ctx context.Context, userID uint64) ([]model.Invoice, error) {
	var out []model.Invoice
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.UserByID(ctx, userID); err != nil {
			return err
		}
		list, err := tx.InvoicesByUser(ctx, userID)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InvoiceByID returns one invoice with its lines and tickets. A foreign
// invoice yields ErrForbidden.
func (s *Service) InvoiceByID(ctx context.Context, userID, invoiceID uint64) (*InvoiceDetail, error) {
	var detail *InvoiceDetail
	err := s.store.InTx(ctx, func(tx Tx) error {
		inv, err := tx.InvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.UserID != userID {
			return ErrForbidden
		}
		lines, err := tx.LinesByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		tickets, err := tx.TicketsByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		detail = &InvoiceDetail{Invoice: *inv, Lines: lines, Tickets: tickets}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Me returns the user's profile including reward point balance and
// cumulative spend.
func (s *Service) Me(ctx context.Context, userID uint64) (*model.User, error) {
	var user *model.User
	err := s.store.InTx(ctx, func(tx Tx) error {
		u, err := tx.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
