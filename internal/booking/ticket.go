package booking

import (
	"context"
	"fmt"

	"github.com/lukbre/ticketline/internal/model"
)

// CreateTicket binds a seat to an event by inserting the ticket row under
// the (event, seat) uniqueness constraint. The price triple is computed
// once here from the seat's resolved base price and never changes
// afterwards. When two callers race for the same pair, exactly one insert
// succeeds and the other returns ErrSeatTaken.
func (s *Service) CreateTicket(ctx context.Context, eventID, seatID uint64) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.EventByID(ctx, eventID); err != nil {
			return err
		}
		seat, err := tx.SeatByID(ctx, seatID)
		if err != nil {
			return err
		}
		net, rate, gross := model.TicketPrice(seat.BasePriceCents)
		t := &model.Ticket{
			EventID:    eventID,
			SeatID:     seatID,
			NetPrice:   net,
			TaxRate:    rate,
			GrossPrice: gross,
			CreatedAt:  s.now(),
		}
		if err := tx.InsertTicket(ctx, t); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// TicketByID loads a single ticket.
func (s *Service) TicketByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := s.store.InTx(ctx, func(tx Tx) error {
		t, err := tx.TicketByID(ctx, id)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// PurchaseTickets transitions the given tickets to PURCHASED on one new
// invoice. Every ticket must be either unbound or reserved by the
// requesting user; a ticket reserved by someone else fails the whole
// batch with ErrForbidden and an already purchased one with
// ErrTicketPurchased. All checks run before any mutation, so a failing
// batch leaves every ticket exactly as it was.
func (s *Service) PurchaseTickets(ctx context.Context, userID uint64, ticketIDs []uint64, payment PaymentInfo) (*model.Invoice, error) {
	ticketIDs = dedupe(ticketIDs)
	if len(ticketIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	var invoice *model.Invoice
	err := s.store.InTx(ctx, func(tx Tx) error {
		user, err := tx.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		tickets := make([]*model.Ticket, 0, len(ticketIDs))
		for _, id := range ticketIDs {
			t, err := tx.TicketByID(ctx, id)
			if err != nil {
				return err
			}
			if t.Purchased() {
				return fmt.Errorf("ticket %d: %w", id, ErrTicketPurchased)
			}
			if t.Reserved() {
				res, err := tx.ReservationByID(ctx, *t.ReservationID)
				if err != nil {
					return err
				}
				if res.UserID != userID {
					return fmt.Errorf("ticket %d reserved by another user: %w", id, ErrForbidden)
				}
			}
			tickets = append(tickets, t)
		}
		inv, err := s.invoiceTickets(ctx, tx, user, tickets, payment)
		if err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// invoiceTickets creates one invoice for the pre-validated tickets,
// attaches each ticket to it, removes any reservation that becomes
// empty, and bumps the user's cumulative spend. Callers must have
// verified ownership and state already; this helper only mutates.
func (s *Service) invoiceTickets(ctx context.Context, tx Tx, user *model.User, tickets []*model.Ticket, payment PaymentInfo) (*model.Invoice, error) {
	inv := &model.Invoice{
		Number:        s.newNumber(),
		UserID:        user.ID,
		IssueDate:     s.now(),
		PaymentMethod: payment.Method,
		PaymentDetail: payment.Detail,
	}
	// A single-event invoice records the event and its date; a mixed
	// batch leaves both unset.
	sameEvent := true
	for _, t := range tickets {
		if t.EventID != tickets[0].EventID {
			sameEvent = false
			break
		}
	}
	if sameEvent && len(tickets) > 0 {
		event, err := tx.EventByID(ctx, tickets[0].EventID)
		if err != nil {
			return nil, err
		}
		inv.EventID = &event.ID
		date := event.StartsAt
		inv.EventDate = &date
	}
	for _, t := range tickets {
		inv.NetTotal = model.Round2(inv.NetTotal + t.NetPrice)
		inv.GrossTotal = model.Round2(inv.GrossTotal + t.GrossPrice)
	}
	inv.TaxTotal = model.Round2(inv.GrossTotal - inv.NetTotal)
	if err := tx.InsertInvoice(ctx, inv); err != nil {
		return nil, err
	}

	emptied := make(map[uint64]struct{})
	for _, t := range tickets {
		if t.ReservationID != nil {
			emptied[*t.ReservationID] = struct{}{}
		}
		if err := tx.UpdateTicketBinding(ctx, t.ID, nil, &inv.ID); err != nil {
			return nil, err
		}
	}
	for resID := range emptied {
		remaining, err := tx.TicketsByReservation(ctx, resID)
		if err != nil {
			return nil, err
		}
		if len(remaining) == 0 {
			if err := tx.DeleteReservation(ctx, resID); err != nil {
				return nil, err
			}
		}
	}
	spent := user.TotalCentsSpent + model.Cents(inv.GrossTotal)
	if err := tx.UpdateUserCounters(ctx, user.ID, user.RewardPoints, spent); err != nil {
		return nil, err
	}
	user.TotalCentsSpent = spent
	return inv, nil
}

// CreditTickets reverses purchased tickets. For every original invoice
// touched by the batch one credit invoice is created, carrying the
// original's number and one negated line per ticket; the original ticket
// rows are then deleted, freeing their seats. A ticket without an
// invoice fails with ErrTicketNotInvoiced, a foreign invoice with
// ErrForbidden, and either aborts the entire batch.
//
// Reward points and cumulative spend are deliberately not restored:
// crediting leaves both counters untouched.
func (s *Service) CreditTickets(ctx context.Context, userID uint64, ticketIDs []uint64) ([]model.Invoice, error) {
	ticketIDs = dedupe(ticketIDs)
	if len(ticketIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	var credits []model.Invoice
	err := s.store.InTx(ctx, func(tx Tx) error {
		type group struct {
			original *model.Invoice
			tickets  []*model.Ticket
		}
		groups := make(map[uint64]*group)
		order := make([]uint64, 0)
		for _, id := range ticketIDs {
			t, err := tx.TicketByID(ctx, id)
			if err != nil {
				return err
			}
			if !t.Purchased() {
				return fmt.Errorf("ticket %d: %w", id, ErrTicketNotInvoiced)
			}
			g, ok := groups[*t.InvoiceID]
			if !ok {
				orig, err := tx.InvoiceByID(ctx, *t.InvoiceID)
				if err != nil {
					return err
				}
				if orig.UserID != userID {
					return fmt.Errorf("invoice %s belongs to another user: %w", orig.Number, ErrForbidden)
				}
				g = &group{original: orig}
				groups[*t.InvoiceID] = g
				order = append(order, *t.InvoiceID)
			}
			g.tickets = append(g.tickets, t)
		}

		for _, invID := range order {
			g := groups[invID]
			credit := &model.Invoice{
				Number:         s.newNumber(),
				UserID:         userID,
				EventID:        g.original.EventID,
				EventDate:      g.original.EventDate,
				IssueDate:      s.now(),
				OriginalNumber: &g.original.Number,
			}
			for _, t := range g.tickets {
				credit.NetTotal = model.Round2(credit.NetTotal - t.NetPrice)
				credit.GrossTotal = model.Round2(credit.GrossTotal - t.GrossPrice)
			}
			credit.TaxTotal = model.Round2(credit.GrossTotal - credit.NetTotal)
			if err := tx.InsertInvoice(ctx, credit); err != nil {
				return err
			}
			for _, t := range g.tickets {
				seat, err := tx.SeatByID(ctx, t.SeatID)
				if err != nil {
					return err
				}
				line := &model.InvoiceLine{
					InvoiceID:   credit.ID,
					Description: fmt.Sprintf("Credit ticket, seat %s/%d", seat.RowLabel, seat.SeatNumber),
					Quantity:    1,
					UnitPrice:   -t.NetPrice,
					NetAmount:   -t.NetPrice,
					TaxRate:     t.TaxRate,
					GrossAmount: -t.GrossPrice,
				}
				if err := tx.InsertInvoiceLine(ctx, line); err != nil {
					return err
				}
				if err := tx.DeleteTicket(ctx, t.ID); err != nil {
					return err
				}
			}
			credits = append(credits, *credit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return credits, nil
}
