package booking

import (
	"context"
	"fmt"

	"github.com/lukbre/ticketline/internal/model"
)

// ReservationDetail is a reservation together with the tickets it holds.
type ReservationDetail struct {
	Reservation model.Reservation
	Tickets     []model.Ticket
}

// Reserve places one named hold over the given tickets for the user.
// Every ticket must exist and be unbound: an already reserved ticket
// fails with ErrTicketReserved, a purchased one with ErrTicketPurchased,
// and in either case no reservation is created and no ticket is touched.
// All tickets must belong to the same event.
func (s *Service) Reserve(ctx context.Context, userID uint64, ticketIDs []uint64) (*ReservationDetail, error) {
	ticketIDs = dedupe(ticketIDs)
	if len(ticketIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	var detail *ReservationDetail
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.UserByID(ctx, userID); err != nil {
			return err
		}
		tickets := make([]model.Ticket, 0, len(ticketIDs))
		for _, id := range ticketIDs {
			t, err := tx.TicketByID(ctx, id)
			if err != nil {
				return err
			}
			if t.Purchased() {
				return fmt.Errorf("ticket %d: %w", id, ErrTicketPurchased)
			}
			if t.Reserved() {
				return fmt.Errorf("ticket %d: %w", id, ErrTicketReserved)
			}
			if len(tickets) > 0 && t.EventID != tickets[0].EventID {
				return ErrMixedEvents
			}
			tickets = append(tickets, *t)
		}
		res := &model.Reservation{
			Number:    s.newNumber(),
			UserID:    userID,
			EventID:   tickets[0].EventID,
			CreatedAt: s.now(),
		}
		if err := tx.InsertReservation(ctx, res); err != nil {
			return err
		}
		for i := range tickets {
			if err := tx.UpdateTicketBinding(ctx, tickets[i].ID, &res.ID, nil); err != nil {
				return err
			}
			tickets[i].ReservationID = &res.ID
		}
		detail = &ReservationDetail{Reservation: *res, Tickets: tickets}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// CancelReservations cancels the holds on the given tickets on behalf of
// their owner: each ticket is detached from its reservation and its row
// deleted, freeing the seat, and any reservation left without tickets is
// deleted too. Any unknown ticket ID fails the whole batch with
// ErrNotFound, a ticket reserved by someone else with ErrForbidden, and
// an unreserved ticket with ErrTicketNotReserved. In every case nothing
// is deleted.
func (s *Service) CancelReservations(ctx context.Context, userID uint64, ticketIDs []uint64) error {
	ticketIDs = dedupe(ticketIDs)
	if len(ticketIDs) == 0 {
		return ErrEmptyBatch
	}
	return s.store.InTx(ctx, func(tx Tx) error {
		tickets := make([]*model.Ticket, 0, len(ticketIDs))
		for _, id := range ticketIDs {
			t, err := tx.TicketByID(ctx, id)
			if err != nil {
				return err
			}
			if !t.Reserved() {
				return fmt.Errorf("ticket %d: %w", id, ErrTicketNotReserved)
			}
			res, err := tx.ReservationByID(ctx, *t.ReservationID)
			if err != nil {
				return err
			}
			if res.UserID != userID {
				return fmt.Errorf("ticket %d: %w", id, ErrForbidden)
			}
			tickets = append(tickets, t)
		}
		emptied := make(map[uint64]struct{})
		for _, t := range tickets {
			emptied[*t.ReservationID] = struct{}{}
			if err := tx.DeleteTicket(ctx, t.ID); err != nil {
				return err
			}
		}
		for resID := range emptied {
			remaining, err := tx.TicketsByReservation(ctx, resID)
			if err != nil {
				return err
			}
			if len(remaining) == 0 {
				if err := tx.DeleteReservation(ctx, resID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ReservationsByUser lists the caller's reservations with their tickets.
func (s *Service) ReservationsByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	details := make([]ReservationDetail, 0)
	err := s.store.InTx(ctx, func(tx Tx) error {
		list, err := tx.ReservationsByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, res := range list {
			tickets, err := tx.TicketsByReservation(ctx, res.ID)
			if err != nil {
				return err
			}
			details = append(details, ReservationDetail{Reservation: res, Tickets: tickets})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ReservationByID returns one reservation with its tickets, enforcing
// ownership: another user's reservation yields ErrForbidden.
func (s *Service) ReservationByID(ctx context.Context, userID, reservationID uint64) (*ReservationDetail, error) {
	var detail *ReservationDetail
	err := s.store.InTx(ctx, func(tx Tx) error {
		res, err := tx.ReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.UserID != userID {
			return ErrForbidden
		}
		tickets, err := tx.TicketsByReservation(ctx, res.ID)
		if err != nil {
			return err
		}
		detail = &ReservationDetail{Reservation: *res, Tickets: tickets}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}
