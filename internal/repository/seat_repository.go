package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/model"
)

// SeatByID loads one seat with its base price resolved: the price
// category's base price when the seat has a category, falling back to
// the sector's base price otherwise.
func (t *Tx) SeatByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT s.id, s.sector_id, s.row_label, s.seat_number, s.price_category_id,
        COALESCE(pc.base_price_cents, sec.base_price_cents)
        FROM seats s
        JOIN sectors sec ON sec.id = s.sector_id
        LEFT JOIN price_categories pc ON pc.id = s.price_category_id
        WHERE s.id = ?`
	var (
		seat  model.Seat
		catID sql.NullInt64
	)
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&seat.ID, &seat.SectorID, &seat.RowLabel, &seat.SeatNumber,
		&catID, &seat.BasePriceCents,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("seat %d: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if catID.Valid {
		v := uint64(catID.Int64)
		seat.PriceCategoryID = &v
	}
	return &seat, nil
}

// EventByID loads one event.
func (t *Tx) EventByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, name, description, starts_at FROM events WHERE id = ?`
	var e model.Event
	err := t.tx.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.Name, &e.Description, &e.StartsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
