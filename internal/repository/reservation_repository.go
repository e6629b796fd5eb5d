package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/model"
)

// InsertReservation creates a reservation row and populates the
// generated ID.
func (t *Tx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO reservations (number, user_id, event_id, created_at) VALUES (?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, r.Number, r.UserID, r.EventID, r.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	return nil
}

// ReservationByID loads one reservation.
func (t *Tx) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, number, user_id, event_id, created_at FROM reservations WHERE id = ?`
	var r model.Reservation
	err := t.tx.QueryRowContext(ctx, q, id).Scan(&r.ID, &r.Number, &r.UserID, &r.EventID, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation %d: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ReservationsByUser lists a user's reservations, newest first.
func (t *Tx) ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, number, user_id, event_id, created_at FROM reservations
        WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := t.tx.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		var r model.Reservation
		if err := rows.Scan(&r.ID, &r.Number, &r.UserID, &r.EventID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteReservation removes an emptied reservation row.
func (t *Tx) DeleteReservation(ctx context.Context, id uint64) error {
	const q = `DELETE FROM reservations WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, id)
	return err
}
