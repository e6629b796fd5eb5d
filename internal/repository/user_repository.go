package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/model"
)

// ErrEmailExists is returned by CreateUser when the email address is
// already registered. Handlers translate it into an HTTP 409 response.
var ErrEmailExists = errors.New("email already registered")

const userColumns = `id, email, password_hash, first_name, last_name,
        reward_points, total_cents_spent, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.RewardPoints, &u.TotalCentsSpent, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByID loads one user and locks the row so concurrent point and
// spend updates serialize.
func (t *Tx) UserByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ? FOR UPDATE`
	u, err := scanUser(t.tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUserCounters rewrites a user's reward point balance and
// cumulative spend.
func (t *Tx) UpdateUserCounters(ctx context.Context, id uint64, rewardPoints, totalCentsSpent int64) error {
	const q = `UPDATE users SET reward_points = ?, total_cents_spent = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, rewardPoints, totalCentsSpent, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, booking.ErrNotFound)
	}
	return nil
}

// CreateUser registers a new user outside any engine transaction. The
// email's UNIQUE index maps duplicates to ErrEmailExists.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (email, password_hash, first_name, last_name, created_at)
        VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.CreatedAt)
	if isDuplicateKey(err) {
		return ErrEmailExists
	}
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// UserByEmail loads one user by email for login.
func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
