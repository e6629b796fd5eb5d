// Package repository implements the booking store on MySQL using
// database/sql. Every write happens inside an explicit transaction
// opened by InTx; row locks taken with SELECT ... FOR UPDATE serialize
// concurrent state transitions on the same ticket, article or user.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/lukbre/ticketline/internal/booking"
)

// Store wraps a *sql.DB and satisfies booking.Store.
type Store struct {
	db *sql.DB
}

// New returns a Store bound to the given database handle.
func New(db *sql.DB) *Store { return &Store{db: db} }

// InTx opens a transaction, runs fn against it and commits; any error
// from fn rolls the transaction back and is returned unchanged so the
// engine's sentinel errors survive the trip.
func (s *Store) InTx(ctx context.Context, fn func(booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Tx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Tx is the transactional view of the store. Methods are defined across
// the per-entity files in this package.
type Tx struct {
	tx *sql.Tx
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
