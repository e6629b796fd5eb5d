package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/model"
)

const merchandiseColumns = `id, name, unit_price, stock_quantity,
        reward_points_per_unit, points_price, points_redeemable`

func scanMerchandise(row interface{ Scan(...any) error }) (*model.Merchandise, error) {
	var m model.Merchandise
	err := row.Scan(
		&m.ID, &m.Name, &m.UnitPrice, &m.StockQuantity,
		&m.RewardPointsPerUnit, &m.PointsPrice, &m.PointsRedeemable,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MerchandiseByID loads one article and locks its row so concurrent
// checkouts serialize on the stock counter.
func (t *Tx) MerchandiseByID(ctx context.Context, id uint64) (*model.Merchandise, error) {
	const q = `SELECT ` + merchandiseColumns + ` FROM merchandise WHERE id = ? FOR UPDATE`
	m, err := scanMerchandise(t.tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("merchandise %d: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMerchandise lists all articles by name.
func (t *Tx) ListMerchandise(ctx context.Context) ([]model.Merchandise, error) {
	const q = `SELECT ` + merchandiseColumns + ` FROM merchandise ORDER BY name, id`
	rows, err := t.tx.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Merchandise
	for rows.Next() {
		m, err := scanMerchandise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// UpdateMerchandiseStock rewrites an article's remaining stock.
func (t *Tx) UpdateMerchandiseStock(ctx context.Context, id uint64, stock uint32) error {
	const q = `UPDATE merchandise SET stock_quantity = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, stock, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("merchandise %d: %w", id, booking.ErrNotFound)
	}
	return nil
}
