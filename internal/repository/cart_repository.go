package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/model"
)

// CartByUser loads the user's cart. Each user has at most one.
func (t *Tx) CartByUser(ctx context.Context, userID uint64) (*model.Cart, error) {
	const q = `SELECT id, user_id, created_at FROM carts WHERE user_id = ?`
	var c model.Cart
	err := t.tx.QueryRowContext(ctx, q, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart for user %d: %w", userID, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// InsertCart creates a cart row and populates the generated ID.
func (t *Tx) InsertCart(ctx context.Context, cart *model.Cart) error {
	const q = `INSERT INTO carts (user_id, created_at) VALUES (?, ?)`
	res, err := t.tx.ExecContext(ctx, q, cart.UserID, cart.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cart.ID = uint64(id)
	return nil
}

const cartItemColumns = `id, cart_id, kind, ticket_id, merchandise_id, quantity, redeem_with_points`

func scanCartItem(row interface{ Scan(...any) error }) (*model.CartItem, error) {
	var (
		item     model.CartItem
		ticketID sql.NullInt64
		merchID  sql.NullInt64
		quantity sql.NullInt64
		redeem   sql.NullBool
	)
	err := row.Scan(&item.ID, &item.CartID, &item.Kind, &ticketID, &merchID, &quantity, &redeem)
	if err != nil {
		return nil, err
	}
	switch item.Kind {
	case model.CartItemTicket:
		item.Ticket = &model.TicketSelection{TicketID: uint64(ticketID.Int64)}
	case model.CartItemMerchandise:
		item.Merchandise = &model.MerchandiseSelection{
			MerchandiseID:    uint64(merchID.Int64),
			Quantity:         uint32(quantity.Int64),
			RedeemWithPoints: redeem.Bool,
		}
	}
	return &item, nil
}

// CartItems lists a cart's items in insertion order.
func (t *Tx) CartItems(ctx context.Context, cartID uint64) ([]model.CartItem, error) {
	const q = `SELECT ` + cartItemColumns + ` FROM cart_items WHERE cart_id = ? ORDER BY id`
	rows, err := t.tx.QueryContext(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

// CartItemByID loads one cart item.
func (t *Tx) CartItemByID(ctx context.Context, id uint64) (*model.CartItem, error) {
	const q = `SELECT ` + cartItemColumns + ` FROM cart_items WHERE id = ?`
	item, err := scanCartItem(t.tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item %d: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// InsertCartItem creates one cart item and populates the generated ID.
func (t *Tx) InsertCartItem(ctx context.Context, item *model.CartItem) error {
	const q = `INSERT INTO cart_items (cart_id, kind, ticket_id, merchandise_id, quantity, redeem_with_points)
        VALUES (?, ?, ?, ?, ?, ?)`
	var (
		ticketID any
		merchID  any
		quantity any
		redeem   any
	)
	switch item.Kind {
	case model.CartItemTicket:
		ticketID = item.Ticket.TicketID
	case model.CartItemMerchandise:
		merchID = item.Merchandise.MerchandiseID
		quantity = item.Merchandise.Quantity
		redeem = item.Merchandise.RedeemWithPoints
	}
	res, err := t.tx.ExecContext(ctx, q, item.CartID, string(item.Kind), ticketID, merchID, quantity, redeem)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	return nil
}

// UpdateCartItemQuantity rewrites a merchandise item's quantity.
func (t *Tx) UpdateCartItemQuantity(ctx context.Context, itemID uint64, quantity uint32) error {
	const q = `UPDATE cart_items SET quantity = ? WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, quantity, itemID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, booking.ErrNotFound)
	}
	return nil
}

// DeleteCartItem removes one cart item.
func (t *Tx) DeleteCartItem(ctx context.Context, id uint64) error {
	const q = `DELETE FROM cart_items WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, id)
	return err
}
