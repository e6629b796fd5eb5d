package model

import "time"

// Cart is the per-user staging area for ticket and merchandise
// selections. Exactly one cart exists per user; it is created lazily on
// first use. Adding or removing items never touches stock or points;
// all side effects happen at checkout.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user, unique.
//  CreatedAt – creation timestamp.
type Cart struct {
	ID        uint64    // carts.id
	UserID    uint64    // carts.user_id
	CreatedAt time.Time // carts.created_at
}

// CartItemKind discriminates the two cart item variants.
type CartItemKind string

const (
	CartItemTicket      CartItemKind = "TICKET"
	CartItemMerchandise CartItemKind = "MERCHANDISE"
)

// CartItem is a tagged union: exactly one of Ticket or Merchandise is
// set, matching Kind. A ticket item references one ticket (unique per
// cart); a merchandise item carries a quantity and a redemption flag,
// with at most one item per merchandise per redemption mode.
type CartItem struct {
	ID          uint64                // cart_items.id
	CartID      uint64                // cart_items.cart_id
	Kind        CartItemKind          // cart_items.kind
	Ticket      *TicketSelection      // set when Kind == CartItemTicket
	Merchandise *MerchandiseSelection // set when Kind == CartItemMerchandise
}

// TicketSelection is the ticket variant payload of a cart item.
type TicketSelection struct {
	TicketID uint64 // cart_items.ticket_id
}

// MerchandiseSelection is the merchandise variant payload of a cart item.
type MerchandiseSelection struct {
	MerchandiseID    uint64 // cart_items.merchandise_id
	Quantity         uint32 // cart_items.quantity
	RedeemWithPoints bool   // cart_items.redeem_with_points
}
