package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/lukbre/ticketline/internal/model"
)

// CartDetail is a cart together with its items.
type CartDetail struct {
	Cart  model.Cart
	Items []model.CartItem
}

// CheckoutResult carries the up-to-two invoices produced by a checkout.
type CheckoutResult struct {
	TicketInvoice      *model.Invoice
	MerchandiseInvoice *model.Invoice
}

// cartForUser returns the user's cart, creating it lazily.
func (s *Service) cartForUser(ctx context.Context, tx Tx, userID uint64) (*model.Cart, error) {
	cart, err := tx.CartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	cart = &model.Cart{UserID: userID, CreatedAt: s.now()}
	if err := tx.InsertCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Cart returns the user's cart and items, creating the cart on first use.
func (s *Service) Cart(ctx context.Context, userID uint64) (*CartDetail, error) {
	var detail *CartDetail
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.UserByID(ctx, userID); err != nil {
			return err
		}
		cart, err := s.cartForUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		items, err := tx.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		detail = &CartDetail{Cart: *cart, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// AddTickets stages the given tickets in the user's cart. A ticket must
// be free to cart: not purchased, and not held by another user's
// reservation. Adding a ticket that is already in the cart is a no-op.
// Stock, points and ticket state are untouched until checkout.
func (s *Service) AddTickets(ctx context.Context, userID uint64, ticketIDs []uint64) (*CartDetail, error) {
	ticketIDs = dedupe(ticketIDs)
	if len(ticketIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	var detail *CartDetail
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.UserByID(ctx, userID); err != nil {
			return err
		}
		cart, err := s.cartForUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		items, err := tx.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		staged := make(map[uint64]struct{})
		for _, it := range items {
			if it.Kind == model.CartItemTicket {
				staged[it.Ticket.TicketID] = struct{}{}
			}
		}
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
			if _, ok := staged[id]; ok {
				continue // idempotent re-add
			}
			item := &model.CartItem{
				CartID: cart.ID,
				Kind:   model.CartItemTicket,
				Ticket: &model.TicketSelection{TicketID: id},
			}
			if err := tx.InsertCartItem(ctx, item); err != nil {
				return err
			}
			staged[id] = struct{}{}
		}
		all, err := tx.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		detail = &CartDetail{Cart: *cart, Items: all}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// AddMerchandise stages quantity units of a merchandise article,
// optionally flagged for points redemption. Repeating the add for the
// same article and redemption mode accumulates the quantity into the
// existing item. The accumulated quantity must not exceed the remaining
// stock, and a redemption add requires the article to be redeemable and
// the user to be a regular customer. Stock itself is only decremented at
// checkout.
func (s *Service) AddMerchandise(ctx context.Context, userID, merchandiseID uint64, quantity uint32, redeemWithPoints bool) (*model.CartItem, error) {
	if quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	var added *model.CartItem
	err := s.store.InTx(ctx, func(tx Tx) error {
		user, err := tx.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		merch, err := tx.MerchandiseByID(ctx, merchandiseID)
		if err != nil {
			return err
		}
		if redeemWithPoints {
			if !merch.PointsRedeemable {
				return ErrNotRedeemable
			}
			if !user.RegularCustomer() {
				return ErrNotRegularCustomer
			}
		}
		cart, err := s.cartForUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		items, err := tx.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		var existing *model.CartItem
		for i := range items {
			it := &items[i]
			if it.Kind == model.CartItemMerchandise &&
				it.Merchandise.MerchandiseID == merchandiseID &&
				it.Merchandise.RedeemWithPoints == redeemWithPoints {
				existing = it
				break
			}
		}
		total := quantity
		if existing != nil {
			total += existing.Merchandise.Quantity
		}
		// total < quantity means the uint32 addition wrapped.
		if total < quantity || total > merch.StockQuantity {
			return fmt.Errorf("merchandise %d: %w", merchandiseID, ErrExceedsStock)
		}
		if existing != nil {
			if err := tx.UpdateCartItemQuantity(ctx, existing.ID, total); err != nil {
				return err
			}
			existing.Merchandise.Quantity = total
			added = existing
			return nil
		}
		item := &model.CartItem{
			CartID: cart.ID,
			Kind:   model.CartItemMerchandise,
			Merchandise: &model.MerchandiseSelection{
				MerchandiseID:    merchandiseID,
				Quantity:         quantity,
				RedeemWithPoints: redeemWithPoints,
			},
		}
		if err := tx.InsertCartItem(ctx, item); err != nil {
			return err
		}
		added = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveItem deletes one cart item by its ID. Removing an item never
// mutates stock. A foreign cart's item yields ErrForbidden.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uint64) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		item, err := tx.CartItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		cart, err := tx.CartByUser(ctx, userID)
		if err != nil {
			return err
		}
		if item.CartID != cart.ID {
			return ErrForbidden
		}
		return tx.DeleteCartItem(ctx, item.ID)
	})
}

// RemoveTicket deletes the cart item referencing the given ticket from
// the user's cart, if present.
func (s *Service) RemoveTicket(ctx context.Context, userID, ticketID uint64) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		cart, err := tx.CartByUser(ctx, userID)
		if err != nil {
			return err
		}
		items, err := tx.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.Kind == model.CartItemTicket && it.Ticket.TicketID == ticketID {
				return tx.DeleteCartItem(ctx, it.ID)
			}
		}
		return fmt.Errorf("ticket %d not in cart: %w", ticketID, ErrNotFound)
	})
}

// Checkout commits the whole cart in one transaction, producing up to
// two invoices: one for tickets, one for merchandise. The validation
// pass re-checks every line (stock, redeemability, regular-customer
// status, point balance, ticket state and ownership) before anything is
// mutated, so a single failing line aborts the checkout with no stock
// decrement, no point deduction and no invoice, and the cart is left
// untouched. On success stock and points are adjusted, cumulative spend
// is bumped by the cash gross, and committed items are removed from the
// cart.
func (s *Service) Checkout(ctx context.Context, userID uint64, payment PaymentInfo) (*CheckoutResult, error) {
	var result *CheckoutResult
	err := s.store.InTx(ctx, func(tx Tx) error {
		user, err := tx.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		cart, err := tx.CartByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		items, err := tx.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// Validation pass over merchandise lines.
		type merchLine struct {
			merch *model.Merchandise
			sel   model.MerchandiseSelection
		}
		var (
			merchLines   []merchLine
			tickets      []*model.Ticket
			pointsCost   int64
			pointsEarned int64
			merchByID    = make(map[uint64]*model.Merchandise)
			qtyByMerch   = make(map[uint64]uint32)
		)
		for _, it := range items {
			switch it.Kind {
			case model.CartItemMerchandise:
				m, ok := merchByID[it.Merchandise.MerchandiseID]
				if !ok {
					var err error
					m, err = tx.MerchandiseByID(ctx, it.Merchandise.MerchandiseID)
					if err != nil {
						return err
					}
					merchByID[m.ID] = m
				}
				sel := *it.Merchandise
				prev := qtyByMerch[m.ID]
				qtyByMerch[m.ID] += sel.Quantity
				if qtyByMerch[m.ID] < prev || qtyByMerch[m.ID] > m.StockQuantity {
					return fmt.Errorf("merchandise %d: %w", m.ID, ErrExceedsStock)
				}
				if sel.RedeemWithPoints {
					if !m.PointsRedeemable {
						return fmt.Errorf("merchandise %d: %w", m.ID, ErrNotRedeemable)
					}
					if !user.RegularCustomer() {
						return ErrNotRegularCustomer
					}
					pointsCost += m.PointsPrice * int64(sel.Quantity)
				} else {
					pointsEarned += m.RewardPointsPerUnit * int64(sel.Quantity)
				}
				merchLines = append(merchLines, merchLine{merch: m, sel: sel})
			case model.CartItemTicket:
				t, err := tx.TicketByID(ctx, it.Ticket.TicketID)
				if err != nil {
					return err
				}
				if t.Purchased() {
					return fmt.Errorf("ticket %d: %w", t.ID, ErrTicketPurchased)
				}
				if t.Reserved() {
					res, err := tx.ReservationByID(ctx, *t.ReservationID)
					if err != nil {
						return err
					}
					if res.UserID != userID {
						return fmt.Errorf("ticket %d reserved by another user: %w", t.ID, ErrForbidden)
					}
				}
				tickets = append(tickets, t)
			}
		}
		if pointsCost > user.RewardPoints {
			return ErrInsufficientPoints
		}

		// Mutation pass. Merchandise invoice first: lines, stock, points.
		res := &CheckoutResult{}
		if len(merchLines) > 0 {
			inv := &model.Invoice{
				Number:        s.newNumber(),
				UserID:        userID,
				IssueDate:     s.now(),
				PaymentMethod: payment.Method,
				PaymentDetail: payment.Detail,
			}
			lines := make([]model.InvoiceLine, 0, len(merchLines))
			for _, ml := range merchLines {
				line := model.InvoiceLine{
					Description:        ml.merch.Name,
					Quantity:           ml.sel.Quantity,
					MerchandiseID:      &ml.merch.ID,
					RedeemedWithPoints: ml.sel.RedeemWithPoints,
				}
				if ml.sel.RedeemWithPoints {
					line.PointsSpent = ml.merch.PointsPrice * int64(ml.sel.Quantity)
				} else {
					line.UnitPrice = ml.merch.UnitPrice
					line.NetAmount = model.Round2(ml.merch.UnitPrice * float64(ml.sel.Quantity))
					line.TaxRate = model.DefaultTaxRate
					line.GrossAmount = model.Round2(line.NetAmount * (1 + line.TaxRate))
					inv.NetTotal = model.Round2(inv.NetTotal + line.NetAmount)
					inv.GrossTotal = model.Round2(inv.GrossTotal + line.GrossAmount)
				}
				lines = append(lines, line)
			}
			inv.TaxTotal = model.Round2(inv.GrossTotal - inv.NetTotal)
			if err := tx.InsertInvoice(ctx, inv); err != nil {
				return err
			}
			for i := range merchLines {
				lines[i].InvoiceID = inv.ID
				if err := tx.InsertInvoiceLine(ctx, &lines[i]); err != nil {
					return err
				}
			}
			for id, m := range merchByID {
				if err := tx.UpdateMerchandiseStock(ctx, id, m.StockQuantity-qtyByMerch[id]); err != nil {
					return err
				}
			}
			points := user.RewardPoints - pointsCost + pointsEarned
			spent := user.TotalCentsSpent + model.Cents(inv.GrossTotal)
			if err := tx.UpdateUserCounters(ctx, userID, points, spent); err != nil {
				return err
			}
			user.RewardPoints = points
			user.TotalCentsSpent = spent
			res.MerchandiseInvoice = inv
		}

		// Ticket invoice second, sharing the purchase path.
		if len(tickets) > 0 {
			inv, err := s.invoiceTickets(ctx, tx, user, tickets, payment)
			if err != nil {
				return err
			}
			res.TicketInvoice = inv
		}

		for _, it := range items {
			if err := tx.DeleteCartItem(ctx, it.ID); err != nil {
				return err
			}
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
