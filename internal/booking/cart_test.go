package booking

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukbre/ticketline/internal/model"
)

func seedShirt(store *memStore, stock uint32) uint64 {
	return store.seedMerchandise(model.Merchandise{
		Name:                "Tour Shirt",
		UnitPrice:           25.0,
		StockQuantity:       stock,
		RewardPointsPerUnit: 10,
		PointsPrice:         250,
		PointsRedeemable:    true,
	})
}

func TestCartCreatedLazily(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(0, 0)

	detail, err := svc.Cart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, detail.Cart.UserID)
	assert.Empty(t, detail.Items)

	// Second call returns the same cart.
	again, err := svc.Cart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, detail.Cart.ID, again.Cart.ID)
}

func TestAddTicketsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(0, 0)
	eventID := store.seedEvent("Open Air")
	seatID := store.seedSeat(5000)

	ticket, err := svc.CreateTicket(ctx, eventID, seatID)
	require.NoError(t, err)

	detail, err := svc.AddTickets(ctx, userID, []uint64{ticket.ID})
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)

	// Re-adding the same ticket changes nothing.
	detail, err = svc.AddTickets(ctx, userID, []uint64{ticket.ID})
	require.NoError(t, err)
	assert.Len(t, detail.Items, 1)

	// Carting does not touch the ticket's state.
	assert.Nil(t, store.ticket(ticket.ID).ReservationID)
	assert.Nil(t, store.ticket(ticket.ID).InvoiceID)
}

func TestAddTicketsRejectsForeignHoldAndPurchased(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	alice := store.seedUser(0, 0)
	bob := store.seedUser(0, 0)
	eventID := store.seedEvent("Open Air")
	seatA := store.seedSeat(5000)
	seatB := store.seedSeat(5000)

	held, err := svc.CreateTicket(ctx, eventID, seatA)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, alice, []uint64{held.ID})
	require.NoError(t, err)

	_, err = svc.AddTickets(ctx, bob, []uint64{held.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	sold, err := svc.CreateTicket(ctx, eventID, seatB)
	require.NoError(t, err)
	_, err = svc.PurchaseTickets(ctx, alice, []uint64{sold.ID}, PaymentInfo{})
	require.NoError(t, err)

	_, err = svc.AddTickets(ctx, bob, []uint64{sold.ID})
	assert.ErrorIs(t, err, ErrTicketPurchased)
}

func TestAddMerchandiseAccumulatesPerMode(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(1000, 100)
	shirtID := seedShirt(store, 10)

	item, err := svc.AddMerchandise(ctx, userID, shirtID, 2, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), item.Merchandise.Quantity)

	// Same article and mode merges into the existing item.
	item, err = svc.AddMerchandise(ctx, userID, shirtID, 3, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), item.Merchandise.Quantity)

	// Redemption mode is a separate item.
	redeemed, err := svc.AddMerchandise(ctx, userID, shirtID, 1, true)
	require.NoError(t, err)
	assert.NotEqual(t, item.ID, redeemed.ID)
	assert.Equal(t, uint32(1), redeemed.Merchandise.Quantity)

	detail, err := svc.Cart(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 2)
}

func TestAddMerchandiseStockAndQuantityChecks(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(0, 0)
	shirtID := seedShirt(store, 3)

	_, err := svc.AddMerchandise(ctx, userID, shirtID, 0, false)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddMerchandise(ctx, userID, shirtID, 4, false)
	assert.ErrorIs(t, err, ErrExceedsStock)

	_, err = svc.AddMerchandise(ctx, userID, shirtID, 2, false)
	require.NoError(t, err)

	// The accumulated quantity is checked against stock, not the delta.
	_, err = svc.AddMerchandise(ctx, userID, shirtID, 2, false)
	assert.ErrorIs(t, err, ErrExceedsStock)

	_, err = svc.AddMerchandise(ctx, userID, 9999, 1, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddMerchandiseRedemptionRules(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	newcomer := store.seedUser(500, 0)
	regular := store.seedUser(500, 100)
	shirtID := seedShirt(store, 10)
	posterID := store.seedMerchandise(model.Merchandise{
		Name: "Poster", UnitPrice: 10.0, StockQuantity: 10,
		PointsRedeemable: false,
	})

	_, err := svc.AddMerchandise(ctx, regular, posterID, 1, true)
	assert.ErrorIs(t, err, ErrNotRedeemable)

	// No purchase history yet, so no redemption.
	_, err = svc.AddMerchandise(ctx, newcomer, shirtID, 1, true)
	assert.ErrorIs(t, err, ErrNotRegularCustomer)

	_, err = svc.AddMerchandise(ctx, regular, shirtID, 1, true)
	assert.NoError(t, err)
}

func TestRemoveCartItems(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	alice := store.seedUser(0, 0)
	bob := store.seedUser(0, 0)
	eventID := store.seedEvent("Open Air")
	seatID := store.seedSeat(5000)
	shirtID := seedShirt(store, 10)

	ticket, err := svc.CreateTicket(ctx, eventID, seatID)
	require.NoError(t, err)
	_, err = svc.AddTickets(ctx, alice, []uint64{ticket.ID})
	require.NoError(t, err)
	item, err := svc.AddMerchandise(ctx, alice, shirtID, 2, false)
	require.NoError(t, err)

	// Bob cannot remove Alice's item.
	_, err = svc.Cart(ctx, bob)
	require.NoError(t, err)
	err = svc.RemoveItem(ctx, bob, item.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.RemoveItem(ctx, alice, item.ID))
	require.NoError(t, svc.RemoveTicket(ctx, alice, ticket.ID))

	detail, err := svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, detail.Items)
	// Removing a staged ticket never deletes the ticket itself.
	assert.Equal(t, 1, store.ticketCount())

	err = svc.RemoveTicket(ctx, alice, ticket.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutEmptyCart(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(0, 0)

	_, err := svc.Checkout(ctx, userID, PaymentInfo{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	// An existing but empty cart behaves the same.
	_, err = svc.Cart(ctx, userID)
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, userID, PaymentInfo{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutMixedCart(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(0, 100)
	eventID := store.seedEvent("Open Air")
	seatID := store.seedSeat(5000)
	shirtID := seedShirt(store, 10)

	ticket, err := svc.CreateTicket(ctx, eventID, seatID)
	require.NoError(t, err)
	_, err = svc.AddTickets(ctx, userID, []uint64{ticket.ID})
	require.NoError(t, err)
	_, err = svc.AddMerchandise(ctx, userID, shirtID, 2, false)
	require.NoError(t, err)

	result, err := svc.Checkout(ctx, userID, PaymentInfo{Method: "CARD"})
	require.NoError(t, err)

	require.NotNil(t, result.TicketInvoice)
	require.NotNil(t, result.MerchandiseInvoice)
	assert.Equal(t, 60.0, result.TicketInvoice.GrossTotal)
	assert.Equal(t, 50.0, result.MerchandiseInvoice.NetTotal)
	assert.Equal(t, 60.0, result.MerchandiseInvoice.GrossTotal)

	// Ticket sold, stock decremented, cart emptied.
	require.NotNil(t, store.ticket(ticket.ID).InvoiceID)
	assert.Equal(t, uint32(8), store.merch(shirtID).StockQuantity)
	assert.Equal(t, 0, store.cartItemCount())

	// Cash merch earns points; spend covers both invoices.
	user := store.user(userID)
	assert.Equal(t, int64(20), user.RewardPoints)
	assert.Equal(t, int64(100+6000+6000), user.TotalCentsSpent)
}

func TestCheckoutTicketOnlyProducesSingleInvoice(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(0, 0)
	eventID := store.seedEvent("Open Air")
	seatID := store.seedSeat(5000)

	ticket, err := svc.CreateTicket(ctx, eventID, seatID)
	require.NoError(t, err)
	_, err = svc.AddTickets(ctx, userID, []uint64{ticket.ID})
	require.NoError(t, err)

	result, err := svc.Checkout(ctx, userID, PaymentInfo{})
	require.NoError(t, err)
	assert.NotNil(t, result.TicketInvoice)
	assert.Nil(t, result.MerchandiseInvoice)
}

func TestCheckoutAbortsAtomicallyOnStock(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	alice := store.seedUser(0, 100)
	bob := store.seedUser(0, 100)
	eventID := store.seedEvent("Open Air")
	seatID := store.seedSeat(5000)
	shirtID := seedShirt(store, 3)

	ticket, err := svc.CreateTicket(ctx, eventID, seatID)
	require.NoError(t, err)
	_, err = svc.AddTickets(ctx, alice, []uint64{ticket.ID})
	require.NoError(t, err)
	_, err = svc.AddMerchandise(ctx, alice, shirtID, 3, false)
	require.NoError(t, err)

	// Bob drains the stock before Alice checks out.
	_, err = svc.AddMerchandise(ctx, bob, shirtID, 2, false)
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, bob, PaymentInfo{})
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, alice, PaymentInfo{})
	assert.ErrorIs(t, err, ErrExceedsStock)

	// Nothing of Alice's checkout happened: ticket unsold, stock
	// unchanged, counters untouched, cart intact.
	assert.Nil(t, store.ticket(ticket.ID).InvoiceID)
	assert.Equal(t, uint32(1), store.merch(shirtID).StockQuantity)
	assert.Equal(t, int64(100), store.user(alice).TotalCentsSpent)
	detail, err := svc.Cart(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 2)
}

func TestCheckoutPointsRedemption(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(600, 100)
	shirtID := seedShirt(store, 10)

	_, err := svc.AddMerchandise(ctx, userID, shirtID, 2, true)
	require.NoError(t, err)

	result, err := svc.Checkout(ctx, userID, PaymentInfo{})
	require.NoError(t, err)

	inv := result.MerchandiseInvoice
	require.NotNil(t, inv)
	// Redeemed lines carry no money amounts.
	assert.Equal(t, 0.0, inv.GrossTotal)

	user := store.user(userID)
	assert.Equal(t, int64(100), user.RewardPoints)
	// No cash spent, so the spend counter only keeps its old value.
	assert.Equal(t, int64(100), user.TotalCentsSpent)
	assert.Equal(t, uint32(8), store.merch(shirtID).StockQuantity)
}

func TestCheckoutInsufficientPoints(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(300, 100)
	shirtID := seedShirt(store, 10)

	_, err := svc.AddMerchandise(ctx, userID, shirtID, 2, true)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, userID, PaymentInfo{})
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// Balance and stock are untouched by the failed checkout.
	assert.Equal(t, int64(300), store.user(userID).RewardPoints)
	assert.Equal(t, uint32(10), store.merch(shirtID).StockQuantity)
}

func TestCheckoutRedemptionEarnsNoPoints(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(250, 100)
	shirtID := seedShirt(store, 10)

	// One redeemed, one paid: points earned only on the cash line.
	_, err := svc.AddMerchandise(ctx, userID, shirtID, 1, true)
	require.NoError(t, err)
	_, err = svc.AddMerchandise(ctx, userID, shirtID, 1, false)
	require.NoError(t, err)

	result, err := svc.Checkout(ctx, userID, PaymentInfo{})
	require.NoError(t, err)

	inv := result.MerchandiseInvoice
	require.NotNil(t, inv)
	assert.Equal(t, 25.0, inv.NetTotal)
	assert.Equal(t, 30.0, inv.GrossTotal)

	user := store.user(userID)
	// 250 - 250 redeemed + 10 earned.
	assert.Equal(t, int64(10), user.RewardPoints)
	assert.Equal(t, uint32(8), store.merch(shirtID).StockQuantity)
}

func TestCheckoutStaleTicketAborts(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	alice := store.seedUser(0, 0)
	bob := store.seedUser(0, 0)
	eventID := store.seedEvent("Open Air")
	seatID := store.seedSeat(5000)

	ticket, err := svc.CreateTicket(ctx, eventID, seatID)
	require.NoError(t, err)
	_, err = svc.AddTickets(ctx, alice, []uint64{ticket.ID})
	require.NoError(t, err)

	// Bob buys the ticket while it sits in Alice's cart.
	_, err = svc.PurchaseTickets(ctx, bob, []uint64{ticket.ID}, PaymentInfo{})
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, alice, PaymentInfo{})
	assert.ErrorIs(t, err, ErrTicketPurchased)
}

func TestAddMerchandiseQuantityWrapRejected(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(0, 0)
	shirtID := seedShirt(store, math.MaxUint32)

	_, err := svc.AddMerchandise(ctx, userID, shirtID, 10, false)
	require.NoError(t, err)

	// An add whose accumulated total wraps uint32 must not slip past the
	// stock check with a small wrapped value.
	_, err = svc.AddMerchandise(ctx, userID, shirtID, math.MaxUint32-5, false)
	assert.ErrorIs(t, err, ErrExceedsStock)
}

func TestCheckoutRepeatedRedemptions(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	userID := store.seedUser(600, 100)
	shirtID := seedShirt(store, 10)

	// Two successive redemptions each deduct the full points price.
	for i := 0; i < 2; i++ {
		_, err := svc.AddMerchandise(ctx, userID, shirtID, 1, true)
		require.NoError(t, err)
		result, err := svc.Checkout(ctx, userID, PaymentInfo{})
		require.NoError(t, err)
		require.NotNil(t, result.MerchandiseInvoice)
	}

	user := store.user(userID)
	assert.Equal(t, int64(100), user.RewardPoints)
	assert.Equal(t, uint32(8), store.merch(shirtID).StockQuantity)

	// A third redemption no longer fits the remaining balance.
	_, err := svc.AddMerchandise(ctx, userID, shirtID, 1, true)
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, userID, PaymentInfo{})
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	assert.Equal(t, int64(100), store.user(userID).RewardPoints)
	assert.Equal(t, uint32(8), store.merch(shirtID).StockQuantity)
}
