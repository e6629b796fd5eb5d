package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lukbre/ticketline/internal/model"
)

// memStore is an in-memory Store used by the engine tests. InTx
// snapshots the whole dataset before running fn and restores it when fn
// fails, giving the same all-or-nothing behavior as a database
// transaction. A mutex serializes transactions, which models the row
// locking the MySQL implementation relies on.
type memStore struct {
	mu   sync.Mutex
	data *memData
}

type memData struct {
	nextID       uint64
	seats        map[uint64]model.Seat
	events       map[uint64]model.Event
	tickets      map[uint64]model.Ticket
	reservations map[uint64]model.Reservation
	invoices     map[uint64]model.Invoice
	lines        map[uint64]model.InvoiceLine
	carts        map[uint64]model.Cart
	cartItems    map[uint64]model.CartItem
	merchandise  map[uint64]model.Merchandise
	users        map[uint64]model.User
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		seats:        map[uint64]model.Seat{},
		events:       map[uint64]model.Event{},
		tickets:      map[uint64]model.Ticket{},
		reservations: map[uint64]model.Reservation{},
		invoices:     map[uint64]model.Invoice{},
		lines:        map[uint64]model.InvoiceLine{},
		carts:        map[uint64]model.Cart{},
		cartItems:    map[uint64]model.CartItem{},
		merchandise:  map[uint64]model.Merchandise{},
		users:        map[uint64]model.User{},
	}}
}

func (s *memStore) InTx(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(&memTx{d: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (d *memData) clone() *memData {
	c := &memData{
		nextID:       d.nextID,
		seats:        map[uint64]model.Seat{},
		events:       map[uint64]model.Event{},
		tickets:      map[uint64]model.Ticket{},
		reservations: map[uint64]model.Reservation{},
		invoices:     map[uint64]model.Invoice{},
		lines:        map[uint64]model.InvoiceLine{},
		carts:        map[uint64]model.Cart{},
		cartItems:    map[uint64]model.CartItem{},
		merchandise:  map[uint64]model.Merchandise{},
		users:        map[uint64]model.User{},
	}
	for k, v := range d.seats {
		v.PriceCategoryID = copyID(v.PriceCategoryID)
		c.seats[k] = v
	}
	for k, v := range d.events {
		c.events[k] = v
	}
	for k, v := range d.tickets {
		v.ReservationID = copyID(v.ReservationID)
		v.InvoiceID = copyID(v.InvoiceID)
		c.tickets[k] = v
	}
	for k, v := range d.reservations {
		c.reservations[k] = v
	}
	for k, v := range d.invoices {
		v.EventID = copyID(v.EventID)
		if v.EventDate != nil {
			t := *v.EventDate
			v.EventDate = &t
		}
		if v.OriginalNumber != nil {
			n := *v.OriginalNumber
			v.OriginalNumber = &n
		}
		c.invoices[k] = v
	}
	for k, v := range d.lines {
		v.MerchandiseID = copyID(v.MerchandiseID)
		c.lines[k] = v
	}
	for k, v := range d.carts {
		c.carts[k] = v
	}
	for k, v := range d.cartItems {
		if v.Ticket != nil {
			t := *v.Ticket
			v.Ticket = &t
		}
		if v.Merchandise != nil {
			m := *v.Merchandise
			v.Merchandise = &m
		}
		c.cartItems[k] = v
	}
	for k, v := range d.merchandise {
		c.merchandise[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

func copyID(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// memTx implements Tx over the shared dataset.
type memTx struct {
	d *memData
}

func (t *memTx) id() uint64 {
	t.d.nextID++
	return t.d.nextID
}

func (t *memTx) SeatByID(ctx context.Context, id uint64) (*model.Seat, error) {
	s, ok := t.d.seats[id]
	if !ok {
		return nil, fmt.Errorf("seat %d: %w", id, ErrNotFound)
	}
	return &s, nil
}

func (t *memTx) EventByID(ctx context.Context, id uint64) (*model.Event, error) {
	e, ok := t.d.events[id]
	if !ok {
		return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return &e, nil
}

func (t *memTx) TicketByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	tk, ok := t.d.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	tk.ReservationID = copyID(tk.ReservationID)
	tk.InvoiceID = copyID(tk.InvoiceID)
	return &tk, nil
}

func (t *memTx) InsertTicket(ctx context.Context, tk *model.Ticket) error {
	for _, other := range t.d.tickets {
		if other.EventID == tk.EventID && other.SeatID == tk.SeatID {
			return fmt.Errorf("event %d seat %d: %w", tk.EventID, tk.SeatID, ErrSeatTaken)
		}
	}
	tk.ID = t.id()
	t.d.tickets[tk.ID] = *tk
	return nil
}

func (t *memTx) UpdateTicketBinding(ctx context.Context, ticketID uint64, reservationID, invoiceID *uint64) error {
	tk, ok := t.d.tickets[ticketID]
	if !ok {
		return fmt.Errorf("ticket %d: %w", ticketID, ErrNotFound)
	}
	tk.ReservationID = copyID(reservationID)
	tk.InvoiceID = copyID(invoiceID)
	t.d.tickets[ticketID] = tk
	return nil
}

func (t *memTx) DeleteTicket(ctx context.Context, id uint64) error {
	delete(t.d.tickets, id)
	return nil
}

func (t *memTx) ticketsWhere(match func(model.Ticket) bool) []model.Ticket {
	var out []model.Ticket
	for _, tk := range t.d.tickets {
		if match(tk) {
			tk.ReservationID = copyID(tk.ReservationID)
			tk.InvoiceID = copyID(tk.InvoiceID)
			out = append(out, tk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (t *memTx) TicketsByEvent(ctx context.Context, eventID uint64) ([]model.Ticket, error) {
	return t.ticketsWhere(func(tk model.Ticket) bool { return tk.EventID == eventID }), nil
}

func (t *memTx) TicketsByReservation(ctx context.Context, reservationID uint64) ([]model.Ticket, error) {
	return t.ticketsWhere(func(tk model.Ticket) bool {
		return tk.ReservationID != nil && *tk.ReservationID == reservationID
	}), nil
}

func (t *memTx) TicketsByInvoice(ctx context.Context, invoiceID uint64) ([]model.Ticket, error) {
	return t.ticketsWhere(func(tk model.Ticket) bool {
		return tk.InvoiceID != nil && *tk.InvoiceID == invoiceID
	}), nil
}

func (t *memTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	r.ID = t.id()
	t.d.reservations[r.ID] = *r
	return nil
}

func (t *memTx) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, ok := t.d.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	return &r, nil
}

func (t *memTx) ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range t.d.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) DeleteReservation(ctx context.Context, id uint64) error {
	delete(t.d.reservations, id)
	return nil
}

func (t *memTx) InsertInvoice(ctx context.Context, inv *model.Invoice) error {
	inv.ID = t.id()
	t.d.invoices[inv.ID] = *inv
	return nil
}

func (t *memTx) InvoiceByID(ctx context.Context, id uint64) (*model.Invoice, error) {
	inv, ok := t.d.invoices[id]
	if !ok {
		return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	return &inv, nil
}

func (t *memTx) InvoicesByUser(ctx context.Context, userID uint64) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range t.d.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) InsertInvoiceLine(ctx context.Context, line *model.InvoiceLine) error {
	line.ID = t.id()
	t.d.lines[line.ID] = *line
	return nil
}

func (t *memTx) LinesByInvoice(ctx context.Context, invoiceID uint64) ([]model.InvoiceLine, error) {
	var out []model.InvoiceLine
	for _, line := range t.d.lines {
		if line.InvoiceID == invoiceID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) CartByUser(ctx context.Context, userID uint64) (*model.Cart, error) {
	for _, c := range t.d.carts {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("cart for user %d: %w", userID, ErrNotFound)
}

func (t *memTx) InsertCart(ctx context.Context, cart *model.Cart) error {
	cart.ID = t.id()
	t.d.carts[cart.ID] = *cart
	return nil
}

func (t *memTx) CartItems(ctx context.Context, cartID uint64) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, item := range t.d.cartItems {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) CartItemByID(ctx context.Context, id uint64) (*model.CartItem, error) {
	item, ok := t.d.cartItems[id]
	if !ok {
		return nil, fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	return &item, nil
}

func (t *memTx) InsertCartItem(ctx context.Context, item *model.CartItem) error {
	item.ID = t.id()
	t.d.cartItems[item.ID] = *item
	return nil
}

func (t *memTx) UpdateCartItemQuantity(ctx context.Context, itemID uint64, quantity uint32) error {
	item, ok := t.d.cartItems[itemID]
	if !ok {
		return fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
	}
	sel := *item.Merchandise
	sel.Quantity = quantity
	item.Merchandise = &sel
	t.d.cartItems[itemID] = item
	return nil
}

func (t *memTx) DeleteCartItem(ctx context.Context, id uint64) error {
	delete(t.d.cartItems, id)
	return nil
}

func (t *memTx) MerchandiseByID(ctx context.Context, id uint64) (*model.Merchandise, error) {
	m, ok := t.d.merchandise[id]
	if !ok {
		return nil, fmt.Errorf("merchandise %d: %w", id, ErrNotFound)
	}
	return &m, nil
}

func (t *memTx) ListMerchandise(ctx context.Context) ([]model.Merchandise, error) {
	var out []model.Merchandise
	for _, m := range t.d.merchandise {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) UpdateMerchandiseStock(ctx context.Context, id uint64, stock uint32) error {
	m, ok := t.d.merchandise[id]
	if !ok {
		return fmt.Errorf("merchandise %d: %w", id, ErrNotFound)
	}
	m.StockQuantity = stock
	t.d.merchandise[id] = m
	return nil
}

func (t *memTx) UserByID(ctx context.Context, id uint64) (*model.User, error) {
	u, ok := t.d.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (t *memTx) UpdateUserCounters(ctx context.Context, id uint64, rewardPoints, totalCentsSpent int64) error {
	u, ok := t.d.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	u.RewardPoints = rewardPoints
	u.TotalCentsSpent = totalCentsSpent
	t.d.users[id] = u
	return nil
}

// Seeding helpers. IDs are handed out by the same counter inserts use.

func (s *memStore) seedUser(points, spent int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	id := s.data.nextID
	s.data.users[id] = model.User{
		ID: id, Email: fmt.Sprintf("user%d@example.com", id),
		RewardPoints: points, TotalCentsSpent: spent,
	}
	return id
}

func (s *memStore) seedEvent(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	id := s.data.nextID
	s.data.events[id] = model.Event{ID: id, Name: name}
	return id
}

func (s *memStore) seedSeat(basePriceCents uint32) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	id := s.data.nextID
	s.data.seats[id] = model.Seat{
		ID: id, SectorID: 1, RowLabel: "A", SeatNumber: uint32(id),
		BasePriceCents: basePriceCents,
	}
	return id
}

func (s *memStore) seedMerchandise(m model.Merchandise) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextID++
	m.ID = s.data.nextID
	s.data.merchandise[m.ID] = m
	return m.ID
}

func (s *memStore) ticket(id uint64) model.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.tickets[id]
}

func (s *memStore) ticketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.tickets)
}

func (s *memStore) user(id uint64) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.users[id]
}

func (s *memStore) merch(id uint64) model.Merchandise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.merchandise[id]
}

func (s *memStore) reservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.reservations)
}

func (s *memStore) cartItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.cartItems)
}
