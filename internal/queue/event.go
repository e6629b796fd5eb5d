// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderCompletedEvent is published when a purchase or checkout produces
// an invoice. It carries enough for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type OrderCompletedEvent struct {
	InvoiceNumber string  `json:"invoice_number"`
	UserID        uint64  `json:"user_id"`
	EventID       *uint64 `json:"event_id,omitempty"`
	TicketCount   int     `json:"ticket_count"`
	LineCount     int     `json:"line_count"`
	GrossTotal    float64 `json:"gross_total"`
	CompletedAt   string  `json:"completed_at"`
}

// ReservationCreatedEvent is published when seats are reserved.
type ReservationCreatedEvent struct {
	ReservationNumber string   `json:"reservation_number"`
	UserID            uint64   `json:"user_id"`
	EventID           uint64   `json:"event_id"`
	Seats             []string `json:"seats"`
	CreatedAt         string   `json:"created_at"`
}
