package model

import "time"

// Reservation is a named hold a user has placed over one or more tickets
// for a single event. It exists for as long as it owns at least one
// ticket: cancelling a reservation's last ticket deletes the reservation
// itself. There is no expiry; a reservation holds its seats until its
// owner purchases or cancels them.
//
// Fields:
//  ID        – primary key identifier.
//  Number    – business identifier handed to the customer.
//  UserID    – user who placed the hold.
//  EventID   – event the held tickets belong to.
//  CreatedAt – creation timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	Number    string    // reservations.number
	UserID    uint64    // reservations.user_id
	EventID   uint64    // reservations.event_id
	CreatedAt time.Time // reservations.created_at
}
