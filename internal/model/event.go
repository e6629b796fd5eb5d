package model

import "time"

// Event is a performance that seats can be booked for. The engine only
// reads events: their administration is handled elsewhere.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – event title.
//  Description – free-form description.
//  StartsAt    – performance date, copied onto ticket invoices.
type Event struct {
	ID          uint64    // events.id
	Name        string    // events.name
	Description string    // events.description
	StartsAt    time.Time // events.starts_at
}
