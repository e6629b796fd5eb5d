package model

// Sector groups seats that share a location in the venue. Its
// BasePriceCents is the fallback price applied to seats without an
// assigned price category.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – sector name (e.g. "Parquet", "Balcony").
//  BasePriceCents – fallback base price in cents.
type Sector struct {
	ID             uint64 // sectors.id
	Name           string // sectors.name
	BasePriceCents uint32 // sectors.base_price_cents
}

// PriceCategory is a named base price attached to a sector. Many seats
// in the sector may share one category.
//
// Fields:
//  ID             – primary key identifier.
//  SectorID       – sector the category belongs to.
//  Name           – category name (e.g. "Standard", "Premium").
//  BasePriceCents – base price in cents used when pricing a ticket.
type PriceCategory struct {
	ID             uint64 // price_categories.id
	SectorID       uint64 // price_categories.sector_id
	Name           string // price_categories.name
	BasePriceCents uint32 // price_categories.base_price_cents
}

// Seat describes a bookable slot in a sector. Seats are immutable once
// created and are never deleted while a ticket references them. The
// BasePriceCents field is not a column: repositories resolve it on load
// from the seat's price category, falling back to the sector price when
// the seat has no category assigned.
//
// Fields:
//  ID              – primary key identifier.
//  SectorID        – sector to which this seat belongs.
//  RowLabel        – letter or string designating the row.
//  SeatNumber      – number of the seat within the row.
//  PriceCategoryID – assigned price category, nil for the sector fallback.
//  BasePriceCents  – resolved base price for ticket creation.
type Seat struct {
	ID              uint64  // seats.id
	SectorID        uint64  // seats.sector_id
	RowLabel        string  // seats.row_label
	SeatNumber      uint32  // seats.seat_number
	PriceCategoryID *uint64 // seats.price_category_id (nullable)
	BasePriceCents  uint32  // resolved, not stored
}
