package model

import "time"

// Invoice is an immutable purchase record. Ticket invoices reference
// their tickets through tickets.invoice_id; merchandise purchases and
// credit reissues are stored as invoice lines. A credit invoice is a
// second invoice whose OriginalNumber points back at the invoice being
// reversed; its lines carry negated amounts and its totals are negative.
//
// Fields:
//  ID             – primary key identifier.
//  Number         – immutable business invoice number.
//  UserID         – invoice recipient.
//  EventID        – event for ticket invoices, nil for merchandise.
//  EventDate      – performance date for ticket invoices.
//  IssueDate      – when the invoice was issued.
//  OriginalNumber – number of the credited invoice, nil for purchases.
//  PaymentMethod  – opaque payment method label, pass-through only.
//  PaymentDetail  – opaque payment detail, never validated or charged.
//  NetTotal       – sum of line net amounts.
//  TaxTotal       – sum of line tax amounts.
//  GrossTotal     – sum of line gross amounts.
type Invoice struct {
	ID             uint64     // invoices.id
	Number         string     // invoices.number
	UserID         uint64     // invoices.user_id
	EventID        *uint64    // invoices.event_id (nullable)
	EventDate      *time.Time // invoices.event_date (nullable)
	IssueDate      time.Time  // invoices.issue_date
	OriginalNumber *string    // invoices.original_number (nullable)
	PaymentMethod  string     // invoices.payment_method
	PaymentDetail  string     // invoices.payment_detail
	NetTotal       float64    // invoices.net_total
	TaxTotal       float64    // invoices.tax_total
	GrossTotal     float64    // invoices.gross_total
}

// Credit reports whether this invoice reverses another one.
func (i *Invoice) Credit() bool { return i.OriginalNumber != nil }

// InvoiceLine is a priced line on an invoice: a merchandise purchase, a
// points redemption, or a negated ticket line reissued on a credit
// invoice. Redeemed lines carry zero monetary amounts and record the
// points spent instead.
//
// Fields:
//  ID                 – primary key identifier.
//  InvoiceID          – invoice the line belongs to.
//  Description        – human-readable line description.
//  Quantity           – number of units.
//  UnitPrice          – net price per unit.
//  NetAmount          – line net amount (negative on credit lines).
//  TaxRate            – tax rate for the line.
//  GrossAmount        – line gross amount (negative on credit lines).
//  MerchandiseID      – merchandise reference, nil for ticket credit lines.
//  RedeemedWithPoints – true when the line was paid in reward points.
//  PointsSpent        – points deducted for a redeemed line.
type InvoiceLine struct {
	ID                 uint64  // invoice_lines.id
	InvoiceID          uint64  // invoice_lines.invoice_id
	Description        string  // invoice_lines.description
	Quantity           uint32  // invoice_lines.quantity
	UnitPrice          float64 // invoice_lines.unit_price
	NetAmount          float64 // invoice_lines.net_amount
	TaxRate            float64 // invoice_lines.tax_rate
	GrossAmount        float64 // invoice_lines.gross_amount
	MerchandiseID      *uint64 // invoice_lines.merchandise_id (nullable)
	RedeemedWithPoints bool    // invoice_lines.redeemed_with_points
	PointsSpent        int64   // invoice_lines.points_spent
}
