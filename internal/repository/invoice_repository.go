package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukbre/ticketline/internal/booking"
	"github.com/lukbre/ticketline/internal/model"
)

const invoiceColumns = `id, number, user_id, event_id, event_date, issue_date,
        original_number, payment_method, payment_detail, net_total, tax_total, gross_total`

func scanInvoice(row interface{ Scan(...any) error }) (*model.Invoice, error) {
	var (
		inv      model.Invoice
		eventID  sql.NullInt64
		evDate   sql.NullTime
		origNum  sql.NullString
		payMeth  sql.NullString
		payDeta  sql.NullString
	)
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.UserID, &eventID, &evDate, &inv.IssueDate,
		&origNum, &payMeth, &payDeta, &inv.NetTotal, &inv.TaxTotal, &inv.GrossTotal,
	)
	if err != nil {
		return nil, err
	}
	if eventID.Valid {
		v := uint64(eventID.Int64)
		inv.EventID = &v
	}
	if evDate.Valid {
		d := evDate.Time
		inv.EventDate = &d
	}
	if origNum.Valid {
		n := origNum.String
		inv.OriginalNumber = &n
	}
	inv.PaymentMethod = payMeth.String
	inv.PaymentDetail = payDeta.String
	return &inv, nil
}

// InsertInvoice creates an invoice row and populates the generated ID.
func (t *Tx) InsertInvoice(ctx context.Context, inv *model.Invoice) error {
	const q = `INSERT INTO invoices (number, user_id, event_id, event_date, issue_date,
        original_number, payment_method, payment_detail, net_total, tax_total, gross_total)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		inv.Number, inv.UserID, nullableID(inv.EventID), inv.EventDate, inv.IssueDate,
		inv.OriginalNumber, nullString(inv.PaymentMethod), nullString(inv.PaymentDetail),
		inv.NetTotal, inv.TaxTotal, inv.GrossTotal,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return nil
}

// InvoiceByID loads one invoice.
func (t *Tx) InvoiceByID(ctx context.Context, id uint64) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	inv, err := scanInvoice(t.tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoice %d: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// InvoicesByUser lists a user's invoices, newest first.
func (t *Tx) InvoicesByUser(ctx context.Context, userID uint64) ([]model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = ?
        ORDER BY issue_date DESC, id DESC`
	rows, err := t.tx.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

// InsertInvoiceLine creates one invoice line and populates the
// generated ID.
func (t *Tx) InsertInvoiceLine(ctx context.Context, line *model.InvoiceLine) error {
	const q = `INSERT INTO invoice_lines (invoice_id, description, quantity, unit_price,
        net_amount, tax_rate, gross_amount, merchandise_id, redeemed_with_points, points_spent)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		line.InvoiceID, line.Description, line.Quantity, line.UnitPrice,
		line.NetAmount, line.TaxRate, line.GrossAmount, nullableID(line.MerchandiseID),
		line.RedeemedWithPoints, line.PointsSpent,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	line.ID = uint64(id)
	return nil
}

// LinesByInvoice lists an invoice's lines in insertion order.
func (t *Tx) LinesByInvoice(ctx context.Context, invoiceID uint64) ([]model.InvoiceLine, error) {
	const q = `SELECT id, invoice_id, description, quantity, unit_price, net_amount,
        tax_rate, gross_amount, merchandise_id, redeemed_with_points, points_spent
        FROM invoice_lines WHERE invoice_id = ? ORDER BY id`
	rows, err := t.tx.QueryContext(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.InvoiceLine
	for rows.Next() {
		var (
			line    model.InvoiceLine
			merchID sql.NullInt64
		)
		err := rows.Scan(
			&line.ID, &line.InvoiceID, &line.Description, &line.Quantity,
			&line.UnitPrice, &line.NetAmount, &line.TaxRate, &line.GrossAmount,
			&merchID, &line.RedeemedWithPoints, &line.PointsSpent,
		)
		if err != nil {
			return nil, err
		}
		if merchID.Valid {
			v := uint64(merchID.Int64)
			line.MerchandiseID = &v
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
