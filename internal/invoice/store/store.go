package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectInvoiceColumns = `
	i.id, i.invoice_number, i.parent_invoice_id, i.client_id, i.matter_id,
	i.invoice_date, i.due_date, i.invoice_amount, i.amount_paid, i.is_split, i.status,
	i.matter_currency, i.invoice_currency, i.currency_conversion_rate,
	i.invoice_amount_in_matter_currency, i.description, i.billing_location, i.created_by,
	i.version, i.created_at, i.updated_at,
	COALESCE(array_to_string(ARRAY(
		SELECT c.id::text FROM invoices c WHERE c.parent_invoice_id = i.id ORDER BY c.invoice_number
	), ','), '') AS children
`

// scanInvoice reads a row selected with selectInvoiceColumns.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var (
		inv               invoice.Invoice
		parentID          *uuid.UUID
		isSplit           bool
		status            string
		matterCur, invCur string
		rate, mirror      decimal.NullDecimal
		children          string
	)

	if err := s.Scan(
		&inv.ID, &inv.InvoiceNumber, &parentID, &inv.ClientID, &inv.MatterID,
		&inv.InvoiceDate, &inv.DueDate, &inv.InvoiceAmount, &inv.AmountPaid, &isSplit, &status,
		&matterCur, &invCur, &rate,
		&mirror, &inv.Description, &inv.BillingLocation, &inv.CreatedBy,
		&inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
		&children,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(status)
	inv.MatterCurrency = currency.Code(strings.TrimSpace(matterCur))
	inv.InvoiceCurrency = currency.Code(strings.TrimSpace(invCur))

	if rate.Valid {
		inv.ConversionRate = &rate.Decimal
	}

	if mirror.Valid {
		inv.AmountInMatterCurrency = &mirror.Decimal
	}

	h, err := hierarchy(parentID, isSplit, children)
	if err != nil {
		return nil, err
	}

	inv.Hierarchy = h

	return &inv, nil
}

func hierarchy(parentID *uuid.UUID, isSplit bool, children string) (invoice.Hierarchy, error) {
	switch {
	case parentID != nil:
		return invoice.SplitChild{Parent: *parentID}, nil
	case isSplit:
		var ids []uuid.UUID

		for raw := range strings.SplitSeq(children, ",") {
			if raw == "" {
				continue
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing child id %q: %w", raw, err)
			}

			ids = append(ids, id)
		}

		return invoice.SplitParent{Children: ids}, nil
	default:
		return invoice.Standalone{}, nil
	}
}

func getInvoice(ctx context.Context, q querier, where string, args ...any) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices i WHERE ` + where

	inv, err := scanInvoice(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	return getInvoice(ctx, s.db, `i.id = $1`, id)
}

func (s *Store) GetInvoiceByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	return getInvoice(ctx, s.db, `i.invoice_number = $1`, number)
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices i WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND i.client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.MatterID != nil {
		query += fmt.Sprintf(" AND i.matter_id = $%d", argIdx)

		args = append(args, *filter.MatterID)
		argIdx++
	}

	if filter.ParentID != nil {
		query += fmt.Sprintf(" AND i.parent_invoice_id = $%d", argIdx)

		args = append(args, *filter.ParentID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND i.status = $%d", argIdx)

		args = append(args, string(*filter.Status))
		argIdx++
	}

	if filter.OpenOnly {
		query += " AND i.status <> 'paid' AND NOT i.is_split"
	}

	if filter.DueBefore != nil {
		query += fmt.Sprintf(" AND i.due_date < $%d", argIdx)

		args = append(args, *filter.DueBefore)
	}

	query += " ORDER BY i.invoice_date ASC, i.invoice_number ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invoices, nil
}

func (s *Store) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*invoice.Invoice, error) {
	return s.ListInvoices(ctx, invoice.ListFilter{ParentID: &parentID})
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	return insertInvoice(ctx, s.db, inv)
}

func insertInvoice(ctx context.Context, q querier, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			invoice_number, parent_invoice_id, client_id, matter_id, invoice_date, due_date,
			invoice_amount, amount_paid, status, matter_currency, invoice_currency,
			currency_conversion_rate, invoice_amount_in_matter_currency,
			description, billing_location, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		RETURNING id, version, created_at
	`

	err := q.QueryRowContext(ctx, query,
		inv.InvoiceNumber,
		inv.ParentID(),
		inv.ClientID,
		inv.MatterID,
		inv.InvoiceDate,
		inv.DueDate,
		inv.InvoiceAmount,
		inv.AmountPaid,
		string(inv.Status),
		inv.MatterCurrency.String(),
		inv.InvoiceCurrency.String(),
		nullDecimal(inv.ConversionRate),
		nullDecimal(inv.AmountInMatterCurrency),
		inv.Description,
		inv.BillingLocation,
		inv.CreatedBy,
	).Scan(&inv.ID, &inv.Version, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice %s: %w", inv.InvoiceNumber, err)
	}

	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (s *Store) NextInvoiceSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("reading invoice sequence: %w", err)
	}

	return seq, nil
}

func sumPayments(ctx context.Context, q querier, invoiceID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`

	var total decimal.Decimal
	if err := q.QueryRowContext(ctx, query, invoiceID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing payments: %w", err)
	}

	return total, nil
}

func (s *Store) SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	return sumPayments(ctx, s.db, invoiceID)
}

const selectPaymentColumns = `
	id, invoice_id, payment_date, amount, payment_method, transaction_ref, notes, recorded_by, created_at
`

func scanPayment(sc scanner) (*invoice.Payment, error) {
	var (
		p          invoice.Payment
		ref, notes sql.NullString
	)

	if err := sc.Scan(
		&p.ID, &p.InvoiceID, &p.PaymentDate, &p.Amount, &p.PaymentMethod,
		&ref, &notes, &p.RecordedBy, &p.CreatedAt,
	); err != nil {
		return nil, err
	}

	if ref.Valid {
		p.TransactionRef = &ref.String
	}

	if notes.Valid {
		p.Notes = &notes.String
	}

	return &p, nil
}

func (s *Store) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*invoice.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + `
		FROM payments
		WHERE invoice_id = $1
		ORDER BY payment_date ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*invoice.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return payments, nil
}

// PaymentByRef finds the payment carrying ref on any invoice.
func (s *Store) PaymentByRef(ctx context.Context, ref string) (*invoice.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE transaction_ref = $1`

	p, err := scanPayment(s.db.QueryRowContext(ctx, query, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrPaymentNotFound
		}

		return nil, fmt.Errorf("getting payment by ref: %w", err)
	}

	return p, nil
}

func (s *Store) ListPartnerShares(ctx context.Context, invoiceID uuid.UUID) ([]invoice.PartnerShare, error) {
	query := `
		SELECT invoice_id, partner_id, share_percentage
		FROM partner_shares
		WHERE invoice_id = $1
		ORDER BY share_percentage DESC, partner_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing partner shares: %w", err)
	}
	defer rows.Close()

	var shares []invoice.PartnerShare

	for rows.Next() {
		var ps invoice.PartnerShare
		if err := rows.Scan(&ps.InvoiceID, &ps.PartnerID, &ps.SharePercentage); err != nil {
			return nil, fmt.Errorf("scanning partner share: %w", err)
		}

		shares = append(shares, ps)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating partner shares: %w", err)
	}

	return shares, nil
}

func (s *Store) Begin(ctx context.Context) (invoice.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &Tx{tx: tx}, nil
}
