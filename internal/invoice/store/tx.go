package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

const uniqueViolation = "23505"

// Tx is a write transaction over the invoice tables. Rows locked with
// LockInvoice stay locked until Commit or Rollback.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) LockInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	return getInvoice(ctx, t.tx, `i.id = $1 FOR UPDATE OF i`, id)
}

func (t *Tx) SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	return sumPayments(ctx, t.tx, invoiceID)
}

func (t *Tx) InsertPayment(ctx context.Context, p *invoice.Payment) error {
	query := `
		INSERT INTO payments (invoice_id, payment_date, amount, payment_method, transaction_ref, notes, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		p.InvoiceID,
		p.PaymentDate,
		p.Amount,
		p.PaymentMethod,
		p.TransactionRef,
		p.Notes,
		p.RecordedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if ref, ok := duplicateRef(err, p); ok {
			return &invoice.DuplicateTransactionRefError{Ref: ref}
		}

		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

// duplicateRef reports whether err is the unique violation on
// payments.transaction_ref.
func duplicateRef(err error, p *invoice.Payment) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation || p.TransactionRef == nil {
		return "", false
	}

	return *p.TransactionRef, true
}

// UpdateLedger writes the cached paid total and status. The row version must
// still match what LockInvoice read.
func (t *Tx) UpdateLedger(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET amount_paid = $1, status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
		RETURNING version, updated_at
	`

	row := t.tx.QueryRowContext(ctx, query, inv.AmountPaid, string(inv.Status), inv.ID, inv.Version)

	return scanVersion(row, inv, "updating ledger")
}

func (t *Tx) CreateChildren(ctx context.Context, children []*invoice.Invoice) error {
	for _, c := range children {
		if err := insertInvoice(ctx, t.tx, c); err != nil {
			return err
		}
	}

	return nil
}

func (t *Tx) MarkSplit(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET is_split = TRUE, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND NOT is_split
		RETURNING version, updated_at
	`

	return scanVersion(t.tx.QueryRowContext(ctx, query, inv.ID, inv.Version), inv, "marking split")
}

func scanVersion(row *sql.Row, inv *invoice.Invoice, op string) error {
	if err := row.Scan(&inv.Version, &inv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s for invoice %s: %w", op, inv.ID, invoice.ErrConcurrentUpdate)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (t *Tx) ReplacePartnerShares(ctx context.Context, invoiceID uuid.UUID, shares []invoice.PartnerShare) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM partner_shares WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("clearing partner shares: %w", err)
	}

	query := `
		INSERT INTO partner_shares (invoice_id, partner_id, share_percentage)
		VALUES ($1, $2, $3)
	`

	for _, ps := range shares {
		if _, err := t.tx.ExecContext(ctx, query, invoiceID, ps.PartnerID, ps.SharePercentage); err != nil {
			return fmt.Errorf("inserting partner share: %w", err)
		}
	}

	return nil
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
