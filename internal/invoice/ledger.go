package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
)

type PaymentParams struct {
	InvoiceID      uuid.UUID
	Amount         decimal.Decimal
	PaymentDate    time.Time
	PaymentMethod  string
	TransactionRef *string
	Notes          *string
	RecordedBy     string
	// AllowOverpayment lets the payment push the paid total above the invoice
	// amount. Off by default.
	AllowOverpayment bool
}

// Ledger is the payment history of a single invoice as seen inside a write
// transaction. Total is the authoritative sum of the recorded payments.
type Ledger struct {
	Invoice *Invoice
	Total   decimal.Decimal
}

// Remaining is the invoice amount minus everything paid so far.
func (l Ledger) Remaining() decimal.Decimal {
	return l.Invoice.InvoiceAmount.Sub(l.Total)
}

// Append validates p against the ledger and returns the payment to store
// together with the new paid total and status.
func (l Ledger) Append(p PaymentParams, conv *currency.Converter) (*Payment, decimal.Decimal, Status, error) {
	inv := l.Invoice

	if err := payable(inv); err != nil {
		return nil, decimal.Zero, "", err
	}

	if err := validatePayment(p, inv.InvoiceCurrency, conv); err != nil {
		return nil, decimal.Zero, "", err
	}

	total := l.Total.Add(p.Amount)
	if total.GreaterThan(inv.InvoiceAmount) && !p.AllowOverpayment {
		return nil, decimal.Zero, "", &OverpaymentError{
			InvoiceID:     inv.ID,
			Amount:        p.Amount,
			Paid:          l.Total,
			InvoiceAmount: inv.InvoiceAmount,
		}
	}

	payment := &Payment{
		InvoiceID:      inv.ID,
		PaymentDate:    p.PaymentDate,
		Amount:         p.Amount,
		PaymentMethod:  strings.TrimSpace(p.PaymentMethod),
		TransactionRef: p.TransactionRef,
		Notes:          p.Notes,
		RecordedBy:     strings.TrimSpace(p.RecordedBy),
	}

	return payment, total, ResolveStatus(inv.Status, total, inv.InvoiceAmount), nil
}

// payable rejects invoices that cannot receive payments directly.
func payable(inv *Invoice) error {
	switch inv.Hierarchy.(type) {
	case Standalone, SplitChild:
		return nil
	case SplitParent:
		return &ParentInvoiceSplitError{InvoiceID: inv.ID}
	default:
		return fmt.Errorf("invoice %s: unknown hierarchy %T", inv.ID, inv.Hierarchy)
	}
}

func validatePayment(p PaymentParams, code currency.Code, conv *currency.Converter) error {
	if !p.Amount.IsPositive() {
		return newValidationError("amount", "must be greater than zero")
	}

	if !conv.Fits(p.Amount, code) {
		return newValidationError("amount", fmt.Sprintf("%s allows at most %d decimal places", code, conv.Precision(code)))
	}

	if p.PaymentDate.IsZero() {
		return newValidationError("payment_date", "is required")
	}

	if strings.TrimSpace(p.PaymentMethod) == "" {
		return newValidationError("payment_method", "is required")
	}

	if strings.TrimSpace(p.RecordedBy) == "" {
		return newValidationError("recorded_by", "is required")
	}

	return nil
}
