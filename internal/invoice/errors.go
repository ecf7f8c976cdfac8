package invoice

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
)

var (
	ErrNotFound = errors.New("invoice not found")

	ErrPartnerShareNotFound = errors.New("partner share not found")

	ErrPaymentNotFound = errors.New("payment not found")

	// ErrConcurrentUpdate is returned by stores when the optimistic version
	// check on an invoice row fails.
	ErrConcurrentUpdate = errors.New("invoice was modified concurrently")
)

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// OverpaymentError is returned when a payment would push the paid total above
// the invoice amount.
type OverpaymentError struct {
	InvoiceID     uuid.UUID
	Amount        decimal.Decimal
	Paid          decimal.Decimal
	InvoiceAmount decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s on invoice %s exceeds remaining balance %s (paid %s of %s)",
		e.Amount, e.InvoiceID, e.InvoiceAmount.Sub(e.Paid), e.Paid, e.InvoiceAmount)
}

// InvalidSplitStateError is returned when an invoice cannot be split in its
// current state.
type InvalidSplitStateError struct {
	InvoiceID uuid.UUID
	Reason    string
}

func (e *InvalidSplitStateError) Error() string {
	return fmt.Sprintf("invoice %s cannot be split: %s", e.InvoiceID, e.Reason)
}

// SplitAmountMismatchError is returned when split allocations do not add up to
// the parent amount.
type SplitAmountMismatchError struct {
	InvoiceID uuid.UUID
	Expected  decimal.Decimal
	Actual    decimal.Decimal
}

func (e *SplitAmountMismatchError) Error() string {
	return fmt.Sprintf("split allocations for invoice %s sum to %s, expected %s",
		e.InvoiceID, e.Actual, e.Expected)
}

// ParentInvoiceSplitError is returned when paying an invoice that was split.
type ParentInvoiceSplitError struct {
	InvoiceID uuid.UUID
}

func (e *ParentInvoiceSplitError) Error() string {
	return fmt.Sprintf("invoice %s has been split; record payments against its child invoices", e.InvoiceID)
}

// ShareAllocationError is returned when partner shares are not a valid
// partition of 100%.
type ShareAllocationError struct {
	InvoiceID uuid.UUID
	Total     decimal.Decimal
	Reason    string
}

func (e *ShareAllocationError) Error() string {
	return fmt.Sprintf("partner shares for invoice %s rejected (total %s%%): %s", e.InvoiceID, e.Total, e.Reason)
}

// DuplicateTransactionRefError is returned when a payment reuses a transaction
// ref already recorded on any invoice.
type DuplicateTransactionRefError struct {
	Ref string
}

func (e *DuplicateTransactionRefError) Error() string {
	return fmt.Sprintf("transaction ref %q is already recorded", e.Ref)
}

// InfrastructureError wraps persistence failures such as lost connections or
// lock contention.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// infra wraps err unless it is nil, a not-found or already a domain error.
func infra(op string, err error) error {
	if err == nil || isNotFound(err) || IsDomainError(err) {
		return err
	}

	return &InfrastructureError{Op: op, Err: err}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPartnerShareNotFound) || errors.Is(err, ErrPaymentNotFound)
}

// IsDomainError reports whether err is one of the local validation failures.
func IsDomainError(err error) bool {
	var (
		validation *ValidationError
		overpay    *OverpaymentError
		splitState *InvalidSplitStateError
		mismatch   *SplitAmountMismatchError
		parent     *ParentInvoiceSplitError
		shares     *ShareAllocationError
		rate       *currency.InvalidRateError
		duplicate  *DuplicateTransactionRefError
	)

	return errors.As(err, &validation) ||
		errors.As(err, &overpay) ||
		errors.As(err, &splitState) ||
		errors.As(err, &mismatch) ||
		errors.As(err, &parent) ||
		errors.As(err, &shares) ||
		errors.As(err, &rate) ||
		errors.As(err, &duplicate)
}

// Code is a stable, machine-readable name for err used in API responses and
// metric labels.
func Code(err error) string {
	var (
		validation *ValidationError
		overpay    *OverpaymentError
		splitState *InvalidSplitStateError
		mismatch   *SplitAmountMismatchError
		parent     *ParentInvoiceSplitError
		shares     *ShareAllocationError
		rate       *currency.InvalidRateError
		duplicate  *DuplicateTransactionRefError
		infraErr   *InfrastructureError
	)

	switch {
	case err == nil:
		return ""
	case isNotFound(err):
		return "not_found"
	case errors.As(err, &validation):
		return "validation_error"
	case errors.As(err, &overpay):
		return "overpayment"
	case errors.As(err, &splitState):
		return "invalid_split_state"
	case errors.As(err, &mismatch):
		return "split_amount_mismatch"
	case errors.As(err, &parent):
		return "parent_invoice_split"
	case errors.As(err, &shares):
		return "share_allocation"
	case errors.As(err, &rate):
		return "invalid_rate"
	case errors.As(err, &duplicate):
		return "duplicate_transaction_ref"
	case errors.Is(err, ErrConcurrentUpdate):
		return "concurrent_update"
	case errors.As(err, &infraErr):
		return "infrastructure"
	default:
		return "internal"
	}
}
