package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
)

// Status is the stored payment state of an invoice, derived from its ledger.
type Status string

const (
	StatusNew           Status = "new"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
)

// DisplayStatus is what callers show: the stored status plus read-time overlays.
type DisplayStatus string

const (
	DisplayNew           DisplayStatus = "new"
	DisplayPartiallyPaid DisplayStatus = "partially_paid"
	DisplayPaid          DisplayStatus = "paid"
	DisplayOverdue       DisplayStatus = "overdue"
	DisplaySplit         DisplayStatus = "split"
)

// Hierarchy places an invoice in the split tree. It is one of Standalone,
// SplitParent or SplitChild.
type Hierarchy interface {
	hierarchy()
}

// Standalone is an invoice that has never been split and has no parent.
type Standalone struct{}

// SplitParent is an invoice that was partitioned into children. It cannot be
// paid directly.
type SplitParent struct {
	Children []uuid.UUID
}

// SplitChild is one independently payable part of a split parent.
type SplitChild struct {
	Parent uuid.UUID
}

func (Standalone) hierarchy()  {}
func (SplitParent) hierarchy() {}
func (SplitChild) hierarchy()  {}

// Invoice is a bill issued to a client, optionally for a specific matter.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	ClientID      uuid.UUID
	MatterID      *uuid.UUID
	Hierarchy     Hierarchy

	InvoiceDate time.Time
	DueDate     time.Time

	InvoiceAmount decimal.Decimal // in InvoiceCurrency
	AmountPaid    decimal.Decimal // cached sum of the ledger
	Status        Status

	MatterCurrency  currency.Code
	InvoiceCurrency currency.Code
	// ConversionRate is nil iff MatterCurrency == InvoiceCurrency.
	ConversionRate *decimal.Decimal
	// AmountInMatterCurrency is frozen at creation; nil when not converted.
	AmountInMatterCurrency *decimal.Decimal

	Description     string
	BillingLocation string
	CreatedBy       string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// IsSplit reports whether the invoice has been partitioned into children.
func (i *Invoice) IsSplit() bool {
	_, ok := i.Hierarchy.(SplitParent)
	return ok
}

// ParentID returns the parent invoice id for split children.
func (i *Invoice) ParentID() *uuid.UUID {
	if c, ok := i.Hierarchy.(SplitChild); ok {
		return &c.Parent
	}

	return nil
}

// IsConverted reports whether the invoice is billed in a currency other than
// the matter's.
func (i *Invoice) IsConverted() bool {
	return i.MatterCurrency != i.InvoiceCurrency
}

// Payment is an immutable ledger entry against one invoice.
// PaymentMethods are the methods clerks pick from. The ledger itself accepts
// any non-empty method.
var PaymentMethods = []string{"bank_transfer", "wire", "cheque", "card", "cash"}

func KnownPaymentMethod(method string) bool {
	return lo.Contains(PaymentMethods, method)
}

type Payment struct {
	ID             uuid.UUID
	InvoiceID      uuid.UUID
	PaymentDate    time.Time
	Amount         decimal.Decimal // in the invoice currency
	PaymentMethod  string
	TransactionRef *string
	Notes          *string
	RecordedBy     string
	CreatedAt      time.Time
}

// PartnerShare is a partner's percentage of the cash collected on an invoice.
// ComputedAmount is filled on read and never stored.
type PartnerShare struct {
	InvoiceID       uuid.UUID
	PartnerID       uuid.UUID
	SharePercentage decimal.Decimal
	ComputedAmount  decimal.Decimal
}

// CurrencyBreakdown shows how an invoice amount relates to the matter value.
type CurrencyBreakdown struct {
	InvoiceID       uuid.UUID
	MatterCurrency  currency.Code
	InvoiceCurrency currency.Code
	OriginalAmount  decimal.Decimal // matter currency
	ConvertedAmount decimal.Decimal // invoice currency
	ConversionRate  *decimal.Decimal
	IsConverted     bool
}
