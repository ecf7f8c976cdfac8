package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Invoice, error)
	CreateInvoice(ctx context.Context, inv *Invoice) error
	NextInvoiceSequence(ctx context.Context) (int64, error)

	SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
	PaymentByRef(ctx context.Context, ref string) (*Payment, error)
	ListPartnerShares(ctx context.Context, invoiceID uuid.UUID) ([]PartnerShare, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx is a write transaction. LockInvoice must hold the invoice row until
// Commit or Rollback so that at most one mutation per invoice is in flight.
type Tx interface {
	LockInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	InsertPayment(ctx context.Context, p *Payment) error
	UpdateLedger(ctx context.Context, inv *Invoice) error
	CreateChildren(ctx context.Context, children []*Invoice) error
	MarkSplit(ctx context.Context, inv *Invoice) error
	ReplacePartnerShares(ctx context.Context, invoiceID uuid.UUID, shares []PartnerShare) error
	Commit() error
	Rollback() error
}

// Observer is notified after operations commit or fail.
type Observer interface {
	InvoiceCreated(inv *Invoice)
	PaymentRecorded(inv *Invoice, p *Payment)
	InvoiceSplit(parent *Invoice, children []*Invoice)
	OperationFailed(op string, err error)
}

type nopObserver struct{}

func (nopObserver) InvoiceCreated(*Invoice)            {}
func (nopObserver) PaymentRecorded(*Invoice, *Payment) {}
func (nopObserver) InvoiceSplit(*Invoice, []*Invoice)  {}
func (nopObserver) OperationFailed(string, error)      {}

type Service struct {
	repo     Repository
	rates    currency.RateSource
	conv     *currency.Converter
	observer Observer
	now      func() time.Time
	prefix   string
}

type Option func(*Service)

// WithClock replaces time.Now, used for invoice dates and the overdue overlay.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithConverter(conv *currency.Converter) Option {
	return func(s *Service) { s.conv = conv }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithNumberPrefix sets the leading segment of generated invoice numbers.
func WithNumberPrefix(prefix string) Option {
	return func(s *Service) { s.prefix = prefix }
}

func NewService(repo Repository, rates currency.RateSource, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		rates:    rates,
		conv:     currency.NewConverter(),
		observer: nopObserver{},
		now:      time.Now,
		prefix:   "INV",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Converter returns the converter used for rounding and precision checks.
func (s *Service) Converter() *currency.Converter {
	return s.conv
}

// NumberPrefix returns the leading segment of generated invoice numbers.
func (s *Service) NumberPrefix() string {
	return s.prefix
}

type CreateParams struct {
	ClientID uuid.UUID
	MatterID *uuid.UUID
	// Amount is the engagement value in MatterCurrency.
	Amount          decimal.Decimal
	MatterCurrency  string
	InvoiceCurrency string // defaults to MatterCurrency
	// Rate is the snapshot to freeze. When nil and the currencies differ the
	// RateSource is asked once.
	Rate            *decimal.Decimal
	InvoiceDate     time.Time // defaults to today
	DueDate         time.Time
	Description     string
	BillingLocation string
	CreatedBy       string
}

type ListFilter struct {
	ClientID *uuid.UUID
	MatterID *uuid.UUID
	ParentID *uuid.UUID
	Status   *Status
	// OpenOnly limits results to payable invoices that are not fully paid.
	OpenOnly bool
	// Overdue limits results to open invoices due before today.
	Overdue   bool
	DueBefore *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	inv, err := s.buildInvoice(ctx, params)
	if err != nil {
		return nil, s.fail("create", err)
	}

	seq, err := s.repo.NextInvoiceSequence(ctx)
	if err != nil {
		return nil, s.fail("create", infra("next invoice sequence", err))
	}

	inv.InvoiceNumber = s.formatNumber(inv.BillingLocation, inv.InvoiceDate, seq)

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, s.fail("create", infra("create invoice", err))
	}

	s.observer.InvoiceCreated(inv)

	return inv, nil
}

func (s *Service) buildInvoice(ctx context.Context, p CreateParams) (*Invoice, error) {
	if p.ClientID == uuid.Nil {
		return nil, newValidationError("client_id", "is required")
	}

	matterCur, err := currency.ParseCode(p.MatterCurrency)
	if err != nil {
		return nil, newValidationError("matter_currency", err.Error())
	}

	invoiceCur := matterCur
	if strings.TrimSpace(p.InvoiceCurrency) != "" {
		if invoiceCur, err = currency.ParseCode(p.InvoiceCurrency); err != nil {
			return nil, newValidationError("invoice_currency", err.Error())
		}
	}

	if !p.Amount.IsPositive() {
		return nil, newValidationError("amount", "must be greater than zero")
	}

	if !s.conv.Fits(p.Amount, matterCur) {
		return nil, newValidationError("amount", fmt.Sprintf("%s allows at most %d decimal places", matterCur, s.conv.Precision(matterCur)))
	}

	invoiceDate := p.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = s.now()
	}

	invoiceDate = truncateDay(invoiceDate)

	if p.DueDate.IsZero() {
		return nil, newValidationError("due_date", "is required")
	}

	dueDate := truncateDay(p.DueDate)
	if dueDate.Before(invoiceDate) {
		return nil, newValidationError("due_date", "must not be before the invoice date")
	}

	if strings.TrimSpace(p.CreatedBy) == "" {
		return nil, newValidationError("created_by", "is required")
	}

	inv := &Invoice{
		ClientID:        p.ClientID,
		MatterID:        p.MatterID,
		Hierarchy:       Standalone{},
		InvoiceDate:     invoiceDate,
		DueDate:         dueDate,
		InvoiceAmount:   p.Amount,
		AmountPaid:      decimal.Zero,
		Status:          StatusNew,
		MatterCurrency:  matterCur,
		InvoiceCurrency: invoiceCur,
		Description:     strings.TrimSpace(p.Description),
		BillingLocation: strings.TrimSpace(p.BillingLocation),
		CreatedBy:       strings.TrimSpace(p.CreatedBy),
	}

	if matterCur == invoiceCur {
		return inv, nil
	}

	rate, err := s.snapshotRate(ctx, p.Rate, matterCur, invoiceCur)
	if err != nil {
		return nil, err
	}

	converted, err := s.conv.Convert(p.Amount, rate, invoiceCur)
	if err != nil {
		return nil, err
	}

	if !converted.IsPositive() {
		return nil, newValidationError("amount", fmt.Sprintf("converts to zero %s", invoiceCur))
	}

	mirror := p.Amount
	inv.InvoiceAmount = converted
	inv.ConversionRate = &rate
	inv.AmountInMatterCurrency = &mirror

	return inv, nil
}

func (s *Service) snapshotRate(ctx context.Context, given *decimal.Decimal, from, to currency.Code) (decimal.Decimal, error) {
	if given != nil {
		if !given.IsPositive() {
			return decimal.Zero, &currency.InvalidRateError{Rate: *given}
		}

		return *given, nil
	}

	if s.rates == nil {
		return decimal.Zero, newValidationError("rate", fmt.Sprintf("no rate given for %s to %s", from, to))
	}

	rate, err := s.rates.Rate(ctx, from, to)
	if err != nil {
		if errors.Is(err, currency.ErrRateUnavailable) {
			return decimal.Zero, newValidationError("rate", err.Error())
		}

		return decimal.Zero, infra("lookup rate", err)
	}

	if !rate.IsPositive() {
		return decimal.Zero, &currency.InvalidRateError{Rate: rate}
	}

	return rate, nil
}

func (s *Service) formatNumber(location string, date time.Time, seq int64) string {
	parts := []string{s.prefix}

	if loc := numberSegment(location); loc != "" {
		parts = append(parts, loc)
	}

	parts = append(parts, fmt.Sprintf("%d", date.Year()), fmt.Sprintf("%05d", seq))

	return strings.Join(parts, "-")
}

// numberSegment keeps the alphanumerics of a billing location, upper-cased.
func numberSegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		}

		return -1
	}, s)
}

func (s *Service) RecordPayment(ctx context.Context, params PaymentParams) (*Payment, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, s.fail("record_payment", infra("begin transaction", err))
	}
	defer tx.Rollback()

	inv, err := tx.LockInvoice(ctx, params.InvoiceID)
	if err != nil {
		return nil, s.fail("record_payment", infra("lock invoice", err))
	}

	total, err := tx.SumPayments(ctx, inv.ID)
	if err != nil {
		return nil, s.fail("record_payment", infra("sum payments", err))
	}

	payment, newTotal, status, err := Ledger{Invoice: inv, Total: total}.Append(params, s.conv)
	if err != nil {
		return nil, s.fail("record_payment", err)
	}

	if err := tx.InsertPayment(ctx, payment); err != nil {
		return nil, s.fail("record_payment", infra("insert payment", err))
	}

	inv.AmountPaid = newTotal
	inv.Status = status

	if err := tx.UpdateLedger(ctx, inv); err != nil {
		return nil, s.fail("record_payment", infra("update ledger", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, s.fail("record_payment", infra("commit payment", err))
	}

	s.observer.PaymentRecorded(inv, payment)

	return payment, nil
}

func (s *Service) Split(ctx context.Context, parentID uuid.UUID, allocs []SplitAllocation) ([]*Invoice, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, s.fail("split", infra("begin transaction", err))
	}
	defer tx.Rollback()

	parent, err := tx.LockInvoice(ctx, parentID)
	if err != nil {
		return nil, s.fail("split", infra("lock invoice", err))
	}

	paid, err := tx.SumPayments(ctx, parent.ID)
	if err != nil {
		return nil, s.fail("split", infra("sum payments", err))
	}

	children, err := PlanSplit(parent, paid, allocs, s.conv)
	if err != nil {
		return nil, s.fail("split", err)
	}

	if err := tx.CreateChildren(ctx, children); err != nil {
		return nil, s.fail("split", infra("create children", err))
	}

	parent.Hierarchy = SplitParent{
		Children: lo.Map(children, func(c *Invoice, _ int) uuid.UUID { return c.ID }),
	}

	if err := tx.MarkSplit(ctx, parent); err != nil {
		return nil, s.fail("split", infra("mark split", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, s.fail("split", infra("commit split", err))
	}

	s.observer.InvoiceSplit(parent, children)

	return children, nil
}

func (s *Service) AllocatePartnerShares(ctx context.Context, invoiceID uuid.UUID, shares []ShareParams) error {
	records, err := ValidateShares(invoiceID, shares)
	if err != nil {
		return s.fail("allocate_shares", err)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return s.fail("allocate_shares", infra("begin transaction", err))
	}
	defer tx.Rollback()

	if _, err := tx.LockInvoice(ctx, invoiceID); err != nil {
		return s.fail("allocate_shares", infra("lock invoice", err))
	}

	if err := tx.ReplacePartnerShares(ctx, invoiceID, records); err != nil {
		return s.fail("allocate_shares", infra("replace partner shares", err))
	}

	if err := tx.Commit(); err != nil {
		return s.fail("allocate_shares", infra("commit partner shares", err))
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, infra("get invoice", err)
	}

	return inv, nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := s.repo.GetInvoiceByNumber(ctx, number)
	if err != nil {
		return nil, infra("get invoice by number", err)
	}

	return inv, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	if filter.Overdue {
		today := truncateDay(s.now())
		filter.OpenOnly = true
		filter.DueBefore = &today
	}

	invoices, err := s.repo.ListInvoices(ctx, filter)
	if err != nil {
		return nil, infra("list invoices", err)
	}

	return invoices, nil
}

// TotalPaid is the authoritative ledger sum for the invoice.
func (s *Service) TotalPaid(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.Get(ctx, invoiceID); err != nil {
		return decimal.Zero, err
	}

	total, err := s.repo.SumPayments(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, infra("sum payments", err)
	}

	return total, nil
}

func (s *Service) Remaining(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	inv, err := s.Get(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}

	total, err := s.repo.SumPayments(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, infra("sum payments", err)
	}

	return Ledger{Invoice: inv, Total: total}.Remaining(), nil
}

func (s *Service) Payments(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error) {
	if _, err := s.Get(ctx, invoiceID); err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPayments(ctx, invoiceID)
	if err != nil {
		return nil, infra("list payments", err)
	}

	return payments, nil
}

// PaymentByRef finds the payment recorded with a transaction ref on any
// invoice. Refs are unique across the ledger.
func (s *Service) PaymentByRef(ctx context.Context, ref string) (*Payment, error) {
	p, err := s.repo.PaymentByRef(ctx, ref)
	if err != nil {
		return nil, infra("get payment by ref", err)
	}

	return p, nil
}

func (s *Service) Breakdown(ctx context.Context, invoiceID uuid.UUID) (*CurrencyBreakdown, error) {
	inv, err := s.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	return BreakdownOf(inv), nil
}

// BreakdownOf reads the frozen conversion off an invoice. It never consults a
// rate source.
func BreakdownOf(inv *Invoice) *CurrencyBreakdown {
	b := &CurrencyBreakdown{
		InvoiceID:       inv.ID,
		MatterCurrency:  inv.MatterCurrency,
		InvoiceCurrency: inv.InvoiceCurrency,
		OriginalAmount:  inv.InvoiceAmount,
		ConvertedAmount: inv.InvoiceAmount,
		IsConverted:     inv.IsConverted(),
	}

	if b.IsConverted && inv.AmountInMatterCurrency != nil {
		b.OriginalAmount = *inv.AmountInMatterCurrency
		b.ConversionRate = inv.ConversionRate
	}

	return b
}

// PartnerShares returns the invoice's shares with amounts computed from the
// cash collected so far.
func (s *Service) PartnerShares(ctx context.Context, invoiceID uuid.UUID) ([]PartnerShare, error) {
	inv, err := s.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	shares, err := s.repo.ListPartnerShares(ctx, invoiceID)
	if err != nil {
		return nil, infra("list partner shares", err)
	}

	collected, err := s.collected(ctx, inv)
	if err != nil {
		return nil, err
	}

	for i := range shares {
		shares[i].ComputedAmount = ComputedAmount(collected, shares[i].SharePercentage, inv.InvoiceCurrency, s.conv)
	}

	return shares, nil
}

func (s *Service) ComputedAmount(ctx context.Context, invoiceID, partnerID uuid.UUID) (decimal.Decimal, error) {
	shares, err := s.PartnerShares(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}

	share, ok := lo.Find(shares, func(ps PartnerShare) bool { return ps.PartnerID == partnerID })
	if !ok {
		return decimal.Zero, fmt.Errorf("partner %s on invoice %s: %w", partnerID, invoiceID, ErrPartnerShareNotFound)
	}

	return share.ComputedAmount, nil
}

// collected is the cash received for an invoice. A split parent collects
// through its children.
func (s *Service) collected(ctx context.Context, inv *Invoice) (decimal.Decimal, error) {
	if _, ok := inv.Hierarchy.(SplitParent); !ok {
		return inv.AmountPaid, nil
	}

	children, err := s.repo.ListChildren(ctx, inv.ID)
	if err != nil {
		return decimal.Zero, infra("list children", err)
	}

	return lo.Reduce(children, func(acc decimal.Decimal, c *Invoice, _ int) decimal.Decimal {
		return acc.Add(c.AmountPaid)
	}, decimal.Zero), nil
}

func (s *Service) fail(op string, err error) error {
	s.observer.OperationFailed(op, err)
	return err
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
