package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
	"github.com/MrJamesThe3rd/lexbill/internal/statement"
)

const paymentMethod = "bank_transfer"

//go:generate mockgen -source=service.go -destination=service_mock.go -package=reconcile
type Invoices interface {
	GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error)
	List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
	PaymentByRef(ctx context.Context, ref string) (*invoice.Payment, error)
	RecordPayment(ctx context.Context, params invoice.PaymentParams) (*invoice.Payment, error)
}

type Payers interface {
	Suggest(ctx context.Context, rawDescription string) (uuid.UUID, bool, error)
}

type Statements interface {
	Parse(bank statement.Bank, r io.Reader) (*statement.Statement, error)
}

// Observer is told the outcome of every reconciled line.
type Observer interface {
	LineReconciled(outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) LineReconciled(Outcome) {}

type Service struct {
	invoices   Invoices
	payers     Payers
	statements Statements
	observer   Observer
	numberRe   *regexp.Regexp
}

type Option func(*Service)

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService builds a reconciler that recognises invoice numbers starting
// with prefix.
func NewService(invoices Invoices, payers Payers, statements Statements, prefix string, opts ...Option) *Service {
	s := &Service{
		invoices:   invoices,
		payers:     payers,
		statements: statements,
		observer:   nopObserver{},
		numberRe:   NumberPattern(prefix),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NumberPattern matches invoice numbers of the form
// PREFIX[-LOCATION]-YYYY-NNNNN with an optional split suffix.
func NumberPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(prefix) + `(?:-[A-Z0-9]+)?-\d{4}-\d{5,}(?:-\d+)?\b`)
}

type Params struct {
	Bank       statement.Bank
	RecordedBy string
}

// Import parses a statement and records a payment for every credit line that
// can be tied to an open invoice. A partial report is returned alongside an
// infrastructure error.
func (s *Service) Import(ctx context.Context, params Params, r io.Reader) (*Report, error) {
	if strings.TrimSpace(params.RecordedBy) == "" {
		return nil, &invoice.ValidationError{Field: "recorded_by", Message: "is required"}
	}

	st, err := s.statements.Parse(params.Bank, r)
	if err != nil {
		return nil, err
	}

	report := &Report{Bank: st.Bank, Charset: st.Charset}

	for _, line := range st.Credits() {
		entry, err := s.reconcileLine(ctx, line, params.RecordedBy)
		if err != nil {
			return report, fmt.Errorf("reconciling row %d: %w", line.Row, err)
		}

		report.add(entry)
		s.observer.LineReconciled(entry.Outcome)
	}

	slog.Info("statement reconciled",
		"bank", st.Bank,
		"applied", len(report.Applied),
		"duplicates", len(report.Duplicates),
		"unmatched", len(report.Unmatched),
		"rejected", len(report.Rejected),
	)

	return report, nil
}

func (s *Service) reconcileLine(ctx context.Context, line statement.Line, recordedBy string) (Entry, error) {
	entry := Entry{Line: line, Ref: line.Ref()}

	existing, err := s.invoices.PaymentByRef(ctx, entry.Ref)

	switch {
	case err == nil:
		return duplicate(entry, existing.InvoiceID), nil
	case !errors.Is(err, invoice.ErrPaymentNotFound):
		return entry, err
	}

	target, how, err := s.findInvoice(ctx, line)
	if err != nil {
		return entry, err
	}

	if target == nil {
		entry.Outcome = OutcomeUnmatched
		entry.Reason = "no invoice number or payer mapping matched"

		return entry, nil
	}

	entry.InvoiceID = &target.ID
	entry.InvoiceNumber = target.InvoiceNumber
	entry.MatchedBy = how

	ref := entry.Ref
	notes := "Imported from statement: " + line.Description

	payment, err := s.invoices.RecordPayment(ctx, invoice.PaymentParams{
		InvoiceID:      target.ID,
		Amount:         line.Amount,
		PaymentDate:    line.Date,
		PaymentMethod:  paymentMethod,
		TransactionRef: &ref,
		Notes:          &notes,
		RecordedBy:     recordedBy,
	})

	var dup *invoice.DuplicateTransactionRefError

	switch {
	case errors.As(err, &dup):
		// Another import recorded the line between the lookup and the insert.
		return duplicate(entry, target.ID), nil
	case invoice.IsDomainError(err):
		entry.Outcome = OutcomeRejected
		entry.Reason = err.Error()

		return entry, nil
	case err != nil:
		return entry, err
	}

	entry.Outcome = OutcomeApplied
	entry.PaymentID = &payment.ID

	return entry, nil
}

func duplicate(entry Entry, invoiceID uuid.UUID) Entry {
	entry.Outcome = OutcomeDuplicate
	entry.Reason = "already recorded"
	entry.InvoiceID = &invoiceID

	return entry
}

// findInvoice resolves the invoice a credit line pays. An invoice number in
// the description wins; otherwise the payer's oldest open invoice is used.
func (s *Service) findInvoice(ctx context.Context, line statement.Line) (*invoice.Invoice, MatchedBy, error) {
	if number := s.numberRe.FindString(line.Description); number != "" {
		inv, err := s.invoices.GetByNumber(ctx, strings.ToUpper(number))

		switch {
		case err == nil:
			inv, err = s.payableTarget(ctx, inv)
			if err != nil || inv != nil {
				return inv, MatchedByNumber, err
			}
		case !errors.Is(err, invoice.ErrNotFound):
			return nil, "", err
		}
	}

	clientID, ok, err := s.payers.Suggest(ctx, line.Description)
	if err != nil || !ok {
		return nil, "", err
	}

	open, err := s.invoices.List(ctx, invoice.ListFilter{ClientID: &clientID, OpenOnly: true})
	if err != nil || len(open) == 0 {
		return nil, "", err
	}

	return open[0], MatchedByPayer, nil
}

// payableTarget redirects a split parent to its oldest open child.
func (s *Service) payableTarget(ctx context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	if !inv.IsSplit() {
		return inv, nil
	}

	children, err := s.invoices.List(ctx, invoice.ListFilter{ParentID: &inv.ID, OpenOnly: true})
	if err != nil || len(children) == 0 {
		return nil, err
	}

	return children[0], nil
}
