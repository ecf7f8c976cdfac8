package reconcile_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lexbill/internal/encoding"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
	"github.com/MrJamesThe3rd/lexbill/internal/reconcile"
	"github.com/MrJamesThe3rd/lexbill/internal/statement"
)

type mocks struct {
	invoices   *reconcile.MockInvoices
	payers     *reconcile.MockPayers
	statements *reconcile.MockStatements
}

func newMocks(t *testing.T) (*mocks, *reconcile.Service) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &mocks{
		invoices:   reconcile.NewMockInvoices(ctrl),
		payers:     reconcile.NewMockPayers(ctrl),
		statements: reconcile.NewMockStatements(ctrl),
	}

	return m, reconcile.NewService(m.invoices, m.payers, m.statements, "INV")
}

func credit(desc, amount string) statement.Line {
	return statement.Line{
		Date:        time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString(amount),
		Direction:   statement.Credit,
		Description: desc,
	}
}

func openInvoice(number string) *invoice.Invoice {
	return &invoice.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: number,
		Hierarchy:     invoice.Standalone{},
		InvoiceAmount: decimal.NewFromInt(1000),
		Status:        invoice.StatusNew,
	}
}

func expectStatement(m *mocks, lines ...statement.Line) {
	m.statements.EXPECT().
		Parse(statement.BankCGD, gomock.Any()).
		Return(&statement.Statement{Bank: statement.BankCGD, Charset: encoding.UTF8, Lines: lines}, nil)
}

// expectUnrecordedRefs makes every ref lookup not already matched by an
// earlier expectation report that the line was never imported.
func expectUnrecordedRefs(m *mocks) {
	m.invoices.EXPECT().
		PaymentByRef(gomock.Any(), gomock.Any()).
		Return(nil, invoice.ErrPaymentNotFound).
		AnyTimes()
}

func TestService_Import(t *testing.T) {
	m, svc := newMocks(t)

	byNumber := credit("TRF ACME LDA INV-2026-00012", "500.00")
	byPayer := credit("TRF GLOBEX CORP", "300.00")
	unknown := credit("CASH DEPOSIT", "20.00")
	tooMuch := credit("PAGAMENTO inv-2026-00013", "5000.00")
	debit := credit("RENT", "900.00")
	debit.Direction = statement.Debit

	expectStatement(m, byNumber, byPayer, unknown, tooMuch, debit)

	inv12 := openInvoice("INV-2026-00012")
	inv13 := openInvoice("INV-2026-00013")
	globexInv := openInvoice("INV-2026-00007")

	m.invoices.EXPECT().
		PaymentByRef(gomock.Any(), byPayer.Ref()).
		Return(&invoice.Payment{ID: uuid.New(), InvoiceID: globexInv.ID}, nil)
	expectUnrecordedRefs(m)

	m.invoices.EXPECT().GetByNumber(gomock.Any(), "INV-2026-00012").Return(inv12, nil)
	m.invoices.EXPECT().
		RecordPayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p invoice.PaymentParams) (*invoice.Payment, error) {
			assert.Equal(t, inv12.ID, p.InvoiceID)
			assert.Equal(t, "bank_transfer", p.PaymentMethod)
			assert.Equal(t, "clerk", p.RecordedBy)
			require.NotNil(t, p.TransactionRef)
			assert.Equal(t, byNumber.Ref(), *p.TransactionRef)
			assert.True(t, p.Amount.Equal(decimal.NewFromInt(500)))

			return &invoice.Payment{ID: uuid.New(), InvoiceID: p.InvoiceID, Amount: p.Amount}, nil
		})

	m.payers.EXPECT().Suggest(gomock.Any(), "CASH DEPOSIT").Return(uuid.Nil, false, nil)

	m.invoices.EXPECT().GetByNumber(gomock.Any(), "INV-2026-00013").Return(inv13, nil)
	m.invoices.EXPECT().
		RecordPayment(gomock.Any(), gomock.Any()).
		Return(nil, &invoice.OverpaymentError{InvoiceID: inv13.ID})

	report, err := svc.Import(context.Background(), reconcile.Params{Bank: statement.BankCGD, RecordedBy: "clerk"}, strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total())
	assert.Equal(t, encoding.UTF8, report.Charset)

	require.Len(t, report.Applied, 1)
	assert.Equal(t, "INV-2026-00012", report.Applied[0].InvoiceNumber)
	assert.Equal(t, reconcile.MatchedByNumber, report.Applied[0].MatchedBy)
	assert.NotNil(t, report.Applied[0].PaymentID)

	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, "TRF GLOBEX CORP", report.Duplicates[0].Line.Description)
	assert.Equal(t, globexInv.ID, *report.Duplicates[0].InvoiceID)

	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, "CASH DEPOSIT", report.Unmatched[0].Line.Description)

	require.Len(t, report.Rejected, 1)
	assert.Contains(t, report.Rejected[0].Reason, "exceeds remaining balance")
}

func TestService_Import_SplitParentPaysOldestOpenChild(t *testing.T) {
	m, svc := newMocks(t)

	line := credit("INV-2026-00020", "100.00")
	expectStatement(m, line)

	parent := openInvoice("INV-2026-00020")
	child := openInvoice("INV-2026-00020-1")
	parent.Hierarchy = invoice.SplitParent{Children: []uuid.UUID{child.ID, uuid.New()}}

	expectUnrecordedRefs(m)
	m.invoices.EXPECT().GetByNumber(gomock.Any(), "INV-2026-00020").Return(parent, nil)
	m.invoices.EXPECT().
		List(gomock.Any(), invoice.ListFilter{ParentID: &parent.ID, OpenOnly: true}).
		Return([]*invoice.Invoice{child}, nil)
	m.invoices.EXPECT().
		RecordPayment(gomock.Any(), gomock.Any()).
		Return(&invoice.Payment{ID: uuid.New()}, nil)

	report, err := svc.Import(context.Background(), reconcile.Params{Bank: statement.BankCGD, RecordedBy: "clerk"}, strings.NewReader(""))
	require.NoError(t, err)
	require.Len(t, report.Applied, 1)
	assert.Equal(t, "INV-2026-00020-1", report.Applied[0].InvoiceNumber)
}

func TestService_Import_UnknownNumberFallsBackToPayer(t *testing.T) {
	m, svc := newMocks(t)

	line := credit("ACME INV-2025-99999", "100.00")
	expectStatement(m, line)

	expectUnrecordedRefs(m)
	m.invoices.EXPECT().GetByNumber(gomock.Any(), "INV-2025-99999").Return(nil, invoice.ErrNotFound)
	m.payers.EXPECT().Suggest(gomock.Any(), line.Description).Return(uuid.New(), true, nil)
	m.invoices.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	report, err := svc.Import(context.Background(), reconcile.Params{Bank: statement.BankCGD, RecordedBy: "clerk"}, strings.NewReader(""))
	require.NoError(t, err)
	assert.Len(t, report.Unmatched, 1)
}

func TestService_Import_InfrastructureErrorStops(t *testing.T) {
	m, svc := newMocks(t)

	expectStatement(m, credit("INV-2026-00001", "10.00"), credit("INV-2026-00002", "10.00"))

	dbErr := &invoice.InfrastructureError{Op: "get invoice by number", Err: errors.New("connection refused")}
	expectUnrecordedRefs(m)
	m.invoices.EXPECT().GetByNumber(gomock.Any(), "INV-2026-00001").Return(nil, dbErr)

	report, err := svc.Import(context.Background(), reconcile.Params{Bank: statement.BankCGD, RecordedBy: "clerk"}, strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	require.NotNil(t, report)
	assert.Zero(t, report.Total())
}

func TestService_Import_RequiresRecordedBy(t *testing.T) {
	_, svc := newMocks(t)

	_, err := svc.Import(context.Background(), reconcile.Params{Bank: statement.BankCGD}, strings.NewReader(""))

	var validation *invoice.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestNumberPattern(t *testing.T) {
	re := reconcile.NumberPattern("INV")

	tests := []struct {
		in   string
		want string
	}{
		{in: "TRF INV-2026-00012 ACME", want: "INV-2026-00012"},
		{in: "pagamento inv-2026-00012-2", want: "inv-2026-00012-2"},
		{in: "INV-MUMBAI-2026-00003 fees", want: "INV-MUMBAI-2026-00003"},
		{in: "INVOICE 2026", want: ""},
		{in: "XINV-2026-00012", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, re.FindString(tt.in))
		})
	}
}
