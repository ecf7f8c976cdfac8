package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice/store"
)

var invoiceColumns = []string{
	"id", "invoice_number", "parent_invoice_id", "client_id", "matter_id",
	"invoice_date", "due_date", "invoice_amount", "amount_paid", "is_split", "status",
	"matter_currency", "invoice_currency", "currency_conversion_rate",
	"invoice_amount_in_matter_currency", "description", "billing_location", "created_by",
	"version", "created_at", "updated_at", "children",
}

type invoiceRow struct {
	id       uuid.UUID
	parentID any
	isSplit  bool
	status   string
	matter   string
	billed   string
	amount   string
	paid     string
	rate     any
	mirror   any
	children string
}

func (r invoiceRow) rows() *sqlmock.Rows {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	return sqlmock.NewRows(invoiceColumns).AddRow(
		r.id.String(), "INV-2026-00001", r.parentID, uuid.New().String(), nil,
		day, day.AddDate(0, 1, 0), r.amount, r.paid, r.isSplit, r.status,
		r.matter, r.billed, r.rate,
		r.mirror, "Retainer", "", "alice",
		int64(3), day, nil, r.children,
	)
}

func newMockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_GetInvoice(t *testing.T) {
	parentID := uuid.New()
	childA, childB := uuid.New(), uuid.New()

	type testCase struct {
		name    string
		row     *invoiceRow
		dbErr   error
		check   func(t *testing.T, inv *invoice.Invoice)
		wantErr error
	}

	tests := []testCase{
		{
			name: "ConvertedStandalone",
			row: &invoiceRow{
				status: "partially_paid", matter: "USD", billed: "INR",
				amount: "83000.00", paid: "6000.00", rate: "83.0000000000", mirror: "1000.00",
			},
			check: func(t *testing.T, inv *invoice.Invoice) {
				assert.Equal(t, invoice.Standalone{}, inv.Hierarchy)
				assert.Equal(t, invoice.StatusPartiallyPaid, inv.Status)
				assert.True(t, inv.IsConverted())
				require.NotNil(t, inv.ConversionRate)
				assert.True(t, inv.ConversionRate.Equal(decimal.NewFromInt(83)))
				require.NotNil(t, inv.AmountInMatterCurrency)
				assert.True(t, inv.AmountInMatterCurrency.Equal(decimal.NewFromInt(1000)))
				assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(6000)))
				assert.Nil(t, inv.MatterID)
				assert.Equal(t, int64(3), inv.Version)
			},
		},
		{
			name: "SplitParent",
			row: &invoiceRow{
				isSplit: true, status: "new", matter: "INR", billed: "INR",
				amount: "9000.00", paid: "0", children: childA.String() + "," + childB.String(),
			},
			check: func(t *testing.T, inv *invoice.Invoice) {
				assert.Equal(t, invoice.SplitParent{Children: []uuid.UUID{childA, childB}}, inv.Hierarchy)
				assert.Nil(t, inv.ConversionRate)
				assert.False(t, inv.IsConverted())
			},
		},
		{
			name: "SplitChild",
			row: &invoiceRow{
				parentID: parentID.String(), status: "paid", matter: "INR", billed: "INR",
				amount: "3000.00", paid: "3000.00",
			},
			check: func(t *testing.T, inv *invoice.Invoice) {
				assert.Equal(t, invoice.SplitChild{Parent: parentID}, inv.Hierarchy)
				assert.Equal(t, invoice.StatusPaid, inv.Status)
			},
		},
		{
			name:    "NotFound",
			dbErr:   nil,
			wantErr: invoice.ErrNotFound,
		},
		{
			name:    "DBError",
			dbErr:   errors.New("connection reset"),
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)

			id := uuid.New()
			exp := mock.ExpectQuery(regexp.QuoteMeta("FROM invoices i WHERE i.id = $1")).WithArgs(id)

			switch {
			case tt.row != nil:
				tt.row.id = id
				exp.WillReturnRows(tt.row.rows())
			case tt.dbErr != nil:
				exp.WillReturnError(tt.dbErr)
			default:
				exp.WillReturnRows(sqlmock.NewRows(invoiceColumns))
			}

			got, err := s.GetInvoice(context.Background(), id)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, invoice.ErrNotFound) {
					assert.ErrorIs(t, err, invoice.ErrNotFound)
				} else {
					assert.ErrorIs(t, err, tt.dbErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
				tt.check(t, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_ListInvoices(t *testing.T) {
	s, mock := newMockStore(t)

	clientID := uuid.New()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	row := invoiceRow{id: uuid.New(), status: "new", matter: "INR", billed: "INR", amount: "100.00", paid: "0"}

	mock.ExpectQuery(regexp.QuoteMeta("AND i.client_id = $1 AND i.status <> 'paid' AND NOT i.is_split AND i.due_date < $2")).
		WithArgs(clientID, today).
		WillReturnRows(row.rows())

	got, err := s.ListInvoices(context.Background(), invoice.ListFilter{
		ClientID:  &clientID,
		OpenOnly:  true,
		DueBefore: &today,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, row.id, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateInvoice(t *testing.T) {
	s, mock := newMockStore(t)

	rate := decimal.NewFromInt(83)
	mirror := decimal.NewFromInt(1000)
	inv := &invoice.Invoice{
		InvoiceNumber:          "INV-2026-00001",
		ClientID:               uuid.New(),
		Hierarchy:              invoice.Standalone{},
		InvoiceDate:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:                time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		InvoiceAmount:          decimal.NewFromInt(83000),
		AmountPaid:             decimal.Zero,
		Status:                 invoice.StatusNew,
		MatterCurrency:         "USD",
		InvoiceCurrency:        "INR",
		ConversionRate:         &rate,
		AmountInMatterCurrency: &mirror,
		CreatedBy:              "alice",
	}

	newID := uuid.New()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO invoices")).
		WithArgs(
			"INV-2026-00001", nil, inv.ClientID, nil, inv.InvoiceDate, inv.DueDate,
			sqlmock.AnyArg(), sqlmock.AnyArg(), "new", "USD", "INR",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "", "", "alice",
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at"}).AddRow(newID.String(), int64(1), created))

	require.NoError(t, s.CreateInvoice(context.Background(), inv))
	assert.Equal(t, newID, inv.ID)
	assert.Equal(t, int64(1), inv.Version)
	assert.Equal(t, created, inv.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_NextInvoiceSequence(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nextval('invoice_number_seq')")).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(42)))

	seq, err := s.NextInvoiceSequence(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_RecordPaymentFlow(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	id := uuid.New()
	row := invoiceRow{id: id, status: "new", matter: "INR", billed: "INR", amount: "10000.00", paid: "0"}
	paymentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.id = $1 FOR UPDATE OF i")).WithArgs(id).WillReturnRows(row.rows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("0"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(paymentID.String(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE invoices")).
		WithArgs(sqlmock.AnyArg(), "partially_paid", id, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(int64(4), time.Now()))
	mock.ExpectCommit()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	inv, err := tx.LockInvoice(ctx, id)
	require.NoError(t, err)

	total, err := tx.SumPayments(ctx, id)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	p := &invoice.Payment{
		InvoiceID:     id,
		PaymentDate:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(6000),
		PaymentMethod: "bank_transfer",
		RecordedBy:    "bob",
	}
	require.NoError(t, tx.InsertPayment(ctx, p))
	assert.Equal(t, paymentID, p.ID)

	inv.AmountPaid = decimal.NewFromInt(6000)
	inv.Status = invoice.StatusPartiallyPaid
	require.NoError(t, tx.UpdateLedger(ctx, inv))
	assert.Equal(t, int64(4), inv.Version)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_UpdateLedger_VersionMismatch(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE invoices")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
	mock.ExpectRollback()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	inv := &invoice.Invoice{ID: uuid.New(), Status: invoice.StatusPaid, AmountPaid: decimal.NewFromInt(10), Version: 2}

	err = tx.UpdateLedger(ctx, inv)
	assert.ErrorIs(t, err, invoice.ErrConcurrentUpdate)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_ReplacePartnerShares(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	invoiceID := uuid.New()
	shares := []invoice.PartnerShare{
		{InvoiceID: invoiceID, PartnerID: uuid.New(), SharePercentage: decimal.NewFromInt(60)},
		{InvoiceID: invoiceID, PartnerID: uuid.New(), SharePercentage: decimal.NewFromInt(40)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM partner_shares WHERE invoice_id = $1")).
		WithArgs(invoiceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	for _, ps := range shares {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO partner_shares")).
			WithArgs(invoiceID, ps.PartnerID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	mock.ExpectCommit()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.ReplacePartnerShares(ctx, invoiceID, shares))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListPayments(t *testing.T) {
	s, mock := newMockStore(t)

	invoiceID := uuid.New()
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payments")).
		WithArgs(invoiceID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "invoice_id", "payment_date", "amount", "payment_method", "transaction_ref", "notes", "recorded_by", "created_at",
		}).
			AddRow(uuid.New().String(), invoiceID.String(), day, "6000.00", "cheque", nil, "first", "bob", day).
			AddRow(uuid.New().String(), invoiceID.String(), day, "4000.00", "bank_transfer", "stmt-ab12", nil, "bob", day))

	got, err := s.ListPayments(context.Background(), invoiceID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].TransactionRef)
	require.NotNil(t, got[0].Notes)
	assert.Equal(t, "first", *got[0].Notes)
	require.NotNil(t, got[1].TransactionRef)
	assert.Equal(t, "stmt-ab12", *got[1].TransactionRef)
	assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(4000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_PaymentByRef(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	invoiceID := uuid.New()

	type args struct {
		setup func(mock sqlmock.Sqlmock)
	}

	type testCase struct {
		name    string
		args    args
		wantErr error
	}

	tests := []testCase{
		{
			name: "found on another invoice",
			args: args{
				setup: func(mock sqlmock.Sqlmock) {
					mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE transaction_ref = $1")).
						WithArgs("stmt-ab12").
						WillReturnRows(sqlmock.NewRows([]string{
							"id", "invoice_id", "payment_date", "amount", "payment_method", "transaction_ref", "notes", "recorded_by", "created_at",
						}).AddRow(uuid.New().String(), invoiceID.String(), day, "500.00", "bank_transfer", "stmt-ab12", nil, "bob", day))
				},
			},
		},
		{
			name: "not recorded",
			args: args{
				setup: func(mock sqlmock.Sqlmock) {
					mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE transaction_ref = $1")).
						WithArgs("stmt-ab12").
						WillReturnRows(sqlmock.NewRows([]string{"id"}))
				},
			},
			wantErr: invoice.ErrPaymentNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tc.args.setup(mock)

			got, err := s.PaymentByRef(context.Background(), "stmt-ab12")

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, invoiceID, got.InvoiceID)
				require.NotNil(t, got.TransactionRef)
				assert.Equal(t, "stmt-ab12", *got.TransactionRef)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTx_InsertPayment_DuplicateRef(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "payments_transaction_ref_key"})
	mock.ExpectRollback()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	ref := "WIRE-2026-118"
	err = tx.InsertPayment(ctx, &invoice.Payment{
		InvoiceID:      uuid.New(),
		PaymentDate:    time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		Amount:         decimal.NewFromInt(500),
		PaymentMethod:  "wire",
		TransactionRef: &ref,
		RecordedBy:     "bob",
	})

	var dup *invoice.DuplicateTransactionRefError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, ref, dup.Ref)
	assert.Equal(t, "duplicate_transaction_ref", invoice.Code(err))

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
