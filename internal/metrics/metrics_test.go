package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
	"github.com/MrJamesThe3rd/lexbill/internal/reconcile"
)

func TestMetrics_Observer(t *testing.T) {
	m := New("lexbill")

	inv := &invoice.Invoice{ID: uuid.New(), MatterCurrency: "USD", InvoiceCurrency: "INR"}

	m.InvoiceCreated(inv)
	m.PaymentRecorded(inv, &invoice.Payment{Amount: decimal.RequireFromString("6000.50"), PaymentMethod: "cheque"})
	m.PaymentRecorded(inv, &invoice.Payment{Amount: decimal.RequireFromString("1000"), PaymentMethod: "cheque"})
	m.InvoiceSplit(inv, make([]*invoice.Invoice, 3))
	m.OperationFailed("record_payment", &invoice.OverpaymentError{})
	m.LineReconciled(reconcile.OutcomeApplied)
	m.LineReconciled(reconcile.OutcomeApplied)
	m.LineReconciled(reconcile.OutcomeUnmatched)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesCreated.WithLabelValues("INR", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.paymentsRecorded.WithLabelValues("INR", "cheque")))
	assert.InDelta(t, 7000.5, testutil.ToFloat64(m.amountCollected.WithLabelValues("INR")), 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesSplit))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationFailures.WithLabelValues("record_payment", "overpayment")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.statementLines.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statementLines.WithLabelValues("unmatched")))
}

func TestMetrics_PaymentMethodLabelIsBounded(t *testing.T) {
	m := New("lexbill")

	inv := &invoice.Invoice{ID: uuid.New(), MatterCurrency: "EUR", InvoiceCurrency: "EUR"}

	for _, method := range []string{"wire", "crypto", "barter-1", "barter-2"} {
		m.PaymentRecorded(inv, &invoice.Payment{Amount: decimal.NewFromInt(10), PaymentMethod: method})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentsRecorded.WithLabelValues("EUR", "wire")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.paymentsRecorded.WithLabelValues("EUR", "other")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.paymentsRecorded))
}

func TestMetrics_OperationFailedInfrastructure(t *testing.T) {
	m := New("lexbill")

	m.OperationFailed("split", &invoice.InfrastructureError{Op: "commit split", Err: errors.New("eof")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationFailures.WithLabelValues("split", "infrastructure")))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New("lexbill")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/invoices/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `lexbill_http_request_duration_seconds_count{method="GET",route="/invoices/{id}",status="404"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
