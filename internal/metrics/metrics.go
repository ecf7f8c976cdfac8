// Package metrics exposes billing activity to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
	"github.com/MrJamesThe3rd/lexbill/internal/reconcile"
)

// Metrics implements invoice.Observer and reconcile.Observer. It keeps its
// own registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	invoicesCreated   *prometheus.CounterVec
	paymentsRecorded  *prometheus.CounterVec
	amountCollected   *prometheus.CounterVec
	invoicesSplit     prometheus.Counter
	splitChildren     prometheus.Histogram
	operationFailures *prometheus.CounterVec
	statementLines    *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		invoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_created_total",
			Help:      "Invoices created, by invoice currency and whether a conversion was frozen.",
		}, []string{"currency", "converted"}),
		paymentsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Payments appended to invoice ledgers.",
		}, []string{"currency", "method"}),
		amountCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "amount_collected_total",
			Help:      "Sum of recorded payments in invoice currency units.",
		}, []string{"currency"}),
		invoicesSplit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_split_total",
			Help:      "Invoices partitioned into child invoices.",
		}),
		splitChildren: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "split_children",
			Help:      "Number of children per split.",
			Buckets:   []float64{2, 3, 4, 6, 12},
		}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Failed invoice operations by operation and error code.",
		}, []string{"op", "code"}),
		statementLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statement_lines_total",
			Help:      "Reconciled bank statement credit lines by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.invoicesCreated,
		m.paymentsRecorded,
		m.amountCollected,
		m.invoicesSplit,
		m.splitChildren,
		m.operationFailures,
		m.statementLines,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) InvoiceCreated(inv *invoice.Invoice) {
	m.invoicesCreated.WithLabelValues(inv.InvoiceCurrency.String(), strconv.FormatBool(inv.IsConverted())).Inc()
}

func (m *Metrics) PaymentRecorded(inv *invoice.Invoice, p *invoice.Payment) {
	m.paymentsRecorded.WithLabelValues(inv.InvoiceCurrency.String(), methodLabel(p.PaymentMethod)).Inc()
	m.amountCollected.WithLabelValues(inv.InvoiceCurrency.String()).Add(p.Amount.InexactFloat64())
}

// methodLabel keeps the method label bounded to the known set.
func methodLabel(method string) string {
	if invoice.KnownPaymentMethod(method) {
		return method
	}

	return "other"
}

func (m *Metrics) InvoiceSplit(_ *invoice.Invoice, children []*invoice.Invoice) {
	m.invoicesSplit.Inc()
	m.splitChildren.Observe(float64(len(children)))
}

func (m *Metrics) OperationFailed(op string, err error) {
	m.operationFailures.WithLabelValues(op, invoice.Code(err)).Inc()
}

func (m *Metrics) LineReconciled(outcome reconcile.Outcome) {
	m.statementLines.WithLabelValues(string(outcome)).Inc()
}

// Middleware records request latency labelled by the matched chi route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
