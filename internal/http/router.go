package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/lexbill/internal/http/invoice"
	"github.com/MrJamesThe3rd/lexbill/internal/http/matching"
	"github.com/MrJamesThe3rd/lexbill/internal/http/reconcile"
	"github.com/MrJamesThe3rd/lexbill/internal/metrics"
)

type Options struct {
	AllowedOrigins []string
	// OverpaymentHeader is the configured header that allows overpayments.
	// Browsers may only send it if CORS lists it.
	OverpaymentHeader string
	// Metrics is optional; when nil no request metrics or /metrics route exist.
	Metrics *metrics.Metrics
}

func New(
	opts Options,
	invoicesV1 *invoice.Handler,
	reconcileV1 *reconcile.Handler,
	matchingV1 *matching.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	allowedHeaders := []string{"Accept", "Content-Type", "X-Request-ID"}
	if opts.OverpaymentHeader != "" {
		allowedHeaders = append(allowedHeaders, opts.OverpaymentHeader)
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: allowedHeaders,
		MaxAge:         300,
	}))

	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Handle("/metrics", opts.Metrics.Handler())
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/reconcile", reconcileV1.Routes)

		r.Route("/payer-mappings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			matchingV1.Routes(r)
		})
	})

	return router
}
