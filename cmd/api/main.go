package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/lexbill/internal/app"
	"github.com/MrJamesThe3rd/lexbill/internal/config"
	"github.com/MrJamesThe3rd/lexbill/internal/database"
	lexbillHttp "github.com/MrJamesThe3rd/lexbill/internal/http"
	invoiceHandler "github.com/MrJamesThe3rd/lexbill/internal/http/invoice"
	matchingHandler "github.com/MrJamesThe3rd/lexbill/internal/http/matching"
	reconcileHandler "github.com/MrJamesThe3rd/lexbill/internal/http/reconcile"
	"github.com/MrJamesThe3rd/lexbill/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("lexbill")
	}

	svcs, err := app.NewServices(cfg, db, m)
	if err != nil {
		slog.Error("failed to build services", "error", err)
		os.Exit(1)
	}

	var (
		invoiceH   = invoiceHandler.NewHandler(svcs.Invoices, cfg.Billing.AllowOverpaymentHeader)
		reconcileH = reconcileHandler.NewHandler(svcs.Reconcile)
		matchingH  = matchingHandler.NewHandler(svcs.Matching)
	)

	router := lexbillHttp.New(lexbillHttp.Options{
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		OverpaymentHeader: cfg.Billing.AllowOverpaymentHeader,
		Metrics:           m,
	}, invoiceH, reconcileH, matchingH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
