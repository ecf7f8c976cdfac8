// Package app wires the services shared by the API server and the TUI.
package app

import (
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/lexbill/internal/config"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/lexbill/internal/invoice/store"
	"github.com/MrJamesThe3rd/lexbill/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/lexbill/internal/matching/store"
	"github.com/MrJamesThe3rd/lexbill/internal/metrics"
	"github.com/MrJamesThe3rd/lexbill/internal/reconcile"
	"github.com/MrJamesThe3rd/lexbill/internal/statement"
	"github.com/MrJamesThe3rd/lexbill/internal/statement/cgd"
)

type Services struct {
	Invoices   *invoice.Service
	Matching   *matching.Service
	Statements *statement.Service
	Reconcile  *reconcile.Service
}

// NewServices builds the services on top of db. m may be nil.
func NewServices(cfg *config.Config, db *sql.DB, m *metrics.Metrics) (*Services, error) {
	conv, err := cfg.Converter()
	if err != nil {
		return nil, fmt.Errorf("building converter: %w", err)
	}

	rates, err := cfg.RateSource()
	if err != nil {
		return nil, fmt.Errorf("building rate source: %w", err)
	}

	invoiceOpts := []invoice.Option{
		invoice.WithConverter(conv),
		invoice.WithNumberPrefix(cfg.Billing.NumberPrefix),
	}

	var reconcileOpts []reconcile.Option

	if m != nil {
		invoiceOpts = append(invoiceOpts, invoice.WithObserver(m))
		reconcileOpts = append(reconcileOpts, reconcile.WithObserver(m))
	}

	var (
		invoiceService   = invoice.NewService(invoiceStore.New(db), rates, invoiceOpts...)
		matchingService  = matching.NewService(matchingStore.New(db))
		statementService = statement.NewService(map[statement.Bank]statement.Parser{
			statement.BankCGD: cgd.NewParser(),
		})
	)

	return &Services{
		Invoices:   invoiceService,
		Matching:   matchingService,
		Statements: statementService,
		Reconcile: reconcile.NewService(
			invoiceService,
			matchingService,
			statementService,
			cfg.Billing.NumberPrefix,
			reconcileOpts...,
		),
	}, nil
}
