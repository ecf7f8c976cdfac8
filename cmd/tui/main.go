package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/lexbill/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/lexbill/internal/app"
	"github.com/MrJamesThe3rd/lexbill/internal/config"
	"github.com/MrJamesThe3rd/lexbill/internal/database"
)

type model struct {
	services   *app.Services
	recordedBy string

	currentView View

	invoicesView  view.InvoicesModel
	reconcileView view.ReconcileModel
}

type View int

const (
	ViewMenu      View = 0
	ViewInvoices  View = 1
	ViewReconcile View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	svcs, err := app.NewServices(cfg, db, nil)
	if err != nil {
		slog.Error("failed to build services", "error", err)
		os.Exit(1)
	}

	recordedBy := os.Getenv("USER")
	if recordedBy == "" {
		recordedBy = "tui"
	}

	return model{
		services:      svcs,
		recordedBy:    recordedBy,
		currentView:   ViewMenu,
		invoicesView:  view.NewInvoicesModel(svcs.Invoices, recordedBy),
		reconcileView: view.NewReconcileModel(svcs.Reconcile, svcs.Matching, recordedBy),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.services.Invoices, m.recordedBy)

				return m, m.invoicesView.Init()
			case "2":
				m.currentView = ViewReconcile
				m.reconcileView = view.NewReconcileModel(m.services.Reconcile, m.services.Matching, m.recordedBy)

				return m, m.reconcileView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewReconcile:
		var newModel tea.Model
		newModel, cmd = m.reconcileView.Update(msg)
		m.reconcileView = newModel.(view.ReconcileModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"lexbill\n\n" +
				"1. Invoices & Payments\n" +
				"2. Reconcile Bank Statement\n\n" +
				"q. Quit",
		)
	case ViewInvoices:
		return frame(m.invoicesView.Title(), m.invoicesView.View(), m.invoicesView.ShortHelp())
	case ViewReconcile:
		return frame(m.reconcileView.Title(), m.reconcileView.View(), m.reconcileView.ShortHelp())
	}

	return "Unknown View"
}

func frame(title, body, help string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(title),
		body,
		lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help),
	)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
