package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/lexbill/internal/matching"
	"github.com/MrJamesThe3rd/lexbill/internal/reconcile"
	"github.com/MrJamesThe3rd/lexbill/internal/statement"
)

const reconcileTimeout = 2 * time.Minute

type reconcileState int

const (
	reconcileStateBankSelect reconcileState = iota
	reconcileStateFilePick
	reconcileStateRunning
	reconcileStateReport
	reconcileStateMapPayer
)

type ReconcileModel struct {
	CommonModel
	reconcileService *reconcile.Service
	matchingService  *matching.Service
	recordedBy       string

	state        reconcileState
	filePicker   filepicker.Model
	bankOptions  []statement.Bank
	bankCursor   int
	selectedBank statement.Bank

	report  *reconcile.Report
	entries list.Model
	form    *huh.Form

	status string
	err    error

	// Form bindings
	formPattern  string
	formClientID string
}

func NewReconcileModel(reconcileSvc *reconcile.Service, matchingSvc *matching.Service, recordedBy string) ReconcileModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ReconcileModel{
		reconcileService: reconcileSvc,
		matchingService:  matchingSvc,
		recordedBy:       recordedBy,
		filePicker:       fp,
		bankOptions:      []statement.Bank{statement.BankCGD},
	}
}

func (m ReconcileModel) Title() string { return "Reconcile Bank Statement" }

func (m ReconcileModel) ShortHelp() string {
	switch m.state {
	case reconcileStateReport:
		return "m: map payer of unmatched line | Esc: back"
	case reconcileStateMapPayer:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ReconcileModel) Init() tea.Cmd {
	return nil
}

func (m ReconcileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case reconcileStateBankSelect:
			return m.updateBankSelect(msg)
		case reconcileStateReport:
			return m.updateReport(msg)
		}

	case reconcileResultMsg:
		m.state = reconcileStateReport
		m.report = msg.report
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = summary(msg.report)
		}

		m.entries = newEntryList(msg.report)

		return m, nil

	case mappingSavedMsg:
		m.state = reconcileStateReport
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving mapping: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Lines containing %q now map to client %s. Re-import to apply.", msg.pattern, msg.clientID)
		}

		return m, nil
	}

	switch m.state {
	case reconcileStateFilePick:
		return m.updateFilePick(msg)
	case reconcileStateMapPayer:
		return m.updateMapPayer(msg)
	}

	return m, nil
}

func (m ReconcileModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case reconcileStateFilePick, reconcileStateReport:
		m.state = reconcileStateBankSelect
		m.report = nil
		m.err = nil
		m.status = ""

		return m, nil
	case reconcileStateMapPayer:
		m.state = reconcileStateReport
		m.form = nil

		return m, nil
	}

	return m, Back
}

func (m ReconcileModel) updateBankSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.bankCursor > 0 {
			m.bankCursor--
		}
	case tea.KeyDown:
		if m.bankCursor < len(m.bankOptions)-1 {
			m.bankCursor++
		}
	case tea.KeyEnter:
		m.selectedBank = m.bankOptions[m.bankCursor]
		m.state = reconcileStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ReconcileModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = reconcileStateRunning
		m.status = fmt.Sprintf("Reconciling %s...", path)

		return m, m.reconcileCmd(path)
	}

	return m, cmd
}

func (m ReconcileModel) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "m" {
		item, ok := m.entries.SelectedItem().(entryItem)
		if !ok || item.entry.Outcome != reconcile.OutcomeUnmatched {
			return m, nil
		}

		return m.enterMapPayer(item.entry)
	}

	var cmd tea.Cmd
	m.entries, cmd = m.entries.Update(msg)

	return m, cmd
}

func (m ReconcileModel) enterMapPayer(e reconcile.Entry) (tea.Model, tea.Cmd) {
	m.formPattern = e.Line.Description
	m.formClientID = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("pattern").
				Title("Description pattern").
				Value(&m.formPattern).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("pattern cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("client_id").
				Title("Client ID").
				Value(&m.formClientID).
				Validate(func(s string) error {
					if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("not a valid client id")
					}

					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = reconcileStateMapPayer

	return m, m.form.Init()
}

func (m ReconcileModel) updateMapPayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.learnCmd()
}

func (m ReconcileModel) View() string {
	switch m.state {
	case reconcileStateBankSelect:
		return m.viewBankSelect()
	case reconcileStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement to reconcile (%s):\n\n%s", m.selectedBank, m.filePicker.View()),
		)
	case reconcileStateRunning:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case reconcileStateReport:
		return m.viewReport()
	case reconcileStateMapPayer:
		return lipgloss.NewStyle().Padding(2).Render("Map Payer\n\n" + m.form.View())
	}

	return ""
}

func (m ReconcileModel) viewBankSelect() string {
	var sb strings.Builder

	sb.WriteString("Select Bank:\n\n")

	for i, bank := range m.bankOptions {
		cursor := " "
		if i == m.bankCursor {
			cursor = ">"
		}

		fmt.Fprintf(&sb, "%s %s\n", cursor, bank)
	}

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

func (m ReconcileModel) viewReport() string {
	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	header := lipgloss.NewStyle().Foreground(color).Render(m.status)

	if m.report == nil {
		return lipgloss.NewStyle().Padding(2).Render(header + "\n\n(Esc to go back)")
	}

	return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.entries.View())
}

func summary(r *reconcile.Report) string {
	return fmt.Sprintf("%d credit lines (%s): %d applied, %d duplicates, %d unmatched, %d rejected",
		r.Total(), r.Charset, len(r.Applied), len(r.Duplicates), len(r.Unmatched), len(r.Rejected))
}

// Messages

type reconcileResultMsg struct {
	report *reconcile.Report
	err    error
}

func (m ReconcileModel) reconcileCmd(path string) tea.Cmd {
	bank := m.selectedBank
	recordedBy := m.recordedBy

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return reconcileResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		report, err := m.reconcileService.Import(ctx, reconcile.Params{Bank: bank, RecordedBy: recordedBy}, f)

		return reconcileResultMsg{report: report, err: err}
	}
}

type mappingSavedMsg struct {
	pattern  string
	clientID uuid.UUID
	err      error
}

func (m ReconcileModel) learnCmd() tea.Cmd {
	pattern := strings.TrimSpace(m.formPattern)
	clientID := uuid.MustParse(strings.TrimSpace(m.formClientID))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.matchingService.Learn(ctx, pattern, clientID)

		return mappingSavedMsg{pattern: pattern, clientID: clientID, err: err}
	}
}

// Report entry list

type entryItem struct {
	entry reconcile.Entry
}

func (i entryItem) Title() string       { return i.entry.Line.Description }
func (i entryItem) Description() string { return i.entry.Reason }
func (i entryItem) FilterValue() string { return i.entry.Line.Description }

func newEntryList(r *reconcile.Report) list.Model {
	var items []list.Item

	if r != nil {
		for _, group := range [][]reconcile.Entry{r.Applied, r.Duplicates, r.Unmatched, r.Rejected} {
			for _, e := range group {
				items = append(items, entryItem{entry: e})
			}
		}
	}

	l := list.New(items, entryDelegate{}, 100, 20)
	l.Title = "Statement Lines"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

type entryDelegate struct{}

func (d entryDelegate) Height() int                             { return 2 }
func (d entryDelegate) Spacing() int                            { return 0 }
func (d entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(entryItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	e := item.entry

	line1 := fmt.Sprintf("%s%-10s %s  %s  %s",
		cursor, e.Outcome, FormatDate(e.Line.Date), e.Line.Amount.StringFixed(2), e.Line.Description)

	detail := e.Reason
	if e.InvoiceNumber != "" {
		detail = fmt.Sprintf("%s via %s %s", e.InvoiceNumber, e.MatchedBy, e.Reason)
	}

	fmt.Fprintf(w, "%s\n      %s\n", line1, lipgloss.NewStyle().Faint(true).Render(detail))
}
