package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStatePay
)

type statusFilter struct {
	label string
	apply func(f *invoice.ListFilter)
}

var statusFilters = []statusFilter{
	{label: "All", apply: func(*invoice.ListFilter) {}},
	{label: "Open", apply: func(f *invoice.ListFilter) { f.OpenOnly = true }},
	{label: "Overdue", apply: func(f *invoice.ListFilter) { f.Overdue = true }},
	{label: "New", apply: func(f *invoice.ListFilter) { f.Status = new(invoice.StatusNew) }},
	{label: "Partially Paid", apply: func(f *invoice.ListFilter) { f.Status = new(invoice.StatusPartiallyPaid) }},
	{label: "Paid", apply: func(f *invoice.ListFilter) { f.Status = new(invoice.StatusPaid) }},
}

type InvoicesModel struct {
	CommonModel
	svc *invoice.Service

	state     invoicesState
	table     table.Model
	invoices  []*invoice.Invoice
	form      *huh.Form
	filterIdx int

	loading bool
	err     error
	status  string

	// Form bindings
	formAmount     string
	formMethod     string
	formRef        string
	formRecordedBy string
	formOverpay    bool
}

func NewInvoicesModel(svc *invoice.Service, recordedBy string) InvoicesModel {
	columns := []table.Column{
		{Title: "Number", Width: 24},
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 15},
		{Title: "Amount", Width: 18},
		{Title: "Paid", Width: 18},
		{Title: "Description", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return InvoicesModel{
		svc:            svc,
		table:          t,
		loading:        true,
		formRecordedBy: recordedBy,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	if m.state == invoicesStatePay {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: record payment | s: status filter | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case paymentSavedMsg:
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Payment rejected [%s]: %v", invoice.Code(msg.err), msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Recorded %s on %s", msg.amount, msg.number)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	switch m.state {
	case invoicesStateBrowse:
		return m.updateBrowse(msg)
	case invoicesStatePay:
		return m.updatePay(msg)
	}

	return m, nil
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.filterIdx = (m.filterIdx + 1) % len(statusFilters)
			m.loading = true

			return m, m.loadCmd()
		case "p":
			return m.enterPayMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoicesModel) enterPayMode() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	if inv.IsSplit() {
		m.status = "Split invoices are paid through their children."
		return m, nil
	}

	conv := m.svc.Converter()
	remaining := invoice.Ledger{Invoice: inv, Total: inv.AmountPaid}.Remaining()

	m.formAmount = remaining.StringFixed(conv.Precision(inv.InvoiceCurrency))
	m.formMethod = invoice.PaymentMethods[0]
	m.formRef = ""
	m.formOverpay = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Amount (%s)", inv.InvoiceCurrency)).
				Value(&m.formAmount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("not a number")
					}

					if !d.IsPositive() {
						return fmt.Errorf("must be greater than zero")
					}

					if !conv.Fits(d, inv.InvoiceCurrency) {
						return fmt.Errorf("at most %d decimal places", conv.Precision(inv.InvoiceCurrency))
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("method").
				Title("Method").
				Options(huh.NewOptions(invoice.PaymentMethods...)...).
				Value(&m.formMethod),

			huh.NewInput().
				Key("ref").
				Title("Transaction reference").
				Value(&m.formRef),

			huh.NewInput().
				Key("recorded_by").
				Title("Recorded by").
				Value(&m.formRecordedBy).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("recorded by cannot be empty")
					}

					return nil
				}),

			huh.NewConfirm().
				Key("overpay").
				Title("Allow overpayment?").
				Value(&m.formOverpay),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = invoicesStatePay
	m.table.Blur()

	return m, m.form.Init()
}

func (m InvoicesModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.recordPaymentCmd()
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(r to retry, Esc to back)", m.err))
	}

	header := fmt.Sprintf("Filter: [s] %s", activeStyle(statusFilters[m.filterIdx].label))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	panel := m.detailPanel()
	if m.state == invoicesStatePay && m.form != nil {
		panel = "Record Payment\n\n" + m.form.View()
	}

	if panel != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(panel))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// detailPanel shows the currency breakdown of the selected invoice.
func (m InvoicesModel) detailPanel() string {
	inv := m.selected()
	if inv == nil {
		return ""
	}

	conv := m.svc.Converter()
	b := invoice.BreakdownOf(inv)

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n%s\n\n", inv.InvoiceNumber, statusStyle(inv.Display(m.svc.Now())))
	fmt.Fprintf(&sb, "Invoice:   %s\n", FormatMoney(conv, b.ConvertedAmount, b.InvoiceCurrency))
	fmt.Fprintf(&sb, "Paid:      %s\n", FormatMoney(conv, inv.AmountPaid, inv.InvoiceCurrency))
	fmt.Fprintf(&sb, "Remaining: %s\n", FormatMoney(conv,
		invoice.Ledger{Invoice: inv, Total: inv.AmountPaid}.Remaining(), inv.InvoiceCurrency))

	if b.IsConverted && b.ConversionRate != nil {
		fmt.Fprintf(&sb, "\nMatter:    %s\nRate:      1 %s = %s %s\n",
			FormatMoney(conv, b.OriginalAmount, b.MatterCurrency),
			b.MatterCurrency, b.ConversionRate.String(), b.InvoiceCurrency)
	}

	switch h := inv.Hierarchy.(type) {
	case invoice.SplitParent:
		fmt.Fprintf(&sb, "\nSplit into %d invoices\n", len(h.Children))
	case invoice.SplitChild:
		fmt.Fprintf(&sb, "\nPart of %s\n", h.Parent)
	}

	return sb.String()
}

func (m *InvoicesModel) refreshTable() {
	conv := m.svc.Converter()
	now := m.svc.Now()

	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.InvoiceNumber,
			FormatDate(inv.DueDate),
			string(inv.Display(now)),
			FormatMoney(conv, inv.InvoiceAmount, inv.InvoiceCurrency),
			FormatMoney(conv, inv.AmountPaid, inv.InvoiceCurrency),
			inv.Description,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	filter := invoice.ListFilter{}
	statusFilters[m.filterIdx].apply(&filter)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.svc.List(ctx, filter)

		return loadInvoicesMsg{invoices: invs, err: err}
	}
}

type paymentSavedMsg struct {
	number string
	amount string
	err    error
}

func (m InvoicesModel) recordPaymentCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	amount := decimal.RequireFromString(strings.TrimSpace(m.formAmount))
	params := invoice.PaymentParams{
		InvoiceID:        inv.ID,
		Amount:           amount,
		PaymentDate:      time.Now(),
		PaymentMethod:    m.formMethod,
		RecordedBy:       m.formRecordedBy,
		AllowOverpayment: m.formOverpay,
	}

	if ref := strings.TrimSpace(m.formRef); ref != "" {
		params.TransactionRef = &ref
	}

	label := FormatMoney(m.svc.Converter(), amount, inv.InvoiceCurrency)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.svc.RecordPayment(ctx, params)

		return paymentSavedMsg{number: inv.InvoiceNumber, amount: label, err: err}
	}
}
