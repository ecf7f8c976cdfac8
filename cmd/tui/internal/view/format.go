package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

const dbTimeout = 5 * time.Second

// FormatMoney renders an amount at the precision of its currency.
func FormatMoney(conv *currency.Converter, amount decimal.Decimal, code currency.Code) string {
	return amount.StringFixed(conv.Precision(code)) + " " + code.String()
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// statusStyle colours a display status.
func statusStyle(s invoice.DisplayStatus) string {
	color := map[invoice.DisplayStatus]string{
		invoice.DisplayNew:           "252",
		invoice.DisplayPartiallyPaid: "214",
		invoice.DisplayPaid:          "46",
		invoice.DisplayOverdue:       "196",
		invoice.DisplaySplit:         "63",
	}[s]

	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(s))
}
