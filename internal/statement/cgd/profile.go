package cgd

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/statement"
)

const cgdDateLayout = "02-01-2006"

type amountMode int

const (
	// signedAmount is one column where incoming money is positive.
	signedAmount amountMode = iota
	// debitCredit is a pair of unsigned columns, one per direction.
	debitCredit
)

// Profile is the column layout of one CGD export.
type Profile struct {
	Name       string
	DateCol    string
	DateLayout string
	DescCol    string
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string
}

func (p Profile) requiredCols() []string {
	if p.AmountMode == debitCredit {
		return []string{p.DateCol, p.DescCol, p.DebitCol, p.CreditCol}
	}

	return []string{p.DateCol, p.DescCol, p.AmountCol}
}

// movement reads the row's amount as a positive value with its direction.
// Rows without a usable non-zero amount report false.
func (p Profile) movement(cols colIndex, row []string) (decimal.Decimal, statement.Direction, bool) {
	if p.AmountMode == debitCredit {
		if amount, ok := nonZeroAmount(cellValue(row, cols[p.DebitCol])); ok {
			return amount.Abs(), statement.Debit, true
		}

		if amount, ok := nonZeroAmount(cellValue(row, cols[p.CreditCol])); ok {
			return amount.Abs(), statement.Credit, true
		}

		return decimal.Zero, "", false
	}

	amount, ok := nonZeroAmount(cellValue(row, cols[p.AmountCol]))
	if !ok {
		return decimal.Zero, "", false
	}

	if amount.IsNegative() {
		return amount.Neg(), statement.Debit, true
	}

	return amount, statement.Credit, true
}

func nonZeroAmount(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	amount, err := parseEuropeanAmount(s)
	if err != nil || amount.IsZero() {
		return decimal.Zero, false
	}

	return amount, true
}

// profiles is tried in order; the card layout has the most columns and goes
// first.
var profiles = []Profile{
	{
		Name:       "cartão",
		DateCol:    "Data",
		DateLayout: cgdDateLayout,
		DescCol:    "Descrição",
		AmountMode: debitCredit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
	},
	{
		Name:       "extrato",
		DateCol:    "Data mov.",
		DateLayout: cgdDateLayout,
		DescCol:    "Descrição",
		AmountMode: signedAmount,
		AmountCol:  "Movimento",
	},
	{
		Name:       "conta",
		DateCol:    "Data mov.",
		DateLayout: cgdDateLayout,
		DescCol:    "Descrição",
		AmountMode: signedAmount,
		AmountCol:  "Montante",
	},
}
