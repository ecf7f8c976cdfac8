package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResolveStatus derives the stored status from the ledger total. Paid is
// terminal: once current is StatusPaid it is returned unchanged.
func ResolveStatus(current Status, paid, amount decimal.Decimal) Status {
	if current == StatusPaid {
		return StatusPaid
	}

	switch {
	case paid.GreaterThanOrEqual(amount):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartiallyPaid
	default:
		return StatusNew
	}
}

// Display returns the status to show at now. Overdue overlays new and
// partially paid invoices whose due date is before today; it is never stored.
func (i *Invoice) Display(now time.Time) DisplayStatus {
	if i.IsSplit() {
		return DisplaySplit
	}

	if i.Status == StatusPaid {
		return DisplayPaid
	}

	if i.IsOverdue(now) {
		return DisplayOverdue
	}

	if i.Status == StatusPartiallyPaid {
		return DisplayPartiallyPaid
	}

	return DisplayNew
}

// IsOverdue reports whether an unpaid, payable invoice is past its due date.
// The due date is a calendar day, so an invoice due today is not overdue.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status == StatusPaid || i.IsSplit() || i.DueDate.IsZero() {
		return false
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	dy, dm, dd := i.DueDate.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())

	return due.Before(today)
}
