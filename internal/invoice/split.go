package invoice

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
)

type SplitAllocation struct {
	Amount      decimal.Decimal
	DueDate     time.Time
	Description string
}

// PlanSplit checks that parent can be partitioned by allocs and returns the
// child invoices to create. paid is the parent's ledger total read under lock.
// Children are returned without ids; the store assigns them.
func PlanSplit(parent *Invoice, paid decimal.Decimal, allocs []SplitAllocation, conv *currency.Converter) ([]*Invoice, error) {
	switch parent.Hierarchy.(type) {
	case Standalone:
	case SplitParent:
		return nil, &InvalidSplitStateError{InvoiceID: parent.ID, Reason: "invoice is already split"}
	case SplitChild:
		return nil, &InvalidSplitStateError{InvoiceID: parent.ID, Reason: "split child invoices cannot be split again"}
	default:
		return nil, fmt.Errorf("invoice %s: unknown hierarchy %T", parent.ID, parent.Hierarchy)
	}

	if !paid.IsZero() || parent.Status != StatusNew {
		return nil, &InvalidSplitStateError{
			InvoiceID: parent.ID,
			Reason:    fmt.Sprintf("invoice has recorded payments (status %s, paid %s)", parent.Status, paid),
		}
	}

	if len(allocs) < 2 {
		return nil, newValidationError("allocations", "at least two allocations are required")
	}

	for i, a := range allocs {
		field := fmt.Sprintf("allocations[%d]", i)

		if !a.Amount.IsPositive() {
			return nil, newValidationError(field+".amount", "must be greater than zero")
		}

		if !conv.Fits(a.Amount, parent.InvoiceCurrency) {
			return nil, newValidationError(field+".amount",
				fmt.Sprintf("%s allows at most %d decimal places", parent.InvoiceCurrency, conv.Precision(parent.InvoiceCurrency)))
		}

		if a.DueDate.IsZero() {
			return nil, newValidationError(field+".due_date", "is required")
		}
	}

	sum := lo.Reduce(allocs, func(acc decimal.Decimal, a SplitAllocation, _ int) decimal.Decimal {
		return acc.Add(a.Amount)
	}, decimal.Zero)

	if !sum.Equal(parent.InvoiceAmount) {
		return nil, &SplitAmountMismatchError{
			InvoiceID: parent.ID,
			Expected:  parent.InvoiceAmount,
			Actual:    sum,
		}
	}

	mirrors, err := childMirrors(parent, allocs, conv)
	if err != nil {
		return nil, err
	}

	children := make([]*Invoice, len(allocs))
	for i, a := range allocs {
		desc := strings.TrimSpace(a.Description)
		if desc == "" {
			desc = fmt.Sprintf("%s (part %d of %d)", parent.Description, i+1, len(allocs))
		}

		children[i] = &Invoice{
			InvoiceNumber:          fmt.Sprintf("%s-%d", parent.InvoiceNumber, i+1),
			ClientID:               parent.ClientID,
			MatterID:               parent.MatterID,
			Hierarchy:              SplitChild{Parent: parent.ID},
			InvoiceDate:            parent.InvoiceDate,
			DueDate:                a.DueDate,
			InvoiceAmount:          a.Amount,
			AmountPaid:             decimal.Zero,
			Status:                 StatusNew,
			MatterCurrency:         parent.MatterCurrency,
			InvoiceCurrency:        parent.InvoiceCurrency,
			ConversionRate:         parent.ConversionRate,
			AmountInMatterCurrency: mirrors[i],
			Description:            desc,
			BillingLocation:        parent.BillingLocation,
			CreatedBy:              parent.CreatedBy,
		}
	}

	return children, nil
}

// childMirrors converts each allocation back to the matter currency with the
// parent's frozen rate. Every mirror starts truncated to the matter precision
// and the units left over go to the largest fractional parts, so the mirrors
// add up to the parent's mirror without any child dropping to zero.
func childMirrors(parent *Invoice, allocs []SplitAllocation, conv *currency.Converter) ([]*decimal.Decimal, error) {
	mirrors := make([]*decimal.Decimal, len(allocs))
	if parent.ConversionRate == nil || parent.AmountInMatterCurrency == nil {
		return mirrors, nil
	}

	rate := *parent.ConversionRate
	if !rate.IsPositive() {
		return nil, &currency.InvalidRateError{Rate: rate}
	}

	places := conv.Precision(parent.MatterCurrency)
	unit := decimal.New(1, -places)

	shares := make([]decimal.Decimal, len(allocs))
	fractions := make([]decimal.Decimal, len(allocs))
	assigned := decimal.Zero

	for i, a := range allocs {
		exact := a.Amount.DivRound(rate, 16)
		shares[i] = exact.RoundDown(places)
		fractions[i] = exact.Sub(shares[i])
		assigned = assigned.Add(shares[i])
	}

	order := make([]int, len(allocs))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int { return fractions[b].Cmp(fractions[a]) })

	left := parent.AmountInMatterCurrency.Sub(assigned).Div(unit).IntPart()

	for k := 0; left > 0; k++ {
		i := order[k%len(order)]
		shares[i] = shares[i].Add(unit)
		left--
	}

	for k := len(order) - 1; left < 0 && k >= 0; k-- {
		i := order[k]
		if shares[i].GreaterThan(unit) {
			shares[i] = shares[i].Sub(unit)
			left++
		}
	}

	for i := range shares {
		if left != 0 || !shares[i].IsPositive() {
			return nil, newValidationError(fmt.Sprintf("allocations[%d].amount", i),
				fmt.Sprintf("too small to carry a %s amount at rate %s", parent.MatterCurrency, rate))
		}

		mirrors[i] = &shares[i]
	}

	return mirrors, nil
}
