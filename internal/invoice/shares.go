package invoice

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
)

var (
	hundred        = decimal.NewFromInt(100)
	shareTolerance = decimal.RequireFromString("0.01")
)

type ShareParams struct {
	PartnerID  uuid.UUID
	Percentage decimal.Decimal
}

// ValidateShares checks that shares partition 100% of an invoice within the
// 0.01 tolerance and returns them as PartnerShare records.
func ValidateShares(invoiceID uuid.UUID, shares []ShareParams) ([]PartnerShare, error) {
	total := lo.Reduce(shares, func(acc decimal.Decimal, s ShareParams, _ int) decimal.Decimal {
		return acc.Add(s.Percentage)
	}, decimal.Zero)

	if len(shares) == 0 {
		return nil, &ShareAllocationError{InvoiceID: invoiceID, Total: total, Reason: "no partner shares given"}
	}

	for _, s := range shares {
		if s.PartnerID == uuid.Nil {
			return nil, newValidationError("partner_id", "is required")
		}

		if !s.Percentage.IsPositive() || s.Percentage.GreaterThan(hundred) {
			return nil, &ShareAllocationError{
				InvoiceID: invoiceID,
				Total:     total,
				Reason:    fmt.Sprintf("share for partner %s must be in (0, 100], got %s", s.PartnerID, s.Percentage),
			}
		}
	}

	ids := lo.Map(shares, func(s ShareParams, _ int) uuid.UUID { return s.PartnerID })
	if dups := lo.FindDuplicates(ids); len(dups) > 0 {
		return nil, &ShareAllocationError{
			InvoiceID: invoiceID,
			Total:     total,
			Reason:    fmt.Sprintf("partner %s listed more than once", dups[0]),
		}
	}

	if total.Sub(hundred).Abs().GreaterThan(shareTolerance) {
		return nil, &ShareAllocationError{InvoiceID: invoiceID, Total: total, Reason: "shares must sum to 100"}
	}

	return lo.Map(shares, func(s ShareParams, _ int) PartnerShare {
		return PartnerShare{
			InvoiceID:       invoiceID,
			PartnerID:       s.PartnerID,
			SharePercentage: s.Percentage,
		}
	}), nil
}

// ComputedAmount is the partner's part of the cash collected, rounded to the
// invoice currency.
func ComputedAmount(collected, percentage decimal.Decimal, code currency.Code, conv *currency.Converter) decimal.Decimal {
	return conv.Round(collected.Mul(percentage).Div(hundred), code)
}
