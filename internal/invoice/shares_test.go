package invoice_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

func shares(pcts ...string) []invoice.ShareParams {
	out := make([]invoice.ShareParams, len(pcts))
	for i, p := range pcts {
		out[i] = invoice.ShareParams{PartnerID: uuid.New(), Percentage: dec(p)}
	}

	return out
}

func TestValidateShares(t *testing.T) {
	dup := shares("50", "50")
	dup[1].PartnerID = dup[0].PartnerID

	nilPartner := shares("100")
	nilPartner[0].PartnerID = uuid.Nil

	tests := []struct {
		name    string
		shares  []invoice.ShareParams
		wantErr error
	}{
		{name: "SumsTo100", shares: shares("60", "30", "10")},
		{name: "WithinTolerance", shares: shares("33.33", "33.33", "33.33")},
		{name: "SinglePartner", shares: shares("100")},
		{name: "SumsTo99", shares: shares("60", "30", "9"), wantErr: &invoice.ShareAllocationError{}},
		{name: "SumsTo101", shares: shares("60", "30", "11"), wantErr: &invoice.ShareAllocationError{}},
		{name: "Empty", shares: nil, wantErr: &invoice.ShareAllocationError{}},
		{name: "ZeroShare", shares: shares("100", "0"), wantErr: &invoice.ShareAllocationError{}},
		{name: "NegativeShare", shares: shares("110", "-10"), wantErr: &invoice.ShareAllocationError{}},
		{name: "Duplicate", shares: dup, wantErr: &invoice.ShareAllocationError{}},
		{name: "NilPartner", shares: nilPartner, wantErr: &invoice.ValidationError{}},
	}

	invoiceID := uuid.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := invoice.ValidateShares(invoiceID, tt.shares)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.IsType(t, tt.wantErr, err)

				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.shares))

			for i, s := range got {
				assert.Equal(t, invoiceID, s.InvoiceID)
				assert.Equal(t, tt.shares[i].PartnerID, s.PartnerID)
				assert.True(t, s.SharePercentage.Equal(tt.shares[i].Percentage))
			}
		})
	}
}

func TestComputedAmount(t *testing.T) {
	conv := currency.NewConverter()

	assertDecimal(t, "600", invoice.ComputedAmount(dec("1000"), dec("60"), "USD", conv))
	assertDecimal(t, "333.3", invoice.ComputedAmount(dec("1000"), dec("33.33"), "USD", conv))
	assertDecimal(t, "333", invoice.ComputedAmount(dec("1000"), dec("33.33"), "JPY", conv))
	assertDecimal(t, "0", invoice.ComputedAmount(dec("0"), dec("50"), "INR", conv))
}
