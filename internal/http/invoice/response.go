package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/currency"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

type invoiceResponse struct {
	ID                     uuid.UUID             `json:"id"`
	InvoiceNumber          string                `json:"invoice_number"`
	ClientID               uuid.UUID             `json:"client_id"`
	MatterID               *uuid.UUID            `json:"matter_id,omitempty"`
	ParentID               *uuid.UUID            `json:"parent_id,omitempty"`
	Children               []uuid.UUID           `json:"children,omitempty"`
	InvoiceDate            string                `json:"invoice_date"`
	DueDate                string                `json:"due_date"`
	InvoiceCurrency        currency.Code         `json:"invoice_currency"`
	MatterCurrency         currency.Code         `json:"matter_currency"`
	InvoiceAmount          string                `json:"invoice_amount"`
	AmountPaid             string                `json:"amount_paid"`
	Remaining              string                `json:"remaining"`
	AmountInMatterCurrency *string               `json:"amount_in_matter_currency,omitempty"`
	ConversionRate         *string               `json:"conversion_rate,omitempty"`
	Status                 invoice.Status        `json:"status"`
	DisplayStatus          invoice.DisplayStatus `json:"display_status"`
	Description            string                `json:"description,omitempty"`
	BillingLocation        string                `json:"billing_location,omitempty"`
	CreatedBy              string                `json:"created_by"`
	Version                int64                 `json:"version"`
	CreatedAt              time.Time             `json:"created_at"`
	UpdatedAt              *time.Time            `json:"updated_at,omitempty"`
}

type paymentResponse struct {
	ID             uuid.UUID `json:"id"`
	InvoiceID      uuid.UUID `json:"invoice_id"`
	PaymentDate    string    `json:"payment_date"`
	Amount         string    `json:"amount"`
	PaymentMethod  string    `json:"payment_method"`
	TransactionRef *string   `json:"transaction_ref,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	RecordedBy     string    `json:"recorded_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type breakdownResponse struct {
	InvoiceID       uuid.UUID     `json:"invoice_id"`
	MatterCurrency  currency.Code `json:"matter_currency"`
	InvoiceCurrency currency.Code `json:"invoice_currency"`
	OriginalAmount  string        `json:"original_amount"`
	ConvertedAmount string        `json:"converted_amount"`
	ConversionRate  *string       `json:"conversion_rate,omitempty"`
	IsConverted     bool          `json:"is_converted"`
}

type partnerShareResponse struct {
	PartnerID       uuid.UUID `json:"partner_id"`
	SharePercentage string    `json:"share_percentage"`
	ComputedAmount  string    `json:"computed_amount"`
}

func (h *Handler) money(amount decimal.Decimal, code currency.Code) string {
	return amount.StringFixed(h.svc.Converter().Precision(code))
}

func (h *Handler) toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID,
		MatterID:        inv.MatterID,
		ParentID:        inv.ParentID(),
		InvoiceDate:     inv.InvoiceDate.Format(time.DateOnly),
		DueDate:         inv.DueDate.Format(time.DateOnly),
		InvoiceCurrency: inv.InvoiceCurrency,
		MatterCurrency:  inv.MatterCurrency,
		InvoiceAmount:   h.money(inv.InvoiceAmount, inv.InvoiceCurrency),
		AmountPaid:      h.money(inv.AmountPaid, inv.InvoiceCurrency),
		Remaining:       h.money(invoice.Ledger{Invoice: inv, Total: inv.AmountPaid}.Remaining(), inv.InvoiceCurrency),
		Status:          inv.Status,
		DisplayStatus:   inv.Display(h.svc.Now()),
		Description:     inv.Description,
		BillingLocation: inv.BillingLocation,
		CreatedBy:       inv.CreatedBy,
		Version:         inv.Version,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}

	if p, ok := inv.Hierarchy.(invoice.SplitParent); ok {
		resp.Children = p.Children
	}

	if inv.AmountInMatterCurrency != nil {
		resp.AmountInMatterCurrency = new(h.money(*inv.AmountInMatterCurrency, inv.MatterCurrency))
	}

	if inv.ConversionRate != nil {
		resp.ConversionRate = new(inv.ConversionRate.String())
	}

	return resp
}

func (h *Handler) toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	return lo.Map(invs, func(inv *invoice.Invoice, _ int) invoiceResponse { return h.toResponse(inv) })
}

func (h *Handler) toPaymentResponse(p *invoice.Payment, code currency.Code) paymentResponse {
	return paymentResponse{
		ID:             p.ID,
		InvoiceID:      p.InvoiceID,
		PaymentDate:    p.PaymentDate.Format(time.DateOnly),
		Amount:         h.money(p.Amount, code),
		PaymentMethod:  p.PaymentMethod,
		TransactionRef: p.TransactionRef,
		Notes:          p.Notes,
		RecordedBy:     p.RecordedBy,
		CreatedAt:      p.CreatedAt,
	}
}

func (h *Handler) toBreakdownResponse(b *invoice.CurrencyBreakdown) breakdownResponse {
	resp := breakdownResponse{
		InvoiceID:       b.InvoiceID,
		MatterCurrency:  b.MatterCurrency,
		InvoiceCurrency: b.InvoiceCurrency,
		OriginalAmount:  h.money(b.OriginalAmount, b.MatterCurrency),
		ConvertedAmount: h.money(b.ConvertedAmount, b.InvoiceCurrency),
		IsConverted:     b.IsConverted,
	}

	if b.ConversionRate != nil {
		resp.ConversionRate = new(b.ConversionRate.String())
	}

	return resp
}

func (h *Handler) toShareResponseList(shares []invoice.PartnerShare, code currency.Code) []partnerShareResponse {
	return lo.Map(shares, func(s invoice.PartnerShare, _ int) partnerShareResponse {
		return partnerShareResponse{
			PartnerID:       s.PartnerID,
			SharePercentage: s.SharePercentage.String(),
			ComputedAmount:  h.money(s.ComputedAmount, code),
		}
	})
}
