package invoice

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/http/respond"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
	// overpaymentHeader lets trusted callers opt in to overpayment per request.
	overpaymentHeader string
}

func NewHandler(svc *invoice.Service, overpaymentHeader string) *Handler {
	return &Handler{svc: svc, overpaymentHeader: overpaymentHeader}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/by-number/{number}", h.getByNumber)
	r.Get("/{id}", h.get)
	r.Get("/{id}/breakdown", h.breakdown)
	r.Post("/{id}/payments", h.recordPayment)
	r.Get("/{id}/payments", h.payments)
	r.Post("/{id}/split", h.split)
	r.Put("/{id}/partner-shares", h.allocateShares)
	r.Get("/{id}/partner-shares", h.partnerShares)
}

type createInvoiceRequest struct {
	ClientID        string           `json:"client_id" validate:"required,uuid"`
	MatterID        *string          `json:"matter_id" validate:"omitempty,uuid"`
	Amount          decimal.Decimal  `json:"amount"`
	MatterCurrency  string           `json:"matter_currency" validate:"required,len=3,alpha"`
	InvoiceCurrency string           `json:"invoice_currency" validate:"omitempty,len=3,alpha"`
	ConversionRate  *decimal.Decimal `json:"conversion_rate"`
	InvoiceDate     string           `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate         string           `json:"due_date" validate:"required,datetime=2006-01-02"`
	Description     string           `json:"description" validate:"max=500"`
	BillingLocation string           `json:"billing_location" validate:"max=100"`
	CreatedBy       string           `json:"created_by" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params := invoice.CreateParams{
		ClientID:        uuid.MustParse(req.ClientID),
		Amount:          req.Amount,
		MatterCurrency:  req.MatterCurrency,
		InvoiceCurrency: req.InvoiceCurrency,
		Rate:            req.ConversionRate,
		DueDate:         mustDate(req.DueDate),
		Description:     req.Description,
		BillingLocation: req.BillingLocation,
		CreatedBy:       req.CreatedBy,
	}

	if req.MatterID != nil {
		params.MatterID = new(uuid.MustParse(*req.MatterID))
	}

	if req.InvoiceDate != "" {
		params.InvoiceDate = mustDate(req.InvoiceDate)
	}

	inv, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, h.toResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	invs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponseList(invs))
}

func parseListFilter(r *http.Request) (invoice.ListFilter, error) {
	q := r.URL.Query()
	filter := invoice.ListFilter{}

	for _, p := range []struct {
		name string
		dst  **uuid.UUID
	}{
		{"client_id", &filter.ClientID},
		{"matter_id", &filter.MatterID},
		{"parent_id", &filter.ParentID},
	} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}

		id, err := uuid.Parse(s)
		if err != nil {
			return filter, &invoice.ValidationError{Field: p.name, Message: "must be a UUID"}
		}

		*p.dst = &id
	}

	if s := q.Get("status"); s != "" {
		status := invoice.Status(s)
		if !lo.Contains([]invoice.Status{invoice.StatusNew, invoice.StatusPartiallyPaid, invoice.StatusPaid}, status) {
			return filter, &invoice.ValidationError{Field: "status", Message: "must be one of new, partially_paid, paid"}
		}

		filter.Status = &status
	}

	for _, p := range []struct {
		name string
		dst  *bool
	}{
		{"open", &filter.OpenOnly},
		{"overdue", &filter.Overdue},
	} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}

		v, err := strconv.ParseBool(s)
		if err != nil {
			return filter, &invoice.ValidationError{Field: p.name, Message: "must be a boolean"}
		}

		*p.dst = v
	}

	return filter, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(inv))
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.GetByNumber(r.Context(), strings.ToUpper(chi.URLParam(r, "number")))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(inv))
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	b, err := h.svc.Breakdown(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toBreakdownResponse(b))
}

type recordPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod  string          `json:"payment_method" validate:"required,oneof=bank_transfer wire cheque card cash"`
	TransactionRef *string         `json:"transaction_ref" validate:"omitempty,max=100"`
	Notes          *string         `json:"notes"`
	RecordedBy     string          `json:"recorded_by" validate:"required"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	payment, err := h.svc.RecordPayment(r.Context(), invoice.PaymentParams{
		InvoiceID:        id,
		Amount:           req.Amount,
		PaymentDate:      mustDate(req.PaymentDate),
		PaymentMethod:    req.PaymentMethod,
		TransactionRef:   req.TransactionRef,
		Notes:            req.Notes,
		RecordedBy:       req.RecordedBy,
		AllowOverpayment: h.allowOverpayment(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, struct {
		Payment paymentResponse `json:"payment"`
		Invoice invoiceResponse `json:"invoice"`
	}{
		Payment: h.toPaymentResponse(payment, inv.InvoiceCurrency),
		Invoice: h.toResponse(inv),
	})
}

func (h *Handler) allowOverpayment(r *http.Request) bool {
	if h.overpaymentHeader == "" {
		return false
	}

	allow, _ := strconv.ParseBool(r.Header.Get(h.overpaymentHeader))

	return allow
}

func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	payments, err := h.svc.Payments(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, lo.Map(payments, func(p *invoice.Payment, _ int) paymentResponse {
		return h.toPaymentResponse(p, inv.InvoiceCurrency)
	}))
}

type splitRequest struct {
	Allocations []splitAllocationRequest `json:"allocations" validate:"required,min=2,dive"`
}

type splitAllocationRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"max=500"`
}

func (h *Handler) split(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	var req splitRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	children, err := h.svc.Split(r.Context(), id, lo.Map(req.Allocations, func(a splitAllocationRequest, _ int) invoice.SplitAllocation {
		return invoice.SplitAllocation{
			Amount:      a.Amount,
			DueDate:     mustDate(a.DueDate),
			Description: a.Description,
		}
	}))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, h.toResponseList(children))
}

type allocateSharesRequest struct {
	Shares []shareRequest `json:"shares" validate:"required,min=1,dive"`
}

type shareRequest struct {
	PartnerID  string          `json:"partner_id" validate:"required,uuid"`
	Percentage decimal.Decimal `json:"percentage"`
}

func (h *Handler) allocateShares(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	var req allocateSharesRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	err := h.svc.AllocatePartnerShares(r.Context(), id, lo.Map(req.Shares, func(s shareRequest, _ int) invoice.ShareParams {
		return invoice.ShareParams{PartnerID: uuid.MustParse(s.PartnerID), Percentage: s.Percentage}
	}))
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.partnerShares(w, r)
}

func (h *Handler) partnerShares(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	shares, err := h.svc.PartnerShares(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toShareResponseList(shares, inv.InvoiceCurrency))
}

func invoiceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, &invoice.ValidationError{Field: "id", Message: "must be a UUID"})
		return uuid.Nil, false
	}

	return id, true
}

// mustDate parses a date already checked by the datetime validator.
func mustDate(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}
