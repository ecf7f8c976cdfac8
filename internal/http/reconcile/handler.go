package reconcile

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/lexbill/internal/encoding"
	"github.com/MrJamesThe3rd/lexbill/internal/http/respond"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
	"github.com/MrJamesThe3rd/lexbill/internal/reconcile"
	"github.com/MrJamesThe3rd/lexbill/internal/statement"
)

const maxUpload = 10 << 20

type Handler struct {
	svc *reconcile.Service
}

func NewHandler(svc *reconcile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
}

type entryResponse struct {
	Row           int                 `json:"row"`
	Date          string              `json:"date"`
	Amount        string              `json:"amount"`
	Description   string              `json:"description"`
	Ref           string              `json:"ref"`
	Outcome       reconcile.Outcome   `json:"outcome"`
	MatchedBy     reconcile.MatchedBy `json:"matched_by,omitempty"`
	InvoiceID     *uuid.UUID          `json:"invoice_id,omitempty"`
	InvoiceNumber string              `json:"invoice_number,omitempty"`
	PaymentID     *uuid.UUID          `json:"payment_id,omitempty"`
	Reason        string              `json:"reason,omitempty"`
}

type reportResponse struct {
	Bank       statement.Bank   `json:"bank"`
	Charset    encoding.Charset `json:"charset"`
	Total      int              `json:"total"`
	Applied    []entryResponse  `json:"applied"`
	Duplicates []entryResponse  `json:"duplicates"`
	Unmatched  []entryResponse  `json:"unmatched"`
	Rejected   []entryResponse  `json:"rejected"`
}

// partialResponse is sent when an import stops early. Report lists the lines
// already committed before the failure.
type partialResponse struct {
	Error  respond.ErrorDetail `json:"error"`
	Report reportResponse      `json:"partial_report"`
}

func toEntryResponses(entries []reconcile.Entry) []entryResponse {
	return lo.Map(entries, func(e reconcile.Entry, _ int) entryResponse {
		return entryResponse{
			Row:           e.Line.Row,
			Date:          e.Line.Date.Format(time.DateOnly),
			Amount:        e.Line.Amount.StringFixed(2),
			Description:   e.Line.Description,
			Ref:           e.Ref,
			Outcome:       e.Outcome,
			MatchedBy:     e.MatchedBy,
			InvoiceID:     e.InvoiceID,
			InvoiceNumber: e.InvoiceNumber,
			PaymentID:     e.PaymentID,
			Reason:        e.Reason,
		}
	})
}

func toReportResponse(r *reconcile.Report) reportResponse {
	return reportResponse{
		Bank:       r.Bank,
		Charset:    r.Charset,
		Total:      r.Total(),
		Applied:    toEntryResponses(r.Applied),
		Duplicates: toEntryResponses(r.Duplicates),
		Unmatched:  toEntryResponses(r.Unmatched),
		Rejected:   toEntryResponses(r.Rejected),
	}
}

// importStatement accepts a multipart form with the statement "file", its
// "bank" (defaults to cgd) and "recorded_by".
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Error(w, &invoice.ValidationError{Field: "body", Message: "failed to parse form: " + err.Error()})
		return
	}

	bank := statement.Bank(r.FormValue("bank"))
	if bank == "" {
		bank = statement.BankCGD
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, &invoice.ValidationError{Field: "file", Message: "is required"})
		return
	}
	defer file.Close()

	report, err := h.svc.Import(r.Context(), reconcile.Params{
		Bank:       bank,
		RecordedBy: r.FormValue("recorded_by"),
	}, file)

	switch {
	case errors.Is(err, statement.ErrUnknownBank):
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: respond.ErrorDetail{
			Code: "unknown_bank", Message: err.Error(), Field: "bank",
		}})
	case errors.Is(err, statement.ErrInvalidStatement):
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: respond.ErrorDetail{
			Code: "invalid_statement", Message: err.Error(), Field: "file",
		}})
	case err != nil && report != nil:
		status, detail := respond.Detail(err)
		respond.JSON(w, status, partialResponse{Error: detail, Report: toReportResponse(report)})
	case err != nil:
		respond.Error(w, err)
	default:
		respond.JSON(w, http.StatusOK, toReportResponse(report))
	}
}
