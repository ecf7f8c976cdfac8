package matching

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/lexbill/internal/http/respond"
	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
	"github.com/MrJamesThe3rd/lexbill/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription string     `json:"raw_description"`
	ClientID       *uuid.UUID `json:"client_id"`
	Matched        bool       `json:"matched"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		respond.Error(w, &invoice.ValidationError{Field: "raw_description", Message: "is required"})
		return
	}

	clientID, ok, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		respond.Error(w, &invoice.InfrastructureError{Op: "suggest payer", Err: err})
		return
	}

	resp := suggestResponse{RawDescription: rawDesc, Matched: ok}
	if ok {
		resp.ClientID = &clientID
	}

	respond.JSON(w, http.StatusOK, resp)
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern" validate:"required,max=255"`
	ClientID   string `json:"client_id" validate:"required,uuid"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	err := h.svc.Learn(r.Context(), req.RawPattern, uuid.MustParse(req.ClientID))

	switch {
	case errors.Is(err, matching.ErrInvalidMapping):
		respond.Error(w, &invoice.ValidationError{Field: "raw_pattern", Message: err.Error()})
	case err != nil:
		respond.Error(w, &invoice.InfrastructureError{Op: "learn payer", Err: err})
	default:
		w.WriteHeader(http.StatusCreated)
	}
}
