// Package respond holds the JSON request and response helpers shared by the
// API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Decode reads a JSON body into dst and validates its struct tags.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &invoice.ValidationError{Field: "body", Message: fmt.Sprintf("malformed JSON: %v", err)}
	}

	return Validate(dst)
}

// Validate checks dst against its validate tags and reports the first failing
// field as an invoice.ValidationError.
func Validate(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &invoice.ValidationError{Field: fe.Field(), Message: message(fe)}
	}

	return err
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "alpha":
		return "must contain only letters"
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch invoice.Code(err) {
	case "validation_error", "split_amount_mismatch", "share_allocation", "invalid_rate":
		return http.StatusBadRequest
	case "overpayment", "invalid_split_state", "parent_invoice_split":
		return http.StatusUnprocessableEntity
	case "not_found":
		return http.StatusNotFound
	case "concurrent_update", "duplicate_transaction_ref":
		return http.StatusConflict
	case "infrastructure":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the status and client-facing detail for err. Infrastructure
// and unknown errors are logged and their details are not sent to the client.
func Detail(err error) (int, ErrorDetail) {
	status := Status(err)
	detail := ErrorDetail{Code: invoice.Code(err), Message: err.Error()}

	var (
		validation *invoice.ValidationError
		duplicate  *invoice.DuplicateTransactionRefError
	)

	switch {
	case errors.As(err, &validation):
		detail.Field = validation.Field
		detail.Message = validation.Message
	case errors.As(err, &duplicate):
		detail.Field = "transaction_ref"
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", detail.Code, "error", err)
		detail.Message = http.StatusText(status)
	}

	return status, detail
}

// Error writes err as an ErrorBody.
func Error(w http.ResponseWriter, err error) {
	status, detail := Detail(err)
	JSON(w, status, ErrorBody{Error: detail})
}
