package reconcile

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/lexbill/internal/encoding"
	"github.com/MrJamesThe3rd/lexbill/internal/statement"
)

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeRejected  Outcome = "rejected"
)

type MatchedBy string

const (
	MatchedByNumber MatchedBy = "invoice_number"
	MatchedByPayer  MatchedBy = "payer_mapping"
)

// Entry is the result of reconciling one credit line.
type Entry struct {
	Line          statement.Line
	Ref           string
	Outcome       Outcome
	MatchedBy     MatchedBy
	InvoiceID     *uuid.UUID
	InvoiceNumber string
	PaymentID     *uuid.UUID
	Reason        string
}

type Report struct {
	Bank       statement.Bank
	Charset    encoding.Charset
	Applied    []Entry
	Duplicates []Entry
	Unmatched  []Entry
	Rejected   []Entry
}

func (r *Report) add(e Entry) {
	switch e.Outcome {
	case OutcomeApplied:
		r.Applied = append(r.Applied, e)
	case OutcomeDuplicate:
		r.Duplicates = append(r.Duplicates, e)
	case OutcomeUnmatched:
		r.Unmatched = append(r.Unmatched, e)
	case OutcomeRejected:
		r.Rejected = append(r.Rejected, e)
	}
}

// Total is the number of credit lines the report covers.
func (r *Report) Total() int {
	return len(r.Applied) + len(r.Duplicates) + len(r.Unmatched) + len(r.Rejected)
}
