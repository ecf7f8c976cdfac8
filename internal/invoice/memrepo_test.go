package invoice_test

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lexbill/internal/invoice"
)

// memRepo is an in-memory Repository. Tx holds a per-invoice mutex from
// LockInvoice until Commit or Rollback, which mirrors SELECT ... FOR UPDATE.
type memRepo struct {
	mu       sync.Mutex
	seq      int64
	invoices map[uuid.UUID]*invoice.Invoice
	payments map[uuid.UUID][]*invoice.Payment
	shares   map[uuid.UUID][]invoice.PartnerShare
	rowLocks map[uuid.UUID]*sync.Mutex
}

func newMemRepo() *memRepo {
	return &memRepo{
		invoices: make(map[uuid.UUID]*invoice.Invoice),
		payments: make(map[uuid.UUID][]*invoice.Payment),
		shares:   make(map[uuid.UUID][]invoice.PartnerShare),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func clone(inv *invoice.Invoice) *invoice.Invoice {
	c := *inv
	return &c
}

func (r *memRepo) GetInvoice(_ context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.invoices[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}

	return clone(inv), nil
}

func (r *memRepo) GetInvoiceByNumber(_ context.Context, number string) (*invoice.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inv := range r.invoices {
		if inv.InvoiceNumber == number {
			return clone(inv), nil
		}
	}

	return nil, invoice.ErrNotFound
}

func (r *memRepo) ListInvoices(_ context.Context, f invoice.ListFilter) ([]*invoice.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*invoice.Invoice

	for _, inv := range r.invoices {
		switch {
		case f.ClientID != nil && inv.ClientID != *f.ClientID:
			continue
		case f.ParentID != nil && (inv.ParentID() == nil || *inv.ParentID() != *f.ParentID):
			continue
		case f.Status != nil && inv.Status != *f.Status:
			continue
		case f.OpenOnly && (inv.Status == invoice.StatusPaid || inv.IsSplit()):
			continue
		case f.DueBefore != nil && !inv.DueDate.Before(*f.DueBefore):
			continue
		}

		out = append(out, clone(inv))
	}

	return out, nil
}

func (r *memRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*invoice.Invoice, error) {
	return r.ListInvoices(ctx, invoice.ListFilter{ParentID: &parentID})
}

func (r *memRepo) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv.ID = uuid.New()
	inv.Version = 1
	r.invoices[inv.ID] = clone(inv)

	return nil
}

func (r *memRepo) NextInvoiceSequence(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++

	return r.seq, nil
}

func (r *memRepo) SumPayments(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sumLocked(invoiceID), nil
}

func (r *memRepo) sumLocked(invoiceID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.payments[invoiceID] {
		total = total.Add(p.Amount)
	}

	return total
}

func (r *memRepo) ListPayments(_ context.Context, invoiceID uuid.UUID) ([]*invoice.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.payments[invoiceID]), nil
}

func (r *memRepo) PaymentByRef(_ context.Context, ref string) (*invoice.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.paymentByRefLocked(ref); p != nil {
		return p, nil
	}

	return nil, invoice.ErrPaymentNotFound
}

func (r *memRepo) paymentByRefLocked(ref string) *invoice.Payment {
	for _, payments := range r.payments {
		for _, p := range payments {
			if p.TransactionRef != nil && *p.TransactionRef == ref {
				return p
			}
		}
	}

	return nil
}

func (r *memRepo) ListPartnerShares(_ context.Context, invoiceID uuid.UUID) ([]invoice.PartnerShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.shares[invoiceID]), nil
}

func (r *memRepo) Begin(context.Context) (invoice.Tx, error) {
	return &memTx{repo: r}, nil
}

func (r *memRepo) rowLock(id uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		r.rowLocks[id] = l
	}

	return l
}

// memTx stages writes and applies them on Commit.
type memTx struct {
	repo     *memRepo
	held     []*sync.Mutex
	done     bool
	payments []*invoice.Payment
	updates  []*invoice.Invoice
	shares   map[uuid.UUID][]invoice.PartnerShare
}

func (tx *memTx) LockInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	l := tx.repo.rowLock(id)
	l.Lock()
	tx.held = append(tx.held, l)

	return tx.repo.GetInvoice(ctx, id)
}

func (tx *memTx) SumPayments(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	tx.repo.mu.Lock()
	total := tx.repo.sumLocked(invoiceID)
	tx.repo.mu.Unlock()

	for _, p := range tx.payments {
		if p.InvoiceID == invoiceID {
			total = total.Add(p.Amount)
		}
	}

	return total, nil
}

func (tx *memTx) InsertPayment(_ context.Context, p *invoice.Payment) error {
	if p.TransactionRef != nil {
		tx.repo.mu.Lock()
		taken := tx.repo.paymentByRefLocked(*p.TransactionRef) != nil
		tx.repo.mu.Unlock()

		if taken {
			return &invoice.DuplicateTransactionRefError{Ref: *p.TransactionRef}
		}
	}

	p.ID = uuid.New()
	tx.payments = append(tx.payments, p)

	return nil
}

func (tx *memTx) UpdateLedger(_ context.Context, inv *invoice.Invoice) error {
	tx.updates = append(tx.updates, clone(inv))
	return nil
}

func (tx *memTx) CreateChildren(_ context.Context, children []*invoice.Invoice) error {
	for _, c := range children {
		c.ID = uuid.New()
		c.Version = 1
		tx.updates = append(tx.updates, clone(c))
	}

	return nil
}

func (tx *memTx) MarkSplit(_ context.Context, inv *invoice.Invoice) error {
	tx.updates = append(tx.updates, clone(inv))
	return nil
}

func (tx *memTx) ReplacePartnerShares(_ context.Context, invoiceID uuid.UUID, shares []invoice.PartnerShare) error {
	if tx.shares == nil {
		tx.shares = make(map[uuid.UUID][]invoice.PartnerShare)
	}

	tx.shares[invoiceID] = shares

	return nil
}

func (tx *memTx) Commit() error {
	r := tx.repo

	r.mu.Lock()
	for _, p := range tx.payments {
		r.payments[p.InvoiceID] = append(r.payments[p.InvoiceID], p)
	}

	for _, inv := range tx.updates {
		inv.Version++
		r.invoices[inv.ID] = inv
	}

	for id, s := range tx.shares {
		r.shares[id] = s
	}
	r.mu.Unlock()

	tx.release()

	return nil
}

func (tx *memTx) Rollback() error {
	tx.release()
	return nil
}

func (tx *memTx) release() {
	if tx.done {
		return
	}

	tx.done = true

	for _, l := range tx.held {
		l.Unlock()
	}
}
