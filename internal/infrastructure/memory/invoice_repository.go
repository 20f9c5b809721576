package memory

import (
	"context"
	"sort"
	"time"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository      = (*InvoiceRepo)(nil)
	_ repository.InvoiceItemRepository  = (*InvoiceItemRepo)(nil)
	_ repository.InvoiceNumberGenerator = (*Store)(nil)
)

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct {
	s *Store
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.invoices {
		if cur.ID == inv.ID || cur.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.DeletedAt != nil {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		inv := inv
		if inv.DeletedAt == nil {
			list = append(list, &inv)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if !list[i].IssueDate.Equal(list[j].IssueDate) {
			return list[i].IssueDate.After(list[j].IssueDate)
		}
		return list[i].InvoiceNumber > list[j].InvoiceNumber
	})
	return page(list, limit, offset), nil
}

func (r *InvoiceRepo) UpdateHeader(ctx context.Context, inv *entity.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.invoices[inv.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cur.IssueDate = inv.IssueDate
	cur.CustomerID = inv.CustomerID
	cur.BillingName = inv.BillingName
	cur.BillingAddress = inv.BillingAddress
	cur.Notes = inv.Notes
	cur.TotalAmount = inv.TotalAmount
	cur.UpdatedAt = inv.UpdatedAt
	r.s.invoices[inv.ID] = cur
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.invoices, id)
	for itemID, it := range r.s.items {
		if it.InvoiceID == id {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

func (r *InvoiceRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.DeletedAt != nil {
		return domain.ErrNotFound
	}
	inv.DeletedAt = &at
	inv.UpdatedAt = at
	r.s.invoices[id] = inv
	return nil
}

// InvoiceItemRepo implementación en memoria de InvoiceItemRepository.
type InvoiceItemRepo struct {
	s *Store
}

func (r *InvoiceItemRepo) CreateMany(ctx context.Context, items []*entity.InvoiceItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		if _, ok := r.s.invoices[it.InvoiceID]; !ok {
			// equivalente a la FK invoice_items.invoice_id
			return domain.ErrNotFound
		}
	}
	for _, it := range items {
		r.s.items[it.ID] = *it
	}
	return nil
}

func (r *InvoiceItemRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]*entity.InvoiceItem, 0)
	for _, it := range r.s.items {
		it := it
		if it.InvoiceID == invoiceID && it.DeletedAt == nil {
			out = append(out, &it)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *InvoiceItemRepo) DeleteByInvoice(ctx context.Context, invoiceID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, it := range r.s.items {
		if it.InvoiceID == invoiceID {
			delete(r.s.items, id)
		}
	}
	return nil
}

func (r *InvoiceItemRepo) SoftDeleteByInvoice(ctx context.Context, invoiceID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, it := range r.s.items {
		if it.InvoiceID == invoiceID && it.DeletedAt == nil {
			it.DeletedAt = &at
			r.s.items[id] = it
		}
	}
	return nil
}

// CountByInvoice número de líneas (activas o no) de una factura.
func (r *InvoiceItemRepo) CountByInvoice(invoiceID string) int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, it := range r.s.items {
		if it.InvoiceID == invoiceID {
			n++
		}
	}
	return n
}
