package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/billing"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
)

type fakePDF struct {
	items int
}

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice, items []*entity.InvoiceItem) ([]byte, error) {
	f.items = len(items)
	return []byte("%PDF-fake"), nil
}

func TestInvoiceUseCase_GetListPDF(t *testing.T) {
	f := newWriter()
	gen := &fakePDF{}
	uc := billing.NewInvoiceUseCase(f.store.Invoices(), f.store.InvoiceItems(), gen)
	ctx := context.Background()

	created, err := f.writer.Create(ctx, request(item("A", "1", "100"), item("B", "2", "50")))
	require.NoError(t, err)

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "A", got.Items[0].Description)
	assert.Equal(t, "2026-04-01", got.IssueDate)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Empty(t, list.Items[0].Items)

	pdfBytes, name, err := uc.PDF(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdfBytes))
	assert.Equal(t, "invoice_INV-000001.pdf", name)
	assert.Equal(t, 2, gen.items)

	require.NoError(t, f.writer.Delete(ctx, created.ID))
	_, err = uc.Get(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))
	_, _, err = uc.PDF(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))
}
