package billing

import (
	"context"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
)

// InvoicePDFGenerator genera la representación PDF de una factura con sus líneas.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, items []*entity.InvoiceItem) ([]byte, error)
}
