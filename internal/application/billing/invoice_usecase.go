package billing

import (
	"context"
	"fmt"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
)

// InvoiceUseCase lado de lectura de facturas: detalle, listado y PDF.
type InvoiceUseCase struct {
	invoices  repository.InvoiceRepository
	items     repository.InvoiceItemRepository
	generator InvoicePDFGenerator
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	items repository.InvoiceItemRepository,
	generator InvoicePDFGenerator,
) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, items: items, generator: generator}
}

// Get devuelve la factura con sus líneas ordenadas por display_order.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("INVOICE_GET", "no se pudo leer la factura", err)
	}
	if inv == nil {
		return nil, domain.NotFound("factura")
	}
	items, err := uc.items.ListByInvoice(ctx, id)
	if err != nil {
		return nil, domain.Internal(CodeInvoiceItems, "no se pudieron leer las líneas de la factura", err)
	}
	return toInvoiceResponse(inv, items), nil
}

// List lista facturas activas, más recientes primero, sin líneas.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoices.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Internal("INVOICE_LIST", "no se pudieron listar las facturas", err)
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// PDF genera el PDF de la factura. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *InvoiceUseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, "", domain.Internal("INVOICE_GET", "no se pudo leer la factura", err)
	}
	if inv == nil {
		return nil, "", domain.NotFound("factura")
	}
	items, err := uc.items.ListByInvoice(ctx, id)
	if err != nil {
		return nil, "", domain.Internal(CodeInvoiceItems, "no se pudieron leer las líneas de la factura", err)
	}
	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, items)
	if err != nil {
		return nil, "", domain.Internal("INVOICE_PDF", "no se pudo generar el PDF", err)
	}
	return pdfBytes, fmt.Sprintf("invoice_%s.pdf", inv.InvoiceNumber), nil
}
