package repository

import (
	"context"
	"time"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para la cabecera de Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID devuelve (nil, nil) si no existe o tiene borrado lógico.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	// UpdateHeader actualiza fecha, datos de facturación y total en una sola sentencia.
	UpdateHeader(ctx context.Context, invoice *entity.Invoice) error
	// Delete borra físicamente la cabecera. Solo lo usa la compensación de Create.
	Delete(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// InvoiceItemRepository define el puerto de persistencia para las líneas de factura.
type InvoiceItemRepository interface {
	// CreateMany inserta todas las líneas en una sola sentencia.
	CreateMany(ctx context.Context, items []*entity.InvoiceItem) error
	// ListByInvoice devuelve las líneas activas ordenadas por display_order.
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	DeleteByInvoice(ctx context.Context, invoiceID string) error
	SoftDeleteByInvoice(ctx context.Context, invoiceID string, at time.Time) error
}

// InvoiceNumberGenerator secuencia externa de números de factura (RPC del almacén).
type InvoiceNumberGenerator interface {
	NextInvoiceNumber(ctx context.Context) (string, error)
}
