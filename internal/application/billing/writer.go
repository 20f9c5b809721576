package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/ports"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/logger"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/validate"
)

// Códigos de error del escritor de facturas.
const (
	CodeCompensationFailed = "INVOICE_COMPENSATION_FAILED"
	CodeInvoiceItems       = "INVOICE_ITEMS"
)

// Base de display_order según el camino de escritura. Create numera desde 0 y Update desde 1.
const (
	createOrderBase = 0
	updateOrderBase = 1
)

// InvoiceWriter escribe cabecera y líneas de factura con operaciones atómicas de una sola tabla.
//
// Create compensa: si las líneas fallan, borra la cabecera recién creada.
// Update no compensa: si la inserción de líneas falla tras borrar las anteriores, la factura queda sin líneas.
// Delete borra la cabecera y, sin garantía, las líneas.
type InvoiceWriter struct {
	invoices repository.InvoiceRepository
	items    repository.InvoiceItemRepository
	numbers  repository.InvoiceNumberGenerator
	metrics  ports.Metrics
	log      *logger.Logger
}

// NewInvoiceWriter construye el escritor.
func NewInvoiceWriter(
	invoices repository.InvoiceRepository,
	items repository.InvoiceItemRepository,
	numbers repository.InvoiceNumberGenerator,
	metrics ports.Metrics,
	log *logger.Logger,
) *InvoiceWriter {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &InvoiceWriter{
		invoices: invoices,
		items:    items,
		numbers:  numbers,
		metrics:  metrics,
		log:      log.Child("invoice_writer"),
	}
}

// CalculateTotal Σ cantidad × precio unitario, sin redondeo.
func CalculateTotal(items []dto.InvoiceItemRequest) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}
	return total
}

// Create valida, obtiene número, guarda la cabecera con el total y después las líneas (display_order desde 0).
// Si las líneas fallan se borra la cabecera; si ese borrado también falla devuelve un error KindConsistency.
func (w *InvoiceWriter) Create(ctx context.Context, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	issueDate, err := validateRequest(in)
	if err != nil {
		return nil, err
	}
	// una vez empezada la escritura, termina aunque el cliente cancele la petición
	ctx = context.WithoutCancel(ctx)

	number, err := w.numbers.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, domain.Internal("INVOICE_NUMBER", "no se pudo obtener el número de factura", err)
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: number,
		CreatedAt:     now,
	}
	applyHeader(inv, in, issueDate, now)

	if err := w.invoices.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("INVOICE_NUMBER_TAKEN", fmt.Sprintf("el número de factura %s ya existe", number))
		}
		if errors.Is(err, domain.ErrNotFound) {
			// customer_id apunta a un cliente inexistente
			return nil, domain.NotFound("cliente")
		}
		return nil, domain.Internal("INVOICE_CREATE", "no se pudo crear la factura", err)
	}

	items := buildItems(inv.ID, in.Items, createOrderBase, now)
	if err := w.items.CreateMany(ctx, items); err != nil {
		return nil, w.compensate(ctx, inv, err)
	}
	return toInvoiceResponse(inv, items), nil
}

// compensate borra la cabecera creada cuando la inserción de líneas falló.
// Una cabecera que ya no existe cuenta como compensada: no queda nada huérfano.
func (w *InvoiceWriter) compensate(ctx context.Context, inv *entity.Invoice, itemErr error) error {
	if delErr := w.invoices.Delete(ctx, inv.ID); delErr != nil && !errors.Is(delErr, domain.ErrNotFound) {
		w.metrics.ObserveCompensation(ports.OutcomeFailed)
		w.log.Error().
			Err(delErr).
			AnErr("item_error", itemErr).
			Str("invoice_id", inv.ID).
			Str("invoice_number", inv.InvoiceNumber).
			Msg("compensación fallida: cabecera sin líneas")
		return domain.Consistency(
			CodeCompensationFailed,
			fmt.Sprintf("la factura %s quedó sin líneas y no se pudo eliminar", inv.InvoiceNumber),
			errors.Join(itemErr, delErr),
		)
	}
	w.metrics.ObserveCompensation(ports.OutcomeSuccess)
	w.log.Warn().
		Err(itemErr).
		Str("invoice_number", inv.InvoiceNumber).
		Msg("líneas de factura fallidas: cabecera eliminada")
	return domain.Internal(CodeInvoiceItems, "no se pudieron guardar las líneas de la factura", itemErr)
}

// Update recalcula el total, actualiza la cabecera, borra las líneas y las vuelve a insertar (display_order desde 1).
// Sin compensación: si la inserción falla, la factura queda con cero líneas.
func (w *InvoiceWriter) Update(ctx context.Context, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	issueDate, err := validateRequest(in)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	inv, err := w.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("INVOICE_GET", "no se pudo leer la factura", err)
	}
	if inv == nil {
		return nil, domain.NotFound("factura")
	}

	now := time.Now()
	applyHeader(inv, in, issueDate, now)
	if err := w.invoices.UpdateHeader(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("factura")
		}
		return nil, domain.Internal("INVOICE_UPDATE", "no se pudo actualizar la factura", err)
	}
	if err := w.items.DeleteByInvoice(ctx, inv.ID); err != nil {
		return nil, domain.Internal(CodeInvoiceItems, "no se pudieron borrar las líneas de la factura", err)
	}

	items := buildItems(inv.ID, in.Items, updateOrderBase, now)
	if err := w.items.CreateMany(ctx, items); err != nil {
		w.metrics.ObserveUpdateItemFailure()
		w.log.Warn().
			Err(err).
			Str("invoice_id", inv.ID).
			Msg("factura actualizada sin líneas: falló la inserción")
		return nil, domain.Internal(CodeInvoiceItems, "no se pudieron guardar las líneas de la factura", err)
	}
	return toInvoiceResponse(inv, items), nil
}

// Delete borra lógicamente la cabecera y después las líneas. Un fallo en las líneas se registra y no se devuelve.
func (w *InvoiceWriter) Delete(ctx context.Context, id string) error {
	ctx = context.WithoutCancel(ctx)

	inv, err := w.invoices.GetByID(ctx, id)
	if err != nil {
		return domain.Internal("INVOICE_GET", "no se pudo leer la factura", err)
	}
	if inv == nil {
		return domain.NotFound("factura")
	}

	now := time.Now()
	if err := w.invoices.SoftDelete(ctx, id, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("factura")
		}
		return domain.Internal("INVOICE_DELETE", "no se pudo eliminar la factura", err)
	}
	if err := w.items.SoftDeleteByInvoice(ctx, id, now); err != nil {
		w.metrics.ObserveItemCleanupFailure()
		w.log.Warn().Err(err).Str("invoice_id", id).Msg("factura eliminada; sus líneas siguen activas")
	}
	return nil
}

func validateRequest(in dto.InvoiceRequest) (time.Time, error) {
	if err := validate.Struct(in); err != nil {
		return time.Time{}, err
	}
	issueDate, err := time.Parse(dto.DateLayout, in.IssueDate)
	if err != nil {
		return time.Time{}, domain.Validation("fecha inválida", domain.FieldError{Field: "issue_date", Message: err.Error()})
	}
	return issueDate, nil
}

func applyHeader(inv *entity.Invoice, in dto.InvoiceRequest, issueDate, now time.Time) {
	inv.IssueDate = issueDate
	inv.CustomerID = in.CustomerID
	inv.BillingName = in.BillingName
	inv.BillingAddress = in.BillingAddress
	inv.Notes = in.Notes
	inv.TotalAmount = CalculateTotal(in.Items)
	inv.UpdatedAt = now
}

func buildItems(invoiceID string, in []dto.InvoiceItemRequest, base int, now time.Time) []*entity.InvoiceItem {
	items := make([]*entity.InvoiceItem, 0, len(in))
	for i, it := range in {
		items = append(items, &entity.InvoiceItem{
			ID:           uuid.New().String(),
			InvoiceID:    invoiceID,
			ProductID:    it.ProductID,
			Description:  it.Description,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			UnitPrice:    it.UnitPrice,
			Amount:       it.Quantity.Mul(it.UnitPrice),
			DisplayOrder: base + i,
			CreatedAt:    now,
		})
	}
	return items
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		IssueDate:      inv.IssueDate.Format(dto.DateLayout),
		CustomerID:     inv.CustomerID,
		BillingName:    inv.BillingName,
		BillingAddress: inv.BillingAddress,
		Notes:          inv.Notes,
		TotalAmount:    inv.TotalAmount,
		Items:          make([]dto.InvoiceItemResponse, 0, len(items)),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Description:  it.Description,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			UnitPrice:    it.UnitPrice,
			Amount:       it.Amount,
			DisplayOrder: it.DisplayOrder,
		})
	}
	return out
}
