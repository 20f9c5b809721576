package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository      = (*InvoiceRepo)(nil)
	_ repository.InvoiceItemRepository  = (*InvoiceItemRepo)(nil)
	_ repository.InvoiceNumberGenerator = (*InvoiceNumberSequence)(nil)
)

const invoiceColumns = `id, invoice_number, issue_date, COALESCE(customer_id::text, ''), billing_name, billing_address, notes, total_amount, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_number, issue_date, customer_id, billing_name, billing_address, notes, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.IssueDate, nullIfEmpty(inv.CustomerID), inv.BillingName,
		inv.BillingAddress, inv.Notes, inv.TotalAmount, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura activa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND deleted_at IS NULL`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List facturas activas por fecha de emisión descendente.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices WHERE deleted_at IS NULL
		ORDER BY issue_date DESC, invoice_number DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("list invoices scan: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateHeader actualiza fecha, cliente, datos de facturación, notas y total.
func (r *InvoiceRepo) UpdateHeader(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET issue_date = $2, customer_id = $3, billing_name = $4, billing_address = $5,
			notes = $6, total_amount = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.IssueDate, nullIfEmpty(inv.CustomerID), inv.BillingName, inv.BillingAddress,
		inv.Notes, inv.TotalAmount, inv.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borrado físico. Las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca la cabecera como borrada.
func (r *InvoiceRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("soft delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.IssueDate, &inv.CustomerID, &inv.BillingName,
		&inv.BillingAddress, &inv.Notes, &inv.TotalAmount, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// InvoiceItemRepo implementación de InvoiceItemRepository sobre PostgreSQL.
type InvoiceItemRepo struct {
	q Querier
}

// NewInvoiceItemRepository construye el adaptador.
func NewInvoiceItemRepository(q Querier) *InvoiceItemRepo {
	return &InvoiceItemRepo{q: q}
}

// CreateMany inserta todas las líneas con un único INSERT ... SELECT unnest.
// Los importes viajan como texto y se convierten a numeric en el servidor.
func (r *InvoiceItemRepo) CreateMany(ctx context.Context, items []*entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	n := len(items)
	var (
		ids, invoices, products, descs, units = make([]string, n), make([]string, n), make([]string, n), make([]string, n), make([]string, n)
		qtys, prices, amounts                 = make([]string, n), make([]string, n), make([]string, n)
		orders                                = make([]int32, n)
		created                               = make([]time.Time, n)
	)
	for i, it := range items {
		ids[i], invoices[i], products[i] = it.ID, it.InvoiceID, it.ProductID
		descs[i], units[i] = it.Description, it.Unit
		qtys[i], prices[i], amounts[i] = it.Quantity.String(), it.UnitPrice.String(), it.Amount.String()
		orders[i] = int32(it.DisplayOrder)
		created[i] = it.CreatedAt
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, description, quantity, unit, unit_price, amount, display_order, created_at)
		SELECT u.id::uuid, u.invoice_id::uuid, NULLIF(u.product_id, '')::uuid, u.description,
			u.quantity::numeric, u.unit, u.unit_price::numeric, u.amount::numeric, u.display_order, u.created_at
		FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[], $8::text[], $9::int4[], $10::timestamptz[])
			AS u(id, invoice_id, product_id, description, quantity, unit, unit_price, amount, display_order, created_at)`
	_, err := r.q.Exec(ctx, query, ids, invoices, products, descs, qtys, units, prices, amounts, orders, created)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert invoice items: %w", err)
	}
	return nil
}

// ListByInvoice líneas activas ordenadas por display_order.
func (r *InvoiceItemRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, COALESCE(product_id::text, ''), description, quantity, unit, unit_price, amount, display_order, created_at
		FROM invoice_items
		WHERE invoice_id = $1 AND deleted_at IS NULL
		ORDER BY display_order, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.Description, &it.Quantity, &it.Unit,
			&it.UnitPrice, &it.Amount, &it.DisplayOrder, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("list invoice items scan: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteByInvoice borra físicamente las líneas (reemplazo en Update).
func (r *InvoiceItemRepo) DeleteByInvoice(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// SoftDeleteByInvoice marca como borradas las líneas activas de la factura.
func (r *InvoiceItemRepo) SoftDeleteByInvoice(ctx context.Context, invoiceID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE invoice_items SET deleted_at = $2 WHERE invoice_id = $1 AND deleted_at IS NULL`, invoiceID, at)
	if err != nil {
		return fmt.Errorf("soft delete invoice items: %w", err)
	}
	return nil
}

// InvoiceNumberSequence genera números de factura con la función next_invoice_number() del esquema.
type InvoiceNumberSequence struct {
	q Querier
}

// NewInvoiceNumberSequence construye el generador.
func NewInvoiceNumberSequence(q Querier) *InvoiceNumberSequence {
	return &InvoiceNumberSequence{q: q}
}

// NextInvoiceNumber una llamada a la función del almacén; el número nunca se reutiliza.
func (s *InvoiceNumberSequence) NextInvoiceNumber(ctx context.Context) (string, error) {
	var number string
	if err := s.q.QueryRow(ctx, `SELECT next_invoice_number()`).Scan(&number); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return number, nil
}
