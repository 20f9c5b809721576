package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, customer_type, name, name_kana, company_name, email, phone, postal_code, address, class, notes, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CustomerType, c.Name, c.NameKana, c.CompanyName, c.Email, c.Phone,
		c.PostalCode, c.Address, c.Class, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente activo por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND deleted_at IS NULL`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List lista clientes activos por nombre.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers WHERE deleted_at IS NULL
		ORDER BY name, id
		LIMIT $1 OFFSET $2`
	return r.queryCustomers(ctx, "list customers", query, limit, offset)
}

// Update actualiza los datos del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET customer_type = $2, name = $3, name_kana = $4, company_name = $5,
			email = $6, phone = $7, postal_code = $8, address = $9, class = $10, notes = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.CustomerType, c.Name, c.NameKana, c.CompanyName, c.Email, c.Phone,
		c.PostalCode, c.Address, c.Class, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca el cliente como borrado. Los vínculos con etiquetas no se tocan.
func (r *CustomerRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE customers SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("soft delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search busca por subcadena (ILIKE) en nombre, lectura, empresa y email con cualquier frase o palabra.
// Las igualdades y las coincidencias de frase completa van primero para que el LIMIT no las corte.
func (r *CustomerRepo) Search(ctx context.Context, terms repository.CustomerSearch, limit int) ([]*entity.Customer, error) {
	all := terms.Terms()
	if len(all) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(terms.Phrases))
	for i, p := range terms.Phrases {
		lowered[i] = strings.ToLower(p)
	}
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE deleted_at IS NULL
		  AND (name ILIKE ANY($1) OR name_kana ILIKE ANY($1) OR company_name ILIKE ANY($1) OR email ILIKE ANY($1))
		ORDER BY
		  (lower(name) = ANY($3) OR lower(name_kana) = ANY($3) OR lower(company_name) = ANY($3) OR lower(email) = ANY($3)) DESC,
		  (name ILIKE ANY($2) OR name_kana ILIKE ANY($2) OR company_name ILIKE ANY($2) OR email ILIKE ANY($2)) DESC,
		  name, id
		LIMIT $4`
	return r.queryCustomers(ctx, "search customers", query,
		containsPatterns(all), containsPatterns(terms.Phrases), lowered, limit)
}

func (r *CustomerRepo) queryCustomers(ctx context.Context, op, query string, args ...any) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.CustomerType, &c.Name, &c.NameKana, &c.CompanyName, &c.Email, &c.Phone,
		&c.PostalCode, &c.Address, &c.Class, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
