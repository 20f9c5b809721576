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
	_ repository.TagRepository         = (*TagRepo)(nil)
	_ repository.CustomerTagRepository = (*CustomerTagRepo)(nil)
)

// TagRepo implementación de TagRepository sobre PostgreSQL.
type TagRepo struct {
	q Querier
}

// NewTagRepository construye el adaptador.
func NewTagRepository(q Querier) *TagRepo {
	return &TagRepo{q: q}
}

// FindByNames una sola consulta con name = ANY($1).
func (r *TagRepo) FindByNames(ctx context.Context, names []string) ([]*entity.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	return queryTags(ctx, r.q, "find tags", `SELECT id, name, created_at FROM tags WHERE name = ANY($1)`, names)
}

// CreateMany inserta todas las etiquetas con un único INSERT ... SELECT unnest.
// El upsert sobre tags(name) hace que una carrera con otro escritor devuelva la fila existente.
func (r *TagRepo) CreateMany(ctx context.Context, tags []*entity.Tag) ([]*entity.Tag, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	ids := make([]string, len(tags))
	names := make([]string, len(tags))
	created := make([]time.Time, len(tags))
	for i, t := range tags {
		ids[i], names[i], created[i] = t.ID, t.Name, t.CreatedAt
	}
	query := `
		INSERT INTO tags (id, name, created_at)
		SELECT u.id::uuid, u.name, u.created_at
		FROM unnest($1::text[], $2::text[], $3::timestamptz[]) AS u(id, name, created_at)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`
	return queryTags(ctx, r.q, "insert tags", query, ids, names, created)
}

// GetByID obtiene una etiqueta por ID.
func (r *TagRepo) GetByID(ctx context.Context, id string) (*entity.Tag, error) {
	var t entity.Tag
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM tags WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

// List todas las etiquetas por nombre.
func (r *TagRepo) List(ctx context.Context) ([]*entity.Tag, error) {
	return queryTags(ctx, r.q, "list tags", `SELECT id, name, created_at FROM tags ORDER BY name`)
}

func queryTags(ctx context.Context, q Querier, op, query string, args ...any) ([]*entity.Tag, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Tag
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// CustomerTagRepo implementación de CustomerTagRepository sobre PostgreSQL.
type CustomerTagRepo struct {
	q Querier
}

// NewCustomerTagRepository construye el adaptador.
func NewCustomerTagRepository(q Querier) *CustomerTagRepo {
	return &CustomerTagRepo{q: q}
}

// CreateMany inserta todos los vínculos en una sola sentencia. Sin ON CONFLICT: el par no es único.
func (r *CustomerTagRepo) CreateMany(ctx context.Context, links []*entity.CustomerTag) error {
	if len(links) == 0 {
		return nil
	}
	ids := make([]string, len(links))
	customers := make([]string, len(links))
	tags := make([]string, len(links))
	created := make([]time.Time, len(links))
	for i, l := range links {
		ids[i], customers[i], tags[i], created[i] = l.ID, l.CustomerID, l.TagID, l.CreatedAt
	}
	query := `
		INSERT INTO customer_tags (id, customer_id, tag_id, created_at)
		SELECT u.id::uuid, u.customer_id::uuid, u.tag_id::uuid, u.created_at
		FROM unnest($1::text[], $2::text[], $3::text[], $4::timestamptz[]) AS u(id, customer_id, tag_id, created_at)`
	if _, err := r.q.Exec(ctx, query, ids, customers, tags, created); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert customer tags: %w", err)
	}
	return nil
}

// DeleteByCustomer borra todos los vínculos del cliente.
func (r *CustomerTagRepo) DeleteByCustomer(ctx context.Context, customerID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM customer_tags WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("delete customer tags: %w", err)
	}
	return nil
}

// ListTagsByCustomer etiquetas vinculadas al cliente, en orden de vinculación.
func (r *CustomerTagRepo) ListTagsByCustomer(ctx context.Context, customerID string) ([]*entity.Tag, error) {
	query := `
		SELECT t.id, t.name, t.created_at
		FROM customer_tags ct
		JOIN tags t ON t.id = ct.tag_id
		WHERE ct.customer_id = $1
		ORDER BY ct.created_at, t.name`
	return queryTags(ctx, r.q, "list customer tags", query, customerID)
}
