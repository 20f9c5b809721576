package repository

import (
	"context"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
)

// TagRepository define el puerto de persistencia para Tag.
type TagRepository interface {
	// FindByNames devuelve las etiquetas cuyo nombre (exacto, sensible a mayúsculas) esté en names. Una sola consulta.
	FindByNames(ctx context.Context, names []string) ([]*entity.Tag, error)
	// CreateMany inserta todas las etiquetas en una sola sentencia y devuelve las filas resultantes.
	// Si un nombre ya existe, devuelve la fila existente (upsert sobre el índice único de name).
	CreateMany(ctx context.Context, tags []*entity.Tag) ([]*entity.Tag, error)
	GetByID(ctx context.Context, id string) (*entity.Tag, error)
	List(ctx context.Context) ([]*entity.Tag, error)
}

// CustomerTagRepository define el puerto de persistencia para los vínculos cliente-etiqueta.
type CustomerTagRepository interface {
	// CreateMany inserta todos los vínculos en una sola sentencia, sin deduplicar.
	CreateMany(ctx context.Context, links []*entity.CustomerTag) error
	DeleteByCustomer(ctx context.Context, customerID string) error
	ListTagsByCustomer(ctx context.Context, customerID string) ([]*entity.Tag, error)
}
