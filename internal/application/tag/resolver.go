package tag

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
)

// CodeTagResolution código de error de la resolución de etiquetas.
const CodeTagResolution = "TAG_RESOLUTION"

// Resolver traduce nombres de etiqueta a ids, creando las que faltan, y vincula etiquetas a clientes.
type Resolver struct {
	tags  repository.TagRepository
	links repository.CustomerTagRepository
}

// NewResolver construye el resolver.
func NewResolver(tags repository.TagRepository, links repository.CustomerTagRepository) *Resolver {
	return &Resolver{tags: tags, links: links}
}

// SplitNames separa una cadena "VIP, New" por comas, recorta y descarta vacíos.
func SplitNames(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeNames recorta, descarta vacíos y nombres de más de 50 caracteres, y quita repetidos
// conservando la primera aparición. No pliega mayúsculas: "VIP" y "vip" son etiquetas distintas.
func NormalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || utf8.RuneCountInString(n) > entity.MaxTagNameLength {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ResolveOrCreate devuelve un id por cada nombre normalizado, en el orden normalizado.
// Una consulta para las existentes y una inserción para las que faltan; sin nombres, no toca el almacén.
func (r *Resolver) ResolveOrCreate(ctx context.Context, names []string) ([]string, error) {
	normalized := NormalizeNames(names)
	if len(normalized) == 0 {
		return []string{}, nil
	}

	existing, err := r.tags.FindByNames(ctx, normalized)
	if err != nil {
		return nil, domain.Internal(CodeTagResolution, "no se pudieron buscar las etiquetas", err)
	}
	idByName := make(map[string]string, len(normalized))
	for _, t := range existing {
		idByName[t.Name] = t.ID
	}

	now := time.Now()
	var missing []*entity.Tag
	for _, n := range normalized {
		if _, ok := idByName[n]; !ok {
			missing = append(missing, &entity.Tag{ID: uuid.New().String(), Name: n, CreatedAt: now})
		}
	}
	if len(missing) > 0 {
		created, err := r.tags.CreateMany(ctx, missing)
		if err != nil {
			return nil, domain.Internal(CodeTagResolution, "no se pudieron crear las etiquetas", err)
		}
		for _, t := range created {
			idByName[t.Name] = t.ID
		}
	}

	ids := make([]string, 0, len(normalized))
	for _, n := range normalized {
		id, ok := idByName[n]
		if !ok {
			return nil, domain.Internal(CodeTagResolution, fmt.Sprintf("la etiqueta %q no se pudo resolver", n), nil)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Associate vincula las etiquetas al cliente en una sola inserción. No quita ids repetidos:
// pasar el mismo id dos veces crea dos vínculos.
func (r *Resolver) Associate(ctx context.Context, customerID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	now := time.Now()
	links := make([]*entity.CustomerTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, &entity.CustomerTag{
			ID:         uuid.New().String(),
			CustomerID: customerID,
			TagID:      id,
			CreatedAt:  now,
		})
	}
	if err := r.links.CreateMany(ctx, links); err != nil {
		return domain.Internal("TAG_ASSOCIATION", "no se pudieron vincular las etiquetas", err)
	}
	return nil
}
