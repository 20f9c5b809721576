package tag

import (
	"context"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/validate"
)

// UseCase casos de uso de etiquetas (listado y alta idempotente).
type UseCase struct {
	tags     repository.TagRepository
	resolver *Resolver
}

// NewUseCase construye el caso de uso.
func NewUseCase(tags repository.TagRepository, resolver *Resolver) *UseCase {
	return &UseCase{tags: tags, resolver: resolver}
}

// List devuelve todas las etiquetas ordenadas por nombre.
func (uc *UseCase) List(ctx context.Context) (*dto.TagListResponse, error) {
	list, err := uc.tags.List(ctx)
	if err != nil {
		return nil, domain.Internal("TAG_LIST", "no se pudieron listar las etiquetas", err)
	}
	items := make([]dto.TagResponse, 0, len(list))
	for _, t := range list {
		items = append(items, ToTagResponse(t))
	}
	return &dto.TagListResponse{Items: items}, nil
}

// Create crea la etiqueta o devuelve la existente con el mismo nombre.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateTagRequest) (*dto.TagResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	ids, err := uc.resolver.ResolveOrCreate(ctx, []string{in.Name})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.Validation("nombre de etiqueta inválido", domain.FieldError{Field: "name", Message: "es obligatorio"})
	}
	t, err := uc.tags.GetByID(ctx, ids[0])
	if err != nil {
		return nil, domain.Internal("TAG_GET", "no se pudo leer la etiqueta", err)
	}
	if t == nil {
		return nil, domain.NotFound("etiqueta")
	}
	out := ToTagResponse(t)
	return &out, nil
}

// ToTagResponse convierte la entidad a su DTO.
func ToTagResponse(t *entity.Tag) dto.TagResponse {
	return dto.TagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}
