package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/validate"
)

// UseCase casos de uso CRUD para productos.
type UseCase struct {
	repo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProductRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create crea un nuevo producto. El código es único.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Code:        strings.TrimSpace(in.Code),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		Unit:        in.Unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, storeError("PRODUCT_CREATE", err)
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto por ID.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("PRODUCT_GET", err)
	}
	if p == nil {
		return nil, domain.NotFound("producto")
	}
	return toProductResponse(p), nil
}

// Update actualiza los campos informados. El código no se modifica.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("PRODUCT_GET", err)
	}
	if p == nil {
		return nil, domain.NotFound("producto")
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.UnitPrice != nil {
		p.UnitPrice = *in.UnitPrice
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, storeError("PRODUCT_UPDATE", err)
	}
	return toProductResponse(p), nil
}

// List lista productos con paginación.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, storeError("PRODUCT_LIST", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return storeError("PRODUCT_DELETE", err)
	}
	return nil
}

func storeError(code string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.NotFound("producto")
	case errors.Is(err, domain.ErrDuplicate):
		return domain.Conflict("PRODUCT_CODE_TAKEN", "ya existe un producto con ese código")
	default:
		return domain.Internal(code, "error de almacenamiento de productos", err)
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Unit:        p.Unit,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
