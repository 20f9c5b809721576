package customer

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/search"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/logger"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/validate"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	searchFetchLimit   = 200
	suggestLimit       = 10
)

// UseCase casos de uso de clientes: alta, consulta, edición, borrado lógico y búsqueda.
type UseCase struct {
	customers repository.CustomerRepository
	links     repository.CustomerTagRepository
	resolver  *tag.Resolver
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	customers repository.CustomerRepository,
	links repository.CustomerTagRepository,
	resolver *tag.Resolver,
	log *logger.Logger,
) *UseCase {
	return &UseCase{customers: customers, links: links, resolver: resolver, log: log.Child("customer")}
}

// Create valida, resuelve etiquetas, crea el cliente y lo vincula a sus etiquetas.
// Son escrituras independientes: si el vínculo falla, el cliente ya creado se conserva.
func (uc *UseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.create(ctx, in)
	if err != nil {
		return nil, err
	}
	return uc.withTags(ctx, c)
}

func (uc *UseCase) create(ctx context.Context, in dto.CustomerRequest) (*entity.Customer, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	tagIDs, err := uc.resolver.ResolveOrCreate(ctx, in.Tags)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Customer{ID: uuid.New().String(), CreatedAt: now}
	apply(c, in, now)
	if err := uc.customers.Create(ctx, c); err != nil {
		return nil, storeError("CUSTOMER_CREATE", "no se pudo crear el cliente", err)
	}
	if err := uc.resolver.Associate(ctx, c.ID, tagIDs); err != nil {
		return nil, err
	}
	return c, nil
}

// Get devuelve un cliente activo con sus etiquetas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("CUSTOMER_GET", "no se pudo leer el cliente", err)
	}
	if c == nil {
		return nil, domain.NotFound("cliente")
	}
	return uc.withTags(ctx, c)
}

// List lista clientes activos ordenados por nombre.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.customers.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, storeError("CUSTOMER_LIST", "no se pudieron listar los clientes", err)
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out, err := uc.withTags(ctx, c)
		if err != nil {
			return nil, err
		}
		items = append(items, *out)
	}
	return &dto.CustomerListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Update reemplaza los datos del cliente y después sus etiquetas (borrar vínculos, insertar vínculos).
// Sin compensación: si la inserción de vínculos falla, el cliente queda sin etiquetas.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("CUSTOMER_GET", "no se pudo leer el cliente", err)
	}
	if c == nil {
		return nil, domain.NotFound("cliente")
	}
	tagIDs, err := uc.resolver.ResolveOrCreate(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	apply(c, in, time.Now())
	if err := uc.customers.Update(ctx, c); err != nil {
		return nil, storeError("CUSTOMER_UPDATE", "no se pudo actualizar el cliente", err)
	}
	if err := uc.links.DeleteByCustomer(ctx, c.ID); err != nil {
		return nil, storeError("CUSTOMER_TAGS", "no se pudieron quitar las etiquetas", err)
	}
	if err := uc.resolver.Associate(ctx, c.ID, tagIDs); err != nil {
		uc.log.Warn().Err(err).Str("customer_id", c.ID).Msg("cliente actualizado sin etiquetas: falló la inserción de vínculos")
		return nil, err
	}
	return uc.withTags(ctx, c)
}

// Delete marca el cliente como borrado. Los vínculos con etiquetas se conservan.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.customers.SoftDelete(ctx, id, time.Now()); err != nil {
		return storeError("CUSTOMER_DELETE", "no se pudo eliminar el cliente", err)
	}
	return nil
}

// Search busca por todas las variantes de la consulta (ancho, hiragana, katakana) y ordena
// por puntuación descendente y nombre.
func (uc *UseCase) Search(ctx context.Context, query string, limit int) (*dto.CustomerSearchResponse, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	out := &dto.CustomerSearchResponse{Query: query, Items: []dto.CustomerSearchResult{}}
	ranked, err := uc.rank(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for _, r := range ranked {
		resp, err := uc.withTags(ctx, r.customer)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, dto.CustomerSearchResult{CustomerResponse: *resp, Score: r.score})
	}
	return out, nil
}

// Suggest devuelve hasta 10 nombres distintos para autocompletar.
func (uc *UseCase) Suggest(ctx context.Context, query string) (*dto.SuggestResponse, error) {
	out := &dto.SuggestResponse{Suggestions: []string{}}
	ranked, err := uc.rank(ctx, query)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, suggestLimit)
	for _, r := range ranked {
		if len(out.Suggestions) == suggestLimit {
			break
		}
		if _, ok := seen[r.customer.Name]; ok {
			continue
		}
		seen[r.customer.Name] = struct{}{}
		out.Suggestions = append(out.Suggestions, r.customer.Name)
	}
	return out, nil
}

type scored struct {
	customer *entity.Customer
	score    float64
}

func (uc *UseCase) rank(ctx context.Context, query string) ([]scored, error) {
	patterns := search.GenerateSearchPatterns(query)
	if len(patterns) == 0 {
		return nil, nil
	}
	terms := repository.CustomerSearch{Phrases: patterns, Tokens: search.SearchTokens(patterns)}
	list, err := uc.customers.Search(ctx, terms, searchFetchLimit)
	if err != nil {
		return nil, storeError("CUSTOMER_SEARCH", "no se pudo buscar clientes", err)
	}
	ranked := make([]scored, 0, len(list))
	for _, c := range list {
		var best float64
		for _, field := range []string{c.Name, c.NameKana, c.CompanyName, c.Email} {
			if s := search.BestSearchScore(field, query); s > best {
				best = s
			}
		}
		ranked = append(ranked, scored{customer: c, score: best})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].customer.Name < ranked[j].customer.Name
	})
	return ranked, nil
}

func (uc *UseCase) withTags(ctx context.Context, c *entity.Customer) (*dto.CustomerResponse, error) {
	tags, err := uc.links.ListTagsByCustomer(ctx, c.ID)
	if err != nil {
		return nil, storeError("CUSTOMER_TAGS", "no se pudieron leer las etiquetas", err)
	}
	out := toCustomerResponse(c)
	for _, t := range tags {
		out.Tags = append(out.Tags, tag.ToTagResponse(t))
	}
	return out, nil
}

func apply(c *entity.Customer, in dto.CustomerRequest, now time.Time) {
	c.CustomerType = in.CustomerType
	c.Name = strings.TrimSpace(in.Name)
	c.NameKana = strings.TrimSpace(in.NameKana)
	c.CompanyName = strings.TrimSpace(in.CompanyName)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	c.PostalCode = strings.TrimSpace(in.PostalCode)
	c.Address = strings.TrimSpace(in.Address)
	c.Class = strings.TrimSpace(in.Class)
	c.Notes = in.Notes
	c.UpdatedAt = now
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:           c.ID,
		CustomerType: c.CustomerType,
		Name:         c.Name,
		NameKana:     c.NameKana,
		CompanyName:  c.CompanyName,
		Email:        c.Email,
		Phone:        c.Phone,
		PostalCode:   c.PostalCode,
		Address:      c.Address,
		Class:        c.Class,
		Notes:        c.Notes,
		Tags:         []dto.TagResponse{},
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// storeError traduce los centinelas del almacén; el resto es Internal.
func storeError(code, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.NotFound("cliente")
	case errors.Is(err, domain.ErrDuplicate):
		return domain.Conflict("CUSTOMER_DUPLICATE", "el cliente ya existe")
	default:
		return domain.Internal(code, message, err)
	}
}
