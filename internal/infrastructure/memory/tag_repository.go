package memory

import (
	"context"
	"sort"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
)

var (
	_ repository.TagRepository         = (*TagRepo)(nil)
	_ repository.CustomerTagRepository = (*CustomerTagRepo)(nil)
)

// TagRepo implementación en memoria de TagRepository.
type TagRepo struct {
	s *Store
}

func (r *TagRepo) FindByNames(ctx context.Context, names []string) ([]*entity.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Tag, 0, len(names))
	for _, n := range names {
		if id, ok := r.s.tagsByName[n]; ok {
			t := r.s.tags[id]
			out = append(out, &t)
		}
	}
	return out, nil
}

// CreateMany aplica la misma semántica que ON CONFLICT (name) DO UPDATE ... RETURNING:
// un nombre existente devuelve la fila existente.
func (r *TagRepo) CreateMany(ctx context.Context, tags []*entity.Tag) ([]*entity.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Tag, 0, len(tags))
	for _, t := range tags {
		if id, ok := r.s.tagsByName[t.Name]; ok {
			existing := r.s.tags[id]
			out = append(out, &existing)
			continue
		}
		r.s.tags[t.ID] = *t
		r.s.tagsByName[t.Name] = t.ID
		created := *t
		out = append(out, &created)
	}
	return out, nil
}

func (r *TagRepo) GetByID(ctx context.Context, id string) (*entity.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tags[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TagRepo) List(ctx context.Context) ([]*entity.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Tag, 0, len(r.s.tags))
	for _, t := range r.s.tags {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Count número de etiquetas almacenadas.
func (r *TagRepo) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.tags)
}

// CustomerTagRepo implementación en memoria de CustomerTagRepository.
type CustomerTagRepo struct {
	s *Store
}

func (r *CustomerTagRepo) CreateMany(ctx context.Context, links []*entity.CustomerTag) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range links {
		r.s.customerTags = append(r.s.customerTags, *l)
	}
	return nil
}

func (r *CustomerTagRepo) DeleteByCustomer(ctx context.Context, customerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.customerTags[:0]
	for _, l := range r.s.customerTags {
		if l.CustomerID != customerID {
			kept = append(kept, l)
		}
	}
	r.s.customerTags = kept
	return nil
}

// ListTagsByCustomer devuelve una etiqueta por vínculo, en orden de inserción (los pares repetidos se repiten).
func (r *CustomerTagRepo) ListTagsByCustomer(ctx context.Context, customerID string) ([]*entity.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Tag, 0)
	for _, l := range r.s.customerTags {
		if l.CustomerID != customerID {
			continue
		}
		if t, ok := r.s.tags[l.TagID]; ok {
			out = append(out, &t)
		}
	}
	return out, nil
}
