package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	s *Store
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok || c.IsDeleted() {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	list := r.activeLocked(func(*entity.Customer) bool { return true })
	r.s.mu.RUnlock()
	return page(list, limit, offset), nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.customers[c.ID]
	if !ok || cur.IsDeleted() {
		return domain.ErrNotFound
	}
	c.CreatedAt = cur.CreatedAt
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok || c.IsDeleted() {
		return domain.ErrNotFound
	}
	c.DeletedAt = &at
	c.UpdatedAt = at
	r.s.customers[id] = c
	return nil
}

// Search coincidencia por subcadena sin distinguir mayúsculas (como ILIKE) sobre nombre, lectura, empresa y email.
// Mismo orden que el adaptador SQL: igualdad con frase, frase contenida, resto; luego nombre.
func (r *CustomerRepo) Search(ctx context.Context, terms repository.CustomerSearch, limit int) ([]*entity.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := lowerAll(terms.Terms())
	if len(all) == 0 {
		return []*entity.Customer{}, nil
	}
	phrases := lowerAll(terms.Phrases)

	r.s.mu.RLock()
	list := r.activeLocked(func(c *entity.Customer) bool {
		return matchesAny(c, all, false)
	})
	r.s.mu.RUnlock()

	tier := func(c *entity.Customer) int {
		switch {
		case matchesAny(c, phrases, true):
			return 2
		case matchesAny(c, phrases, false):
			return 1
		default:
			return 0
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return tier(list[i]) > tier(list[j])
	})
	return page(list, limit, 0), nil
}

// matchesAny indica si algún campo contiene (o, con exact, es igual a) alguno de los términos.
func matchesAny(c *entity.Customer, terms []string, exact bool) bool {
	for _, f := range []string{c.Name, c.NameKana, c.CompanyName, c.Email} {
		f = strings.ToLower(f)
		if f == "" {
			continue
		}
		for _, t := range terms {
			if (exact && f == t) || (!exact && strings.Contains(f, t)) {
				return true
			}
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// activeLocked clientes sin borrado lógico que cumplen match, ordenados por nombre. Requiere el lock tomado.
func (r *CustomerRepo) activeLocked(match func(*entity.Customer) bool) []*entity.Customer {
	list := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		c := c
		if c.IsDeleted() || !match(&c) {
			continue
		}
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}
