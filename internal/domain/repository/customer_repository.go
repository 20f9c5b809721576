package repository

import (
	"context"
	"time"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Cada método es una única operación atómica sobre la tabla customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	// GetByID devuelve (nil, nil) si no existe o tiene borrado lógico.
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// Search devuelve clientes activos cuyo nombre, lectura, empresa o email contenga alguna frase
	// o palabra de terms. Orden: igualdad con una frase, luego contiene una frase, luego el resto;
	// dentro de cada grupo por nombre. El límite se aplica después de ordenar.
	Search(ctx context.Context, terms CustomerSearch, limit int) ([]*entity.Customer, error)
}

// CustomerSearch términos ya normalizados de una búsqueda de clientes.
type CustomerSearch struct {
	Phrases []string // la consulta completa en cada silabario
	Tokens  []string // palabras sueltas de las frases; vacío si la consulta es de una palabra
}

// Terms frases y palabras juntas, sin repetidos.
func (s CustomerSearch) Terms() []string {
	out := make([]string, 0, len(s.Phrases)+len(s.Tokens))
	seen := make(map[string]struct{}, cap(out))
	for _, t := range append(append([]string{}, s.Phrases...), s.Tokens...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
