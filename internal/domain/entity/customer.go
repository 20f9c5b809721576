package entity

import "time"

// Tipos de cliente.
const (
	CustomerTypePersonal = "personal"
	CustomerTypeCompany  = "company"
)

// Customer representa un cliente del negocio. Nunca se borra físicamente: DeletedAt marca el borrado lógico.
type Customer struct {
	ID           string
	CustomerType string // personal | company
	Name         string
	NameKana     string // lectura (furigana), usada por la búsqueda
	CompanyName  string // obligatorio si CustomerType = company
	Email        string
	Phone        string
	PostalCode   string
	Address      string
	Class        string // franja de horario asignada
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsDeleted indica si el cliente tiene borrado lógico.
func (c *Customer) IsDeleted() bool { return c.DeletedAt != nil }
