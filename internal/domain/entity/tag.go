package entity

import "time"

// MaxTagNameLength longitud máxima (en caracteres) de un nombre de etiqueta.
const MaxTagNameLength = 50

// Tag etiqueta libre asignable a clientes. Name conserva mayúsculas/minúsculas.
type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// CustomerTag vínculo cliente-etiqueta. No hay unicidad sobre el par.
type CustomerTag struct {
	ID         string
	CustomerID string
	TagID      string
	CreatedAt  time.Time
}
