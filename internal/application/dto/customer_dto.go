package dto

import "time"

// CustomerRequest body para POST /api/customers y PUT /api/customers/:id.
// En PUT reemplaza todos los campos y también las etiquetas.
type CustomerRequest struct {
	CustomerType string   `json:"customer_type" validate:"required,oneof=personal company"`
	Name         string   `json:"name" validate:"required,max=100"`
	NameKana     string   `json:"name_kana" validate:"max=100"`
	CompanyName  string   `json:"company_name" validate:"required_if=CustomerType company,max=100"`
	Email        string   `json:"email" validate:"omitempty,email,max=255"`
	Phone        string   `json:"phone" validate:"max=20"`
	PostalCode   string   `json:"postal_code" validate:"max=10"`
	Address      string   `json:"address" validate:"max=255"`
	Class        string   `json:"class" validate:"max=50"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID           string        `json:"id"`
	CustomerType string        `json:"customer_type"`
	Name         string        `json:"name"`
	NameKana     string        `json:"name_kana,omitempty"`
	CompanyName  string        `json:"company_name,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	PostalCode   string        `json:"postal_code,omitempty"`
	Address      string        `json:"address,omitempty"`
	Class        string        `json:"class,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Tags         []TagResponse `json:"tags"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CustomerSearchResult cliente con su puntuación de coincidencia.
type CustomerSearchResult struct {
	CustomerResponse
	Score float64 `json:"score"`
}

// CustomerSearchResponse resultado de GET /api/customers/search, ordenado por puntuación.
type CustomerSearchResponse struct {
	Query string                 `json:"query"`
	Items []CustomerSearchResult `json:"items"`
}

// SuggestResponse nombres sugeridos para autocompletar.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}
