package dto

import "time"

// CreateTagRequest body para POST /api/tags.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// TagResponse etiqueta en respuestas.
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TagListResponse lista de etiquetas.
type TagListResponse struct {
	Items []TagResponse `json:"items"`
}
