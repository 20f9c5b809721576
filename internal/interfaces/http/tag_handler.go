package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
)

// TagHandler etiquetas de clientes (protegido).
type TagHandler struct {
	uc *tag.UseCase
}

// NewTagHandler construye el handler.
func NewTagHandler(uc *tag.UseCase) *TagHandler {
	return &TagHandler{uc: uc}
}

// List GET /api/tags
func (h *TagHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/tags. Si el nombre ya existe devuelve la etiqueta existente.
func (h *TagHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTagRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
