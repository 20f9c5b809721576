package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
)

// statusFor mapea el tipo de error de dominio a código HTTP.
func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindConsistency:
		return fiber.StatusInternalServerError
	case domain.KindInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde con el cuerpo de error estándar. Los errores sin tipo de dominio son INTERNAL.
// En los 500 el cliente solo recibe el mensaje de dominio; la causa (p. ej. el error de pgx) va al log.
func writeError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		log.Error().Err(err).Str("path", c.Path()).Msg("error sin tipo de dominio")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage})
	}
	status := statusFor(de.Kind)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("code", de.Code).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: de.Code, Message: de.Message})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: de.Code, Message: de.Error(), Details: de.Fields})
}

const internalMessage = "error interno del servidor"

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// parsePage lee limit/offset de la query y los acota a [1,100] y >= 0.
func parsePage(c *fiber.Ctx) dto.PageRequest {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return dto.PageRequest{Limit: limit, Offset: offset}
}
