package http

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/domain"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, statusFor(domain.KindValidation))
	assert.Equal(t, fiber.StatusNotFound, statusFor(domain.KindNotFound))
	assert.Equal(t, fiber.StatusConflict, statusFor(domain.KindConflict))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(domain.KindConsistency))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(domain.KindInternal))
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validación con detalle", domain.Validation("datos inválidos", domain.FieldError{Field: "name", Message: "es obligatorio"}), 400, "VALIDATION", "datos inválidos"},
		{"envuelto", errors.Join(errors.New("ctx"), domain.NotFound("factura")), 404, "NOT_FOUND", "factura no encontrado"},
		{"consistencia", domain.Consistency("INVOICE_COMPENSATION_FAILED", "cabecera huérfana", errors.New("x")), 500, "INVOICE_COMPENSATION_FAILED", "cabecera huérfana"},
		{"interno sin causa en la respuesta", domain.Internal("CUSTOMER_CREATE", "no se pudo crear el cliente", errors.New(`ERROR: relation "customers" does not exist (SQLSTATE 42P01)`)), 500, "CUSTOMER_CREATE", "no se pudo crear el cliente"},
		{"sin tipo", errors.New("dial tcp 10.0.0.5:5432: connection refused"), 500, "INTERNAL", internalMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tt.err) })
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
