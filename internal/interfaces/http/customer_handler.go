package http

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/customer"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes, búsqueda e importación (protegido).
type CustomerHandler struct {
	uc       *customer.UseCase
	importer *customer.ImportUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customer.UseCase, importer *customer.ImportUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc, importer: importer}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/customers?limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), parsePage(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/customers/:id. Las etiquetas enviadas reemplazan a las actuales.
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/customers/:id (borrado lógico).
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Search godoc
// @Summary      Buscar clientes
// @Description  Coincidencia por subcadena en nombre, lectura, empresa y email; hiragana y katakana se tratan como equivalentes.
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "Consulta"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200    {object}  dto.CustomerSearchResponse
// @Router       /api/customers/search [get]
func (h *CustomerHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Suggest GET /api/customers/suggest?q=
func (h *CustomerHandler) Suggest(c *fiber.Ctx) error {
	out, err := h.uc.Suggest(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar clientes desde CSV o XLSX
// @Description  Cada fila es independiente: las filas inválidas o duplicadas se informan en el resumen.
// @Tags         customers
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "Archivo .csv o .xlsx"
// @Param        format    query     string  false  "csv | xlsx (por defecto, la extensión del archivo)"
// @Param        encoding  query     string  false  "utf8 | sjis (solo CSV)"
// @Success      200     {object}  dto.ImportSummary
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/customers/import [post]
func (h *CustomerHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "el campo file es requerido")
	}
	format := c.Query("format")
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_FILE", "no se pudo abrir el archivo")
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "INVALID_FILE", "no se pudo leer el archivo")
	}
	summary, err := h.importer.ImportEncoded(c.UserContext(), raw, format, c.Query("encoding"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// Template GET /api/customers/import/template?format=csv|xlsx
func (h *CustomerHandler) Template(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "csv"))
	body, err := h.importer.Template(format)
	if err != nil {
		return writeError(c, err)
	}
	if format == "xlsx" {
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="customers_template.xlsx"`)
	} else {
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="customers_template.csv"`)
	}
	return c.Send(body)
}
