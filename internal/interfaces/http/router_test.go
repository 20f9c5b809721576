package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/billing"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/customer"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/dto"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/ports"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/product"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/application/tag"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/csvimport"
	"github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/memory"
	infrapdf "github.com/hohoemi-rabo/cms-app-sub001/internal/infrastructure/pdf"
	apphttp "github.com/hohoemi-rabo/cms-app-sub001/internal/interfaces/http"
	"github.com/hohoemi-rabo/cms-app-sub001/pkg/logger"
)

// newServer arma la API completa sobre el almacén en memoria. secret vacío = sin autenticación.
func newServer(secret string) (*fiber.App, *memory.Store) {
	store := memory.NewStore("INV")
	log := logger.Nop()
	resolver := tag.NewResolver(store.Tags(), store.CustomerTags())
	customerUC := customer.NewUseCase(store.Customers(), store.CustomerTags(), resolver, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CustomerUC:    customerUC,
		ImportUC:      customer.NewImportUseCase(csvimport.NewParser(), customerUC, ports.NopMetrics{}, log, 1<<20),
		TagUC:         tag.NewUseCase(store.Tags(), resolver),
		InvoiceWriter: billing.NewInvoiceWriter(store.Invoices(), store.InvoiceItems(), store, ports.NopMetrics{}, log),
		InvoiceUC:     billing.NewInvoiceUseCase(store.Invoices(), store.InvoiceItems(), infrapdf.NewMarotoPDFGenerator(infrapdf.Options{Issuer: "Test Studio"})),
		ProductUC:     product.NewUseCase(store.Products()),
		JWTSecret:     secret,
		JWTIssuer:     testIssuer,
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, authHeader string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// ─── Customers ─────────────────────────────────────────────────────────────────

func TestCustomers_CreateAndGet(t *testing.T) {
	app, _ := newServer("")

	resp := doJSON(t, app, http.MethodPost, "/api/customers", dto.CustomerRequest{
		CustomerType: "personal",
		Name:         "Yamada Taro",
		Email:        "taro@example.com",
		Tags:         []string{"VIP", "VIP", "New"},
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.CustomerResponse
	decode(t, resp, &created)
	require.Len(t, created.Tags, 2)

	resp = doJSON(t, app, http.MethodGet, "/api/customers/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.CustomerResponse
	decode(t, resp, &got)
	assert.Equal(t, "Yamada Taro", got.Name)
}

func TestCustomers_ValidationError(t *testing.T) {
	app, store := newServer("")

	resp := doJSON(t, app, http.MethodPost, "/api/customers", dto.CustomerRequest{
		CustomerType: "company",
		Name:         "Sato",
		Tags:         []string{"VIP"},
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)
	require.NotEmpty(t, body.Details)
	assert.Equal(t, "company_name", body.Details[0].Field)
	// la validación ocurre antes de resolver etiquetas
	assert.Equal(t, 0, store.Tags().Count())
}

func TestCustomers_NotFound(t *testing.T) {
	app, _ := newServer("")
	resp := doJSON(t, app, http.MethodGet, "/api/customers/00000000-0000-0000-0000-00000000dead", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomers_SearchAcrossKana(t *testing.T) {
	app, _ := newServer("")
	resp := doJSON(t, app, http.MethodPost, "/api/customers", dto.CustomerRequest{
		CustomerType: "personal", Name: "佐藤", NameKana: "サトウ",
	}, "")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/customers/search?q="+url.QueryEscape("さとう"), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CustomerSearchResponse
	decode(t, resp, &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "佐藤", out.Items[0].Name)
	assert.Equal(t, 100.0, out.Items[0].Score)
}

func TestCustomers_Import(t *testing.T) {
	app, store := newServer("")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "customers.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("name,email,tags\nYamada,a@a.com,\"VIP,New\"\nYamada2,a@a.com,\n,b@b.com,\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/customers/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary dto.ImportSummary
	decode(t, resp, &summary)
	assert.Equal(t, 1, summary.Success)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, dto.ImportErrorParse, summary.Errors[0].Kind)
	assert.Equal(t, 4, summary.Errors[0].Row)
	assert.Equal(t, 2, store.Tags().Count())
}

func TestCustomers_ImportMissingFile(t *testing.T) {
	app, _ := newServer("")
	resp := doJSON(t, app, http.MethodPost, "/api/customers/import", nil, "")
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", body.Code)
}

func TestCustomers_Template(t *testing.T) {
	app, _ := newServer("")
	resp := doJSON(t, app, http.MethodGet, "/api/customers/import/template", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "customer_type,name")

	resp = doJSON(t, app, http.MethodGet, "/api/customers/import/template?format=pdf", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ─── Invoices ──────────────────────────────────────────────────────────────────

func invoiceBody() map[string]interface{} {
	return map[string]interface{}{
		"issue_date":   "2024-04-01",
		"billing_name": "Yamada Taro",
		"items": []map[string]interface{}{
			{"description": "Lesson", "quantity": 2, "unit_price": 1000},
			{"description": "Material", "quantity": 0.5, "unit_price": 999.98},
		},
	}
}

func TestInvoices_CreateGetPDF(t *testing.T) {
	app, _ := newServer("")

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", invoiceBody(), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.InvoiceResponse
	decode(t, resp, &created)
	assert.Equal(t, "INV-000001", created.InvoiceNumber)
	assert.Equal(t, "2499.99", created.TotalAmount.String())
	require.Len(t, created.Items, 2)
	assert.Equal(t, 0, created.Items[0].DisplayOrder)

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/"+created.ID+"/pdf", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_INV-000001.pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestInvoices_EmptyItemsRejected(t *testing.T) {
	app, store := newServer("")
	body := invoiceBody()
	body["items"] = []map[string]interface{}{}

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", body, "")
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)

	list, err := store.Invoices().List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ─── Auth ──────────────────────────────────────────────────────────────────────

func TestRouter_AuthEnabled(t *testing.T) {
	app, _ := newServer(testJWTSecret)

	resp := doJSON(t, app, http.MethodGet, "/api/products", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/products", dto.CreateProductRequest{Code: "P-1", Name: "Lesson", Unit: "回"}, tokenForRole(t, "staff"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+p.ID, nil, tokenForRole(t, "staff"))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+p.ID, nil, tokenForRole(t, "admin"))
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
