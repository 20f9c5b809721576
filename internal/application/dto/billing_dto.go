package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formato de fecha de emisión en requests y respuestas.
const DateLayout = "2006-01-02"

// InvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
type InvoiceRequest struct {
	IssueDate      string               `json:"issue_date" validate:"required,datetime=2006-01-02"`
	CustomerID     string               `json:"customer_id" validate:"omitempty,uuid"`
	BillingName    string               `json:"billing_name" validate:"required,max=200"`
	BillingAddress string               `json:"billing_address" validate:"max=255"`
	Notes          string               `json:"notes"`
	Items          []InvoiceItemRequest `json:"items" validate:"min=1,dive"`
}

// InvoiceItemRequest línea de factura. Se admiten cantidades fraccionarias.
type InvoiceItemRequest struct {
	ProductID   string          `json:"product_id" validate:"omitempty,uuid"`
	Description string          `json:"description" validate:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit        string          `json:"unit" validate:"max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// InvoiceResponse factura con sus líneas.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	IssueDate      string                `json:"issue_date"`
	CustomerID     string                `json:"customer_id,omitempty"`
	BillingName    string                `json:"billing_name"`
	BillingAddress string                `json:"billing_address,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Items          []InvoiceItemResponse `json:"items"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// InvoiceItemResponse línea de factura en la respuesta.
type InvoiceItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id,omitempty"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Amount       decimal.Decimal `json:"amount"`
	DisplayOrder int             `json:"display_order"`
}

// InvoiceListResponse lista paginada de facturas (sin líneas).
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
