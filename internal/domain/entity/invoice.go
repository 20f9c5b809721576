package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice cabecera de una factura. TotalAmount = Σ Quantity × UnitPrice de sus líneas.
type Invoice struct {
	ID             string
	InvoiceNumber  string // generado por la secuencia del almacén
	IssueDate      time.Time
	CustomerID     string // opcional
	BillingName    string
	BillingAddress string
	Notes          string
	TotalAmount    decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// InvoiceItem línea de factura. Amount = Quantity × UnitPrice.
type InvoiceItem struct {
	ID           string
	InvoiceID    string
	ProductID    string // opcional
	Description  string
	Quantity     decimal.Decimal
	Unit         string
	UnitPrice    decimal.Decimal
	Amount       decimal.Decimal
	DisplayOrder int
	CreatedAt    time.Time
	DeletedAt    *time.Time
}
