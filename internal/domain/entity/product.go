package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto o servicio facturable.
type Product struct {
	ID          string
	Code        string // código interno, único
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Unit        string // 個, 回, 時間...
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
