package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la tienda.
// ID es único y estable; el resto de campos se modifica vía update.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta en LKR
	Stock       int
	Category    Category
	Weight      Weight
	Image       string // nombre del archivo servido bajo /images
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Weight peso neto del empaque (ej. 5 kg).
type Weight struct {
	Value decimal.Decimal
	Unit  string
}
