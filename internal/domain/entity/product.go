package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Umbrales por defecto para la clasificación de stock.
const (
	DefaultLowStockThreshold   = 10
	DefaultOutOfStockThreshold = 0
)

// Product representa un producto del catálogo de un proveedor del marketplace.
// Stock es el campo autoritativo; Quantity es un alias heredado del esquema viejo
// y siempre refleja el mismo valor (toda mutación escribe ambos).
type Product struct {
	ID                  int64
	Name                string
	Category            string
	Description         string
	Unit                string // kg, litro, docena, etc.
	Stock               int64
	Quantity            int64 // alias legado de Stock
	Price               decimal.Decimal
	ImageURL            string
	SupplierID          string
	SupplierName        string
	LowStockThreshold   int64
	OutOfStockThreshold int64
	LastStockUpdate     time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CurrentStock devuelve el stock vigente. Prefiere Stock y cae a Quantity
// solo para registros legados que nunca escribieron el campo nuevo.
func (p *Product) CurrentStock() int64 {
	if p.Stock == 0 && p.Quantity > 0 {
		return p.Quantity
	}
	return p.Stock
}

// ApplyStock escribe el nuevo nivel en ambos campos (Stock y su alias Quantity).
func (p *Product) ApplyStock(v int64, now time.Time) {
	p.Stock = v
	p.Quantity = v
	p.LastStockUpdate = now
	p.UpdatedAt = now
}
