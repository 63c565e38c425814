package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	Description         string          `json:"description,omitempty"`
	Unit                string          `json:"unit"`
	Stock               int64           `json:"stock"`
	Price               decimal.Decimal `json:"price"`
	ImageURL            string          `json:"image_url,omitempty"`
	SupplierName        string          `json:"supplier_name,omitempty"`
	LowStockThreshold   int64           `json:"low_stock_threshold,omitempty"`
	OutOfStockThreshold int64           `json:"out_of_stock_threshold,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil no se tocan.
// Stock no es editable por esta vía: siempre va por el motor de stock.
type UpdateProductRequest struct {
	Name                *string          `json:"name,omitempty"`
	Category            *string          `json:"category,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Unit                *string          `json:"unit,omitempty"`
	Price               *decimal.Decimal `json:"price,omitempty"`
	ImageURL            *string          `json:"image_url,omitempty"`
	LowStockThreshold   *int64           `json:"low_stock_threshold,omitempty"`
	OutOfStockThreshold *int64           `json:"out_of_stock_threshold,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	Description         string          `json:"description,omitempty"`
	Unit                string          `json:"unit"`
	Stock               int64           `json:"stock"`
	Quantity            int64           `json:"quantity"` // alias legado, siempre igual a stock
	StockStatus         string          `json:"stock_status"`
	Price               decimal.Decimal `json:"price"`
	ImageURL            string          `json:"image_url,omitempty"`
	SupplierID          string          `json:"supplier_id,omitempty"`
	SupplierName        string          `json:"supplier_name,omitempty"`
	LowStockThreshold   int64           `json:"low_stock_threshold"`
	OutOfStockThreshold int64           `json:"out_of_stock_threshold"`
	LastStockUpdate     time.Time       `json:"last_stock_update"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
