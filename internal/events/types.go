package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento del marketplace. Cada tipo es una convención de payload
// sobre el bus genérico, no un mecanismo aparte.
const (
	TypeProductCreated = "product_created"
	TypeProductUpdated = "product_updated"
	TypeProductDeleted = "product_deleted"

	// stock_update cubre compras, reposiciones y ajustes; el campo Action
	// del payload distingue la operación.
	TypeStockUpdate = "stock_update"

	TypeDeliveryCreated       = "delivery_created"
	TypeDeliveryStatusChanged = "delivery_status_changed"

	TypeBargainCreated = "bargain_created"
	TypeBargainMessage = "bargain_message"

	TypeFlashSaleCreated      = "flash_sale_created"
	TypeFlashSaleUpdated      = "flash_sale_updated"
	TypeFlashSaleDeleted      = "flash_sale_deleted"
	TypeFlashSaleStockChanged = "flash_sale_stock_changed"

	TypeReviewAdded   = "review_added"
	TypeReviewUpdated = "review_updated"
)

// Acciones del payload de stock_update.
const (
	ActionPurchase = "purchase"
	ActionRestock  = "restock"
	ActionUpdate   = "update"
)

// Event es el sobre que entrega el bus: el payload del emisor más un id único
// y la marca de tiempo que el bus agrega en Emit.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// StockUpdatePayload payload de stock_update.
type StockUpdatePayload struct {
	Action          string `json:"action"` // purchase, restock, update
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	PreviousStock   int64  `json:"previous_stock"`
	NewStock        int64  `json:"new_stock"`
	QuantityChanged int64  `json:"quantity_changed"`
	VendorID        string `json:"vendor_id,omitempty"`
	SupplierID      string `json:"supplier_id,omitempty"`
	OrderID         string `json:"order_id,omitempty"`
}

// ProductPayload payload de product_created/updated/deleted.
type ProductPayload struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	SupplierID   string `json:"supplier_id,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
}

// DeliveryPayload payload de delivery_created/status_changed.
type DeliveryPayload struct {
	OrderID     string          `json:"order_id"`
	VendorID    string          `json:"vendor_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
