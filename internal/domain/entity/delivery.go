package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una entrega. El estado avanza por fuera de este núcleo
// (logística, confirmación del proveedor); aquí solo se crea y se consulta.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusConfirmed = "confirmed"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusCancelled = "cancelled"
)

// DeliveryItem es una línea de pedido con el precio unitario congelado al
// momento de la compra. Cambios posteriores de precio no alteran pedidos históricos.
type DeliveryItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Delivery representa un pedido/entrega creado como efecto de una compra de vendedor.
type Delivery struct {
	OrderID         string // uuid
	VendorID        string
	VendorName      string
	SupplierID      string
	SupplierName    string
	Items           []DeliveryItem
	TotalAmount     decimal.Decimal
	Status          string
	DeliveryAddress string
	PaymentMethod   string
	OrderDate       time.Time
	UpdatedAt       time.Time
}
