package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
)

// CheckoutRequest body para POST /api/orders/checkout.
type CheckoutRequest struct {
	ProductID       int64  `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	VendorName      string `json:"vendor_name,omitempty"`
	DeliveryAddress string `json:"delivery_address"`
	PaymentMethod   string `json:"payment_method"`
	OrderID         string `json:"order_id,omitempty"`
}

// UpdateDeliveryStatusRequest body para PUT /api/orders/:orderId/status.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status"`
}

// DeliveryResponse representación HTTP de un pedido/entrega.
type DeliveryResponse struct {
	OrderID         string                `json:"order_id"`
	VendorID        string                `json:"vendor_id"`
	VendorName      string                `json:"vendor_name,omitempty"`
	SupplierID      string                `json:"supplier_id"`
	SupplierName    string                `json:"supplier_name,omitempty"`
	Items           []entity.DeliveryItem `json:"items"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	Status          string                `json:"status"`
	DeliveryAddress string                `json:"delivery_address,omitempty"`
	PaymentMethod   string                `json:"payment_method,omitempty"`
	OrderDate       time.Time             `json:"order_date"`
}
