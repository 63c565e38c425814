package dto

// PurchaseRequest body para POST /api/stock/purchase.
type PurchaseRequest struct {
	ProductID  int64  `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	VendorID   string `json:"vendor_id,omitempty"`
	VendorName string `json:"vendor_name,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
}

// RestockRequest body para POST /api/stock/restock.
type RestockRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// SetStockRequest body para POST /api/stock/set.
type SetStockRequest struct {
	ProductID int64 `json:"product_id"`
	NewStock  int64 `json:"new_stock"`
}

// BatchPurchaseRequest body para POST /api/stock/purchase/batch.
type BatchPurchaseRequest struct {
	Items    []PurchaseRequest `json:"items"`
	VendorID string            `json:"vendor_id,omitempty"`
	OrderID  string            `json:"order_id,omitempty"`
}
