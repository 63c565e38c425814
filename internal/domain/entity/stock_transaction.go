package entity

import "time"

// Tipos de transacción de stock.
const (
	TransactionTypePurchase = "purchase"
	TransactionTypeRestock  = "restock"
	TransactionTypeUpdate   = "update"
)

// MaxTransactionHistory acota el log de transacciones: se conservan solo las
// más recientes y las viejas se descartan en la misma transacción que las crea.
const MaxTransactionHistory = 1000

// StockTransaction es una entrada append-only del log de auditoría de stock.
// Nunca se modifica después de escrita.
type StockTransaction struct {
	ID              string // uuid
	Type            string // purchase, restock, update
	ProductID       int64
	ProductName     string
	PreviousStock   int64
	NewStock        int64
	QuantityChanged int64 // negativo en compras, positivo en reposiciones
	VendorID        string
	SupplierID      string
	OrderID         string
	CreatedAt       time.Time
}
