package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `id, type, product_id, product_name, previous_stock, new_stock,
	quantity_changed, vendor_id, supplier_id, order_id, created_at`

// StockTransactionRepo implementación del log de auditoría sobre PostgreSQL
// (usable con pool o tx). Las filas nunca se actualizan; solo se insertan y,
// al podar, se borran las más viejas. La columna seq (BIGSERIAL) da el orden
// de aplicación de las mutaciones.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create inserta una entrada del log.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, type, product_id, product_name, previous_stock,
			new_stock, quantity_changed, vendor_id, supplier_id, order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Type, t.ProductID, t.ProductName, t.PreviousStock,
		t.NewStock, t.QuantityChanged, nullIfEmpty(t.VendorID), nullIfEmpty(t.SupplierID),
		nullIfEmpty(t.OrderID), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// Trim deja como máximo `max` entradas, borrando las más viejas por seq.
func (r *StockTransactionRepo) Trim(ctx context.Context, max int) error {
	query := `
		DELETE FROM stock_transactions
		WHERE seq NOT IN (SELECT seq FROM stock_transactions ORDER BY seq DESC LIMIT $1)`
	if _, err := r.q.Exec(ctx, query, max); err != nil {
		return fmt.Errorf("trim stock transactions: %w", err)
	}
	return nil
}

// ListRecent devuelve las últimas entradas, de la más nueva a la más vieja.
func (r *StockTransactionRepo) ListRecent(ctx context.Context, limit int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM stock_transactions ORDER BY seq DESC LIMIT $1`
	return r.scanMany(ctx, query, limit)
}

// ListByProduct historial de un producto, de la entrada más nueva a la más vieja.
func (r *StockTransactionRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM stock_transactions WHERE product_id = $1 ORDER BY seq DESC LIMIT $2`
	return r.scanMany(ctx, query, productID, limit)
}

func (r *StockTransactionRepo) scanMany(ctx context.Context, query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		var vendorID, supplierID, orderID *string
		if err := rows.Scan(
			&t.ID, &t.Type, &t.ProductID, &t.ProductName, &t.PreviousStock, &t.NewStock,
			&t.QuantityChanged, &vendorID, &supplierID, &orderID, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		if vendorID != nil {
			t.VendorID = *vendorID
		}
		if supplierID != nil {
			t.SupplierID = *supplierID
		}
		if orderID != nil {
			t.OrderID = *orderID
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
