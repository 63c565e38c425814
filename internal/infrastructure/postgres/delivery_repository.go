package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abastoya/marketplace-api/internal/domain"
	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const deliveryColumns = `order_id, vendor_id, vendor_name, supplier_id, supplier_name,
	items, total_amount, status, delivery_address, payment_method, order_date, updated_at`

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL (usable con pool o tx).
// Las líneas de pedido van en una columna JSONB: el precio queda congelado
// dentro del documento, no referencia la fila del producto.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste un pedido.
func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return fmt.Errorf("marshal delivery items: %w", err)
	}
	query := `
		INSERT INTO deliveries (order_id, vendor_id, vendor_name, supplier_id, supplier_name,
			items, total_amount, status, delivery_address, payment_method, order_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(ctx, query,
		d.OrderID, d.VendorID, d.VendorName, d.SupplierID, d.SupplierName,
		items, d.TotalAmount, d.Status, d.DeliveryAddress, d.PaymentMethod, d.OrderDate, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByOrderID obtiene un pedido; nil, nil si no existe.
func (r *DeliveryRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE order_id = $1`
	var d entity.Delivery
	var items []byte
	err := r.q.QueryRow(ctx, query, orderID).Scan(
		&d.OrderID, &d.VendorID, &d.VendorName, &d.SupplierID, &d.SupplierName,
		&items, &d.TotalAmount, &d.Status, &d.DeliveryAddress, &d.PaymentMethod,
		&d.OrderDate, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if err := json.Unmarshal(items, &d.Items); err != nil {
		return nil, fmt.Errorf("unmarshal delivery items: %w", err)
	}
	return &d, nil
}

// ListByVendor pedidos de un vendedor, del más reciente al más viejo.
func (r *DeliveryRepo) ListByVendor(ctx context.Context, vendorID string) ([]*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE vendor_id = $1 ORDER BY order_date DESC`
	return r.scanMany(ctx, query, vendorID)
}

// ListBySupplier pedidos recibidos por un proveedor, del más reciente al más viejo.
func (r *DeliveryRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE supplier_id = $1 ORDER BY order_date DESC`
	return r.scanMany(ctx, query, supplierID)
}

// UpdateStatus actualiza el estado; false si el pedido no existe.
func (r *DeliveryRepo) UpdateStatus(ctx context.Context, orderID, status string) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE deliveries SET status = $2, updated_at = now() WHERE order_id = $1`,
		orderID, status,
	)
	if err != nil {
		return false, fmt.Errorf("update delivery status: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *DeliveryRepo) scanMany(ctx context.Context, query string, args ...any) ([]*entity.Delivery, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		var items []byte
		if err := rows.Scan(
			&d.OrderID, &d.VendorID, &d.VendorName, &d.SupplierID, &d.SupplierName,
			&items, &d.TotalAmount, &d.Status, &d.DeliveryAddress, &d.PaymentMethod,
			&d.OrderDate, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		if err := json.Unmarshal(items, &d.Items); err != nil {
			return nil, fmt.Errorf("unmarshal delivery items: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
