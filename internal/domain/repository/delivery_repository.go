package repository

import (
	"context"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
)

// DeliveryRepository puerto de persistencia para pedidos/entregas.
type DeliveryRepository interface {
	Create(ctx context.Context, d *entity.Delivery) error
	// GetByOrderID devuelve nil, nil si el pedido no existe.
	GetByOrderID(ctx context.Context, orderID string) (*entity.Delivery, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*entity.Delivery, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Delivery, error)
	UpdateStatus(ctx context.Context, orderID, status string) (bool, error)
}
