package memory

import (
	"context"
	"sort"
	"time"

	"github.com/abastoya/marketplace-api/internal/domain"
	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo pedidos en memoria.
type DeliveryRepo struct {
	s *Store
}

// NewDeliveryRepository construye el adaptador sobre el almacén compartido.
func NewDeliveryRepository(s *Store) *DeliveryRepo {
	return &DeliveryRepo{s: s}
}

// Create persiste el pedido; duplicar order_id es error.
func (r *DeliveryRepo) Create(ctx context.Context, d *entity.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.deliveries[d.OrderID]; ok {
		return domain.ErrDuplicate
	}
	cp := *d
	cp.Items = append([]entity.DeliveryItem(nil), d.Items...)
	r.s.deliveries[d.OrderID] = cp
	return nil
}

// GetByOrderID devuelve una copia; nil, nil si no existe.
func (r *DeliveryRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deliveries[orderID]
	if !ok {
		return nil, nil
	}
	cp := d
	cp.Items = append([]entity.DeliveryItem(nil), d.Items...)
	return &cp, nil
}

// ListByVendor pedidos de un vendedor, del más reciente al más viejo.
func (r *DeliveryRepo) ListByVendor(ctx context.Context, vendorID string) ([]*entity.Delivery, error) {
	return r.list(func(d entity.Delivery) bool { return d.VendorID == vendorID }), nil
}

// ListBySupplier pedidos recibidos por un proveedor, del más reciente al más viejo.
func (r *DeliveryRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Delivery, error) {
	return r.list(func(d entity.Delivery) bool { return d.SupplierID == supplierID }), nil
}

// UpdateStatus actualiza el estado; false si el pedido no existe.
func (r *DeliveryRepo) UpdateStatus(ctx context.Context, orderID, status string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deliveries[orderID]
	if !ok {
		return false, nil
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	r.s.deliveries[orderID] = d
	return true, nil
}

func (r *DeliveryRepo) list(filter func(entity.Delivery) bool) []*entity.Delivery {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Delivery
	for _, d := range r.s.deliveries {
		if filter(d) {
			cp := d
			cp.Items = append([]entity.DeliveryItem(nil), d.Items...)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}
