package memory

import (
	"context"
	"strings"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// NewProductRepository construye el adaptador sobre el almacén compartido.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create asigna el id monotónico y guarda una copia del producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.nextProductID()
	// Registros legados pueden traer solo quantity; se normaliza al guardar.
	if p.Stock == 0 && p.Quantity > 0 {
		p.Stock = p.Quantity
	}
	p.Quantity = p.Stock
	r.s.products[p.ID] = *p
	return nil
}

// GetByID devuelve una copia; nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

// GetForUpdate en memoria equivale a GetByID: la exclusión la da el TxRunner,
// que serializa todas las mutaciones bajo un único lock.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update sobrescribe metadatos preservando los niveles de stock guardados.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	cp := *p
	cp.Stock = stored.Stock
	cp.Quantity = stored.Quantity
	cp.LastStockUpdate = stored.LastStockUpdate
	r.s.products[p.ID] = cp
	return nil
}

// UpdateStock escribe stock y su alias quantity al mismo valor.
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	stored.Stock = p.Stock
	stored.Quantity = p.Stock
	stored.LastStockUpdate = p.LastStockUpdate
	stored.UpdatedAt = p.UpdatedAt
	r.s.products[p.ID] = stored
	return nil
}

// Delete elimina el producto; false si no existía. El contador de ids no
// retrocede: el id liberado no se reutiliza.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	delete(r.s.products, id)
	return true, nil
}

// List devuelve todos los productos ordenados por id.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedProducts(nil), nil
}

// ListBySupplier filtra por proveedor.
func (r *ProductRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedProducts(func(p entity.Product) bool {
		return p.SupplierID == supplierID
	}), nil
}

// ListByCategory filtra por categoría sin distinguir mayúsculas.
func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedProducts(func(p entity.Product) bool {
		return strings.EqualFold(p.Category, category)
	}), nil
}
