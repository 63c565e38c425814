package repository

import (
	"context"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos. Único dueño del
// campo Stock: los casos de uso nunca escriben niveles fuera de UpdateStock.
type ProductRepository interface {
	// Create persiste el producto y asigna un ID monotónico creciente
	// (nunca se reutiliza, ni después de borrar el registro más alto).
	Create(ctx context.Context, p *entity.Product) error
	// GetByID devuelve nil, nil si el producto no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate devuelve el producto bloqueando la fila para escritura
	// (SELECT FOR UPDATE). Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update actualiza metadatos (nombre, precio, umbrales...). No toca Stock.
	Update(ctx context.Context, p *entity.Product) error
	// UpdateStock escribe stock, quantity y last_stock_update en una sola sentencia.
	UpdateStock(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Product, error)
	// ListByCategory filtra por categoría sin distinguir mayúsculas.
	ListByCategory(ctx context.Context, category string) ([]*entity.Product, error)
}
