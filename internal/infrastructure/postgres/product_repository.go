package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, category, description, unit, stock, quantity, price, image_url,
	supplier_id, supplier_name, low_stock_threshold, out_of_stock_threshold,
	last_stock_update, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo. El ID lo asigna la secuencia de la tabla
// (BIGSERIAL): estrictamente creciente, nunca se reutiliza aunque se borre el más alto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (name, category, description, unit, stock, quantity, price, image_url,
			supplier_id, supplier_name, low_stock_threshold, out_of_stock_threshold,
			last_stock_update, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.Name, p.Category, p.Description, p.Unit, p.Stock, p.Quantity, p.Price, p.ImageURL,
		p.SupplierID, p.SupplierName, p.LowStockThreshold, p.OutOfStockThreshold,
		p.LastStockUpdate, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila para escritura (SELECT FOR UPDATE).
// Cierra la carrera leer-validar-escribir de las mutaciones de stock.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	p, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// Update actualiza metadatos del producto. No toca stock ni quantity.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category = $3, description = $4, unit = $5, price = $6,
			image_url = $7, supplier_name = $8, low_stock_threshold = $9,
			out_of_stock_threshold = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Description, p.Unit, p.Price,
		p.ImageURL, p.SupplierName, p.LowStockThreshold, p.OutOfStockThreshold, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock escribe stock y su alias quantity al mismo valor en una sola
// sentencia, junto con last_stock_update. Única vía de escritura de niveles.
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET stock = $2, quantity = $2, last_stock_update = $3, updated_at = $3
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Stock, p.LastStockUpdate)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update stock: producto %d no existe", p.ID)
	}
	return nil
}

// Delete elimina un producto por ID; false si no existía.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List devuelve el catálogo completo.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	return r.scanMany(ctx, query)
}

// ListBySupplier lista los productos de un proveedor.
func (r *ProductRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE supplier_id = $1 ORDER BY id`
	return r.scanMany(ctx, query, supplierID)
}

// ListByCategory filtra por categoría sin distinguir mayúsculas.
func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE LOWER(category) = LOWER($1) ORDER BY id`
	return r.scanMany(ctx, query, category)
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Description, &p.Unit, &p.Stock, &p.Quantity, &p.Price,
		&p.ImageURL, &p.SupplierID, &p.SupplierName, &p.LowStockThreshold, &p.OutOfStockThreshold,
		&p.LastStockUpdate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Description, &p.Unit, &p.Stock, &p.Quantity, &p.Price,
			&p.ImageURL, &p.SupplierID, &p.SupplierName, &p.LowStockThreshold, &p.OutOfStockThreshold,
			&p.LastStockUpdate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
