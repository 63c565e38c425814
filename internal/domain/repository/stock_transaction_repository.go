package repository

import (
	"context"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
)

// StockTransactionRepository puerto del log de auditoría de stock (append-only).
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	// Trim descarta las entradas más viejas dejando como máximo `max`.
	// Se invoca en la misma transacción que Create para acotar el crecimiento.
	Trim(ctx context.Context, max int) error
	// ListRecent devuelve las últimas `limit` entradas, de la más nueva a la más vieja.
	ListRecent(ctx context.Context, limit int) ([]*entity.StockTransaction, error)
	ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockTransaction, error)
}
