package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo log de auditoría en memoria (slice append-only).
type StockTransactionRepo struct {
	s *Store
}

// NewStockTransactionRepository construye el adaptador sobre el almacén compartido.
func NewStockTransactionRepository(s *Store) *StockTransactionRepo {
	return &StockTransactionRepo{s: s}
}

// Create agrega la entrada al final del log.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	r.s.transactions = append(r.s.transactions, *t)
	return nil
}

// Trim descarta las entradas más viejas dejando como máximo `max`.
func (r *StockTransactionRepo) Trim(ctx context.Context, max int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if excess := len(r.s.transactions) - max; excess > 0 {
		r.s.transactions = append([]entity.StockTransaction(nil), r.s.transactions[excess:]...)
	}
	return nil
}

// ListRecent devuelve las últimas `limit` entradas, de la más nueva a la más vieja.
func (r *StockTransactionRepo) ListRecent(ctx context.Context, limit int) ([]*entity.StockTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(limit, nil), nil
}

// ListByProduct historial de un producto, de la entrada más nueva a la más vieja.
func (r *StockTransactionRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(limit, func(t entity.StockTransaction) bool {
		return t.ProductID == productID
	}), nil
}

// collect recorre el log del final hacia el principio. Llamar con el lock tomado.
func (r *StockTransactionRepo) collect(limit int, filter func(entity.StockTransaction) bool) []*entity.StockTransaction {
	var out []*entity.StockTransaction
	for i := len(r.s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		t := r.s.transactions[i]
		if filter == nil || filter(t) {
			cp := t
			out = append(out, &cp)
		}
	}
	return out
}
