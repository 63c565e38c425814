package memory

import (
	"context"
	"sync"

	"github.com/abastoya/marketplace-api/internal/application/stock"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las mutaciones de stock bajo un único lock y revierte el
// almacén al snapshot previo si el callback falla. Es el equivalente en
// memoria del Begin/Commit/Rollback con bloqueo de fila de PostgreSQL.
type TxRunner struct {
	s    *Store
	txMu sync.Mutex
}

// NewTxRunner construye el runner sobre el almacén compartido.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos sobre el almacén. Con el lock de transacción
// tomado no hay intercalado posible: leer-validar-escribir es atómico.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.StockTransactionRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	snap := r.s.snapshot()
	if err := fn(NewProductRepository(r.s), NewStockTransactionRepository(r.s)); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
