package stock

import (
	"context"

	"github.com/abastoya/marketplace-api/internal/domain/repository"
	"github.com/abastoya/marketplace-api/internal/events"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios
// atados a esa tx. Garantiza que leer-validar-escribir-loguear sea atómico:
// dos compras concurrentes sobre el mismo producto no pueden gastar el mismo stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
	) error) error
}

// Publisher es el puerto de emisión de eventos del motor. Lo implementa events.Bus.
type Publisher interface {
	Emit(eventType string, payload any) events.Event
}
