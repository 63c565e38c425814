package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abastoya/marketplace-api/internal/domain"
	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
	domstock "github.com/abastoya/marketplace-api/internal/domain/stock"
	"github.com/abastoya/marketplace-api/internal/events"
)

// errHandled señala que la tx debe revertirse porque la validación ya resolvió
// el Result; no se traduce a DATABASE_UPDATE_ERROR.
var errHandled = errors.New("resultado ya resuelto")

// Options campos opcionales reconocidos por las operaciones del motor.
// VendorID/VendorName atribuyen compras en el log y el evento; SupplierID
// atribuye reposiciones; OrderID correlaciona con el pedido del orquestador.
type Options struct {
	VendorID   string
	VendorName string
	SupplierID string
	OrderID    string
}

// Manager encapsula el protocolo de mutación de stock: validación, mutación,
// log de auditoría y emisión de eventos. Los clientes nunca tocan Stock
// directamente; todo pasa por aquí y por el repositorio de productos.
type Manager struct {
	txRunner     TxRunner
	products     repository.ProductRepository
	transactions repository.StockTransactionRepository
	bus          Publisher
	log          zerolog.Logger
}

// NewManager construye el motor de stock.
func NewManager(
	txRunner TxRunner,
	products repository.ProductRepository,
	transactions repository.StockTransactionRepository,
	bus Publisher,
	log zerolog.Logger,
) *Manager {
	return &Manager{txRunner: txRunner, products: products, transactions: transactions, bus: bus, log: log}
}

// CoerceQuantity normaliza una cantidad a entero no negativo. Entradas
// negativas quedan en 0, que luego falla la validación "> 0" en vez de
// colarse como éxito silencioso.
func CoerceQuantity(q int64) int64 {
	if q < 0 {
		return 0
	}
	return q
}

// Purchase descuenta stock por una compra de vendedor. Rechaza la operación
// completa si el stock no alcanza: nunca descuenta parcial ni recorta.
func (m *Manager) Purchase(ctx context.Context, productID, quantity int64, opts Options) *Result {
	quantity = CoerceQuantity(quantity)
	if quantity <= 0 {
		return failure(domain.CodeInvalidQuantity, "la cantidad debe ser mayor que cero")
	}
	return m.apply(ctx, productID, entity.TransactionTypePurchase, events.ActionPurchase, opts,
		func(current int64) (int64, *Result) {
			if current < quantity {
				return 0, failureWithData(domain.CodeInsufficientStock,
					fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", current, quantity),
					&MutationData{
						AvailableStock:    current,
						RequestedQuantity: quantity,
						Shortfall:         quantity - current,
					})
			}
			return current - quantity, nil
		})
}

// Restock suma stock por una reposición del proveedor. Sin tope superior.
func (m *Manager) Restock(ctx context.Context, productID, quantity int64, opts Options) *Result {
	quantity = CoerceQuantity(quantity)
	if quantity <= 0 {
		return failure(domain.CodeInvalidQuantity, "la cantidad debe ser mayor que cero")
	}
	return m.apply(ctx, productID, entity.TransactionTypeRestock, events.ActionRestock, opts,
		func(current int64) (int64, *Result) {
			return current + quantity, nil
		})
}

// SetStock fija el stock en un valor absoluto. A diferencia de Purchase,
// un valor negativo no falla: se recorta a cero.
func (m *Manager) SetStock(ctx context.Context, productID, newStock int64, opts Options) *Result {
	if newStock < 0 {
		newStock = 0
	}
	return m.apply(ctx, productID, entity.TransactionTypeUpdate, events.ActionUpdate, opts,
		func(current int64) (int64, *Result) {
			return newStock, nil
		})
}

// BatchItem una compra dentro de un lote.
type BatchItem struct {
	ProductID int64
	Quantity  int64
	Options   Options
}

// BatchPurchase ejecuta cada compra de forma independiente y secuencial.
// No hay rollback entre ítems: el fallo de uno no bloquea ni revierte a los
// demás. Success agregado solo si todos pasaron.
func (m *Manager) BatchPurchase(ctx context.Context, items []BatchItem) *BatchResult {
	out := &BatchResult{Success: true, Results: make([]BatchItemResult, 0, len(items))}
	for _, it := range items {
		res := m.Purchase(ctx, it.ProductID, it.Quantity, it.Options)
		if !res.Success {
			out.Success = false
		}
		out.Results = append(out.Results, BatchItemResult{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Result:    res,
		})
	}
	return out
}

// CheckAvailability consulta si alcanza el stock para una cantidad. Solo
// lectura: no muta, no loguea, no emite.
func (m *Manager) CheckAvailability(ctx context.Context, productID, requested int64) *AvailabilityResult {
	requested = CoerceQuantity(requested)
	p, err := m.products.GetByID(ctx, productID)
	if err != nil {
		return &AvailabilityResult{Success: false, Code: domain.CodeDatabaseUpdateError, Error: err.Error()}
	}
	if p == nil {
		return &AvailabilityResult{Success: false, Code: domain.CodeProductNotFound, Error: "producto no encontrado"}
	}
	current := p.CurrentStock()
	shortfall := int64(0)
	if requested > current {
		shortfall = requested - current
	}
	return &AvailabilityResult{
		Success: true,
		Data: &AvailabilityData{
			CurrentStock:      current,
			RequestedQuantity: requested,
			IsAvailable:       requested > 0 && current >= requested,
			Shortfall:         shortfall,
			StockStatus:       domstock.Status(current, p),
			Unit:              p.Unit,
		},
	}
}

// GetStock devuelve el nivel actual con su clasificación. Solo lectura.
func (m *Manager) GetStock(ctx context.Context, productID int64) *StockInfoResult {
	p, err := m.products.GetByID(ctx, productID)
	if err != nil {
		return &StockInfoResult{Success: false, Code: domain.CodeDatabaseUpdateError, Error: err.Error()}
	}
	if p == nil {
		return &StockInfoResult{Success: false, Code: domain.CodeProductNotFound, Error: "producto no encontrado"}
	}
	current := p.CurrentStock()
	return &StockInfoResult{
		Success: true,
		Data: &StockInfo{
			Stock:       current,
			StockStatus: domstock.Status(current, p),
			Unit:        p.Unit,
		},
	}
}

// RecentActivity devuelve las últimas entradas del log de auditoría.
func (m *Manager) RecentActivity(ctx context.Context, limit int) ([]*entity.StockTransaction, error) {
	if limit <= 0 || limit > entity.MaxTransactionHistory {
		limit = 50
	}
	return m.transactions.ListRecent(ctx, limit)
}

// ProductHistory devuelve el historial de mutaciones de un producto.
func (m *Manager) ProductHistory(ctx context.Context, productID int64, limit int) ([]*entity.StockTransaction, error) {
	if limit <= 0 || limit > entity.MaxTransactionHistory {
		limit = 50
	}
	return m.transactions.ListByProduct(ctx, productID, limit)
}

// apply es el embudo único de toda mutación: bloquea la fila del producto,
// calcula el nivel nuevo, persiste stock + entrada de log + poda del historial
// en una sola transacción, y emite exactamente un stock_update tras el commit.
// Una validación fallida nunca llega aquí abajo: ni escribe ni emite.
func (m *Manager) apply(
	ctx context.Context,
	productID int64,
	txType, action string,
	opts Options,
	compute func(current int64) (int64, *Result),
) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Int64("product_id", productID).Str("action", action).
				Interface("panic", r).Msg("pánico en mutación de stock")
			res = failure(domain.CodeInternalError, fmt.Sprintf("error interno: %v", r))
		}
	}()

	var data *MutationData
	err := m.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		txs repository.StockTransactionRepository,
	) error {
		p, err := products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			res = failure(domain.CodeProductNotFound, "producto no encontrado")
			return errHandled
		}

		previous := p.CurrentStock()
		newStock, fail := compute(previous)
		if fail != nil {
			res = fail
			return errHandled
		}

		now := time.Now()
		p.ApplyStock(newStock, now)
		if err := products.UpdateStock(ctx, p); err != nil {
			return err
		}

		entry := &entity.StockTransaction{
			ID:              uuid.New().String(),
			Type:            txType,
			ProductID:       p.ID,
			ProductName:     p.Name,
			PreviousStock:   previous,
			NewStock:        newStock,
			QuantityChanged: newStock - previous,
			VendorID:        opts.VendorID,
			SupplierID:      opts.SupplierID,
			OrderID:         opts.OrderID,
			CreatedAt:       now,
		}
		if err := txs.Create(ctx, entry); err != nil {
			return err
		}
		if err := txs.Trim(ctx, entity.MaxTransactionHistory); err != nil {
			return err
		}

		data = &MutationData{
			PreviousStock:   previous,
			NewStock:        newStock,
			QuantityChanged: newStock - previous,
			Product:         p,
		}
		return nil
	})

	if res != nil {
		return res
	}
	if err != nil {
		m.log.Error().Err(err).Int64("product_id", productID).Str("action", action).
			Msg("mutación de stock fallida")
		return failure(domain.CodeDatabaseUpdateError, err.Error())
	}

	m.bus.Emit(events.TypeStockUpdate, events.StockUpdatePayload{
		Action:          action,
		ProductID:       data.Product.ID,
		ProductName:     data.Product.Name,
		PreviousStock:   data.PreviousStock,
		NewStock:        data.NewStock,
		QuantityChanged: data.QuantityChanged,
		VendorID:        opts.VendorID,
		SupplierID:      opts.SupplierID,
		OrderID:         opts.OrderID,
	})
	return &Result{Success: true, Data: data}
}
