package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abastoya/marketplace-api/internal/application/stock"
	"github.com/abastoya/marketplace-api/internal/domain"
	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
	"github.com/abastoya/marketplace-api/internal/events"
)

// CheckoutInput entrada del flujo de compra con entrega.
type CheckoutInput struct {
	ProductID       int64
	Quantity        int64
	VendorID        string
	VendorName      string
	DeliveryAddress string
	PaymentMethod   string
	OrderID         string // opcional; se genera si viene vacío
}

// CheckoutResult compone el resultado de la mutación de stock con el pedido
// creado. Si la compra falla, Stock trae el fallo tal cual y Delivery es nil.
type CheckoutResult struct {
	Success  bool             `json:"success"`
	Stock    *stock.Result    `json:"stock"`
	Delivery *entity.Delivery `json:"delivery,omitempty"`
	Error    string           `json:"error,omitempty"`
	Code     string           `json:"code,omitempty"`
}

// CheckoutUseCase orquesta una compra de vendedor: descuenta stock vía el
// motor y, solo si eso comete, crea el pedido/entrega congelando el precio
// unitario vigente. No es idempotente: dos llamadas con la misma intención
// producen dos pedidos y dos descuentos; el caller evita el doble envío.
type CheckoutUseCase struct {
	stockMgr   *stock.Manager
	deliveries repository.DeliveryRepository
	bus        Publisher
	log        zerolog.Logger
}

// Publisher puerto de emisión de eventos (lo implementa events.Bus).
type Publisher interface {
	Emit(eventType string, payload any) events.Event
}

// NewCheckoutUseCase construye el orquestador.
func NewCheckoutUseCase(stockMgr *stock.Manager, deliveries repository.DeliveryRepository, bus Publisher, log zerolog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{stockMgr: stockMgr, deliveries: deliveries, bus: bus, log: log}
}

// Checkout ejecuta el flujo compra → pedido.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) *CheckoutResult {
	if in.VendorID == "" || in.DeliveryAddress == "" {
		return &CheckoutResult{
			Success: false,
			Code:    domain.CodeDeliveryCreateError,
			Error:   "vendor_id y delivery_address son obligatorios",
		}
	}

	orderID := in.OrderID
	if orderID == "" {
		orderID = uuid.New().String()
	}

	// Paso 1: descuento de stock. Un fallo se propaga tal cual, sin pedido.
	res := uc.stockMgr.Purchase(ctx, in.ProductID, in.Quantity, stock.Options{
		VendorID:   in.VendorID,
		VendorName: in.VendorName,
		OrderID:    orderID,
	})
	if !res.Success {
		return &CheckoutResult{Success: false, Stock: res, Error: res.Error, Code: res.Code}
	}

	// Paso 2: pedido con el precio unitario congelado a este instante.
	// Cambios de precio posteriores no alteran pedidos históricos.
	product := res.Data.Product
	qty := decimal.NewFromInt(in.Quantity)
	subtotal := product.Price.Mul(qty)
	now := time.Now()
	delivery := &entity.Delivery{
		OrderID:      orderID,
		VendorID:     in.VendorID,
		VendorName:   in.VendorName,
		SupplierID:   product.SupplierID,
		SupplierName: product.SupplierName,
		Items: []entity.DeliveryItem{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    in.Quantity,
			Unit:        product.Unit,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
		}},
		TotalAmount:     subtotal,
		Status:          entity.DeliveryStatusPending,
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   in.PaymentMethod,
		OrderDate:       now,
		UpdatedAt:       now,
	}
	if err := uc.deliveries.Create(ctx, delivery); err != nil {
		// El descuento de stock ya cometió; este fallo es propio del paso 2
		// y se reporta con su código, no con el del motor.
		uc.log.Error().Err(err).Str("order_id", orderID).Int64("product_id", in.ProductID).
			Msg("pedido no persistido tras descontar stock")
		return &CheckoutResult{
			Success: false,
			Stock:   res,
			Code:    domain.CodeDeliveryCreateError,
			Error:   err.Error(),
		}
	}

	// Paso 3: evento propio del pedido, aparte del stock_update genérico,
	// para que el historial de pedidos reconcilie por su cuenta.
	uc.bus.Emit(events.TypeDeliveryCreated, events.DeliveryPayload{
		OrderID:     delivery.OrderID,
		VendorID:    delivery.VendorID,
		SupplierID:  delivery.SupplierID,
		Status:      delivery.Status,
		TotalAmount: delivery.TotalAmount,
	})
	return &CheckoutResult{Success: true, Stock: res, Delivery: delivery}
}

// UpdateStatus avanza el estado de un pedido (lo dispara la logística o el
// proveedor, por fuera de este núcleo) y lo notifica por el bus.
func (uc *CheckoutUseCase) UpdateStatus(ctx context.Context, orderID, status string) (*entity.Delivery, error) {
	switch status {
	case entity.DeliveryStatusPending, entity.DeliveryStatusConfirmed,
		entity.DeliveryStatusInTransit, entity.DeliveryStatusDelivered,
		entity.DeliveryStatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	ok, err := uc.deliveries.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	d, err := uc.deliveries.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	uc.bus.Emit(events.TypeDeliveryStatusChanged, events.DeliveryPayload{
		OrderID:     d.OrderID,
		VendorID:    d.VendorID,
		SupplierID:  d.SupplierID,
		Status:      d.Status,
		TotalAmount: d.TotalAmount,
	})
	return d, nil
}

// GetByOrderID devuelve nil, nil si el pedido no existe.
func (uc *CheckoutUseCase) GetByOrderID(ctx context.Context, orderID string) (*entity.Delivery, error) {
	return uc.deliveries.GetByOrderID(ctx, orderID)
}

// ListByVendor historial de pedidos de un vendedor.
func (uc *CheckoutUseCase) ListByVendor(ctx context.Context, vendorID string) ([]*entity.Delivery, error) {
	return uc.deliveries.ListByVendor(ctx, vendorID)
}

// ListBySupplier pedidos recibidos por un proveedor.
func (uc *CheckoutUseCase) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Delivery, error) {
	return uc.deliveries.ListBySupplier(ctx, supplierID)
}
