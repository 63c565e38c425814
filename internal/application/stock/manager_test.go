package stock_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoya/marketplace-api/internal/application/stock"
	"github.com/abastoya/marketplace-api/internal/domain"
	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/events"
	"github.com/abastoya/marketplace-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store *memory.Store
	bus   *events.Bus
	mgr   *stock.Manager
}

func newFixture() *fixture {
	store := memory.NewStore()
	bus := events.NewBus(zerolog.Nop())
	mgr := stock.NewManager(
		memory.NewTxRunner(store),
		memory.NewProductRepository(store),
		memory.NewStockTransactionRepository(store),
		bus,
		zerolog.Nop(),
	)
	return &fixture{store: store, bus: bus, mgr: mgr}
}

// seedProduct crea un producto con el stock indicado y devuelve su id.
func (f *fixture) seedProduct(t *testing.T, name string, stockLevel int64) int64 {
	t.Helper()
	p := &entity.Product{Name: name, Unit: "kg", Stock: stockLevel}
	repo := memory.NewProductRepository(f.store)
	require.NoError(t, repo.Create(context.Background(), p))
	return p.ID
}

// currentStock lee el nivel vigente directamente del repo.
func (f *fixture) currentStock(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := memory.NewProductRepository(f.store).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock()
}

// captureStockEvents acumula los stock_update emitidos.
func (f *fixture) captureStockEvents() *[]events.Event {
	var captured []events.Event
	f.bus.Subscribe(events.TypeStockUpdate, func(ev events.Event) {
		captured = append(captured, ev)
	})
	return &captured
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Purchase
// ──────────────────────────────────────────────────────────────────────────────

// Compra simple: tomates con stock 10, se compran 2 → quedan 8, con log y evento.
func TestPurchase_DescuentaStock(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Tomates Frescos", 10)
	captured := f.captureStockEvents()

	res := f.mgr.Purchase(context.Background(), id, 2, stock.Options{VendorID: "vend-001"})

	require.True(t, res.Success, "la compra debe registrarse: %s", res.Error)
	require.NotNil(t, res.Data)
	assert.Equal(t, int64(10), res.Data.PreviousStock)
	assert.Equal(t, int64(8), res.Data.NewStock)
	assert.Equal(t, int64(-2), res.Data.QuantityChanged)
	assert.Equal(t, int64(8), f.currentStock(t, id), "el nivel persistido debe reflejar el descuento")

	// Exactamente un evento, después del commit.
	require.Len(t, *captured, 1)
	payload := (*captured)[0].Payload.(events.StockUpdatePayload)
	assert.Equal(t, events.ActionPurchase, payload.Action)
	assert.Equal(t, int64(8), payload.NewStock)
	assert.Equal(t, "vend-001", payload.VendorID)

	// Y una entrada en el log de auditoría.
	history, err := f.mgr.ProductHistory(context.Background(), id, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.TransactionTypePurchase, history[0].Type)
	assert.Equal(t, int64(10), history[0].PreviousStock)
	assert.Equal(t, int64(8), history[0].NewStock)
	assert.Equal(t, "vend-001", history[0].VendorID)
}

// Stock insuficiente: se rechaza la operación COMPLETA, sin descuento parcial.
func TestPurchase_StockInsuficiente_RechazaTodo(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Aguacate Hass", 3)
	captured := f.captureStockEvents()

	res := f.mgr.Purchase(context.Background(), id, 5, stock.Options{})

	require.False(t, res.Success)
	assert.Equal(t, domain.CodeInsufficientStock, res.Code)
	require.NotNil(t, res.Data, "el fallo debe traer los datos para reintentar con menos")
	assert.Equal(t, int64(3), res.Data.AvailableStock)
	assert.Equal(t, int64(5), res.Data.RequestedQuantity)
	assert.Equal(t, int64(2), res.Data.Shortfall)

	assert.Equal(t, int64(3), f.currentStock(t, id), "el rechazo no toca el stock")
	assert.Empty(t, *captured, "una operación rechazada no emite eventos")

	history, err := f.mgr.ProductHistory(context.Background(), id, 10)
	require.NoError(t, err)
	assert.Empty(t, history, "una operación rechazada no deja entrada en el log")
}

// Cantidad inválida (cero o negativa) → INVALID_QUANTITY sin tocar nada.
func TestPurchase_CantidadInvalida(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Panela", 8)
	captured := f.captureStockEvents()

	for _, qty := range []int64{0, -3} {
		res := f.mgr.Purchase(context.Background(), id, qty, stock.Options{})
		require.False(t, res.Success, "cantidad %d debe rechazarse", qty)
		assert.Equal(t, domain.CodeInvalidQuantity, res.Code)
	}
	assert.Equal(t, int64(8), f.currentStock(t, id))
	assert.Empty(t, *captured)
}

// Producto inexistente → PRODUCT_NOT_FOUND.
func TestPurchase_ProductoInexistente(t *testing.T) {
	f := newFixture()
	captured := f.captureStockEvents()

	res := f.mgr.Purchase(context.Background(), 999, 1, stock.Options{})

	require.False(t, res.Success)
	assert.Equal(t, domain.CodeProductNotFound, res.Code)
	assert.Empty(t, *captured)
}

// Comprar exactamente todo el stock disponible es válido y deja 0.
func TestPurchase_TodoElStock(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Limón Tahití", 4)

	res := f.mgr.Purchase(context.Background(), id, 4, stock.Options{})

	require.True(t, res.Success)
	assert.Equal(t, int64(0), f.currentStock(t, id))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Restock / SetStock
// ──────────────────────────────────────────────────────────────────────────────

func TestRestock_SumaStock(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Arroz Blanco", 5)
	captured := f.captureStockEvents()

	res := f.mgr.Restock(context.Background(), id, 20, stock.Options{SupplierID: "sup-003"})

	require.True(t, res.Success)
	assert.Equal(t, int64(5), res.Data.PreviousStock)
	assert.Equal(t, int64(25), res.Data.NewStock)
	assert.Equal(t, int64(25), f.currentStock(t, id))

	require.Len(t, *captured, 1)
	payload := (*captured)[0].Payload.(events.StockUpdatePayload)
	assert.Equal(t, events.ActionRestock, payload.Action)
	assert.Equal(t, "sup-003", payload.SupplierID)
}

func TestRestock_CantidadInvalida(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Cebolla Cabezona", 40)

	res := f.mgr.Restock(context.Background(), id, -10, stock.Options{})

	require.False(t, res.Success)
	assert.Equal(t, domain.CodeInvalidQuantity, res.Code)
	assert.Equal(t, int64(40), f.currentStock(t, id))
}

func TestSetStock_ValorAbsoluto(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Papa Pastusa", 15)

	res := f.mgr.SetStock(context.Background(), id, 7, stock.Options{SupplierID: "sup-002"})

	require.True(t, res.Success)
	assert.Equal(t, int64(15), res.Data.PreviousStock)
	assert.Equal(t, int64(7), res.Data.NewStock)
	assert.Equal(t, int64(-8), res.Data.QuantityChanged)
	assert.Equal(t, int64(7), f.currentStock(t, id))
}

// SetStock con valor negativo no falla: se recorta a cero.
func TestSetStock_NegativoSeRecortaACero(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Panela", 8)

	res := f.mgr.SetStock(context.Background(), id, -5, stock.Options{})

	require.True(t, res.Success)
	assert.Equal(t, int64(0), res.Data.NewStock)
	assert.Equal(t, int64(0), f.currentStock(t, id))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests invariantes del motor
// ──────────────────────────────────────────────────────────────────────────────

// El stock nunca es negativo bajo ninguna secuencia de operaciones.
func TestInvariante_StockNuncaNegativo(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Tomates Frescos", 10)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		qty := rng.Int63n(30) - 5 // incluye cantidades inválidas a propósito
		switch rng.Intn(3) {
		case 0:
			f.mgr.Purchase(context.Background(), id, qty, stock.Options{})
		case 1:
			f.mgr.Restock(context.Background(), id, qty, stock.Options{})
		default:
			f.mgr.SetStock(context.Background(), id, qty, stock.Options{})
		}
		current := f.currentStock(t, id)
		require.GreaterOrEqual(t, current, int64(0),
			"iteración %d: el stock nunca puede quedar negativo", i)
	}
}

// Cada mutación exitosa emite exactamente un stock_update; las fallidas, ninguno.
func TestInvariante_UnEventoPorMutacionExitosa(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Arroz Blanco", 10)
	captured := f.captureStockEvents()

	f.mgr.Purchase(context.Background(), id, 3, stock.Options{})  // éxito
	f.mgr.Purchase(context.Background(), id, 50, stock.Options{}) // insuficiente
	f.mgr.Restock(context.Background(), id, 5, stock.Options{})   // éxito
	f.mgr.Purchase(context.Background(), id, 0, stock.Options{})  // inválida
	f.mgr.SetStock(context.Background(), id, 9, stock.Options{})  // éxito

	assert.Len(t, *captured, 3, "tres mutaciones exitosas = tres eventos, ni uno más")
}

// Dos suscriptores (dos "pestañas") ven la misma secuencia de niveles.
func TestInvariante_DosSuscriptoresConvergen(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Tomates Frescos", 10)

	var tabA, tabB []int64
	f.bus.Subscribe(events.TypeStockUpdate, func(ev events.Event) {
		tabA = append(tabA, ev.Payload.(events.StockUpdatePayload).NewStock)
	})
	f.bus.Subscribe(events.TypeStockUpdate, func(ev events.Event) {
		tabB = append(tabB, ev.Payload.(events.StockUpdatePayload).NewStock)
	})

	f.mgr.Purchase(context.Background(), id, 2, stock.Options{})
	f.mgr.Purchase(context.Background(), id, 3, stock.Options{})
	f.mgr.Restock(context.Background(), id, 1, stock.Options{})

	assert.Equal(t, []int64{8, 5, 6}, tabA)
	assert.Equal(t, tabA, tabB, "ambos suscriptores ven exactamente la misma secuencia")
	assert.Equal(t, int64(6), f.currentStock(t, id))
}

// Registros legados que solo traen quantity se leen y migran al espejo stock.
func TestInvariante_EspejoQuantityLegado(t *testing.T) {
	f := newFixture()
	p := &entity.Product{Name: "Aguacate Hass", Unit: "kg", Quantity: 25} // sin Stock
	require.NoError(t, memory.NewProductRepository(f.store).Create(context.Background(), p))

	res := f.mgr.Purchase(context.Background(), p.ID, 5, stock.Options{})

	require.True(t, res.Success)
	assert.Equal(t, int64(25), res.Data.PreviousStock, "el nivel vigente sale de quantity")
	assert.Equal(t, int64(20), res.Data.NewStock)

	got, err := memory.NewProductRepository(f.store).GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.Stock, "la mutación escribe el campo nuevo")
	assert.Equal(t, int64(20), got.Quantity, "y mantiene el alias legado en espejo")
}

// El log de auditoría se poda a las últimas 1000 entradas.
func TestInvariante_LogPodadoAMil(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Arroz Blanco", 0)

	for i := 0; i < 1050; i++ {
		res := f.mgr.Restock(context.Background(), id, 1, stock.Options{})
		require.True(t, res.Success)
	}

	recent, err := f.mgr.RecentActivity(context.Background(), entity.MaxTransactionHistory)
	require.NoError(t, err)
	assert.Len(t, recent, entity.MaxTransactionHistory)

	// La más reciente primero: su nivel nuevo es el último alcanzado.
	assert.Equal(t, int64(1050), recent[0].NewStock)
	// Las 50 más viejas se descartaron: la cola del log arranca en la entrada 51.
	assert.Equal(t, int64(51), recent[len(recent)-1].NewStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests BatchPurchase
// ──────────────────────────────────────────────────────────────────────────────

// Cada ítem del lote es independiente: el fallo de uno no revierte a los demás.
func TestBatchPurchase_ItemsIndependientes(t *testing.T) {
	f := newFixture()
	idA := f.seedProduct(t, "Tomates Frescos", 10)
	idB := f.seedProduct(t, "Aguacate Hass", 2)
	idC := f.seedProduct(t, "Panela", 8)
	captured := f.captureStockEvents()

	batch := f.mgr.BatchPurchase(context.Background(), []stock.BatchItem{
		{ProductID: idA, Quantity: 4},
		{ProductID: idB, Quantity: 5}, // insuficiente
		{ProductID: idC, Quantity: 1},
	})

	require.Len(t, batch.Results, 3)
	assert.False(t, batch.Success, "un ítem fallido hunde el success agregado")
	assert.True(t, batch.Results[0].Result.Success)
	assert.False(t, batch.Results[1].Result.Success)
	assert.Equal(t, domain.CodeInsufficientStock, batch.Results[1].Result.Code)
	assert.True(t, batch.Results[2].Result.Success, "el ítem posterior al fallo se ejecuta igual")

	assert.Equal(t, int64(6), f.currentStock(t, idA))
	assert.Equal(t, int64(2), f.currentStock(t, idB), "el ítem fallido no descuenta nada")
	assert.Equal(t, int64(7), f.currentStock(t, idC))
	assert.Len(t, *captured, 2, "solo los ítems exitosos emiten evento")
}

func TestBatchPurchase_TodoExitoso(t *testing.T) {
	f := newFixture()
	idA := f.seedProduct(t, "Cebolla Cabezona", 40)
	idB := f.seedProduct(t, "Papa Pastusa", 15)

	batch := f.mgr.BatchPurchase(context.Background(), []stock.BatchItem{
		{ProductID: idA, Quantity: 10},
		{ProductID: idB, Quantity: 5},
	})

	assert.True(t, batch.Success)
	assert.Equal(t, int64(30), f.currentStock(t, idA))
	assert.Equal(t, int64(10), f.currentStock(t, idB))
}

func TestBatchPurchase_LoteVacio(t *testing.T) {
	f := newFixture()
	batch := f.mgr.BatchPurchase(context.Background(), nil)
	assert.True(t, batch.Success, "lote vacío = éxito vacuo")
	assert.Empty(t, batch.Results)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de solo lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Limón Tahití", 3)
	captured := f.captureStockEvents()

	res := f.mgr.CheckAvailability(context.Background(), id, 5)
	require.True(t, res.Success)
	assert.False(t, res.Data.IsAvailable)
	assert.Equal(t, int64(3), res.Data.CurrentStock)
	assert.Equal(t, int64(2), res.Data.Shortfall)

	res = f.mgr.CheckAvailability(context.Background(), id, 3)
	require.True(t, res.Success)
	assert.True(t, res.Data.IsAvailable)
	assert.Equal(t, int64(0), res.Data.Shortfall)

	// Cantidad 0 nunca es "disponible": no hay compra de cero.
	res = f.mgr.CheckAvailability(context.Background(), id, 0)
	require.True(t, res.Success)
	assert.False(t, res.Data.IsAvailable)

	assert.Empty(t, *captured, "consultar no emite eventos")
	assert.Equal(t, int64(3), f.currentStock(t, id), "consultar no muta")
}

func TestCheckAvailability_ProductoInexistente(t *testing.T) {
	f := newFixture()
	res := f.mgr.CheckAvailability(context.Background(), 404, 1)
	require.False(t, res.Success)
	assert.Equal(t, domain.CodeProductNotFound, res.Code)
}

func TestGetStock_ConClasificacion(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Panela", 8) // por debajo del umbral por defecto (10)

	res := f.mgr.GetStock(context.Background(), id)

	require.True(t, res.Success)
	assert.Equal(t, int64(8), res.Data.Stock)
	assert.Equal(t, "low_stock", res.Data.StockStatus)
	assert.Equal(t, "kg", res.Data.Unit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del log de auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestProductHistory_OrdenYFiltro(t *testing.T) {
	f := newFixture()
	idA := f.seedProduct(t, "Tomates Frescos", 10)
	idB := f.seedProduct(t, "Arroz Blanco", 60)

	f.mgr.Purchase(context.Background(), idA, 1, stock.Options{})
	f.mgr.Purchase(context.Background(), idB, 2, stock.Options{})
	f.mgr.Purchase(context.Background(), idA, 3, stock.Options{})

	history, err := f.mgr.ProductHistory(context.Background(), idA, 10)
	require.NoError(t, err)
	require.Len(t, history, 2, "solo las entradas del producto pedido")
	assert.Equal(t, int64(-3), history[0].QuantityChanged, "la más reciente primero")
	assert.Equal(t, int64(-1), history[1].QuantityChanged)
}

func TestRecentActivity_LimiteInvalidoUsaDefecto(t *testing.T) {
	f := newFixture()
	id := f.seedProduct(t, "Cebolla Cabezona", 100)
	for i := 0; i < 60; i++ {
		f.mgr.Purchase(context.Background(), id, 1, stock.Options{})
	}

	recent, err := f.mgr.RecentActivity(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, recent, 50, "límite inválido cae al defecto de 50")
}

func TestCoerceQuantity(t *testing.T) {
	assert.Equal(t, int64(0), stock.CoerceQuantity(-7))
	assert.Equal(t, int64(0), stock.CoerceQuantity(0))
	assert.Equal(t, int64(5), stock.CoerceQuantity(5))
}
