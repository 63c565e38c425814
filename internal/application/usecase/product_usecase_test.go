package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoya/marketplace-api/internal/application/dto"
	"github.com/abastoya/marketplace-api/internal/application/usecase"
	"github.com/abastoya/marketplace-api/internal/domain"
	domstock "github.com/abastoya/marketplace-api/internal/domain/stock"
	"github.com/abastoya/marketplace-api/internal/events"
	"github.com/abastoya/marketplace-api/internal/infrastructure/memory"
)

func newUseCase() (*usecase.ProductUseCase, *events.Bus) {
	store := memory.NewStore()
	bus := events.NewBus(zerolog.Nop())
	return usecase.NewProductUseCase(memory.NewProductRepository(store), bus), bus
}

func createRequest(name string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:     name,
		Category: "Verduras",
		Unit:     "kg",
		Stock:    10,
		Price:    decimal.RequireFromString("3.50"),
	}
}

func TestProductCreate_AsignaIDyEmite(t *testing.T) {
	uc, bus := newUseCase()
	var created []events.Event
	bus.Subscribe(events.TypeProductCreated, func(ev events.Event) { created = append(created, ev) })

	p, err := uc.Create(context.Background(), "sup-001", createRequest("Tomates Frescos"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "sup-001", p.SupplierID, "el proveedor sale del token, no del cuerpo")
	assert.Equal(t, domstock.StatusLowStock, p.StockStatus, "stock 10 = umbral bajo por defecto")
	require.Len(t, created, 1)

	p2, err := uc.Create(context.Background(), "sup-001", createRequest("Cebolla Cabezona"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), p2.ID, "los ids crecen de forma estrictamente monotónica")
}

// Los ids no se reutilizan tras borrar el producto más alto.
func TestProductCreate_IDNoSeReutiliza(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Create(context.Background(), "sup-001", createRequest("Panela"))
	require.NoError(t, err)
	p2, err := uc.Create(context.Background(), "sup-001", createRequest("Arroz Blanco"))
	require.NoError(t, err)

	ok, err := uc.Delete(context.Background(), p2.ID, "sup-001")
	require.NoError(t, err)
	require.True(t, ok)

	p3, err := uc.Create(context.Background(), "sup-001", createRequest("Papa Pastusa"))
	require.NoError(t, err)
	assert.Greater(t, p3.ID, p2.ID, "un id liberado jamás vuelve a asignarse")
}

func TestProductCreate_Validacion(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Create(context.Background(), "sup-001", dto.CreateProductRequest{Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre obligatorio")

	in := createRequest("Limón Tahití")
	in.Price = decimal.RequireFromString("-1")
	_, err = uc.Create(context.Background(), "sup-001", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	in = createRequest("Limón Tahití")
	in.Stock = -5
	p, err := uc.Create(context.Background(), "sup-001", in)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Stock, "stock negativo se recorta a cero")
}

func TestProductUpdate_FusionaYProtege(t *testing.T) {
	uc, bus := newUseCase()
	p, err := uc.Create(context.Background(), "sup-001", createRequest("Aguacate Hass"))
	require.NoError(t, err)

	var updated int
	bus.Subscribe(events.TypeProductUpdated, func(ev events.Event) { updated++ })

	newName := "Aguacate Hass Premium"
	got, err := uc.Update(context.Background(), p.ID, "sup-001", dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, got.Name)
	assert.Equal(t, "Verduras", got.Category, "los campos ausentes no se tocan")
	assert.Equal(t, int64(10), got.Stock, "el stock nunca se edita por el catálogo")
	assert.Equal(t, 1, updated)

	// Otro proveedor no puede editar el producto.
	_, err = uc.Update(context.Background(), p.ID, "sup-999", dto.UpdateProductRequest{Name: &newName})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Producto inexistente: nil, nil para que el handler decida el 404.
	got, err = uc.Update(context.Background(), 404, "sup-001", dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductDelete_OtroProveedorBloqueado(t *testing.T) {
	uc, _ := newUseCase()
	p, err := uc.Create(context.Background(), "sup-001", createRequest("Panela"))
	require.NoError(t, err)

	_, err = uc.Delete(context.Background(), p.ID, "sup-999")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ok, err := uc.Delete(context.Background(), p.ID, "sup-001")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.Delete(context.Background(), p.ID, "sup-001")
	require.NoError(t, err)
	assert.False(t, ok, "borrar dos veces devuelve false, no error")
}

func TestProductList_Filtros(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Create(context.Background(), "sup-001", createRequest("Tomates Frescos"))
	require.NoError(t, err)
	in := createRequest("Arroz Blanco")
	in.Category = "Granos"
	_, err = uc.Create(context.Background(), "sup-002", in)
	require.NoError(t, err)

	all, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCat, err := uc.ListByCategory(context.Background(), "granos") // sin distinguir mayúsculas
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "Arroz Blanco", byCat[0].Name)

	bySup, err := uc.ListBySupplier(context.Background(), "sup-001")
	require.NoError(t, err)
	require.Len(t, bySup, 1)
	assert.Equal(t, "Tomates Frescos", bySup[0].Name)
}

func TestProductLowStock(t *testing.T) {
	uc, _ := newUseCase()
	low := createRequest("Limón Tahití")
	low.Stock = 3
	_, err := uc.Create(context.Background(), "sup-001", low)
	require.NoError(t, err)
	full := createRequest("Cebolla Cabezona")
	full.Stock = 40
	_, err = uc.Create(context.Background(), "sup-001", full)
	require.NoError(t, err)

	list, err := uc.LowStock(context.Background(), "sup-001")
	require.NoError(t, err)
	require.Len(t, list, 1, "solo los productos por debajo del umbral")
	assert.Equal(t, "Limón Tahití", list[0].Name)
	assert.Equal(t, domstock.StatusLowStock, list[0].StockStatus)
}
