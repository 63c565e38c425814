package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoya/marketplace-api/internal/application/stock"
	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/events"
	"github.com/abastoya/marketplace-api/internal/infrastructure/memory"
	apphttp "github.com/abastoya/marketplace-api/internal/interfaces/http"
	pkgjwt "github.com/abastoya/marketplace-api/pkg/jwt"
)

// buildStockApp monta las rutas de stock sobre un motor con almacén en memoria.
func buildStockApp(t *testing.T, seedStock int64) (*fiber.App, int64) {
	t.Helper()
	store := memory.NewStore()
	bus := events.NewBus(zerolog.Nop())
	mgr := stock.NewManager(
		memory.NewTxRunner(store),
		memory.NewProductRepository(store),
		memory.NewStockTransactionRepository(store),
		bus,
		zerolog.Nop(),
	)
	p := &entity.Product{Name: "Tomates Frescos", Unit: "kg", Stock: seedStock}
	require.NoError(t, memory.NewProductRepository(store).Create(context.Background(), p))

	h := apphttp.NewStockHandler(mgr)
	app := fiber.New()
	app.Get("/api/products/:id/stock", h.GetStock)
	app.Get("/api/products/:id/availability", h.CheckAvailability)
	app.Post("/api/stock/purchase",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(pkgjwt.RoleVendor),
		h.Purchase,
	)
	return app, p.ID
}

func postPurchase(t *testing.T, app *fiber.App, productID, qty int64) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"product_id": productID, "quantity": qty})
	req := httptest.NewRequest(http.MethodPost, "/api/stock/purchase", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleVendor))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Éxito → 200 con el Result del motor en el cuerpo.
func TestStockHandler_PurchaseOK(t *testing.T) {
	app, id := buildStockApp(t, 10)
	resp := postPurchase(t, app, id, 2)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(10), data["previous_stock"])
	assert.Equal(t, float64(8), data["new_stock"])
	assert.Equal(t, float64(-2), data["quantity_changed"])
}

// Stock insuficiente → 409 Conflict con success:false y shortfall.
func TestStockHandler_InsuficienteEs409(t *testing.T) {
	app, id := buildStockApp(t, 3)
	resp := postPurchase(t, app, id, 5)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, float64(2), body["data"].(map[string]any)["shortfall"])
}

// Cantidad inválida → 400; producto inexistente → 404.
func TestStockHandler_MapeoDeCodigos(t *testing.T) {
	app, id := buildStockApp(t, 10)

	resp := postPurchase(t, app, id, 0)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postPurchase(t, app, 999, 1)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// La compra exige rol vendor: un supplier recibe 403.
func TestStockHandler_SupplierNoCompra(t *testing.T) {
	app, id := buildStockApp(t, 10)
	body, _ := json.Marshal(map[string]any{"product_id": id, "quantity": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/stock/purchase", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleSupplier))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Las lecturas son públicas y no requieren token.
func TestStockHandler_LecturasPublicas(t *testing.T) {
	app, _ := buildStockApp(t, 8)

	req := httptest.NewRequest(http.MethodGet, "/api/products/1/stock", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(8), data["stock"])
	assert.Equal(t, "low_stock", data["stock_status"])

	// ?quantity= no numérico se normaliza a 0 → no disponible, sin error.
	req = httptest.NewRequest(http.MethodGet, "/api/products/1/availability?quantity=muchos", nil)
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	var avail map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&avail))
	assert.Equal(t, false, avail["data"].(map[string]any)["is_available"])
}
