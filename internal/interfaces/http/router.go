package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abastoya/marketplace-api/internal/application/orders"
	"github.com/abastoya/marketplace-api/internal/application/stock"
	"github.com/abastoya/marketplace-api/internal/application/usecase"
	"github.com/abastoya/marketplace-api/internal/ws"
	"github.com/abastoya/marketplace-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	StockMgr   *stock.Manager
	CheckoutUC *orders.CheckoutUseCase
	Hub        *ws.Hub
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo y consultas de stock (público: lo necesita el storefront sin sesión)
	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.StockMgr)

	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/stock", stockHandler.GetStock)
	products.Get("/:id/availability", stockHandler.CheckAvailability)
	products.Get("/:id/history", stockHandler.ProductHistory)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Proveedores: catálogo propio y reposiciones
	supplier := protected.Group("/", RequireRole(jwt.RoleSupplier))
	supplier.Post("/products", productHandler.Create)
	supplier.Put("/products/:id", productHandler.Update)
	supplier.Delete("/products/:id", productHandler.Delete)
	supplier.Get("/products/low-stock/mine", productHandler.LowStock)
	supplier.Post("/stock/restock", stockHandler.Restock)
	supplier.Post("/stock/set", stockHandler.SetStock)
	supplier.Get("/stock/activity", stockHandler.RecentActivity)

	// Vendedores: compras y checkout
	orderHandler := NewOrderHandler(deps.CheckoutUC)
	vendor := protected.Group("/", RequireRole(jwt.RoleVendor))
	vendor.Post("/stock/purchase", stockHandler.Purchase)
	vendor.Post("/stock/purchase/batch", stockHandler.BatchPurchase)
	vendor.Post("/orders/checkout", orderHandler.Checkout)

	// Pedidos: lectura para ambos roles, cambio de estado solo proveedor
	ordersGroup := protected.Group("/orders")
	ordersGroup.Get("/", orderHandler.ListMine)
	ordersGroup.Get("/:orderId", orderHandler.GetByOrderID)
	ordersGroup.Put("/:orderId/status", RequireRole(jwt.RoleSupplier), orderHandler.UpdateStatus)

	// Websocket de eventos en tiempo real (público)
	if deps.Hub != nil {
		app.Use("/ws", WSUpgrade)
		app.Get("/ws", WSHandler(deps.Hub))
	}
}
