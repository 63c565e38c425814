package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/abastoya/marketplace-api/internal/application/dto"
	"github.com/abastoya/marketplace-api/internal/application/stock"
	"github.com/abastoya/marketplace-api/internal/domain"
)

// StockHandler maneja las peticiones HTTP del motor de stock.
type StockHandler struct {
	mgr *stock.Manager
}

// NewStockHandler construye el handler.
func NewStockHandler(mgr *stock.Manager) *StockHandler {
	return &StockHandler{mgr: mgr}
}

// Purchase registra una compra de vendedor (descuenta stock).
// El cuerpo de la respuesta es el Result del motor tal cual: success es la
// palabra final antes de actualizar cualquier vista optimista.
func (h *StockHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	vendorID := GetAccountID(c)
	if in.VendorID != "" {
		vendorID = in.VendorID
	}
	res := h.mgr.Purchase(c.Context(), in.ProductID, in.Quantity, stock.Options{
		VendorID:   vendorID,
		VendorName: GetAccountName(c),
		OrderID:    in.OrderID,
	})
	return c.Status(statusForCode(res.Code)).JSON(res)
}

// BatchPurchase ejecuta un lote de compras, cada una independiente.
// Devuelve 200 siempre: el resultado por ítem va en el cuerpo.
func (h *StockHandler) BatchPurchase(c *fiber.Ctx) error {
	var in dto.BatchPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	vendorID := GetAccountID(c)
	if in.VendorID != "" {
		vendorID = in.VendorID
	}
	items := make([]stock.BatchItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, stock.BatchItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Options: stock.Options{
				VendorID:   vendorID,
				VendorName: GetAccountName(c),
				OrderID:    in.OrderID,
			},
		})
	}
	return c.JSON(h.mgr.BatchPurchase(c.Context(), items))
}

// Restock registra una reposición del proveedor (suma stock).
func (h *StockHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res := h.mgr.Restock(c.Context(), in.ProductID, in.Quantity, stock.Options{
		SupplierID: GetAccountID(c),
	})
	return c.Status(statusForCode(res.Code)).JSON(res)
}

// SetStock fija el stock en un valor absoluto (negativo se recorta a cero).
func (h *StockHandler) SetStock(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res := h.mgr.SetStock(c.Context(), in.ProductID, in.NewStock, stock.Options{
		SupplierID: GetAccountID(c),
	})
	return c.Status(statusForCode(res.Code)).JSON(res)
}

// CheckAvailability consulta si alcanza el stock para una cantidad (solo lectura).
func (h *StockHandler) CheckAvailability(c *fiber.Ctx) error {
	productID, err := paramInt64(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	// Cantidad no numérica se normaliza a 0, igual que el resto del motor.
	requested, _ := strconv.ParseInt(c.Query("quantity", "0"), 10, 64)
	res := h.mgr.CheckAvailability(c.Context(), productID, requested)
	return c.Status(statusForCode(res.Code)).JSON(res)
}

// GetStock devuelve el nivel actual con su clasificación (solo lectura).
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	productID, err := paramInt64(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	res := h.mgr.GetStock(c.Context(), productID)
	return c.Status(statusForCode(res.Code)).JSON(res)
}

// RecentActivity últimas entradas del log de auditoría.
func (h *StockHandler) RecentActivity(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	list, err := h.mgr.RecentActivity(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "transactions": list})
}

// ProductHistory historial de mutaciones de un producto.
func (h *StockHandler) ProductHistory(c *fiber.Ctx) error {
	productID, err := paramInt64(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	list, err := h.mgr.ProductHistory(c.Context(), productID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "transactions": list})
}

// statusForCode traduce el código del Result al status HTTP. Código vacío = éxito.
func statusForCode(code string) int {
	switch code {
	case "":
		return fiber.StatusOK
	case domain.CodeProductNotFound:
		return fiber.StatusNotFound
	case domain.CodeInvalidQuantity:
		return fiber.StatusBadRequest
	case domain.CodeInsufficientStock:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}
