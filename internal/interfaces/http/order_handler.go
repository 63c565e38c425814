package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/abastoya/marketplace-api/internal/application/dto"
	"github.com/abastoya/marketplace-api/internal/application/orders"
	"github.com/abastoya/marketplace-api/internal/domain"
	"github.com/abastoya/marketplace-api/internal/domain/entity"
)

// OrderHandler maneja el checkout y el historial de pedidos.
type OrderHandler struct {
	uc *orders.CheckoutUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.CheckoutUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Checkout compra con entrega: descuenta stock y crea el pedido con el precio
// congelado. Si el descuento falla, el fallo del motor se devuelve tal cual.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	vendorName := in.VendorName
	if vendorName == "" {
		vendorName = GetAccountName(c)
	}
	res := h.uc.Checkout(c.Context(), orders.CheckoutInput{
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		VendorID:        GetAccountID(c),
		VendorName:      vendorName,
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   in.PaymentMethod,
		OrderID:         in.OrderID,
	})
	if !res.Success {
		if res.Code == domain.CodeDeliveryCreateError {
			return c.Status(fiber.StatusInternalServerError).JSON(res)
		}
		return c.Status(statusForCode(res.Code)).JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetByOrderID devuelve un pedido.
func (h *OrderHandler) GetByOrderID(c *fiber.Ctx) error {
	d, err := h.uc.GetByOrderID(c.Context(), c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if d == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
	}
	return c.JSON(toDeliveryResponse(d))
}

// ListMine historial del vendedor o proveedor autenticado, según su rol.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	var (
		list []*entity.Delivery
		err  error
	)
	accountID := GetAccountID(c)
	if GetRole(c) == "supplier" {
		list, err = h.uc.ListBySupplier(c.Context(), accountID)
	} else {
		list, err = h.uc.ListByVendor(c.Context(), accountID)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]*dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDeliveryResponse(d))
	}
	return c.JSON(fiber.Map{"total": len(out), "deliveries": out})
}

// UpdateStatus avanza el estado de un pedido (confirmación, tránsito, entrega...).
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateDeliveryStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	d, err := h.uc.UpdateStatus(c.Context(), c.Params("orderId"), in.Status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toDeliveryResponse(d))
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	return &dto.DeliveryResponse{
		OrderID:         d.OrderID,
		VendorID:        d.VendorID,
		VendorName:      d.VendorName,
		SupplierID:      d.SupplierID,
		SupplierName:    d.SupplierName,
		Items:           d.Items,
		TotalAmount:     d.TotalAmount,
		Status:          d.Status,
		DeliveryAddress: d.DeliveryAddress,
		PaymentMethod:   d.PaymentMethod,
		OrderDate:       d.OrderDate,
	}
}
