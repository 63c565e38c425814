package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// Códigos de error del contrato de resultados del motor de stock.
// Los casos de uso nunca dejan escapar un error crudo: lo traducen a uno de estos códigos.
const (
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeDatabaseUpdateError = "DATABASE_UPDATE_ERROR"
	CodeDeliveryCreateError = "DELIVERY_CREATE_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)
