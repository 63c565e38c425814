package stock

import "github.com/abastoya/marketplace-api/internal/domain/entity"

// Clasificación informativa del nivel de stock. Nunca bloquea una mutación;
// la usan los dashboards y las respuestas de disponibilidad.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// Status clasifica un nivel de stock según los umbrales del producto.
// Umbrales en cero o negativos caen a los valores por defecto (10 / 0).
func Status(stock int64, p *entity.Product) string {
	lowThr := int64(entity.DefaultLowStockThreshold)
	outThr := int64(entity.DefaultOutOfStockThreshold)
	if p != nil {
		if p.LowStockThreshold > 0 {
			lowThr = p.LowStockThreshold
		}
		if p.OutOfStockThreshold > 0 {
			outThr = p.OutOfStockThreshold
		}
	}
	switch {
	case stock <= outThr:
		return StatusOutOfStock
	case stock <= lowThr:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
