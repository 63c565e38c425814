package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abastoya/marketplace-api/internal/application/dto"
	"github.com/abastoya/marketplace-api/internal/domain"
	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
	domstock "github.com/abastoya/marketplace-api/internal/domain/stock"
	"github.com/abastoya/marketplace-api/internal/events"
)

// Publisher puerto de emisión de eventos (lo implementa events.Bus).
type Publisher interface {
	Emit(eventType string, payload any) events.Event
}

// ProductUseCase CRUD del catálogo de productos. El stock no se edita por
// esta vía: toda mutación de nivel va por el motor de stock, que es el único
// camino hacia UpdateStock del repositorio.
type ProductUseCase struct {
	repo repository.ProductRepository
	bus  Publisher
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, bus Publisher) *ProductUseCase {
	return &ProductUseCase{repo: repo, bus: bus}
}

// Create crea un producto para el catálogo del proveedor. El ID lo asigna el
// almacén con un contador estrictamente creciente: nunca se reutiliza.
func (uc *ProductUseCase) Create(ctx context.Context, supplierID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	stock := in.Stock
	if stock < 0 {
		stock = 0
	}
	lowThr := in.LowStockThreshold
	if lowThr <= 0 {
		lowThr = entity.DefaultLowStockThreshold
	}
	outThr := in.OutOfStockThreshold
	if outThr < 0 {
		outThr = entity.DefaultOutOfStockThreshold
	}

	now := time.Now()
	p := &entity.Product{
		Name:                in.Name,
		Category:            in.Category,
		Description:         in.Description,
		Unit:                in.Unit,
		Stock:               stock,
		Quantity:            stock,
		Price:               in.Price,
		ImageURL:            in.ImageURL,
		SupplierID:          supplierID,
		SupplierName:        in.SupplierName,
		LowStockThreshold:   lowThr,
		OutOfStockThreshold: outThr,
		LastStockUpdate:     now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.bus.Emit(events.TypeProductCreated, events.ProductPayload{
		ProductID: p.ID, Name: p.Name, SupplierID: p.SupplierID, SupplierName: p.SupplierName,
	})
	return toProductResponse(p), nil
}

// GetByID devuelve nil, nil si el producto no existe (el caller decide el 404).
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update fusiona los campos presentes sobre el registro existente y estampa
// UpdatedAt. Devuelve nil, nil si el producto no existe. Stock nunca se toca.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, supplierID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if supplierID != "" && p.SupplierID != supplierID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		p.Price = *in.Price
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.LowStockThreshold != nil {
		p.LowStockThreshold = *in.LowStockThreshold
	}
	if in.OutOfStockThreshold != nil {
		p.OutOfStockThreshold = *in.OutOfStockThreshold
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.bus.Emit(events.TypeProductUpdated, events.ProductPayload{
		ProductID: p.ID, Name: p.Name, SupplierID: p.SupplierID, SupplierName: p.SupplierName,
	})
	return toProductResponse(p), nil
}

// Delete elimina el producto; false si no existía.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64, supplierID string) (bool, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	if supplierID != "" && p.SupplierID != supplierID {
		return false, domain.ErrForbidden
	}
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	uc.bus.Emit(events.TypeProductDeleted, events.ProductPayload{
		ProductID: p.ID, Name: p.Name, SupplierID: p.SupplierID, SupplierName: p.SupplierName,
	})
	return true, nil
}

// List devuelve el catálogo completo.
func (uc *ProductUseCase) List(ctx context.Context) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// ListBySupplier devuelve el catálogo de un proveedor.
func (uc *ProductUseCase) ListBySupplier(ctx context.Context, supplierID string) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// ListByCategory filtra por categoría sin distinguir mayúsculas.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, category string) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// LowStock devuelve los productos del proveedor en low_stock u out_of_stock,
// para el dashboard de reposición.
func (uc *ProductUseCase) LowStock(ctx context.Context, supplierID string) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	var out []*dto.ProductResponse
	for _, p := range list {
		if domstock.Status(p.CurrentStock(), p) != domstock.StatusInStock {
			out = append(out, toProductResponse(p))
		}
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	current := p.CurrentStock()
	return &dto.ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Category:            p.Category,
		Description:         p.Description,
		Unit:                p.Unit,
		Stock:               current,
		Quantity:            current,
		StockStatus:         domstock.Status(current, p),
		Price:               p.Price,
		ImageURL:            p.ImageURL,
		SupplierID:          p.SupplierID,
		SupplierName:        p.SupplierName,
		LowStockThreshold:   p.LowStockThreshold,
		OutOfStockThreshold: p.OutOfStockThreshold,
		LastStockUpdate:     p.LastStockUpdate,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Product) []*dto.ProductResponse {
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out
}
