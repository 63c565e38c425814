package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abastoya/marketplace-api/internal/domain/entity"
	"github.com/abastoya/marketplace-api/internal/infrastructure/postgres"
	"github.com/abastoya/marketplace-api/pkg/config"
	"github.com/abastoya/marketplace-api/pkg/logger"
)

// Carga el catálogo de muestra del marketplace de abastos. Idempotencia simple:
// si ya hay productos no inserta nada.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repo := postgres.NewProductRepository(pool)
	existing, err := repo.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar productos")
	}
	if len(existing) > 0 {
		log.Info().Int("productos", len(existing)).Msg("catálogo ya poblado, no se siembra nada")
		return
	}

	now := time.Now()
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	products := []*entity.Product{
		{Name: "Tomates Frescos", Category: "Verduras", Description: "Tomate chonto de primera", Unit: "kg", Stock: 10, Quantity: 10, Price: price("3.50"), SupplierID: "sup-001", SupplierName: "Finca El Prado"},
		{Name: "Cebolla Cabezona", Category: "Verduras", Unit: "kg", Stock: 40, Quantity: 40, Price: price("2.20"), SupplierID: "sup-001", SupplierName: "Finca El Prado"},
		{Name: "Papa Pastusa", Category: "Tubérculos", Unit: "bulto", Stock: 15, Quantity: 15, Price: price("42.00"), SupplierID: "sup-002", SupplierName: "Agro Boyacá"},
		{Name: "Arroz Blanco", Category: "Granos", Unit: "arroba", Stock: 60, Quantity: 60, Price: price("28.00"), SupplierID: "sup-003", SupplierName: "Molinos del Valle"},
		{Name: "Panela", Category: "Endulzantes", Unit: "caja", Stock: 8, Quantity: 8, Price: price("35.00"), SupplierID: "sup-003", SupplierName: "Molinos del Valle", LowStockThreshold: 12},
		{Name: "Aguacate Hass", Category: "Frutas", Unit: "kg", Stock: 0, Quantity: 25, Price: price("6.80"), SupplierID: "sup-002", SupplierName: "Agro Boyacá"},
		{Name: "Limón Tahití", Category: "Frutas", Unit: "kg", Stock: 3, Quantity: 3, Price: price("2.90"), SupplierID: "sup-002", SupplierName: "Agro Boyacá", LowStockThreshold: 5},
	}
	for _, p := range products {
		// Registros legados traen solo quantity; el nivel vigente se normaliza
		// al espejo stock antes de insertar.
		if p.Stock == 0 && p.Quantity > 0 {
			p.Stock = p.Quantity
		}
		if p.LowStockThreshold == 0 {
			p.LowStockThreshold = entity.DefaultLowStockThreshold
		}
		p.OutOfStockThreshold = entity.DefaultOutOfStockThreshold
		p.LastStockUpdate = now
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := repo.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Str("producto", p.Name).Msg("sembrar producto")
		}
		log.Info().Int64("id", p.ID).Str("producto", p.Name).Int64("stock", p.Stock).Msg("producto sembrado")
	}
	log.Info().Int("total", len(products)).Msg("catálogo de muestra cargado")
}
