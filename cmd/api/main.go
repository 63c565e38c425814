package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/abastoya/marketplace-api/internal/application/orders"
	"github.com/abastoya/marketplace-api/internal/application/stock"
	"github.com/abastoya/marketplace-api/internal/application/usecase"
	"github.com/abastoya/marketplace-api/internal/domain/repository"
	"github.com/abastoya/marketplace-api/internal/events"
	"github.com/abastoya/marketplace-api/internal/infrastructure/memory"
	"github.com/abastoya/marketplace-api/internal/infrastructure/postgres"
	httpRouter "github.com/abastoya/marketplace-api/internal/interfaces/http"
	"github.com/abastoya/marketplace-api/internal/ws"
	"github.com/abastoya/marketplace-api/pkg/config"
	"github.com/abastoya/marketplace-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("demo", cfg.App.Demo).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		productRepo  repository.ProductRepository
		txLogRepo    repository.StockTransactionRepository
		deliveryRepo repository.DeliveryRepository
		txRunner     stock.TxRunner
	)
	if cfg.App.Demo {
		// Modo demo: todo en memoria, un solo binario sin PostgreSQL.
		store := memory.NewStore()
		productRepo = memory.NewProductRepository(store)
		txLogRepo = memory.NewStockTransactionRepository(store)
		deliveryRepo = memory.NewDeliveryRepository(store)
		txRunner = memory.NewTxRunner(store)
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		productRepo = postgres.NewProductRepository(pool)
		txLogRepo = postgres.NewStockTransactionRepository(pool)
		deliveryRepo = postgres.NewDeliveryRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	bus := events.NewBus(log.Zerolog())

	// Puente Redis: replica los eventos locales a los demás procesos de la API.
	// Sin REDIS_ADDR el bus queda solo en proceso, suficiente para una instancia.
	var bridge *events.RedisBridge
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		bridge = events.NewRedisBridge(bus, client, cfg.Redis.Channel, log.Zerolog())
		if err := bridge.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("arranque del puente de eventos Redis")
		}
		log.Info().Str("channel", cfg.Redis.Channel).Msg("puente de eventos Redis activo")
	}

	hub := ws.NewHub(log.Zerolog())
	hub.Attach(bus)
	go hub.Run()

	stockMgr := stock.NewManager(txRunner, productRepo, txLogRepo, bus, log.Zerolog())
	productUC := usecase.NewProductUseCase(productRepo, bus)
	checkoutUC := orders.NewCheckoutUseCase(stockMgr, deliveryRepo, bus, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		StockMgr:   stockMgr,
		CheckoutUC: checkoutUC,
		Hub:        hub,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if bridge != nil {
		bridge.Close()
	}
	hub.Detach()

	log.Info().Msg("aplicación detenida")
}
