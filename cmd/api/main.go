package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// backends agrupa todo lo que depende del driver de persistencia.
type backends struct {
	txRunner        operations.TxRunner
	authorizer      operations.Authorizer
	itemRepo        repository.ItemRepository
	warehouseRepo   repository.WarehouseRepository
	supplierRepo    repository.SupplierRepository
	beneficiaryRepo repository.BeneficiaryRepository
	stationRepo     repository.StationRepository
	balanceRepo     repository.StockBalanceRepository
	opRepo          repository.OperationRepository
	modRepo         repository.ModificationRepository
	returnRepo      repository.ReturnRepository
	close           func()
}

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var b backends
	switch cfg.Store.Driver {
	case "memory":
		// Desarrollo local sin BD: misma semántica de bloqueo, estado volátil.
		store := memory.NewStore()
		b = backends{
			txRunner:        memory.NewTxRunner(store),
			authorizer:      memory.NewStorekeeperAuthorizer(store),
			itemRepo:        memory.NewItemRepository(store),
			warehouseRepo:   memory.NewWarehouseRepository(store),
			supplierRepo:    memory.NewSupplierRepository(store),
			beneficiaryRepo: memory.NewBeneficiaryRepository(store),
			stationRepo:     memory.NewStationRepository(store),
			balanceRepo:     memory.NewStockBalanceRepository(store),
			opRepo:          memory.NewOperationRepository(store),
			modRepo:         memory.NewModificationRepository(store),
			returnRepo:      memory.NewReturnRepository(store),
			close:           func() {},
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		b = backends{
			txRunner:        postgres.NewTxRunner(pool),
			authorizer:      postgres.NewStorekeeperAuthorizer(pool),
			itemRepo:        postgres.NewItemRepository(pool),
			warehouseRepo:   postgres.NewWarehouseRepository(pool),
			supplierRepo:    postgres.NewSupplierRepository(pool),
			beneficiaryRepo: postgres.NewBeneficiaryRepository(pool),
			stationRepo:     postgres.NewStationRepository(pool),
			balanceRepo:     postgres.NewStockBalanceRepository(pool),
			opRepo:          postgres.NewOperationRepository(pool),
			modRepo:         postgres.NewModificationRepository(pool),
			returnRepo:      postgres.NewReturnRepository(pool),
			close:           pool.Close,
		}
	}
	defer b.close()

	postingUC := operations.NewPostingUseCase(
		b.txRunner, b.itemRepo, b.warehouseRepo,
		b.supplierRepo, b.beneficiaryRepo, b.stationRepo,
		b.authorizer,
	)
	queryUC := operations.NewQueryUseCase(b.balanceRepo, b.opRepo, b.modRepo, b.returnRepo)
	itemUC := usecase.NewItemUseCase(b.itemRepo)
	warehouseUC := usecase.NewWarehouseUseCase(b.warehouseRepo)
	supplierUC := usecase.NewSupplierUseCase(b.supplierRepo)
	beneficiaryUC := usecase.NewBeneficiaryUseCase(b.beneficiaryRepo)
	stationUC := usecase.NewStationUseCase(b.stationRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:        itemUC,
		WarehouseUC:   warehouseUC,
		SupplierUC:    supplierUC,
		BeneficiaryUC: beneficiaryUC,
		StationUC:     stationUC,
		PostingUC:     postingUC,
		QueryUC:       queryUC,
		JWTSecret:     cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
