package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC        *usecase.ItemUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	SupplierUC    *usecase.SupplierUseCase
	BeneficiaryUC *usecase.BeneficiaryUseCase
	StationUC     *usecase.StationUseCase
	PostingUC     *operations.PostingUseCase
	QueryUC       *operations.QueryUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todo va detrás del Bearer Token; las
// altas y ediciones de datos maestros requieren además rol privilegiado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	manage := RequireRole(operations.RoleAdmin, operations.RoleManager)

	// Items
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", manage, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", manage, itemHandler.Update)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", manage, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", manage, warehouseHandler.Update)

	// Counterparts: suppliers, beneficiaries, stations
	counterpartHandler := NewCounterpartHandler(deps.SupplierUC, deps.BeneficiaryUC, deps.StationUC)
	suppliers := api.Group("/suppliers")
	suppliers.Post("/", manage, counterpartHandler.CreateSupplier)
	suppliers.Get("/", counterpartHandler.ListSuppliers)
	suppliers.Put("/:id", manage, counterpartHandler.UpdateSupplier)

	beneficiaries := api.Group("/beneficiaries")
	beneficiaries.Post("/", manage, counterpartHandler.CreateBeneficiary)
	beneficiaries.Get("/", counterpartHandler.ListBeneficiaries)
	beneficiaries.Put("/:id", manage, counterpartHandler.UpdateBeneficiary)

	stations := api.Group("/stations")
	stations.Post("/", manage, counterpartHandler.CreateStation)
	stations.Get("/", counterpartHandler.ListStations)
	stations.Put("/:id", manage, counterpartHandler.UpdateStation)

	// Posteos de stock. La autorización por bodega ocurre dentro del caso de
	// uso (bodeguero asignado o rol privilegiado).
	ops := api.Group("/operations")
	operationsHandler := NewOperationsHandler(deps.PostingUC)
	ops.Post("/supplies", operationsHandler.PostSupply)
	ops.Post("/exports", operationsHandler.PostExport)
	ops.Post("/damages", operationsHandler.PostDamage)
	ops.Post("/transfers", operationsHandler.PostTransfer)
	ops.Post("/return-supplies", operationsHandler.PostReturnSupply)
	ops.Post("/return-dispatches", operationsHandler.PostReturnDispatch)
	ops.Post("/modifications", operationsHandler.PostModification)

	// Lecturas
	stockHandler := NewStockHandler(deps.QueryUC)
	ops.Get("/:id", stockHandler.GetOperation)
	api.Get("/returns/:id", stockHandler.GetReturn)
	api.Get("/stock/:warehouseId/:itemId", stockHandler.GetBalance)
	warehouses.Get("/:warehouseId/stock", stockHandler.ListWarehouseStock)
	api.Get("/lines/:id/effective-quantity", stockHandler.GetEffectiveQuantity)
	api.Get("/lines/:id/modifications", stockHandler.ListModifications)
}
