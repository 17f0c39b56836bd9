package operations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Roles con permiso de posteo sobre cualquier bodega. Un operario sin rol
// privilegiado pasa por el Authorizer (bodeguero asignado a la bodega).
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// PostingUseCase postea operaciones de stock (SUPPLY, EXPORT, DAMAGE,
// TRANSFER), devoluciones y modificaciones de cantidad. Cada posteo valida
// fuera de la transacción, y dentro de ella crea cabecera + líneas y ajusta
// los saldos vía el ledger, todo o nada.
type PostingUseCase struct {
	txRunner        TxRunner
	ledger          *ledger.Ledger
	itemRepo        repository.ItemRepository
	warehouseRepo   repository.WarehouseRepository
	supplierRepo    repository.SupplierRepository
	beneficiaryRepo repository.BeneficiaryRepository
	stationRepo     repository.StationRepository
	authorizer      Authorizer
}

// NewPostingUseCase construye el caso de uso.
func NewPostingUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
	beneficiaryRepo repository.BeneficiaryRepository,
	stationRepo repository.StationRepository,
	authorizer Authorizer,
) *PostingUseCase {
	return &PostingUseCase{
		txRunner:        txRunner,
		ledger:          ledger.New(),
		itemRepo:        itemRepo,
		warehouseRepo:   warehouseRepo,
		supplierRepo:    supplierRepo,
		beneficiaryRepo: beneficiaryRepo,
		stationRepo:     stationRepo,
		authorizer:      authorizer,
	}
}

// Actor identifica quién postea la operación. El rol viene del token; el motor
// solo lo usa para decidir si consulta al Authorizer.
type Actor struct {
	UserID string
	Role   string
}

// ItemQuantity es una entrada (ítem, cantidad > 0) de la lista de una operación.
type ItemQuantity struct {
	ItemID   string
	Quantity decimal.Decimal
}

// OperationMeta son los campos documentales de la cabecera (referencias en
// papel, repartidor, textos libres). No participan en los invariantes.
type OperationMeta struct {
	OperationDate      time.Time
	PaperRefNumber     string
	SupplyBonNumber    string
	DelivererName      string
	DelivererJobNumber string
	Statement          string
	Description        string
	Reason             string
}

// validateItems rechaza la lista antes de tomar cualquier bloqueo: no vacía,
// cantidades > 0, ítems activos y sin duplicados (la clave (operación, ítem)
// es única).
func (uc *PostingUseCase) validateItems(items []ItemQuantity) error {
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ItemID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if _, dup := seen[it.ItemID]; dup {
			return domain.ErrDuplicateLineItem
		}
		seen[it.ItemID] = struct{}{}
		item, err := uc.itemRepo.GetByID(it.ItemID)
		if err != nil {
			return err
		}
		if item == nil || !item.IsActive {
			return domain.ErrNotFound
		}
	}
	return nil
}

// mustActiveWarehouse devuelve la bodega si existe y está activa.
func (uc *PostingUseCase) mustActiveWarehouse(id string) (*entity.Warehouse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || !warehouse.IsActive {
		return nil, domain.ErrNotFound
	}
	return warehouse, nil
}

// authorize delega en el Authorizer salvo para roles privilegiados.
func (uc *PostingUseCase) authorize(actor Actor, warehouseID string) error {
	if actor.Role == RoleAdmin || actor.Role == RoleManager {
		return nil
	}
	return uc.authorizer.CanOperate(actor.UserID, warehouseID)
}

func metaToOperation(op *entity.Operation, meta OperationMeta) {
	op.OperationDate = meta.OperationDate
	if op.OperationDate.IsZero() {
		op.OperationDate = time.Now()
	}
	op.PaperRefNumber = meta.PaperRefNumber
	op.SupplyBonNumber = meta.SupplyBonNumber
	op.DelivererName = meta.DelivererName
	op.DelivererJobNumber = meta.DelivererJobNumber
	op.Statement = meta.Statement
	op.Description = meta.Description
	op.Reason = meta.Reason
}
