package operations

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// QueryUseCase resuelve las lecturas del motor: saldos actuales, cantidad
// efectiva de líneas y detalle de operaciones. Lee solo estado comprometido
// (repos sobre el pool, sin transacción).
type QueryUseCase struct {
	balanceRepo repository.StockBalanceRepository
	opRepo      repository.OperationRepository
	modRepo     repository.ModificationRepository
	returnRepo  repository.ReturnRepository
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(
	balanceRepo repository.StockBalanceRepository,
	opRepo repository.OperationRepository,
	modRepo repository.ModificationRepository,
	returnRepo repository.ReturnRepository,
) *QueryUseCase {
	return &QueryUseCase{
		balanceRepo: balanceRepo,
		opRepo:      opRepo,
		modRepo:     modRepo,
		returnRepo:  returnRepo,
	}
}

// GetBalance devuelve la cantidad actual de un ítem en una bodega. Una fila
// inexistente es saldo cero, no un error: la fila se crea con el primer ajuste.
func (uc *QueryUseCase) GetBalance(warehouseID, itemID string) (decimal.Decimal, error) {
	balance, err := uc.balanceRepo.Get(warehouseID, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if balance == nil {
		return decimal.Zero, nil
	}
	return balance.CurrentQuantity, nil
}

// GetEffectiveQuantity devuelve la cantidad vigente de una línea: el
// NewQuantity de su modificación más reciente, o su cantidad original.
func (uc *QueryUseCase) GetEffectiveQuantity(lineID string) (decimal.Decimal, error) {
	line, err := uc.opRepo.GetLineByID(lineID)
	if err != nil {
		return decimal.Zero, err
	}
	if line == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	latest, err := uc.modRepo.LatestByLine(lineID)
	if err != nil {
		return decimal.Zero, err
	}
	return entity.EffectiveQuantity(line, latest), nil
}

// GetOperation devuelve una operación con sus líneas.
func (uc *QueryUseCase) GetOperation(id string) (*entity.Operation, error) {
	op, err := uc.opRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	return op, nil
}

// GetReturn devuelve una devolución con sus líneas.
func (uc *QueryUseCase) GetReturn(id string) (*entity.ReturnOperation, error) {
	ret, err := uc.returnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	return ret, nil
}

// ListWarehouseStock lista los saldos de una bodega.
func (uc *QueryUseCase) ListWarehouseStock(warehouseID string) ([]*entity.StockBalance, error) {
	return uc.balanceRepo.ListByWarehouse(warehouseID)
}

// ListModifications devuelve el historial append-only de una línea en orden
// de creación.
func (uc *QueryUseCase) ListModifications(lineID string) ([]*entity.Modification, error) {
	return uc.modRepo.ListByLine(lineID)
}
