package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ repository.StockBalanceRepository = (*txBalanceRepo)(nil)
	_ repository.OperationRepository    = (*txOperationRepo)(nil)
	_ repository.ReturnRepository       = (*txReturnRepo)(nil)
	_ repository.ModificationRepository = (*txModificationRepo)(nil)
)

// txBalanceRepo implementa StockBalanceRepository atado a una transacción.
// LockForUpdate y LockOrCreate toman el semáforo de la fila y trabajan sobre
// una copia; Save solo muta la copia y el commit la publica.
type txBalanceRepo struct {
	tx *memTx
}

func (r *txBalanceRepo) Get(warehouseID, itemID string) (*entity.StockBalance, error) {
	k := balanceKey{warehouseID, itemID}
	if b, ok := r.tx.balances[k]; ok {
		cp := *b
		return &cp, nil
	}
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	if b, ok := r.tx.store.balances[k]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *txBalanceRepo) LockForUpdate(warehouseID, itemID string) (*entity.StockBalance, error) {
	k := balanceKey{warehouseID, itemID}
	if b, ok := r.tx.balances[k]; ok {
		return b, nil
	}
	if err := r.tx.lock(balanceLockKey(k)); err != nil {
		return nil, err
	}
	r.tx.store.mu.RLock()
	b, ok := r.tx.store.balances[k]
	r.tx.store.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	cp := b
	r.tx.balances[k] = &cp
	return &cp, nil
}

func (r *txBalanceRepo) LockOrCreate(warehouseID, itemID string) (*entity.StockBalance, error) {
	b, err := r.LockForUpdate(warehouseID, itemID)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}
	k := balanceKey{warehouseID, itemID}
	nb := &entity.StockBalance{
		WarehouseID:     warehouseID,
		ItemID:          itemID,
		OpeningBalance:  decimal.Zero,
		CurrentQuantity: decimal.Zero,
		UpdatedAt:       time.Now().UTC(),
	}
	r.tx.balances[k] = nb
	return nb, nil
}

func (r *txBalanceRepo) Save(balance *entity.StockBalance) error {
	k := balanceKey{balance.WarehouseID, balance.ItemID}
	if _, ok := r.tx.balances[k]; !ok {
		return fmt.Errorf("guardar saldo %s/%s sin bloquear: %w", balance.WarehouseID, balance.ItemID, domain.ErrInvalidInput)
	}
	cp := *balance
	r.tx.balances[k] = &cp
	return nil
}

func (r *txBalanceRepo) ListByWarehouse(warehouseID string) ([]*entity.StockBalance, error) {
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	return listBalances(r.tx.store, warehouseID), nil
}

// txOperationRepo implementa OperationRepository atado a una transacción.
type txOperationRepo struct {
	tx *memTx
}

func (r *txOperationRepo) Create(op *entity.Operation) error {
	cp := *op
	cp.Lines = nil
	r.tx.newOperations = append(r.tx.newOperations, cp)
	return nil
}

func (r *txOperationRepo) CreateLine(line *entity.OperationLine) error {
	k := lineKey{line.OperationID, line.ItemID}
	r.tx.store.mu.RLock()
	_, dup := r.tx.store.linesByItem[k]
	r.tx.store.mu.RUnlock()
	if !dup {
		for _, l := range r.tx.newLines {
			if l.OperationID == line.OperationID && l.ItemID == line.ItemID {
				dup = true
				break
			}
		}
	}
	if dup {
		return fmt.Errorf("línea duplicada para el ítem %s: %w", line.ItemID, domain.ErrDuplicateLineItem)
	}
	r.tx.newLines = append(r.tx.newLines, *line)
	return nil
}

func (r *txOperationRepo) GetByID(id string) (*entity.Operation, error) {
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	return r.tx.store.operationWithLines(id), nil
}

func (r *txOperationRepo) GetLineByID(id string) (*entity.OperationLine, error) {
	if l, ok := r.tx.lockedLines[id]; ok {
		cp := *l
		return &cp, nil
	}
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	if l, ok := r.tx.store.lines[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r *txOperationRepo) LockLine(operationID, itemID string) (*entity.OperationLine, error) {
	r.tx.store.mu.RLock()
	lineID, ok := r.tx.store.linesByItem[lineKey{operationID, itemID}]
	r.tx.store.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.LockLineByID(lineID)
}

func (r *txOperationRepo) LockLineByID(id string) (*entity.OperationLine, error) {
	if l, ok := r.tx.lockedLines[id]; ok {
		return l, nil
	}
	if err := r.tx.lock(lineLockKey(id)); err != nil {
		return nil, err
	}
	r.tx.store.mu.RLock()
	l, ok := r.tx.store.lines[id]
	r.tx.store.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	cp := l
	r.tx.lockedLines[id] = &cp
	return &cp, nil
}

func (r *txOperationRepo) SaveLineReturned(lineID string, returned decimal.Decimal) error {
	l, ok := r.tx.lockedLines[lineID]
	if !ok {
		return fmt.Errorf("guardar línea %s sin bloquear: %w", lineID, domain.ErrInvalidInput)
	}
	l.ReturnedQuantity = returned
	return nil
}

func (r *txOperationRepo) ListByKind(kind string, limit, offset int) ([]*entity.Operation, error) {
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	return listOperationsByKind(r.tx.store, kind, limit, offset), nil
}

// txReturnRepo implementa ReturnRepository atado a una transacción.
type txReturnRepo struct {
	tx *memTx
}

func (r *txReturnRepo) Create(ret *entity.ReturnOperation) error {
	cp := *ret
	cp.Lines = nil
	r.tx.newReturns = append(r.tx.newReturns, cp)
	return nil
}

func (r *txReturnRepo) CreateLine(line *entity.ReturnLine) error {
	for _, l := range r.tx.newReturnLines {
		if l.ReturnOperationID == line.ReturnOperationID && l.ItemID == line.ItemID {
			return fmt.Errorf("línea duplicada para el ítem %s: %w", line.ItemID, domain.ErrDuplicateLineItem)
		}
	}
	r.tx.newReturnLines = append(r.tx.newReturnLines, *line)
	return nil
}

func (r *txReturnRepo) GetByID(id string) (*entity.ReturnOperation, error) {
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	return r.tx.store.returnWithLines(id), nil
}

func (r *txReturnRepo) ListByOriginalOperation(originalOperationID string) ([]*entity.ReturnOperation, error) {
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	return listReturnsByOriginal(r.tx.store, originalOperationID), nil
}

// txModificationRepo implementa ModificationRepository atado a una
// transacción.
type txModificationRepo struct {
	tx *memTx
}

func (r *txModificationRepo) Create(mod *entity.Modification) error {
	r.tx.newMods = append(r.tx.newMods, *mod)
	return nil
}

func (r *txModificationRepo) LatestByLine(lineID string) (*entity.Modification, error) {
	for i := len(r.tx.newMods) - 1; i >= 0; i-- {
		if r.tx.newMods[i].LineID == lineID {
			cp := r.tx.newMods[i]
			return &cp, nil
		}
	}
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	mods := r.tx.store.modifications[lineID]
	if len(mods) == 0 {
		return nil, nil
	}
	cp := mods[len(mods)-1]
	return &cp, nil
}

func (r *txModificationRepo) ListByLine(lineID string) ([]*entity.Modification, error) {
	r.tx.store.mu.RLock()
	defer r.tx.store.mu.RUnlock()
	return listModifications(r.tx.store, lineID), nil
}
