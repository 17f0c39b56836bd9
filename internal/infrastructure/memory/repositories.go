package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository         = (*ItemRepo)(nil)
	_ repository.WarehouseRepository    = (*WarehouseRepo)(nil)
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
	_ repository.BeneficiaryRepository  = (*BeneficiaryRepo)(nil)
	_ repository.StationRepository      = (*StationRepo)(nil)
	_ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)
	_ repository.OperationRepository    = (*OperationRepo)(nil)
	_ repository.ReturnRepository       = (*ReturnRepo)(nil)
	_ repository.ModificationRepository = (*ModificationRepo)(nil)
	_ operations.Authorizer             = (*StorekeeperAuthorizer)(nil)
)

// Helpers de listado compartidos con los repos de transacción. El llamador
// debe tener s.mu.

func listBalances(s *Store, warehouseID string) []*entity.StockBalance {
	var list []*entity.StockBalance
	for k, b := range s.balances {
		if k.warehouseID == warehouseID {
			cp := b
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	return list
}

func listOperationsByKind(s *Store, kind string, limit, offset int) []*entity.Operation {
	var ids []string
	for id, op := range s.operations {
		if op.Kind == kind {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.operations[ids[i]], s.operations[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	var list []*entity.Operation
	for i := offset; i < len(ids) && len(list) < limit; i++ {
		list = append(list, s.operationWithLines(ids[i]))
	}
	return list
}

func (s *Store) returnWithLines(id string) *entity.ReturnOperation {
	ret, ok := s.returns[id]
	if !ok {
		return nil
	}
	cp := ret
	cp.Lines = nil
	for _, l := range s.returnLines {
		if l.ReturnOperationID == id {
			cp.Lines = append(cp.Lines, l)
		}
	}
	sort.Slice(cp.Lines, func(i, j int) bool { return cp.Lines[i].ItemID < cp.Lines[j].ItemID })
	return &cp
}

func listReturnsByOriginal(s *Store, originalOperationID string) []*entity.ReturnOperation {
	var ids []string
	for id, ret := range s.returns {
		if ret.OriginalOperationID == originalOperationID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.returns[ids[i]], s.returns[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	var list []*entity.ReturnOperation
	for _, id := range ids {
		list = append(list, s.returnWithLines(id))
	}
	return list
}

func listModifications(s *Store, lineID string) []*entity.Modification {
	mods := s.modifications[lineID]
	list := make([]*entity.Modification, 0, len(mods))
	for _, m := range mods {
		cp := m
		list = append(list, &cp)
	}
	return list
}

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s *Store
}

// NewItemRepository construye el adaptador.
func NewItemRepository(s *Store) *ItemRepo { return &ItemRepo{s: s} }

func (r *ItemRepo) Create(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if it, ok := r.s.items[id]; ok {
		return &it, nil
	}
	return nil, nil
}

func (r *ItemRepo) Update(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Item
	for _, it := range r.s.items {
		cp := it
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// WarehouseRepo implementación en memoria de WarehouseRepository.
type WarehouseRepo struct {
	s *Store
}

// NewWarehouseRepository construye el adaptador.
func NewWarehouseRepository(s *Store) *WarehouseRepo { return &WarehouseRepo{s: s} }

func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if w, ok := r.s.warehouses[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Warehouse
	for _, w := range r.s.warehouses {
		cp := w
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// SupplierRepo implementación en memoria de SupplierRepository.
type SupplierRepo struct {
	s *Store
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(s *Store) *SupplierRepo { return &SupplierRepo{s: s} }

func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if sp, ok := r.s.suppliers[id]; ok {
		return &sp, nil
	}
	return nil, nil
}

func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Supplier
	for _, sp := range r.s.suppliers {
		cp := sp
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// BeneficiaryRepo implementación en memoria de BeneficiaryRepository.
type BeneficiaryRepo struct {
	s *Store
}

// NewBeneficiaryRepository construye el adaptador.
func NewBeneficiaryRepository(s *Store) *BeneficiaryRepo { return &BeneficiaryRepo{s: s} }

func (r *BeneficiaryRepo) Create(beneficiary *entity.Beneficiary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.beneficiaries[beneficiary.ID] = *beneficiary
	return nil
}

func (r *BeneficiaryRepo) GetByID(id string) (*entity.Beneficiary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.beneficiaries[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *BeneficiaryRepo) Update(beneficiary *entity.Beneficiary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.beneficiaries[beneficiary.ID] = *beneficiary
	return nil
}

func (r *BeneficiaryRepo) List(limit, offset int) ([]*entity.Beneficiary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Beneficiary
	for _, b := range r.s.beneficiaries {
		cp := b
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// StationRepo implementación en memoria de StationRepository.
type StationRepo struct {
	s *Store
}

// NewStationRepository construye el adaptador.
func NewStationRepository(s *Store) *StationRepo { return &StationRepo{s: s} }

func (r *StationRepo) Create(station *entity.Station) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stations[station.ID] = *station
	return nil
}

func (r *StationRepo) GetByID(id string) (*entity.Station, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if st, ok := r.s.stations[id]; ok {
		return &st, nil
	}
	return nil, nil
}

func (r *StationRepo) Update(station *entity.Station) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stations[station.ID] = *station
	return nil
}

func (r *StationRepo) List(limit, offset int) ([]*entity.Station, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Station
	for _, st := range r.s.stations {
		cp := st
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), nil
}

// StockBalanceRepo implementación en memoria de StockBalanceRepository fuera
// de transacción. Lock* opera en modo autocommit (lectura puntual, el
// bloqueo no persiste), igual que un SELECT FOR UPDATE contra el pool sin tx
// abierta. El motor de posteo usa siempre la variante de transacción.
type StockBalanceRepo struct {
	s *Store
}

// NewStockBalanceRepository construye el adaptador.
func NewStockBalanceRepository(s *Store) *StockBalanceRepo { return &StockBalanceRepo{s: s} }

func (r *StockBalanceRepo) Get(warehouseID, itemID string) (*entity.StockBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.balances[balanceKey{warehouseID, itemID}]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *StockBalanceRepo) LockForUpdate(warehouseID, itemID string) (*entity.StockBalance, error) {
	return r.Get(warehouseID, itemID)
}

func (r *StockBalanceRepo) LockOrCreate(warehouseID, itemID string) (*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := balanceKey{warehouseID, itemID}
	if b, ok := r.s.balances[k]; ok {
		return &b, nil
	}
	b := entity.StockBalance{
		WarehouseID:     warehouseID,
		ItemID:          itemID,
		OpeningBalance:  decimal.Zero,
		CurrentQuantity: decimal.Zero,
		UpdatedAt:       time.Now().UTC(),
	}
	r.s.balances[k] = b
	return &b, nil
}

func (r *StockBalanceRepo) Save(balance *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[balanceKey{balance.WarehouseID, balance.ItemID}] = *balance
	return nil
}

func (r *StockBalanceRepo) ListByWarehouse(warehouseID string) ([]*entity.StockBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return listBalances(r.s, warehouseID), nil
}

// OperationRepo implementación en memoria de OperationRepository fuera de
// transacción, para consultas.
type OperationRepo struct {
	s *Store
}

// NewOperationRepository construye el adaptador.
func NewOperationRepository(s *Store) *OperationRepo { return &OperationRepo{s: s} }

func (r *OperationRepo) Create(op *entity.Operation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *op
	cp.Lines = nil
	r.s.operations[op.ID] = cp
	return nil
}

func (r *OperationRepo) CreateLine(line *entity.OperationLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := lineKey{line.OperationID, line.ItemID}
	if _, ok := r.s.linesByItem[k]; ok {
		return fmt.Errorf("línea duplicada para el ítem %s: %w", line.ItemID, domain.ErrDuplicateLineItem)
	}
	r.s.lines[line.ID] = *line
	r.s.linesByItem[k] = line.ID
	return nil
}

func (r *OperationRepo) GetByID(id string) (*entity.Operation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.operationWithLines(id), nil
}

func (r *OperationRepo) GetLineByID(id string) (*entity.OperationLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.lines[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r *OperationRepo) LockLine(operationID, itemID string) (*entity.OperationLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lineID, ok := r.s.linesByItem[lineKey{operationID, itemID}]
	if !ok {
		return nil, nil
	}
	l := r.s.lines[lineID]
	return &l, nil
}

func (r *OperationRepo) LockLineByID(id string) (*entity.OperationLine, error) {
	return r.GetLineByID(id)
}

func (r *OperationRepo) SaveLineReturned(lineID string, returned decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lines[lineID]
	if !ok {
		return fmt.Errorf("línea %s: %w", lineID, domain.ErrNotFound)
	}
	l.ReturnedQuantity = returned
	r.s.lines[lineID] = l
	return nil
}

func (r *OperationRepo) ListByKind(kind string, limit, offset int) ([]*entity.Operation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return listOperationsByKind(r.s, kind, limit, offset), nil
}

// ReturnRepo implementación en memoria de ReturnRepository fuera de
// transacción, para consultas.
type ReturnRepo struct {
	s *Store
}

// NewReturnRepository construye el adaptador.
func NewReturnRepository(s *Store) *ReturnRepo { return &ReturnRepo{s: s} }

func (r *ReturnRepo) Create(ret *entity.ReturnOperation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *ret
	cp.Lines = nil
	r.s.returns[ret.ID] = cp
	return nil
}

func (r *ReturnRepo) CreateLine(line *entity.ReturnLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.returnLines {
		if l.ReturnOperationID == line.ReturnOperationID && l.ItemID == line.ItemID {
			return fmt.Errorf("línea duplicada para el ítem %s: %w", line.ItemID, domain.ErrDuplicateLineItem)
		}
	}
	r.s.returnLines[line.ID] = *line
	return nil
}

func (r *ReturnRepo) GetByID(id string) (*entity.ReturnOperation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.returnWithLines(id), nil
}

func (r *ReturnRepo) ListByOriginalOperation(originalOperationID string) ([]*entity.ReturnOperation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return listReturnsByOriginal(r.s, originalOperationID), nil
}

// ModificationRepo implementación en memoria de ModificationRepository fuera
// de transacción, para consultas.
type ModificationRepo struct {
	s *Store
}

// NewModificationRepository construye el adaptador.
func NewModificationRepository(s *Store) *ModificationRepo { return &ModificationRepo{s: s} }

func (r *ModificationRepo) Create(mod *entity.Modification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.modifications[mod.LineID] = append(r.s.modifications[mod.LineID], *mod)
	return nil
}

func (r *ModificationRepo) LatestByLine(lineID string) (*entity.Modification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	mods := r.s.modifications[lineID]
	if len(mods) == 0 {
		return nil, nil
	}
	cp := mods[len(mods)-1]
	return &cp, nil
}

func (r *ModificationRepo) ListByLine(lineID string) ([]*entity.Modification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return listModifications(r.s, lineID), nil
}

// StorekeeperAuthorizer autoriza a un operario solo sobre las bodegas que
// tiene asignadas, igual que la variante PostgreSQL.
type StorekeeperAuthorizer struct {
	s *Store
}

// NewStorekeeperAuthorizer construye el autorizador.
func NewStorekeeperAuthorizer(s *Store) *StorekeeperAuthorizer { return &StorekeeperAuthorizer{s: s} }

// CanOperate devuelve nil si la bodega tiene al usuario como operario
// asignado; domain.ErrForbidden en caso contrario.
func (a *StorekeeperAuthorizer) CanOperate(userID, warehouseID string) error {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	w, ok := a.s.warehouses[warehouseID]
	if !ok {
		return fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
	}
	if w.StorekeeperID != userID {
		return fmt.Errorf("usuario %s no opera la bodega %s: %w", userID, warehouseID, domain.ErrForbidden)
	}
	return nil
}

func paginate[T any](all []*T, limit, offset int) []*T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
