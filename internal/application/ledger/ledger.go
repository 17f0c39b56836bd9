package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Key identifica un saldo de stock: (bodega, ítem).
type Key struct {
	WarehouseID string
	ItemID      string
}

// Less define el orden global canónico de bloqueo: (bodega, ítem) ascendente.
// Toda operación que toque más de una fila adquiere sus bloqueos en este orden,
// independiente de la dirección del traslado, para evitar deadlocks.
func (k Key) Less(other Key) bool {
	if k.WarehouseID != other.WarehouseID {
		return k.WarehouseID < other.WarehouseID
	}
	return k.ItemID < other.ItemID
}

// Adjustment es un ajuste con signo sobre un saldo. RequireExisting exige que
// la fila ya exista (origen de un traslado); sin la bandera, la fila se crea
// perezosamente en cero.
type Adjustment struct {
	Key
	Delta           decimal.Decimal
	RequireExisting bool
}

// Ledger aplica ajustes con signo sobre StockBalance dentro de la transacción
// del llamador. Nunca recalcula un saldo desde el historial de líneas: la
// CurrentQuantity almacenada es la única fuente de verdad y se actualiza de
// forma incremental, O(1) por posteo.
type Ledger struct{}

// New construye el ledger.
func New() *Ledger {
	return &Ledger{}
}

// Adjust bloquea (o crea) la fila (bodega, ítem), aplica el delta y devuelve
// la nueva cantidad. Un delta negativo que dejaría el saldo bajo cero falla
// con InsufficientStockError y no toca la fila.
func (l *Ledger) Adjust(balances repository.StockBalanceRepository, warehouseID, itemID string, delta decimal.Decimal) (decimal.Decimal, error) {
	newQty, err := l.Apply(balances, []Adjustment{{
		Key:   Key{WarehouseID: warehouseID, ItemID: itemID},
		Delta: delta,
	}})
	if err != nil {
		return decimal.Zero, err
	}
	return newQty[Key{WarehouseID: warehouseID, ItemID: itemID}], nil
}

// Apply aplica un conjunto de ajustes como un solo paso: ordena las claves en
// el orden canónico, bloquea todas las filas y recién entonces escribe. El
// primer fallo aborta sin persistir nada (el rollback de la transacción del
// llamador descarta cualquier escritura previa).
func (l *Ledger) Apply(balances repository.StockBalanceRepository, adjs []Adjustment) (map[Key]decimal.Decimal, error) {
	ordered := make([]Adjustment, len(adjs))
	copy(ordered, adjs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Key.Less(ordered[j].Key) })

	// Fase 1: adquirir todos los bloqueos en el orden canónico.
	locked := make(map[Key]*entity.StockBalance, len(ordered))
	for _, adj := range ordered {
		if _, already := locked[adj.Key]; already {
			continue
		}
		var (
			balance *entity.StockBalance
			err     error
		)
		if adj.RequireExisting {
			balance, err = balances.LockForUpdate(adj.WarehouseID, adj.ItemID)
		} else {
			balance, err = balances.LockOrCreate(adj.WarehouseID, adj.ItemID)
		}
		if err != nil {
			return nil, err
		}
		if balance == nil {
			return nil, fmt.Errorf("ítem %s: %w", adj.ItemID, domain.ErrItemNotInSourceWarehouse)
		}
		locked[adj.Key] = balance
	}

	// Fase 2: con todo bloqueado, verificar y escribir.
	now := time.Now()
	result := make(map[Key]decimal.Decimal, len(ordered))
	for _, adj := range ordered {
		balance := locked[adj.Key]
		newQty := balance.CurrentQuantity.Add(adj.Delta)
		if adj.Delta.IsNegative() && newQty.IsNegative() {
			return nil, &domain.InsufficientStockError{
				WarehouseID: adj.WarehouseID,
				ItemID:      adj.ItemID,
				Requested:   adj.Delta.Neg(),
				Available:   balance.CurrentQuantity,
			}
		}
		balance.CurrentQuantity = newQty
		balance.UpdatedAt = now
		if err := balances.Save(balance); err != nil {
			return nil, fmt.Errorf("guardar saldo: %w", err)
		}
		result[adj.Key] = newQty
	}
	return result, nil
}
