package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// StockBalanceRepository define el puerto para los saldos por (bodega, ítem).
// Los métodos Lock* solo tienen sentido dentro de una transacción: dejan la
// fila bloqueada (SELECT FOR UPDATE) hasta el commit o rollback.
type StockBalanceRepository interface {
	// Get lectura no bloqueante; nil si la fila no existe.
	Get(warehouseID, itemID string) (*entity.StockBalance, error)
	// LockForUpdate bloquea la fila existente; nil si no existe (no la crea).
	LockForUpdate(warehouseID, itemID string) (*entity.StockBalance, error)
	// LockOrCreate crea la fila en cero si no existe y la deja bloqueada.
	LockOrCreate(warehouseID, itemID string) (*entity.StockBalance, error)
	// Save persiste la cantidad actual de una fila ya bloqueada.
	Save(balance *entity.StockBalance) error
	ListByWarehouse(warehouseID string) ([]*entity.StockBalance, error)
}
