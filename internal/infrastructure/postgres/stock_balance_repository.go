package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx; los métodos Lock* requieren tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `warehouse_id, item_id, opening_balance, current_quantity, updated_at`

// Get lectura no bloqueante; nil si la fila no existe.
func (r *StockBalanceRepo) Get(warehouseID, itemID string) (*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE warehouse_id = $1 AND item_id = $2`
	return r.scanOne(query, warehouseID, itemID, "get balance")
}

// LockForUpdate bloquea la fila existente (SELECT FOR UPDATE); nil si no existe.
func (r *StockBalanceRepo) LockForUpdate(warehouseID, itemID string) (*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE warehouse_id = $1 AND item_id = $2
		FOR UPDATE`
	return r.scanOne(query, warehouseID, itemID, "lock balance")
}

// LockOrCreate crea la fila en cero si no existe y la deja bloqueada. El
// INSERT ... ON CONFLICT DO NOTHING seguido del SELECT FOR UPDATE garantiza
// que dos creadores concurrentes terminen serializados sobre la misma fila.
func (r *StockBalanceRepo) LockOrCreate(warehouseID, itemID string) (*entity.StockBalance, error) {
	insert := `
		INSERT INTO stock_balances (warehouse_id, item_id, opening_balance, current_quantity, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (warehouse_id, item_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, warehouseID, itemID); err != nil {
		return nil, fmt.Errorf("create balance: %w", err)
	}
	return r.LockForUpdate(warehouseID, itemID)
}

// Save persiste la cantidad actual de una fila ya bloqueada.
func (r *StockBalanceRepo) Save(balance *entity.StockBalance) error {
	query := `
		UPDATE stock_balances SET current_quantity = $3, updated_at = $4
		WHERE warehouse_id = $1 AND item_id = $2`
	_, err := r.q.Exec(context.Background(), query,
		balance.WarehouseID, balance.ItemID, balance.CurrentQuantity, balance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save balance: %w", err)
	}
	return nil
}

// ListByWarehouse lista los saldos de una bodega.
func (r *StockBalanceRepo) ListByWarehouse(warehouseID string) ([]*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE warehouse_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(context.Background(), query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.WarehouseID, &b.ItemID, &b.OpeningBalance, &b.CurrentQuantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *StockBalanceRepo) scanOne(query, warehouseID, itemID, op string) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, warehouseID, itemID).Scan(
		&b.WarehouseID, &b.ItemID, &b.OpeningBalance, &b.CurrentQuantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}
