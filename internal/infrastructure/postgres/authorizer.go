package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

var _ operations.Authorizer = (*StorekeeperAuthorizer)(nil)

// StorekeeperAuthorizer autoriza a un operario solo sobre las bodegas que
// tiene asignadas. Los roles privilegiados no pasan por aquí: el caso de uso
// los deja operar en cualquier bodega.
type StorekeeperAuthorizer struct {
	q Querier
}

// NewStorekeeperAuthorizer construye el autorizador.
func NewStorekeeperAuthorizer(q Querier) *StorekeeperAuthorizer {
	return &StorekeeperAuthorizer{q: q}
}

// CanOperate devuelve nil si la bodega tiene al usuario como operario
// asignado; domain.ErrForbidden en caso contrario.
func (a *StorekeeperAuthorizer) CanOperate(userID, warehouseID string) error {
	query := `SELECT COALESCE(storekeeper_id::text, '') FROM warehouses WHERE id = $1`
	var storekeeperID string
	err := a.q.QueryRow(context.Background(), query, warehouseID).Scan(&storekeeperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
		}
		return fmt.Errorf("consultar operario de bodega: %w", err)
	}
	if storekeeperID != userID {
		return fmt.Errorf("usuario %s no opera la bodega %s: %w", userID, warehouseID, domain.ErrForbidden)
	}
	return nil
}
