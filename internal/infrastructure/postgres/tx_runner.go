package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// Ensure TxRunner implements operations.TxRunner.
var _ operations.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada Run
// fija un lock_timeout local: una espera de bloqueo agotada (o un deadlock
// detectado por el servidor) se traduce a domain.ErrContention y la
// transacción se descarta completa, sin dejar nada registrado.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos operations.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Espera de bloqueo acotada para toda la unidad de trabajo.
	if _, err := tx.Exec(ctx, `SET LOCAL lock_timeout = '3s'`); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	repos := operations.TxRepos{
		Operations:    NewOperationRepository(tx),
		Returns:       NewReturnRepository(tx),
		Modifications: NewModificationRepository(tx),
		Balances:      NewStockBalanceRepository(tx),
	}

	if err := fn(repos); err != nil {
		if isLockContention(err) {
			return fmt.Errorf("%w: %v", domain.ErrContention, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isLockContention(err) {
			return fmt.Errorf("%w: %v", domain.ErrContention, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
