package operations

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción. Todo posteo
// multi-paso (cabecera + líneas + ajustes de saldo) usa exclusivamente estos
// repos para que commit/rollback cubra el conjunto completo.
type TxRepos struct {
	Operations    repository.OperationRepository
	Returns       repository.ReturnRepository
	Modifications repository.ModificationRepository
	Balances      repository.StockBalanceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de posteo:
// un error de fn descarta todos los efectos. Una espera de bloqueo agotada se
// reporta como domain.ErrContention y tampoco deja nada registrado.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// Authorizer decide si un operario puede postear sobre una bodega. La
// autenticación y los roles viven fuera del motor; aquí solo se consulta.
type Authorizer interface {
	CanOperate(userID, warehouseID string) error
}
