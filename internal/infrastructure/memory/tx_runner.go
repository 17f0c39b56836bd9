package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

var _ operations.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta posteos contra el Store con la misma disciplina que el
// adaptador PostgreSQL: los repos atados a la tx acumulan escrituras por
// etapas y toman bloqueos de fila con espera acotada; el commit aplica todo
// bajo el mutex global y el rollback descarta sin dejar rastro.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre un Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn dentro de una transacción. Cualquier error de fn (incluida
// una espera de bloqueo agotada, reportada como domain.ErrContention)
// descarta todos los efectos.
func (r *TxRunner) Run(ctx context.Context, fn func(repos operations.TxRepos) error) error {
	tx := &memTx{
		ctx:         ctx,
		store:       r.store,
		balances:    map[balanceKey]*entity.StockBalance{},
		lockedLines: map[string]*entity.OperationLine{},
	}
	defer tx.releaseLocks()

	repos := operations.TxRepos{
		Operations:    &txOperationRepo{tx: tx},
		Returns:       &txReturnRepo{tx: tx},
		Modifications: &txModificationRepo{tx: tx},
		Balances:      &txBalanceRepo{tx: tx},
	}
	if err := fn(repos); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memTx acumula el estado de trabajo de una transacción: copias de las filas
// bloqueadas y las inserciones pendientes. Las lecturas dentro de la tx ven
// primero este estado y luego el Store comprometido.
type memTx struct {
	ctx   context.Context
	store *Store

	heldLocks []string

	balances    map[balanceKey]*entity.StockBalance
	lockedLines map[string]*entity.OperationLine

	newOperations  []entity.Operation
	newLines       []entity.OperationLine
	newReturns     []entity.ReturnOperation
	newReturnLines []entity.ReturnLine
	newMods        []entity.Modification
}

func (tx *memTx) lock(key string) error {
	if err := tx.store.acquire(tx.ctx, key); err != nil {
		return err
	}
	tx.heldLocks = append(tx.heldLocks, key)
	return nil
}

func (tx *memTx) releaseLocks() {
	for _, key := range tx.heldLocks {
		tx.store.release(key)
	}
	tx.heldLocks = nil
}

// commit aplica las escrituras por etapas al Store. Los bloqueos de fila se
// sueltan después (en releaseLocks del Run), ya con el estado visible.
func (tx *memTx) commit() {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, b := range tx.balances {
		s.balances[k] = *b
	}
	for _, op := range tx.newOperations {
		s.operations[op.ID] = op
	}
	for _, l := range tx.newLines {
		s.lines[l.ID] = l
		s.linesByItem[lineKey{l.OperationID, l.ItemID}] = l.ID
	}
	for id, l := range tx.lockedLines {
		s.lines[id] = *l
	}
	for _, ret := range tx.newReturns {
		s.returns[ret.ID] = ret
	}
	for _, rl := range tx.newReturnLines {
		s.returnLines[rl.ID] = rl
	}
	for _, m := range tx.newMods {
		s.modifications[m.LineID] = append(s.modifications[m.LineID], m)
	}
}
