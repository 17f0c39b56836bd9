// Package memory implementa los puertos de persistencia sobre mapas en
// proceso, con bloqueo por fila y transacciones por etapas. Reproduce la
// semántica del adaptador PostgreSQL (FOR UPDATE con espera acotada,
// commit/rollback atómico) para desarrollo local y pruebas sin BD.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// DefaultLockWait es la espera máxima por un bloqueo de fila antes de
// reportar domain.ErrContention, alineada con el lock_timeout del adaptador
// PostgreSQL.
const DefaultLockWait = 3 * time.Second

type balanceKey struct {
	warehouseID string
	itemID      string
}

type lineKey struct {
	operationID string
	itemID      string
}

// Store guarda todo el estado en mapas protegidos por un mutex global para
// lecturas y escrituras puntuales. Los bloqueos por fila (saldos y líneas)
// son semáforos binarios independientes del mutex: se adquieren con espera
// acotada y se mantienen hasta el commit o rollback de la transacción.
type Store struct {
	mu sync.RWMutex

	balances      map[balanceKey]entity.StockBalance
	operations    map[string]entity.Operation
	lines         map[string]entity.OperationLine
	linesByItem   map[lineKey]string // (operación, ítem) -> lineID
	returns       map[string]entity.ReturnOperation
	returnLines   map[string]entity.ReturnLine
	modifications map[string][]entity.Modification // por lineID, en orden de creación
	items         map[string]entity.Item
	warehouses    map[string]entity.Warehouse
	suppliers     map[string]entity.Supplier
	beneficiaries map[string]entity.Beneficiary
	stations      map[string]entity.Station

	lockMu   sync.Mutex
	rowLocks map[string]chan struct{}
	lockWait time.Duration
}

// NewStore crea un Store vacío con la espera de bloqueo por defecto.
func NewStore() *Store {
	return NewStoreWithLockWait(DefaultLockWait)
}

// NewStoreWithLockWait permite acortar la espera de bloqueo (útil en pruebas
// de contención).
func NewStoreWithLockWait(lockWait time.Duration) *Store {
	return &Store{
		balances:      map[balanceKey]entity.StockBalance{},
		operations:    map[string]entity.Operation{},
		lines:         map[string]entity.OperationLine{},
		linesByItem:   map[lineKey]string{},
		returns:       map[string]entity.ReturnOperation{},
		returnLines:   map[string]entity.ReturnLine{},
		modifications: map[string][]entity.Modification{},
		items:         map[string]entity.Item{},
		warehouses:    map[string]entity.Warehouse{},
		suppliers:     map[string]entity.Supplier{},
		beneficiaries: map[string]entity.Beneficiary{},
		stations:      map[string]entity.Station{},
		rowLocks:      map[string]chan struct{}{},
		lockWait:      lockWait,
	}
}

func balanceLockKey(k balanceKey) string { return "bal:" + k.warehouseID + "/" + k.itemID }
func lineLockKey(lineID string) string   { return "line:" + lineID }

// acquire toma el bloqueo de una fila, esperando a lo sumo lockWait. Si la
// espera se agota devuelve domain.ErrContention, igual que un lock_timeout
// de PostgreSQL.
func (s *Store) acquire(ctx context.Context, key string) error {
	s.lockMu.Lock()
	ch, ok := s.rowLocks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[key] = ch
	}
	s.lockMu.Unlock()

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("espera de bloqueo agotada en %s: %w", key, domain.ErrContention)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release suelta un bloqueo tomado por acquire.
func (s *Store) release(key string) {
	s.lockMu.Lock()
	ch := s.rowLocks[key]
	s.lockMu.Unlock()
	<-ch
}

// operationWithLines arma una copia de la operación con sus líneas ordenadas
// por ítem. El llamador debe tener s.mu.
func (s *Store) operationWithLines(id string) *entity.Operation {
	op, ok := s.operations[id]
	if !ok {
		return nil
	}
	cp := op
	cp.Lines = nil
	for _, l := range s.lines {
		if l.OperationID == id {
			cp.Lines = append(cp.Lines, l)
		}
	}
	sort.Slice(cp.Lines, func(i, j int) bool { return cp.Lines[i].ItemID < cp.Lines[j].ItemID })
	return &cp
}
