package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// OperationRepository define el puerto de persistencia para operaciones y sus
// líneas. Las líneas pertenecen en exclusiva a su operación; LockLine bloquea
// la línea original (FOR UPDATE) para serializar devoluciones y modificaciones
// concurrentes contra la misma línea.
type OperationRepository interface {
	Create(op *entity.Operation) error
	CreateLine(line *entity.OperationLine) error
	// GetByID devuelve la operación con sus líneas; nil si no existe.
	GetByID(id string) (*entity.Operation, error)
	// GetLineByID devuelve una línea por su ID; nil si no existe.
	GetLineByID(id string) (*entity.OperationLine, error)
	// LockLine bloquea la línea (operación, ítem); nil si no existe.
	LockLine(operationID, itemID string) (*entity.OperationLine, error)
	// LockLineByID bloquea una línea por su ID; nil si no existe.
	LockLineByID(id string) (*entity.OperationLine, error)
	// SaveLineReturned persiste el acumulado devuelto de una línea bloqueada.
	SaveLineReturned(lineID string, returned decimal.Decimal) error
	ListByKind(kind string, limit, offset int) ([]*entity.Operation, error)
}
