package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// ReturnRepository define el puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ret *entity.ReturnOperation) error
	CreateLine(line *entity.ReturnLine) error
	// GetByID devuelve la devolución con sus líneas; nil si no existe.
	GetByID(id string) (*entity.ReturnOperation, error)
	ListByOriginalOperation(originalOperationID string) ([]*entity.ReturnOperation, error)
}
