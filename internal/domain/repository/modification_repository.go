package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// ModificationRepository define el puerto de persistencia para el historial de
// modificaciones de cantidad. Es append-only: no hay Update ni Delete.
type ModificationRepository interface {
	Create(mod *entity.Modification) error
	// LatestByLine devuelve la modificación más reciente por orden de creación
	// para una línea; nil si no hay ninguna.
	LatestByLine(lineID string) (*entity.Modification, error)
	ListByLine(lineID string) ([]*entity.Modification, error)
}
