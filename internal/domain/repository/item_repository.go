package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para ítems (DIP).
// No hay Delete: los ítems referenciados por líneas posteadas solo se
// desactivan.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	List(limit, offset int) ([]*entity.Item, error)
}
