package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound                   = errors.New("recurso no encontrado o inactivo")
	ErrInvalidInput               = errors.New("entrada inválida")
	ErrDuplicateLineItem          = errors.New("ítem duplicado en la operación")
	ErrInsufficientStock          = errors.New("stock insuficiente")
	ErrReturnExceedsReturnable    = errors.New("la devolución excede la cantidad retornable")
	ErrItemNotInOriginalOperation = errors.New("el ítem no pertenece a la operación original")
	ErrItemNotInSourceWarehouse   = errors.New("el ítem no existe en la bodega de origen")
	ErrInvalidTransfer            = errors.New("bodega de origen y destino no pueden ser la misma")
	ErrContention                 = errors.New("contención de bloqueo; reintentar la operación")
	ErrForbidden                  = errors.New("acceso denegado a la bodega")
)

// InsufficientStockError detalla un rechazo por stock insuficiente: qué ítem,
// en qué bodega, cuánto se pidió y cuánto había. errors.Is(err, ErrInsufficientStock)
// sigue funcionando a través de Is.
type InsufficientStockError struct {
	WarehouseID string
	ItemID      string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente del ítem %s en bodega %s: solicitado %s, disponible %s",
		e.ItemID, e.WarehouseID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ReturnExceedsReturnableError detalla un rechazo de devolución, incluyendo la
// cantidad retornable exacta que le queda a la línea original.
type ReturnExceedsReturnableError struct {
	ItemID     string
	Requested  decimal.Decimal
	Returnable decimal.Decimal
}

func (e *ReturnExceedsReturnableError) Error() string {
	return fmt.Sprintf("no se puede devolver %s del ítem %s: solo queda %s retornable",
		e.Requested, e.ItemID, e.Returnable)
}

func (e *ReturnExceedsReturnableError) Is(target error) bool {
	return target == ErrReturnExceedsReturnable
}
