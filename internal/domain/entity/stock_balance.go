package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es el saldo autoritativo de un ítem en una bodega, clave
// (WarehouseID, ItemID). CurrentQuantity solo lo muta el ledger dentro de una
// transacción con la fila bloqueada; OpeningBalance es informativo.
// La fila se crea perezosamente con el primer ajuste y nunca se elimina.
type StockBalance struct {
	WarehouseID     string
	ItemID          string
	OpeningBalance  decimal.Decimal
	CurrentQuantity decimal.Decimal
	UpdatedAt       time.Time
}
