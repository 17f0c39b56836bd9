package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de una devolución respecto a la operación original.
const (
	ReturnDirectionToSupplier      = "TO_SUPPLIER"      // contra un SUPPLY: la mercancía sale de la bodega
	ReturnDirectionFromBeneficiary = "FROM_BENEFICIARY" // contra un EXPORT: la mercancía vuelve a la bodega
)

// ReturnOperation es la cabecera de una devolución parcial contra una
// operación SUPPLY o EXPORT original.
type ReturnOperation struct {
	ID                  string
	OriginalOperationID string
	Direction           string
	OperationDate       time.Time
	PaperRefNumber      string
	DelivererName       string
	DelivererJobNumber  string
	Statement           string
	Description         string
	CreatedAt           time.Time
	CreatedBy           string
	Lines               []ReturnLine
}

// ReturnLine es una línea (devolución, ítem) única. Su posteo incrementa en la
// misma transacción el ReturnedQuantity de la línea original.
type ReturnLine struct {
	ID                string
	ReturnOperationID string
	ItemID            string
	ReturnedQuantity  decimal.Decimal
}
