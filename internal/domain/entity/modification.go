package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modification es una corrección de cantidad sobre una línea original. Es
// append-only: nunca se edita ni se elimina la historia; la cantidad efectiva
// de la línea es el NewQuantity de la modificación más reciente por orden de
// creación, o la cantidad propia de la línea si no hay ninguna.
type Modification struct {
	ID          string
	LineID      string
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
	Reason      string
	CreatedAt   time.Time
	CreatedBy   string
}

// Difference devuelve el delta que la modificación postea al ledger.
func (m *Modification) Difference() decimal.Decimal {
	return m.NewQuantity.Sub(m.OldQuantity)
}

// EffectiveQuantity resuelve la cantidad vigente de una línea: la última
// modificación manda; sin modificaciones, la cantidad original.
func EffectiveQuantity(line *OperationLine, latest *Modification) decimal.Decimal {
	if latest != nil {
		return latest.NewQuantity
	}
	return line.Quantity
}
