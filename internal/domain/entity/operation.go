package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de operación de stock.
const (
	OperationKindSupply   = "SUPPLY"   // suministro (entrada desde proveedor)
	OperationKindExport   = "EXPORT"   // despacho (salida hacia beneficiario)
	OperationKindDamage   = "DAMAGE"   // baja por daño
	OperationKindTransfer = "TRANSFER" // traslado entre bodegas
)

// Operation es la cabecera de una operación posteada (SUPPLY, EXPORT, DAMAGE
// o TRANSFER). Los campos de contraparte aplican según el tipo: SupplierID y
// StationID en SUPPLY, BeneficiaryID en EXPORT, ToWarehouseID en TRANSFER,
// Reason en DAMAGE.
type Operation struct {
	ID                 string
	Kind               string
	WarehouseID        string // bodega principal (origen en TRANSFER)
	ToWarehouseID      string
	SupplierID         string
	BeneficiaryID      string
	StationID          string
	OperationDate      time.Time
	PaperRefNumber     string
	SupplyBonNumber    string
	DelivererName      string
	DelivererJobNumber string
	Statement          string
	Description        string
	Reason             string
	CreatedAt          time.Time
	CreatedBy          string
	Lines              []OperationLine
}

// OperationLine es una línea (operación, ítem) única dentro de una operación.
// ReturnedQuantity acumula devoluciones contra la línea (solo SUPPLY/EXPORT);
// invariante: 0 <= ReturnedQuantity <= Quantity.
type OperationLine struct {
	ID               string
	OperationID      string
	ItemID           string
	Quantity         decimal.Decimal
	ReturnedQuantity decimal.Decimal
}

// ReturnableQuantity devuelve cuánto queda por devolver contra esta línea.
func (l *OperationLine) ReturnableQuantity() decimal.Decimal {
	return l.Quantity.Sub(l.ReturnedQuantity)
}
