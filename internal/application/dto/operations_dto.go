package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationItemRequest una entrada (ítem, cantidad) de una operación.
type OperationItemRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

// OperationMetaRequest campos documentales de la cabecera.
type OperationMetaRequest struct {
	OperationDate      time.Time `json:"operation_date"`
	PaperRefNumber     string    `json:"paper_ref_number"`
	SupplyBonNumber    string    `json:"supply_bon_number"`
	DelivererName      string    `json:"deliverer_name"`
	DelivererJobNumber string    `json:"deliverer_job_number"`
	Statement          string    `json:"statement"`
	Description        string    `json:"description"`
	Reason             string    `json:"reason"`
}

// PostSupplyRequest cuerpo para postear un suministro.
type PostSupplyRequest struct {
	WarehouseID string                 `json:"warehouse_id" validate:"required"`
	SupplierID  string                 `json:"supplier_id" validate:"required"`
	StationID   string                 `json:"station_id" validate:"required"`
	Items       []OperationItemRequest `json:"items" validate:"required,min=1"`
	Meta        OperationMetaRequest   `json:"meta"`
}

// PostExportRequest cuerpo para postear un despacho.
type PostExportRequest struct {
	WarehouseID   string                 `json:"warehouse_id" validate:"required"`
	BeneficiaryID string                 `json:"beneficiary_id" validate:"required"`
	Items         []OperationItemRequest `json:"items" validate:"required,min=1"`
	Meta          OperationMetaRequest   `json:"meta"`
}

// PostDamageRequest cuerpo para postear una baja por daño.
type PostDamageRequest struct {
	WarehouseID string                 `json:"warehouse_id" validate:"required"`
	Items       []OperationItemRequest `json:"items" validate:"required,min=1"`
	Meta        OperationMetaRequest   `json:"meta"` // meta.reason obligatorio
}

// PostTransferRequest cuerpo para postear un traslado.
type PostTransferRequest struct {
	FromWarehouseID string                 `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string                 `json:"to_warehouse_id" validate:"required"`
	Items           []OperationItemRequest `json:"items" validate:"required,min=1"`
	Meta            OperationMetaRequest   `json:"meta"`
}

// PostReturnRequest cuerpo para postear una devolución parcial. La dirección
// la fija la ruta (return-supply o return-dispatch).
type PostReturnRequest struct {
	OriginalOperationID string                 `json:"original_operation_id" validate:"required"`
	Items               []OperationItemRequest `json:"items" validate:"required,min=1"`
	Meta                OperationMetaRequest   `json:"meta"`
}

// PostModificationRequest cuerpo para corregir la cantidad de una línea.
type PostModificationRequest struct {
	LineID      string          `json:"line_id" validate:"required"`
	NewQuantity decimal.Decimal `json:"new_quantity" validate:"required"`
	Reason      string          `json:"reason" validate:"required"`
}

// PostedResponse respuesta de un posteo exitoso.
type PostedResponse struct {
	ID string `json:"id"`
}

// BalanceResponse saldo actual de un ítem en una bodega.
type BalanceResponse struct {
	WarehouseID     string          `json:"warehouse_id"`
	ItemID          string          `json:"item_id"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
}

// OperationLineResponse línea de una operación con sus cantidades derivadas.
type OperationLineResponse struct {
	ID                 string          `json:"id"`
	ItemID             string          `json:"item_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	ReturnedQuantity   decimal.Decimal `json:"returned_quantity"`
	ReturnableQuantity decimal.Decimal `json:"returnable_quantity"`
	EffectiveQuantity  decimal.Decimal `json:"effective_quantity"`
}

// OperationResponse detalle de una operación posteada.
type OperationResponse struct {
	ID            string                  `json:"id"`
	Kind          string                  `json:"kind"`
	WarehouseID   string                  `json:"warehouse_id"`
	ToWarehouseID string                  `json:"to_warehouse_id,omitempty"`
	SupplierID    string                  `json:"supplier_id,omitempty"`
	BeneficiaryID string                  `json:"beneficiary_id,omitempty"`
	StationID     string                  `json:"station_id,omitempty"`
	OperationDate time.Time               `json:"operation_date"`
	Statement     string                  `json:"statement,omitempty"`
	Description   string                  `json:"description,omitempty"`
	Reason        string                  `json:"reason,omitempty"`
	CreatedBy     string                  `json:"created_by"`
	Lines         []OperationLineResponse `json:"lines"`
}

// EffectiveQuantityResponse cantidad vigente de una línea.
type EffectiveQuantityResponse struct {
	LineID            string          `json:"line_id"`
	EffectiveQuantity decimal.Decimal `json:"effective_quantity"`
}
