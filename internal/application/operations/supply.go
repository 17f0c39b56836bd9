package operations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// SupplyInput entrada para postear un suministro: bodega destino, proveedor,
// estación y la lista ordenada de (ítem, cantidad).
type SupplyInput struct {
	WarehouseID string
	SupplierID  string
	StationID   string
	Items       []ItemQuantity
	Meta        OperationMeta
	Actor       Actor
}

// PostSupply valida, crea cabecera + líneas y suma cada cantidad al saldo de
// la bodega, todo dentro de una transacción. Ningún paso parcial sobrevive a
// un fallo.
func (uc *PostingUseCase) PostSupply(ctx context.Context, in SupplyInput) (string, error) {
	if err := uc.validateItems(in.Items); err != nil {
		return "", err
	}
	if _, err := uc.mustActiveWarehouse(in.WarehouseID); err != nil {
		return "", err
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return "", err
	}
	if supplier == nil || !supplier.IsActive {
		return "", domain.ErrNotFound
	}
	station, err := uc.stationRepo.GetByID(in.StationID)
	if err != nil {
		return "", err
	}
	if station == nil || !station.IsActive {
		return "", domain.ErrNotFound
	}
	if err := uc.authorize(in.Actor, in.WarehouseID); err != nil {
		return "", err
	}

	op := &entity.Operation{
		ID:          uuid.New().String(),
		Kind:        entity.OperationKindSupply,
		WarehouseID: in.WarehouseID,
		SupplierID:  in.SupplierID,
		StationID:   in.StationID,
		CreatedAt:   time.Now(),
		CreatedBy:   in.Actor.UserID,
	}
	metaToOperation(op, in.Meta)

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if err := r.Operations.Create(op); err != nil {
			return err
		}
		adjs := make([]ledger.Adjustment, 0, len(in.Items))
		for _, it := range in.Items {
			line := &entity.OperationLine{
				ID:          uuid.New().String(),
				OperationID: op.ID,
				ItemID:      it.ItemID,
				Quantity:    it.Quantity,
			}
			if err := r.Operations.CreateLine(line); err != nil {
				return err
			}
			adjs = append(adjs, ledger.Adjustment{
				Key:   ledger.Key{WarehouseID: in.WarehouseID, ItemID: it.ItemID},
				Delta: it.Quantity,
			})
		}
		_, err := uc.ledger.Apply(r.Balances, adjs)
		return err
	})
	if err != nil {
		return "", err
	}
	return op.ID, nil
}
