package operations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// TransferInput entrada para un traslado entre dos bodegas distintas.
type TransferInput struct {
	FromWarehouseID string
	ToWarehouseID   string
	Items           []ItemQuantity
	Meta            OperationMeta
	Actor           Actor
}

// PostTransfer debita la bodega origen y acredita la destino como un solo paso
// atómico. La fila de origen debe existir (no se crea: su ausencia es
// ItemNotInSourceWarehouse); la de destino se crea perezosamente. El ledger
// bloquea todas las claves en orden (bodega, ítem) ascendente, independiente
// de la dirección, así dos traslados opuestos concurrentes no se interbloquean.
// Todo traslado exitoso conserva el total del ítem en el sistema.
func (uc *PostingUseCase) PostTransfer(ctx context.Context, in TransferInput) (string, error) {
	if in.FromWarehouseID == in.ToWarehouseID {
		return "", domain.ErrInvalidTransfer
	}
	if err := uc.validateItems(in.Items); err != nil {
		return "", err
	}
	if _, err := uc.mustActiveWarehouse(in.FromWarehouseID); err != nil {
		return "", err
	}
	if _, err := uc.mustActiveWarehouse(in.ToWarehouseID); err != nil {
		return "", err
	}
	if err := uc.authorize(in.Actor, in.FromWarehouseID); err != nil {
		return "", err
	}

	op := &entity.Operation{
		ID:            uuid.New().String(),
		Kind:          entity.OperationKindTransfer,
		WarehouseID:   in.FromWarehouseID,
		ToWarehouseID: in.ToWarehouseID,
		CreatedAt:     time.Now(),
		CreatedBy:     in.Actor.UserID,
	}
	metaToOperation(op, in.Meta)

	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		if err := r.Operations.Create(op); err != nil {
			return err
		}
		adjs := make([]ledger.Adjustment, 0, 2*len(in.Items))
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
			adjs = append(adjs,
				ledger.Adjustment{
					Key:             ledger.Key{WarehouseID: in.FromWarehouseID, ItemID: it.ItemID},
					Delta:           it.Quantity.Neg(),
					RequireExisting: true,
				},
				ledger.Adjustment{
					Key:   ledger.Key{WarehouseID: in.ToWarehouseID, ItemID: it.ItemID},
					Delta: it.Quantity,
				},
			)
		}
		_, err := uc.ledger.Apply(r.Balances, adjs)
		return err
	})
	if err != nil {
		return "", err
	}
	return op.ID, nil
}
