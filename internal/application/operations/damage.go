package operations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// DamageInput entrada para dar de baja mercancía dañada en una bodega.
type DamageInput struct {
	WarehouseID string
	Items       []ItemQuantity
	Meta        OperationMeta // Reason obligatorio
	Actor       Actor
}

// PostDamage postea una baja por daño: sin contraparte, ajustes negativos con
// la misma verificación de stock que un despacho.
func (uc *PostingUseCase) PostDamage(ctx context.Context, in DamageInput) (string, error) {
	if err := uc.validateItems(in.Items); err != nil {
		return "", err
	}
	if in.Meta.Reason == "" {
		return "", domain.ErrInvalidInput
	}
	if _, err := uc.mustActiveWarehouse(in.WarehouseID); err != nil {
		return "", err
	}
	if err := uc.authorize(in.Actor, in.WarehouseID); err != nil {
		return "", err
	}

	op := &entity.Operation{
		ID:          uuid.New().String(),
		Kind:        entity.OperationKindDamage,
		WarehouseID: in.WarehouseID,
		CreatedAt:   time.Now(),
		CreatedBy:   in.Actor.UserID,
	}
	metaToOperation(op, in.Meta)

	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
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
				Delta: it.Quantity.Neg(),
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
