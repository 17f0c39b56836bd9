package operations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ModificationInput entrada para corregir la cantidad de una línea original.
type ModificationInput struct {
	LineID      string
	NewQuantity decimal.Decimal
	Reason      string
	Actor       Actor
}

// PostModification congela old_quantity = cantidad efectiva de la línea al
// momento de validar, crea el registro append-only y postea el delta
// new − old al ledger, todo en una transacción. Si el delta negativo no cabe
// en el saldo, no queda modificación registrada. La cantidad canónica de la
// línea nunca se muta: la efectiva se resuelve siempre desde el historial.
func (uc *PostingUseCase) PostModification(ctx context.Context, in ModificationInput) (string, error) {
	if in.LineID == "" || !in.NewQuantity.GreaterThan(decimal.Zero) {
		return "", domain.ErrInvalidInput
	}
	if in.Reason == "" {
		return "", domain.ErrInvalidInput
	}

	modID := uuid.New().String()
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		// FOR UPDATE sobre la línea: serializa modificaciones concurrentes de
		// la misma línea para que old_quantity sea siempre la última efectiva.
		line, err := r.Operations.LockLineByID(in.LineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		op, err := r.Operations.GetByID(line.OperationID)
		if err != nil {
			return err
		}
		if op == nil {
			return domain.ErrNotFound
		}
		if op.Kind != entity.OperationKindSupply && op.Kind != entity.OperationKindExport {
			return domain.ErrInvalidInput
		}
		if err := uc.authorize(in.Actor, op.WarehouseID); err != nil {
			return err
		}
		latest, err := r.Modifications.LatestByLine(line.ID)
		if err != nil {
			return err
		}
		old := entity.EffectiveQuantity(line, latest)
		diff := in.NewQuantity.Sub(old)

		if _, err := uc.ledger.Adjust(r.Balances, op.WarehouseID, line.ItemID, diff); err != nil {
			return err
		}
		return r.Modifications.Create(&entity.Modification{
			ID:          modID,
			LineID:      line.ID,
			OldQuantity: old,
			NewQuantity: in.NewQuantity,
			Reason:      in.Reason,
			CreatedAt:   time.Now(),
			CreatedBy:   in.Actor.UserID,
		})
	})
	if err != nil {
		return "", err
	}
	return modID, nil
}
