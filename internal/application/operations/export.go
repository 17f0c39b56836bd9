package operations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ExportInput entrada para postear un despacho hacia un beneficiario.
type ExportInput struct {
	WarehouseID   string
	BeneficiaryID string
	Items         []ItemQuantity
	Meta          OperationMeta
	Actor         Actor
}

// PostExport es el espejo de PostSupply con ajustes negativos: un
// InsufficientStock de cualquier línea aborta la unidad completa y la
// operación nunca existió (ni cabecera, ni líneas, ni cambio de saldo).
func (uc *PostingUseCase) PostExport(ctx context.Context, in ExportInput) (string, error) {
	if err := uc.validateItems(in.Items); err != nil {
		return "", err
	}
	if _, err := uc.mustActiveWarehouse(in.WarehouseID); err != nil {
		return "", err
	}
	beneficiary, err := uc.beneficiaryRepo.GetByID(in.BeneficiaryID)
	if err != nil {
		return "", err
	}
	if beneficiary == nil || !beneficiary.IsActive {
		return "", domain.ErrNotFound
	}
	if err := uc.authorize(in.Actor, in.WarehouseID); err != nil {
		return "", err
	}

	op := &entity.Operation{
		ID:            uuid.New().String(),
		Kind:          entity.OperationKindExport,
		WarehouseID:   in.WarehouseID,
		BeneficiaryID: in.BeneficiaryID,
		CreatedAt:     time.Now(),
		CreatedBy:     in.Actor.UserID,
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
