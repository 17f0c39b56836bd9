package operations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ReturnInput entrada para una devolución parcial contra un SUPPLY o EXPORT.
// Direction fija el signo del ajuste: TO_SUPPLIER saca stock de la bodega
// (la mercancía vuelve al proveedor), FROM_BENEFICIARY lo repone.
type ReturnInput struct {
	OriginalOperationID string
	Direction           string
	Items               []ItemQuantity // Quantity = cantidad a devolver
	Meta                OperationMeta
	Actor               Actor
}

// PostReturn crea la devolución, incrementa el acumulado devuelto de cada
// línea original y ajusta el saldo, los tres pasos en la misma transacción.
// Las líneas originales se bloquean en orden de ítem ascendente; el acumulado
// nunca puede exceder la cantidad original de la línea.
func (uc *PostingUseCase) PostReturn(ctx context.Context, in ReturnInput) (string, error) {
	if err := uc.validateItems(in.Items); err != nil {
		return "", err
	}
	var wantKind string
	switch in.Direction {
	case entity.ReturnDirectionToSupplier:
		wantKind = entity.OperationKindSupply
	case entity.ReturnDirectionFromBeneficiary:
		wantKind = entity.OperationKindExport
	default:
		return "", domain.ErrInvalidInput
	}

	ret := &entity.ReturnOperation{
		ID:                  uuid.New().String(),
		OriginalOperationID: in.OriginalOperationID,
		Direction:           in.Direction,
		OperationDate:       in.Meta.OperationDate,
		PaperRefNumber:      in.Meta.PaperRefNumber,
		DelivererName:       in.Meta.DelivererName,
		DelivererJobNumber:  in.Meta.DelivererJobNumber,
		Statement:           in.Meta.Statement,
		Description:         in.Meta.Description,
		CreatedAt:           time.Now(),
		CreatedBy:           in.Actor.UserID,
	}
	if ret.OperationDate.IsZero() {
		ret.OperationDate = time.Now()
	}

	// Bloqueo de líneas originales en orden fijo de ítem.
	items := make([]ItemQuantity, len(in.Items))
	copy(items, in.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })

	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		original, err := r.Operations.GetByID(in.OriginalOperationID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrNotFound
		}
		if original.Kind != wantKind {
			return domain.ErrInvalidInput
		}
		if err := uc.authorize(in.Actor, original.WarehouseID); err != nil {
			return err
		}
		if err := r.Returns.Create(ret); err != nil {
			return err
		}
		adjs := make([]ledger.Adjustment, 0, len(items))
		for _, it := range items {
			line, err := r.Operations.LockLine(in.OriginalOperationID, it.ItemID)
			if err != nil {
				return err
			}
			if line == nil {
				return fmt.Errorf("ítem %s: %w", it.ItemID, domain.ErrItemNotInOriginalOperation)
			}
			returnable := line.ReturnableQuantity()
			if it.Quantity.GreaterThan(returnable) {
				return &domain.ReturnExceedsReturnableError{
					ItemID:     it.ItemID,
					Requested:  it.Quantity,
					Returnable: returnable,
				}
			}
			if err := r.Returns.CreateLine(&entity.ReturnLine{
				ID:                uuid.New().String(),
				ReturnOperationID: ret.ID,
				ItemID:            it.ItemID,
				ReturnedQuantity:  it.Quantity,
			}); err != nil {
				return err
			}
			if err := r.Operations.SaveLineReturned(line.ID, line.ReturnedQuantity.Add(it.Quantity)); err != nil {
				return err
			}
			delta := it.Quantity
			if in.Direction == entity.ReturnDirectionToSupplier {
				delta = delta.Neg()
			}
			adjs = append(adjs, ledger.Adjustment{
				Key:   ledger.Key{WarehouseID: original.WarehouseID, ItemID: it.ItemID},
				Delta: delta,
			})
		}
		_, err = uc.ledger.Apply(r.Balances, adjs)
		return err
	})
	if err != nil {
		return "", err
	}
	return ret.ID, nil
}
