package operations_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/operations"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

var admin = operations.Actor{UserID: "u-admin", Role: operations.RoleAdmin}

type env struct {
	store   *memory.Store
	posting *operations.PostingUseCase
	queries *operations.QueryUseCase
}

// newEnv monta el motor completo sobre el adaptador en memoria, con datos
// maestros sembrados: dos bodegas activas con bodeguero asignado, una bodega
// inactiva, tres ítems activos y uno inactivo, y contrapartes activas.
func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStoreWithLockWait(200 * time.Millisecond)

	itemRepo := memory.NewItemRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	supplierRepo := memory.NewSupplierRepository(store)
	beneficiaryRepo := memory.NewBeneficiaryRepository(store)
	stationRepo := memory.NewStationRepository(store)

	seedItems := []entity.Item{
		{ID: "item-a", Name: "Cemento gris", IsActive: true},
		{ID: "item-b", Name: "Varilla 3/8", IsActive: true},
		{ID: "item-c", Name: "Pintura blanca", IsActive: true},
		{ID: "item-off", Name: "Teja descontinuada", IsActive: false},
	}
	for i := range seedItems {
		require.NoError(t, itemRepo.Create(&seedItems[i]))
	}
	seedWarehouses := []entity.Warehouse{
		{ID: "wh-central", Name: "Bodega Central", StorekeeperID: "keeper-central", IsActive: true},
		{ID: "wh-norte", Name: "Bodega Norte", StorekeeperID: "keeper-norte", IsActive: true},
		{ID: "wh-off", Name: "Bodega Cerrada", IsActive: false},
	}
	for i := range seedWarehouses {
		require.NoError(t, warehouseRepo.Create(&seedWarehouses[i]))
	}
	require.NoError(t, supplierRepo.Create(&entity.Supplier{ID: "sup-1", Name: "Ferretería La 14", IsActive: true}))
	require.NoError(t, beneficiaryRepo.Create(&entity.Beneficiary{ID: "ben-1", Name: "Obra Calle 80", IsActive: true}))
	require.NoError(t, stationRepo.Create(&entity.Station{ID: "sta-1", Name: "Estación Principal", IsActive: true}))

	posting := operations.NewPostingUseCase(
		memory.NewTxRunner(store),
		itemRepo,
		warehouseRepo,
		supplierRepo,
		beneficiaryRepo,
		stationRepo,
		memory.NewStorekeeperAuthorizer(store),
	)
	queries := operations.NewQueryUseCase(
		memory.NewStockBalanceRepository(store),
		memory.NewOperationRepository(store),
		memory.NewModificationRepository(store),
		memory.NewReturnRepository(store),
	)
	return &env{store: store, posting: posting, queries: queries}
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func (e *env) balance(t *testing.T, warehouseID, itemID string) decimal.Decimal {
	t.Helper()
	b, err := e.queries.GetBalance(warehouseID, itemID)
	require.NoError(t, err)
	return b
}

// supply es un atajo para sembrar stock en los tests que no prueban el
// suministro en sí.
func (e *env) supply(t *testing.T, warehouseID string, items ...operations.ItemQuantity) string {
	t.Helper()
	id, err := e.posting.PostSupply(context.Background(), operations.SupplyInput{
		WarehouseID: warehouseID,
		SupplierID:  "sup-1",
		StationID:   "sta-1",
		Items:       items,
		Actor:       admin,
	})
	require.NoError(t, err)
	return id
}

func TestPostSupplyIncreasesBalancesAndPersistsLines(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	opID, err := e.posting.PostSupply(ctx, operations.SupplyInput{
		WarehouseID: "wh-central",
		SupplierID:  "sup-1",
		StationID:   "sta-1",
		Items: []operations.ItemQuantity{
			{ItemID: "item-a", Quantity: qty(10)},
			{ItemID: "item-b", Quantity: qty(3)},
		},
		Meta:  operations.OperationMeta{PaperRefNumber: "REF-001"},
		Actor: admin,
	})
	require.NoError(t, err)
	require.NotEmpty(t, opID)

	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(10)))
	assert.True(t, e.balance(t, "wh-central", "item-b").Equal(qty(3)))

	op, err := e.queries.GetOperation(opID)
	require.NoError(t, err)
	assert.Equal(t, entity.OperationKindSupply, op.Kind)
	assert.Equal(t, "sup-1", op.SupplierID)
	assert.Equal(t, "sta-1", op.StationID)
	assert.Equal(t, "REF-001", op.PaperRefNumber)
	assert.Equal(t, admin.UserID, op.CreatedBy)
	require.Len(t, op.Lines, 2)
	// Las líneas se devuelven en orden de ítem.
	assert.Equal(t, "item-a", op.Lines[0].ItemID)
	assert.Equal(t, "item-b", op.Lines[1].ItemID)
	assert.True(t, op.Lines[0].ReturnedQuantity.IsZero())
}

func TestPostSupplyValidatesItems(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		items   []operations.ItemQuantity
		wantErr error
	}{
		{"lista vacía", nil, domain.ErrInvalidInput},
		{"cantidad cero", []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(0)}}, domain.ErrInvalidInput},
		{"cantidad negativa", []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(-2)}}, domain.ErrInvalidInput},
		{"ítem duplicado", []operations.ItemQuantity{
			{ItemID: "item-a", Quantity: qty(1)},
			{ItemID: "item-a", Quantity: qty(2)},
		}, domain.ErrDuplicateLineItem},
		{"ítem inactivo", []operations.ItemQuantity{{ItemID: "item-off", Quantity: qty(1)}}, domain.ErrNotFound},
		{"ítem inexistente", []operations.ItemQuantity{{ItemID: "no-such", Quantity: qty(1)}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.posting.PostSupply(ctx, operations.SupplyInput{
				WarehouseID: "wh-central",
				SupplierID:  "sup-1",
				StationID:   "sta-1",
				Items:       tc.items,
				Actor:       admin,
			})
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
	// Ningún intento rechazado dejó saldo.
	assert.True(t, e.balance(t, "wh-central", "item-a").IsZero())
}

func TestPostSupplyRejectsInactiveReferences(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	items := []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}}

	_, err := e.posting.PostSupply(ctx, operations.SupplyInput{
		WarehouseID: "wh-off", SupplierID: "sup-1", StationID: "sta-1", Items: items, Actor: admin,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.posting.PostSupply(ctx, operations.SupplyInput{
		WarehouseID: "wh-central", SupplierID: "no-such", StationID: "sta-1", Items: items, Actor: admin,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.posting.PostSupply(ctx, operations.SupplyInput{
		WarehouseID: "wh-central", SupplierID: "sup-1", StationID: "no-such", Items: items, Actor: admin,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostExportReducesBalanceDownToZero(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(5)})

	_, err := e.posting.PostExport(ctx, operations.ExportInput{
		WarehouseID:   "wh-central",
		BeneficiaryID: "ben-1",
		Items:         []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(2)}},
		Actor:         admin,
	})
	require.NoError(t, err)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(3)))

	// Despachar exactamente el saldo restante es válido.
	_, err = e.posting.PostExport(ctx, operations.ExportInput{
		WarehouseID:   "wh-central",
		BeneficiaryID: "ben-1",
		Items:         []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(3)}},
		Actor:         admin,
	})
	require.NoError(t, err)
	assert.True(t, e.balance(t, "wh-central", "item-a").IsZero())
}

func TestPostExportInsufficientStockLeavesNoTrace(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.supply(t, "wh-central",
		operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)},
		operations.ItemQuantity{ItemID: "item-b", Quantity: qty(2)},
	)

	// item-a cabe pero item-b no: la unidad completa se descarta.
	opID, err := e.posting.PostExport(ctx, operations.ExportInput{
		WarehouseID:   "wh-central",
		BeneficiaryID: "ben-1",
		Items: []operations.ItemQuantity{
			{ItemID: "item-a", Quantity: qty(4)},
			{ItemID: "item-b", Quantity: qty(5)},
		},
		Actor: admin,
	})
	require.Error(t, err)
	assert.Empty(t, opID)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "wh-central", insufficient.WarehouseID)
	assert.Equal(t, "item-b", insufficient.ItemID)
	assert.True(t, insufficient.Requested.Equal(qty(5)))
	assert.True(t, insufficient.Available.Equal(qty(2)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Saldos intactos, incluida la línea que sí cabía.
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(10)))
	assert.True(t, e.balance(t, "wh-central", "item-b").Equal(qty(2)))
}

func TestPostDamageRequiresReason(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(8)})

	_, err := e.posting.PostDamage(ctx, operations.DamageInput{
		WarehouseID: "wh-central",
		Items:       []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(3)}},
		Actor:       admin,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(8)))

	opID, err := e.posting.PostDamage(ctx, operations.DamageInput{
		WarehouseID: "wh-central",
		Items:       []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(3)}},
		Meta:        operations.OperationMeta{Reason: "humedad en estiba"},
		Actor:       admin,
	})
	require.NoError(t, err)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(5)))

	op, err := e.queries.GetOperation(opID)
	require.NoError(t, err)
	assert.Equal(t, entity.OperationKindDamage, op.Kind)
	assert.Equal(t, "humedad en estiba", op.Reason)
	assert.Empty(t, op.BeneficiaryID)
}

func TestPostTransferConservesTotals(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})

	opID, err := e.posting.PostTransfer(ctx, operations.TransferInput{
		FromWarehouseID: "wh-central",
		ToWarehouseID:   "wh-norte",
		Items:           []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(4)}},
		Actor:           admin,
	})
	require.NoError(t, err)

	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(6)))
	assert.True(t, e.balance(t, "wh-norte", "item-a").Equal(qty(4)))

	op, err := e.queries.GetOperation(opID)
	require.NoError(t, err)
	assert.Equal(t, entity.OperationKindTransfer, op.Kind)
	assert.Equal(t, "wh-central", op.WarehouseID)
	assert.Equal(t, "wh-norte", op.ToWarehouseID)
}

func TestPostTransferRejectsSameWarehouse(t *testing.T) {
	e := newEnv(t)
	_, err := e.posting.PostTransfer(context.Background(), operations.TransferInput{
		FromWarehouseID: "wh-central",
		ToWarehouseID:   "wh-central",
		Items:           []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
		Actor:           admin,
	})
	require.ErrorIs(t, err, domain.ErrInvalidTransfer)
}

func TestPostTransferRequiresExistingSourceRow(t *testing.T) {
	e := newEnv(t)
	// item-a nunca ha entrado a wh-central: no hay fila de saldo que bloquear.
	_, err := e.posting.PostTransfer(context.Background(), operations.TransferInput{
		FromWarehouseID: "wh-central",
		ToWarehouseID:   "wh-norte",
		Items:           []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
		Actor:           admin,
	})
	require.ErrorIs(t, err, domain.ErrItemNotInSourceWarehouse)
	assert.True(t, e.balance(t, "wh-norte", "item-a").IsZero())
}

// Dos traslados simultáneos en direcciones opuestas tocan las mismas dos
// filas de saldo. El orden canónico de bloqueo garantiza que ambos terminan
// (uno espera al otro, nunca se cruzan) y el total del ítem se conserva.
func TestConcurrentOppositeTransfersConverge(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(50)})
	e.supply(t, "wh-norte", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(50)})

	const rounds = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := e.posting.PostTransfer(ctx, operations.TransferInput{
				FromWarehouseID: "wh-central",
				ToWarehouseID:   "wh-norte",
				Items:           []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
				Actor:           admin,
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := e.posting.PostTransfer(ctx, operations.TransferInput{
				FromWarehouseID: "wh-norte",
				ToWarehouseID:   "wh-central",
				Items:           []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
				Actor:           admin,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	total := e.balance(t, "wh-central", "item-a").Add(e.balance(t, "wh-norte", "item-a"))
	assert.True(t, total.Equal(qty(100)), "total conservado, quedó %s", total)
}

// N despachos concurrentes de 1 unidad contra un saldo de 5: exactamente 5
// pueden tener éxito y el saldo nunca baja de cero.
func TestConcurrentExportsNeverOverdraw(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(5)})

	const attempts = 12
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.posting.PostExport(ctx, operations.ExportInput{
				WarehouseID:   "wh-central",
				BeneficiaryID: "ben-1",
				Items:         []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
				Actor:         admin,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		// Los rechazos válidos son falta de stock o espera de bloqueo agotada.
		if !errors.Is(err, domain.ErrInsufficientStock) && !errors.Is(err, domain.ErrContention) {
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.LessOrEqual(t, successes, 5)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(5-int64(successes))))
}

// N suministros concurrentes de 1 unidad convergen exactamente a N.
func TestConcurrentSuppliesConverge(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.posting.PostSupply(ctx, operations.SupplyInput{
				WarehouseID: "wh-central",
				SupplierID:  "sup-1",
				StationID:   "sta-1",
				Items:       []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
				Actor:       admin,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(n)))
}

func TestPostReturnToSupplierAccumulates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	supplyID := e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})

	retID, err := e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: supplyID,
		Direction:           entity.ReturnDirectionToSupplier,
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(4)}},
		Actor:               admin,
	})
	require.NoError(t, err)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(6)))

	ret, err := e.queries.GetReturn(retID)
	require.NoError(t, err)
	assert.Equal(t, supplyID, ret.OriginalOperationID)
	assert.Equal(t, entity.ReturnDirectionToSupplier, ret.Direction)
	require.Len(t, ret.Lines, 1)
	assert.True(t, ret.Lines[0].ReturnedQuantity.Equal(qty(4)))

	op, err := e.queries.GetOperation(supplyID)
	require.NoError(t, err)
	require.Len(t, op.Lines, 1)
	assert.True(t, op.Lines[0].ReturnedQuantity.Equal(qty(4)))
	assert.True(t, op.Lines[0].ReturnableQuantity().Equal(qty(6)))

	// Devolver el resto agota lo devolvible.
	_, err = e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: supplyID,
		Direction:           entity.ReturnDirectionToSupplier,
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(6)}},
		Actor:               admin,
	})
	require.NoError(t, err)
	assert.True(t, e.balance(t, "wh-central", "item-a").IsZero())

	_, err = e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: supplyID,
		Direction:           entity.ReturnDirectionToSupplier,
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
		Actor:               admin,
	})
	var exceeds *domain.ReturnExceedsReturnableError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, "item-a", exceeds.ItemID)
	assert.True(t, exceeds.Requested.Equal(qty(1)))
	assert.True(t, exceeds.Returnable.IsZero())
}

func TestPostReturnFromBeneficiaryRestoresStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})
	exportID, err := e.posting.PostExport(ctx, operations.ExportInput{
		WarehouseID:   "wh-central",
		BeneficiaryID: "ben-1",
		Items:         []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(7)}},
		Actor:         admin,
	})
	require.NoError(t, err)
	require.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(3)))

	_, err = e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: exportID,
		Direction:           entity.ReturnDirectionFromBeneficiary,
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(2)}},
		Actor:               admin,
	})
	require.NoError(t, err)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(5)))
}

func TestPostReturnRejectsMismatches(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	supplyID := e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})

	// Ítem que no está en la operación original.
	_, err := e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: supplyID,
		Direction:           entity.ReturnDirectionToSupplier,
		Items:               []operations.ItemQuantity{{ItemID: "item-b", Quantity: qty(1)}},
		Actor:               admin,
	})
	require.ErrorIs(t, err, domain.ErrItemNotInOriginalOperation)

	// Dirección que no corresponde al tipo de la original.
	_, err = e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: supplyID,
		Direction:           entity.ReturnDirectionFromBeneficiary,
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
		Actor:               admin,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Dirección desconocida.
	_, err = e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: supplyID,
		Direction:           "SIDEWAYS",
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
		Actor:               admin,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Operación original inexistente.
	_, err = e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: "no-such",
		Direction:           entity.ReturnDirectionToSupplier,
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}},
		Actor:               admin,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(10)))
}

func TestPostReturnToSupplierNeedsStockOnHand(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	supplyID := e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})
	_, err := e.posting.PostExport(ctx, operations.ExportInput{
		WarehouseID:   "wh-central",
		BeneficiaryID: "ben-1",
		Items:         []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(8)}},
		Actor:         admin,
	})
	require.NoError(t, err)

	// Quedan por devolver 10 pero en bodega solo hay 2: manda el saldo.
	_, err = e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: supplyID,
		Direction:           entity.ReturnDirectionToSupplier,
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(5)}},
		Actor:               admin,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(2)))

	// Y el acumulado devuelto no se movió.
	op, err := e.queries.GetOperation(supplyID)
	require.NoError(t, err)
	assert.True(t, op.Lines[0].ReturnedQuantity.IsZero())
}

// Lo devolvible se mide contra la cantidad original de la línea, no contra la
// efectiva tras modificaciones.
func TestReturnableUsesOriginalQuantity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	supplyID := e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})
	e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})

	op, err := e.queries.GetOperation(supplyID)
	require.NoError(t, err)
	lineID := op.Lines[0].ID

	// La línea baja a 4 efectivas (saldo 20 → 14), pero su cantidad original
	// sigue siendo 10.
	_, err = e.posting.PostModification(ctx, operations.ModificationInput{
		LineID:      lineID,
		NewQuantity: qty(4),
		Reason:      "conteo físico",
		Actor:       admin,
	})
	require.NoError(t, err)
	require.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(14)))

	_, err = e.posting.PostReturn(ctx, operations.ReturnInput{
		OriginalOperationID: supplyID,
		Direction:           entity.ReturnDirectionToSupplier,
		Items:               []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(10)}},
		Actor:               admin,
	})
	require.NoError(t, err)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(4)))
}

func TestPostModificationAdjustsEffectiveQuantity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	supplyID := e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})
	op, err := e.queries.GetOperation(supplyID)
	require.NoError(t, err)
	lineID := op.Lines[0].ID

	modID, err := e.posting.PostModification(ctx, operations.ModificationInput{
		LineID:      lineID,
		NewQuantity: qty(15),
		Reason:      "bon mal digitado",
		Actor:       admin,
	})
	require.NoError(t, err)
	require.NotEmpty(t, modID)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(15)))

	effective, err := e.queries.GetEffectiveQuantity(lineID)
	require.NoError(t, err)
	assert.True(t, effective.Equal(qty(15)))

	// La segunda corrección parte de la efectiva vigente, no de la original.
	_, err = e.posting.PostModification(ctx, operations.ModificationInput{
		LineID:      lineID,
		NewQuantity: qty(8),
		Reason:      "recuento",
		Actor:       admin,
	})
	require.NoError(t, err)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(8)))

	mods, err := e.queries.ListModifications(lineID)
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.True(t, mods[0].OldQuantity.Equal(qty(10)))
	assert.True(t, mods[0].NewQuantity.Equal(qty(15)))
	assert.True(t, mods[1].OldQuantity.Equal(qty(15)))
	assert.True(t, mods[1].NewQuantity.Equal(qty(8)))

	// La cantidad canónica de la línea nunca se muta.
	op, err = e.queries.GetOperation(supplyID)
	require.NoError(t, err)
	assert.True(t, op.Lines[0].Quantity.Equal(qty(10)))
}

func TestPostModificationFailedDecreaseLeavesNoRecord(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	supplyID := e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})
	_, err := e.posting.PostExport(ctx, operations.ExportInput{
		WarehouseID:   "wh-central",
		BeneficiaryID: "ben-1",
		Items:         []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(8)}},
		Actor:         admin,
	})
	require.NoError(t, err)

	op, err := e.queries.GetOperation(supplyID)
	require.NoError(t, err)
	lineID := op.Lines[0].ID

	// Bajar de 10 a 1 pide sacar 9 y solo hay 2 en bodega.
	_, err = e.posting.PostModification(ctx, operations.ModificationInput{
		LineID:      lineID,
		NewQuantity: qty(1),
		Reason:      "ajuste",
		Actor:       admin,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, e.balance(t, "wh-central", "item-a").Equal(qty(2)))

	mods, err := e.queries.ListModifications(lineID)
	require.NoError(t, err)
	assert.Empty(t, mods)

	effective, err := e.queries.GetEffectiveQuantity(lineID)
	require.NoError(t, err)
	assert.True(t, effective.Equal(qty(10)))
}

func TestPostModificationValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	supplyID := e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})
	op, err := e.queries.GetOperation(supplyID)
	require.NoError(t, err)
	lineID := op.Lines[0].ID

	_, err = e.posting.PostModification(ctx, operations.ModificationInput{
		LineID: lineID, NewQuantity: qty(0), Reason: "x", Actor: admin,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.posting.PostModification(ctx, operations.ModificationInput{
		LineID: lineID, NewQuantity: qty(5), Actor: admin,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.posting.PostModification(ctx, operations.ModificationInput{
		LineID: "no-such", NewQuantity: qty(5), Reason: "x", Actor: admin,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostModificationOnlyOnSupplyOrExportLines(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.supply(t, "wh-central", operations.ItemQuantity{ItemID: "item-a", Quantity: qty(10)})
	transferID, err := e.posting.PostTransfer(ctx, operations.TransferInput{
		FromWarehouseID: "wh-central",
		ToWarehouseID:   "wh-norte",
		Items:           []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(4)}},
		Actor:           admin,
	})
	require.NoError(t, err)
	op, err := e.queries.GetOperation(transferID)
	require.NoError(t, err)

	_, err = e.posting.PostModification(ctx, operations.ModificationInput{
		LineID:      op.Lines[0].ID,
		NewQuantity: qty(2),
		Reason:      "ajuste",
		Actor:       admin,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStorekeeperAuthorization(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	keeper := operations.Actor{UserID: "keeper-central", Role: "employee"}
	items := []operations.ItemQuantity{{ItemID: "item-a", Quantity: qty(1)}}

	// El bodeguero asignado postea sobre su bodega.
	_, err := e.posting.PostSupply(ctx, operations.SupplyInput{
		WarehouseID: "wh-central", SupplierID: "sup-1", StationID: "sta-1", Items: items, Actor: keeper,
	})
	require.NoError(t, err)

	// Pero no sobre una ajena.
	_, err = e.posting.PostSupply(ctx, operations.SupplyInput{
		WarehouseID: "wh-norte", SupplierID: "sup-1", StationID: "sta-1", Items: items, Actor: keeper,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	// Un traslado exige permiso sobre la bodega de origen.
	_, err = e.posting.PostTransfer(ctx, operations.TransferInput{
		FromWarehouseID: "wh-norte", ToWarehouseID: "wh-central", Items: items, Actor: keeper,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	// Los roles privilegiados no pasan por el bodeguero.
	manager := operations.Actor{UserID: "u-manager", Role: operations.RoleManager}
	_, err = e.posting.PostSupply(ctx, operations.SupplyInput{
		WarehouseID: "wh-norte", SupplierID: "sup-1", StationID: "sta-1", Items: items, Actor: manager,
	})
	require.NoError(t, err)
}
