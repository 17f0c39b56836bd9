package ledger_test

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// fakeBalances registra el orden en que Apply pide los bloqueos.
type fakeBalances struct {
	rows      map[ledger.Key]*entity.StockBalance
	lockOrder []ledger.Key
	saves     int
}

func newFakeBalances() *fakeBalances {
	return &fakeBalances{rows: make(map[ledger.Key]*entity.StockBalance)}
}

func (f *fakeBalances) seed(warehouseID, itemID string, qty int64) {
	k := ledger.Key{WarehouseID: warehouseID, ItemID: itemID}
	f.rows[k] = &entity.StockBalance{
		WarehouseID:     warehouseID,
		ItemID:          itemID,
		CurrentQuantity: decimal.NewFromInt(qty),
	}
}

func (f *fakeBalances) Get(warehouseID, itemID string) (*entity.StockBalance, error) {
	b := f.rows[ledger.Key{WarehouseID: warehouseID, ItemID: itemID}]
	return b, nil
}

func (f *fakeBalances) LockForUpdate(warehouseID, itemID string) (*entity.StockBalance, error) {
	k := ledger.Key{WarehouseID: warehouseID, ItemID: itemID}
	f.lockOrder = append(f.lockOrder, k)
	return f.rows[k], nil
}

func (f *fakeBalances) LockOrCreate(warehouseID, itemID string) (*entity.StockBalance, error) {
	k := ledger.Key{WarehouseID: warehouseID, ItemID: itemID}
	f.lockOrder = append(f.lockOrder, k)
	if b, ok := f.rows[k]; ok {
		return b, nil
	}
	b := &entity.StockBalance{WarehouseID: warehouseID, ItemID: itemID, CurrentQuantity: decimal.Zero}
	f.rows[k] = b
	return b, nil
}

func (f *fakeBalances) Save(balance *entity.StockBalance) error {
	f.saves++
	f.rows[ledger.Key{WarehouseID: balance.WarehouseID, ItemID: balance.ItemID}] = balance
	return nil
}

func (f *fakeBalances) ListByWarehouse(string) ([]*entity.StockBalance, error) { return nil, nil }

func TestKeyCanonicalOrder(t *testing.T) {
	cases := []struct {
		a, b ledger.Key
		less bool
	}{
		{ledger.Key{"wh-a", "item-1"}, ledger.Key{"wh-b", "item-1"}, true},
		{ledger.Key{"wh-b", "item-1"}, ledger.Key{"wh-a", "item-9"}, false},
		{ledger.Key{"wh-a", "item-1"}, ledger.Key{"wh-a", "item-2"}, true},
		{ledger.Key{"wh-a", "item-1"}, ledger.Key{"wh-a", "item-1"}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.less, tc.a.Less(tc.b), "%v < %v", tc.a, tc.b)
	}
}

// Apply debe adquirir los bloqueos en orden (bodega, ítem) ascendente sin
// importar el orden de entrada de los ajustes.
func TestApplyLocksInCanonicalOrder(t *testing.T) {
	f := newFakeBalances()
	l := ledger.New()

	_, err := l.Apply(f, []ledger.Adjustment{
		{Key: ledger.Key{WarehouseID: "wh-b", ItemID: "item-2"}, Delta: decimal.NewFromInt(1)},
		{Key: ledger.Key{WarehouseID: "wh-a", ItemID: "item-9"}, Delta: decimal.NewFromInt(1)},
		{Key: ledger.Key{WarehouseID: "wh-b", ItemID: "item-1"}, Delta: decimal.NewFromInt(1)},
		{Key: ledger.Key{WarehouseID: "wh-a", ItemID: "item-1"}, Delta: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)

	require.Len(t, f.lockOrder, 4)
	assert.True(t, sort.SliceIsSorted(f.lockOrder, func(i, j int) bool {
		return f.lockOrder[i].Less(f.lockOrder[j])
	}), "orden de bloqueo: %v", f.lockOrder)
}

func TestApplyCreatesMissingRowsLazily(t *testing.T) {
	f := newFakeBalances()
	l := ledger.New()

	result, err := l.Apply(f, []ledger.Adjustment{
		{Key: ledger.Key{WarehouseID: "wh-a", ItemID: "item-1"}, Delta: decimal.NewFromInt(7)},
	})
	require.NoError(t, err)
	assert.True(t, result[ledger.Key{WarehouseID: "wh-a", ItemID: "item-1"}].Equal(decimal.NewFromInt(7)))

	b, err := f.Get("wh-a", "item-1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.CurrentQuantity.Equal(decimal.NewFromInt(7)))
}

func TestApplyRequireExistingRejectsMissingRow(t *testing.T) {
	f := newFakeBalances()
	l := ledger.New()

	_, err := l.Apply(f, []ledger.Adjustment{
		{Key: ledger.Key{WarehouseID: "wh-a", ItemID: "item-1"}, Delta: decimal.NewFromInt(-1), RequireExisting: true},
	})
	require.ErrorIs(t, err, domain.ErrItemNotInSourceWarehouse)
	assert.Zero(t, f.saves)
}

func TestApplyRejectsNegativeResult(t *testing.T) {
	f := newFakeBalances()
	f.seed("wh-a", "item-1", 3)
	l := ledger.New()

	_, err := l.Apply(f, []ledger.Adjustment{
		{Key: ledger.Key{WarehouseID: "wh-a", ItemID: "item-1"}, Delta: decimal.NewFromInt(-5)},
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Requested.Equal(decimal.NewFromInt(5)))
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(3)))
	assert.Zero(t, f.saves)

	// La fila bloqueada queda intacta.
	b, _ := f.Get("wh-a", "item-1")
	assert.True(t, b.CurrentQuantity.Equal(decimal.NewFromInt(3)))
}

func TestAdjustAccumulates(t *testing.T) {
	f := newFakeBalances()
	l := ledger.New()

	qty, err := l.Adjust(f, "wh-a", "item-1", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(10)))

	qty, err = l.Adjust(f, "wh-a", "item-1", decimal.NewFromInt(-4))
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(6)))
}
