package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavolo/pos-engine/inventory"
	"github.com/tavolo/pos-engine/store/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestLedger seeds a pizza needing 0.2 kg flour and 0.1 kg cheese
// per unit, with 1.0 kg of each in stock.
func newTestLedger(t *testing.T) (*inventory.Ledger, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SaveStockItem(ctx, inventory.StockItem{
		ID: "stock-flour", Name: "Flour", Unit: "kg",
		Stock: dec("1.0"), MinStock: dec("0.3"), IsActive: true,
	}))
	require.NoError(t, store.SaveStockItem(ctx, inventory.StockItem{
		ID: "stock-cheese", Name: "Cheese", Unit: "kg",
		Stock: dec("1.0"), MinStock: dec("0.2"), IsActive: true,
	}))
	require.NoError(t, store.SaveIngredient(ctx, inventory.Ingredient{
		ID: "ing-flour", MenuItemID: "menu-pizza", StockItemID: "stock-flour", QuantityUsed: dec("0.2"),
	}))
	require.NoError(t, store.SaveIngredient(ctx, inventory.Ingredient{
		ID: "ing-cheese", MenuItemID: "menu-pizza", StockItemID: "stock-cheese", QuantityUsed: dec("0.1"),
	}))

	return inventory.NewLedger(store), store
}

func level(t *testing.T, store *memory.Store, id string) decimal.Decimal {
	t.Helper()
	item, err := store.GetStockItem(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.Stock
}

// =============================================================================
// RESERVATION TESTS
// =============================================================================

func TestLedger_Reserve_ConsumesFractionalStock(t *testing.T) {
	// GIVEN: 1.0 kg flour, 0.2 kg per pizza
	// WHEN: Reserving 2 pizzas
	// THEN: 0.6 kg flour and 0.8 kg cheese remain

	ledger, store := newTestLedger(t)

	low, err := ledger.Reserve(context.Background(), "menu-pizza", 2)
	require.NoError(t, err)
	assert.Empty(t, low)

	assert.True(t, level(t, store, "stock-flour").Equal(dec("0.6")))
	assert.True(t, level(t, store, "stock-cheese").Equal(dec("0.8")))
}

func TestLedger_Reserve_NegativeDeltaRestores(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Reserve(ctx, "menu-pizza", 3)
	require.NoError(t, err)
	_, err = ledger.Reserve(ctx, "menu-pizza", -3)
	require.NoError(t, err)

	assert.True(t, level(t, store, "stock-flour").Equal(dec("1.0")))
	assert.True(t, level(t, store, "stock-cheese").Equal(dec("1.0")))
}

func TestLedger_Reserve_ZeroDeltaIsNoOp(t *testing.T) {
	ledger, store := newTestLedger(t)

	low, err := ledger.Reserve(context.Background(), "menu-pizza", 0)
	require.NoError(t, err)
	assert.Nil(t, low)
	assert.True(t, level(t, store, "stock-flour").Equal(dec("1.0")))
}

func TestLedger_Reserve_NoIngredients_NothingToDo(t *testing.T) {
	ledger, _ := newTestLedger(t)

	low, err := ledger.Reserve(context.Background(), "menu-water", 5)
	require.NoError(t, err)
	assert.Empty(t, low)
}

// =============================================================================
// FAILURE MODES
// =============================================================================

func TestLedger_Reserve_Shortage_AllOrNothing(t *testing.T) {
	// GIVEN: Flour covers 5 pizzas, cheese covers 10
	// WHEN: Reserving 6
	// THEN: The flour shortage rejects the whole reservation; cheese untouched

	ledger, store := newTestLedger(t)

	_, err := ledger.Reserve(context.Background(), "menu-pizza", 6)
	require.Error(t, err)

	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "stock-flour", stockErr.Shortages[0].StockItem.ID)
	assert.True(t, stockErr.Shortages[0].Required.Equal(dec("1.2")))

	assert.True(t, level(t, store, "stock-flour").Equal(dec("1.0")))
	assert.True(t, level(t, store, "stock-cheese").Equal(dec("1.0")))
}

func TestLedger_Reserve_InactiveTakesPrecedenceOverShortage(t *testing.T) {
	// GIVEN: Cheese disabled AND flour short
	// WHEN: Reserving 6 pizzas
	// THEN: The inactive ingredient is reported, not the shortage

	ledger, store := newTestLedger(t)
	ctx := context.Background()

	cheese, err := store.GetStockItem(ctx, "stock-cheese")
	require.NoError(t, err)
	cheese.IsActive = false
	require.NoError(t, store.SaveStockItem(ctx, *cheese))

	_, err = ledger.Reserve(ctx, "menu-pizza", 6)
	require.Error(t, err)

	var inactiveErr *inventory.InactiveIngredientError
	require.ErrorAs(t, err, &inactiveErr)
	assert.ErrorIs(t, err, inventory.ErrInactiveIngredient)
	require.Len(t, inactiveErr.Items, 1)
	assert.Equal(t, "stock-cheese", inactiveErr.Items[0].ID)
}

func TestLedger_Reserve_DanglingStockReference(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, store.SaveIngredient(ctx, inventory.Ingredient{
		ID: "ing-ghost", MenuItemID: "menu-ghost", StockItemID: "stock-missing", QuantityUsed: dec("1"),
	}))

	_, err := ledger.Reserve(ctx, "menu-ghost", 1)
	require.Error(t, err)
	var nfErr *inventory.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

// =============================================================================
// LOW STOCK ADVISORY
// =============================================================================

func TestLedger_Reserve_ReportsLowStockWithoutBlocking(t *testing.T) {
	// GIVEN: Flour MinStock 0.3
	// WHEN: Reserving 4 pizzas, leaving 0.2 kg
	// THEN: The reservation succeeds and flour is reported low

	ledger, _ := newTestLedger(t)

	low, err := ledger.Reserve(context.Background(), "menu-pizza", 4)
	require.NoError(t, err)

	require.Len(t, low, 1)
	assert.Equal(t, "stock-flour", low[0].ID)
	assert.True(t, low[0].Stock.Equal(dec("0.2")))
}
