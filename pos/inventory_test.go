package pos_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stallworks/booth-engine/pos"
	"github.com/stallworks/booth-engine/pos/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestInventory(t *testing.T) (*pos.Inventory, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return pos.NewInventory(mem), mem
}

func seedIngredient(t *testing.T, s pos.Store, ing pos.Ingredient) {
	t.Helper()
	require.NoError(t, s.SaveIngredient(context.Background(), ing))
}

func seedProduct(t *testing.T, s pos.Store, p pos.Product) {
	t.Helper()
	require.NoError(t, s.SaveProduct(context.Background(), p))
}

func quantityOf(t *testing.T, s pos.Store, id pos.IngredientID) decimal.Decimal {
	t.Helper()
	ing, err := s.GetIngredient(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, ing)
	return ing.TotalQuantity
}

// =============================================================================
// DEDUCT / RESTORE
// =============================================================================

func TestInventory_DeductThenRestore_RoundTrips(t *testing.T) {
	// GIVEN: 1000g of flour and a 100g-per-unit recipe
	// WHEN: Deducting 2 units then restoring 2 units
	// THEN: Stock returns exactly to 1000g

	inv, mem := newTestInventory(t)
	ctx := context.Background()
	seedIngredient(t, mem, trackedIngredient("flour", "Flour", "7.80", "1000"))
	recipe := []pos.RecipeLine{{IngredientID: "flour", Quantity: dec("100")}}

	require.NoError(t, inv.Deduct(ctx, recipe, 2))
	assert.True(t, quantityOf(t, mem, "flour").Equal(dec("800")))

	require.NoError(t, inv.Restore(ctx, recipe, 2))
	assert.True(t, quantityOf(t, mem, "flour").Equal(dec("1000")))
}

func TestInventory_Deduct_InsufficientStock_RejectedWithDetail(t *testing.T) {
	// GIVEN: Only 150g of flour remaining
	// WHEN: Deducting 2 units of a 100g recipe
	// THEN: Rejected with the shortfall detail, stock untouched

	inv, mem := newTestInventory(t)
	ctx := context.Background()
	seedIngredient(t, mem, trackedIngredient("flour", "Flour", "7.80", "150"))
	recipe := []pos.RecipeLine{{IngredientID: "flour", Quantity: dec("100")}}

	err := inv.Deduct(ctx, recipe, 2)

	var stockErr *pos.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.ErrorIs(t, err, pos.ErrInsufficientStock)
	assert.True(t, stockErr.Required.Equal(dec("200")))
	assert.True(t, stockErr.Remaining.Equal(dec("150")))
}

func TestInventory_Restore_DeletedIngredient_Skipped(t *testing.T) {
	// GIVEN: A recipe line whose ingredient was deleted since the sale
	// WHEN: Restoring
	// THEN: The missing line is skipped, the surviving one is restored

	inv, mem := newTestInventory(t)
	ctx := context.Background()
	seedIngredient(t, mem, trackedIngredient("flour", "Flour", "7.80", "900"))
	recipe := []pos.RecipeLine{
		{IngredientID: "flour", Quantity: dec("100")},
		{IngredientID: "ghost", Quantity: dec("50")},
	}

	require.NoError(t, inv.Restore(ctx, recipe, 1))

	assert.True(t, quantityOf(t, mem, "flour").Equal(dec("1000")))
}

// =============================================================================
// CAN SELL
// =============================================================================

func TestInventory_CanSell_ExactBoundary(t *testing.T) {
	// GIVEN: Exactly enough stock for one unit
	// WHEN: Checking sellability at 1 and at 2 units
	// THEN: 1 unit sellable, 2 units not

	inv, mem := newTestInventory(t)
	ctx := context.Background()
	seedIngredient(t, mem, trackedIngredient("flour", "Flour", "7.80", "100"))
	seedProduct(t, mem, pos.Product{
		ID: "waffle", Name: "Waffle", Active: true,
		SellingPrice: dec("3.50"),
		Recipe:       []pos.RecipeLine{{IngredientID: "flour", Quantity: dec("100")}},
	})

	ok, err := inv.CanSell(ctx, "waffle", 1)
	require.NoError(t, err)
	assert.True(t, ok, "exact stock should be sellable")

	ok, err = inv.CanSell(ctx, "waffle", 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInventory_CanSell_InactiveOrMissingProduct(t *testing.T) {
	inv, mem := newTestInventory(t)
	ctx := context.Background()
	seedIngredient(t, mem, trackedIngredient("flour", "Flour", "7.80", "1000"))
	seedProduct(t, mem, pos.Product{
		ID: "waffle", Name: "Waffle", Active: false,
		Recipe: []pos.RecipeLine{{IngredientID: "flour", Quantity: dec("100")}},
	})

	ok, err := inv.CanSell(ctx, "waffle", 1)
	require.NoError(t, err)
	assert.False(t, ok, "inactive product is not sellable")

	ok, err = inv.CanSell(ctx, "nope", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInventory_CanSell_DanglingRecipeReference(t *testing.T) {
	// GIVEN: A product whose recipe references a deleted ingredient
	// WHEN: Checking sellability
	// THEN: Not sellable

	inv, mem := newTestInventory(t)
	ctx := context.Background()
	seedProduct(t, mem, pos.Product{
		ID: "waffle", Name: "Waffle", Active: true,
		Recipe: []pos.RecipeLine{{IngredientID: "ghost", Quantity: dec("1")}},
	})

	ok, err := inv.CanSell(ctx, "waffle", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

// =============================================================================
// LOW STOCK / ADJUST / RESTOCK
// =============================================================================

func TestInventory_LowStock_AtOrBelowThreshold(t *testing.T) {
	// GIVEN: Thresholds at 100: one ingredient at 100, one at 101, one unset
	// WHEN: Listing low stock
	// THEN: Only the one at the threshold shows up

	inv, mem := newTestInventory(t)
	ctx := context.Background()

	threshold := dec("100")
	atLimit := trackedIngredient("a", "AtLimit", "1", "100")
	atLimit.LowStockThreshold = &threshold
	above := trackedIngredient("b", "Above", "1", "101")
	above.LowStockThreshold = &threshold
	noLimit := trackedIngredient("c", "NoLimit", "1", "5")

	seedIngredient(t, mem, atLimit)
	seedIngredient(t, mem, above)
	seedIngredient(t, mem, noLimit)

	low, err := inv.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, pos.IngredientID("a"), low[0].ID)
}

func TestInventory_AdjustStock_SignedDelta(t *testing.T) {
	inv, mem := newTestInventory(t)
	ctx := context.Background()
	seedIngredient(t, mem, trackedIngredient("flour", "Flour", "7.80", "500"))

	newQty, err := inv.AdjustStock(ctx, "flour", dec("-120.5"))
	require.NoError(t, err)
	assert.True(t, newQty.Equal(dec("379.5")))

	_, err = inv.AdjustStock(ctx, "flour", dec("-400"))
	var stockErr *pos.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr, "going negative is rejected")
	assert.True(t, quantityOf(t, mem, "flour").Equal(dec("379.5")), "rejected adjust leaves stock alone")
}

func TestInventory_Restock_DefaultsToBatchQuantity(t *testing.T) {
	// GIVEN: A 1000g batch mostly consumed
	// WHEN: Restocking with no explicit target
	// THEN: Stock returns to the recorded batch quantity

	inv, mem := newTestInventory(t)
	ctx := context.Background()
	ing := trackedIngredient("flour", "Flour", "7.80", "1000")
	ing.TotalQuantity = dec("40")
	seedIngredient(t, mem, ing)

	newQty, err := inv.Restock(ctx, "flour", nil)
	require.NoError(t, err)
	assert.True(t, newQty.Equal(dec("1000")))

	target := dec("2500")
	newQty, err = inv.Restock(ctx, "flour", &target)
	require.NoError(t, err)
	assert.True(t, newQty.Equal(dec("2500")))
}

// =============================================================================
// SNAPSHOT / CHANGES
// =============================================================================

func TestInventory_StockChanges_AgainstSnapshot(t *testing.T) {
	// GIVEN: A snapshot taken at 1000g, then 300g consumed
	// WHEN: Computing stock changes
	// THEN: old=1000, new=700, change=-300

	inv, mem := newTestInventory(t)
	ctx := context.Background()
	seedIngredient(t, mem, trackedIngredient("flour", "Flour", "7.80", "1000"))

	_, err := inv.SnapshotStock(ctx)
	require.NoError(t, err)

	require.NoError(t, inv.Deduct(ctx, []pos.RecipeLine{{IngredientID: "flour", Quantity: dec("300")}}, 1))

	changes, err := inv.StockChanges(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Old.Equal(dec("1000")))
	assert.True(t, changes[0].New.Equal(dec("700")))
	assert.True(t, changes[0].Change.Equal(dec("-300")))
}

func TestInventory_StockChanges_NewIngredientHasZeroOld(t *testing.T) {
	inv, mem := newTestInventory(t)
	ctx := context.Background()

	_, err := inv.SnapshotStock(ctx)
	require.NoError(t, err)

	seedIngredient(t, mem, trackedIngredient("sugar", "Sugar", "2.00", "500"))

	changes, err := inv.StockChanges(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Old.IsZero())
	assert.True(t, changes[0].Change.Equal(dec("500")))
}
