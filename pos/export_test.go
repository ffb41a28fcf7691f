package pos_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stallworks/booth-engine/pos"
	"github.com/stallworks/booth-engine/pos/store"
)

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

func TestExportImport_RoundTrip(t *testing.T) {
	// GIVEN: A store with ingredients, products and sales
	// WHEN: Exporting, serializing to JSON and importing into a fresh store
	// THEN: Every record set survives with its decimal values intact

	src := store.NewMemory()
	ctx := context.Background()
	seedIngredient(t, src, trackedIngredient("flour", "Flour", "7.80", "1000"))
	seedProduct(t, src, pos.Product{
		ID: "waffle", Name: "Waffle", Active: true,
		SellingPrice: dec("3.50"),
		Recipe:       []pos.RecipeLine{{IngredientID: "flour", Quantity: dec("100")}},
	})
	require.NoError(t, src.AppendSale(ctx, saleWithSnapshot("s1", "waffle", "Waffle", "3.50", 1, "0.98")))

	snap, err := pos.Export(ctx, src)
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded pos.ExportSnapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	dst := store.NewMemory()
	require.NoError(t, pos.Import(ctx, dst, decoded))

	ings, err := dst.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, ings, 1)
	assert.True(t, ings[0].TotalCost.Equal(dec("7.80")))
	assert.True(t, ings[0].BatchQuantity.Equal(dec("1000")))

	products, err := dst.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].SellingPrice.Equal(dec("3.50")))

	sales, err := dst.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.True(t, sales[0].Cost().Equal(dec("0.98")), "snapshot costs survive the round trip")
}

func TestImport_AbsentSetsLeftUntouched(t *testing.T) {
	// GIVEN: A store with existing sales
	// WHEN: Importing a snapshot that only carries ingredients
	// THEN: Sales stay as they were

	dst := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, dst.AppendSale(ctx, saleWithSnapshot("s1", "p", "P", "2.00", 1, "1")))

	err := pos.Import(ctx, dst, pos.ExportSnapshot{
		Ingredients: []pos.Ingredient{trackedIngredient("flour", "Flour", "7.80", "1000")},
	})
	require.NoError(t, err)

	sales, err := dst.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestImport_ReplacesWholesale(t *testing.T) {
	// GIVEN: A store already holding an ingredient
	// WHEN: Importing a snapshot with a different ingredient set
	// THEN: The old set is gone, not merged

	dst := store.NewMemory()
	ctx := context.Background()
	seedIngredient(t, dst, trackedIngredient("old", "Old", "1", "10"))

	err := pos.Import(ctx, dst, pos.ExportSnapshot{
		Ingredients: []pos.Ingredient{trackedIngredient("new", "New", "2", "20")},
	})
	require.NoError(t, err)

	ings, err := dst.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, ings, 1)
	assert.Equal(t, pos.IngredientID("new"), ings[0].ID)
}

func TestImport_ReplacingSalesClearsUndoPointer(t *testing.T) {
	// The imported log has no "most recent commit"; undoing against it
	// would restore stock that was never deducted here.
	dst := store.NewMemory()
	ctx := context.Background()
	last := saleWithSnapshot("s1", "p", "P", "2.00", 1, "1")
	require.NoError(t, dst.AppendSale(ctx, last))
	require.NoError(t, dst.SetLastSale(ctx, &last))

	err := pos.Import(ctx, dst, pos.ExportSnapshot{
		Sales: []pos.Sale{saleWithSnapshot("s2", "p", "P", "3.00", 1, "1")},
	})
	require.NoError(t, err)

	got, err := dst.LastSale(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
