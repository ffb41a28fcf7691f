package pos_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stallworks/booth-engine/pos"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func trackedIngredient(id, name string, totalCost, totalQty string) pos.Ingredient {
	return pos.Ingredient{
		ID:            pos.IngredientID(id),
		Name:          name,
		Unit:          "g",
		TrackCost:     true,
		TotalCost:     dec(totalCost),
		TotalQuantity: dec(totalQty),
		BatchQuantity: dec(totalQty),
	}
}

func untrackedIngredient(id, name string, totalQty string) pos.Ingredient {
	return pos.Ingredient{
		ID:            pos.IngredientID(id),
		Name:          name,
		TotalQuantity: dec(totalQty),
		BatchQuantity: dec(totalQty),
	}
}

func ingredientsByID(ings ...pos.Ingredient) map[pos.IngredientID]pos.Ingredient {
	m := make(map[pos.IngredientID]pos.Ingredient, len(ings))
	for _, ing := range ings {
		m[ing.ID] = ing
	}
	return m
}

// =============================================================================
// UNIT COST
// =============================================================================

func TestUnitCost_DividesBatchCostByBatchQuantity(t *testing.T) {
	// GIVEN: A 1000g flour batch bought for 7.80
	// WHEN: Computing the unit cost
	// THEN: 7.80 / 1000 = 0.0078 per gram, exactly

	flour := trackedIngredient("flour", "Flour", "7.80", "1000")

	unitCost := pos.UnitCost(flour)

	assert.True(t, unitCost.Equal(dec("0.0078")),
		"expected 0.0078, got %s", unitCost)
}

func TestUnitCost_ZeroQuantity_IsZeroNotError(t *testing.T) {
	// GIVEN: A tracked ingredient whose stock has hit zero
	// WHEN: Computing the unit cost
	// THEN: Zero, never a division failure

	empty := trackedIngredient("oil", "Oil", "12.50", "0")

	assert.True(t, pos.UnitCost(empty).IsZero())
}

func TestUnitCost_UntrackedIngredient_IsZero(t *testing.T) {
	// GIVEN: A pure-quantity ingredient (napkins, cups)
	// WHEN: Computing the unit cost
	// THEN: Zero regardless of any recorded cost

	cups := untrackedIngredient("cups", "Cups", "200")
	cups.TotalCost = dec("9.99") // stale value, must be ignored

	assert.True(t, pos.UnitCost(cups).IsZero())
}

// =============================================================================
// PRODUCT COST
// =============================================================================

func TestProductCost_SumsRecipeLineCosts(t *testing.T) {
	// GIVEN: Flour at 7.80/1000g and sugar at 2.00/500g
	// WHEN: Costing a recipe of 100g flour + 50g sugar
	// THEN: 100*0.0078 + 50*0.004 = 0.78 + 0.20 = 0.98

	ingredients := ingredientsByID(
		trackedIngredient("flour", "Flour", "7.80", "1000"),
		trackedIngredient("sugar", "Sugar", "2.00", "500"),
	)
	recipe := []pos.RecipeLine{
		{IngredientID: "flour", Quantity: dec("100")},
		{IngredientID: "sugar", Quantity: dec("50")},
	}

	cost := pos.ProductCost(recipe, ingredients)

	assert.True(t, cost.Equal(dec("0.98")), "expected 0.98, got %s", cost)
}

func TestProductCost_ExactDecimalArithmetic(t *testing.T) {
	// GIVEN: A batch of 1000 units costing 780 in minor currency style
	// WHEN: Costing a recipe using 20 units
	// THEN: 780/1000*20 = 15.60 exactly, no float drift

	ingredients := ingredientsByID(trackedIngredient("mix", "Mix", "780", "1000"))
	recipe := []pos.RecipeLine{{IngredientID: "mix", Quantity: dec("20")}}

	cost := pos.ProductCost(recipe, ingredients)

	assert.Equal(t, "15.6", cost.String())
}

func TestProductCost_MissingIngredient_SkippedAsZero(t *testing.T) {
	// GIVEN: A recipe referencing a deleted ingredient
	// WHEN: Computing the product cost
	// THEN: The missing line contributes zero, the rest still counts

	ingredients := ingredientsByID(trackedIngredient("flour", "Flour", "7.80", "1000"))
	recipe := []pos.RecipeLine{
		{IngredientID: "flour", Quantity: dec("100")},
		{IngredientID: "ghost", Quantity: dec("50")},
	}

	cost := pos.ProductCost(recipe, ingredients)

	assert.True(t, cost.Equal(dec("0.78")), "expected 0.78, got %s", cost)
}

func TestProductCost_UntrackedLines_ContributeZero(t *testing.T) {
	// GIVEN: A recipe mixing a costed ingredient and a pure-quantity one
	// WHEN: Computing the product cost
	// THEN: Only the costed line contributes

	ingredients := ingredientsByID(
		trackedIngredient("flour", "Flour", "7.80", "1000"),
		untrackedIngredient("cups", "Cups", "200"),
	)
	recipe := []pos.RecipeLine{
		{IngredientID: "flour", Quantity: dec("100")},
		{IngredientID: "cups", Quantity: dec("1")},
	}

	assert.True(t, pos.ProductCost(recipe, ingredients).Equal(dec("0.78")))
}

// =============================================================================
// COST SNAPSHOT
// =============================================================================

func TestBuildCostSnapshot_MultipliesByQuantity(t *testing.T) {
	// GIVEN: Flour at 0.0078/g in a recipe using 100g per unit
	// WHEN: Building the snapshot for a 3-unit sale
	// THEN: The line records 300g used at total cost 2.34

	ingredients := ingredientsByID(trackedIngredient("flour", "Flour", "7.80", "1000"))
	recipe := []pos.RecipeLine{{IngredientID: "flour", Quantity: dec("100")}}

	snapshot := pos.BuildCostSnapshot(recipe, ingredients, 3)

	require.Len(t, snapshot, 1)
	line := snapshot[0]
	assert.Equal(t, pos.IngredientID("flour"), line.IngredientID)
	assert.Equal(t, "Flour", line.IngredientName)
	assert.True(t, line.Quantity.Equal(dec("300")))
	assert.True(t, line.UnitCost.Equal(dec("0.0078")))
	assert.True(t, line.TotalCost.Equal(dec("2.34")), "got %s", line.TotalCost)
}

func TestBuildCostSnapshot_IndependentOfLaterMutation(t *testing.T) {
	// GIVEN: A snapshot built from current ingredient state
	// WHEN: The source map's ingredient is mutated afterwards
	// THEN: The snapshot's values do not move

	flour := trackedIngredient("flour", "Flour", "7.80", "1000")
	ingredients := ingredientsByID(flour)
	recipe := []pos.RecipeLine{{IngredientID: "flour", Quantity: dec("100")}}

	snapshot := pos.BuildCostSnapshot(recipe, ingredients, 1)

	flour.TotalQuantity = dec("1")
	ingredients["flour"] = flour

	assert.True(t, snapshot[0].TotalCost.Equal(dec("0.78")))
}
