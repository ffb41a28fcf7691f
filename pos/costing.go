/*
costing.go - Batch-to-unit cost conversion

PURPOSE:
  Converts a batch purchase (total cost, total quantity) into a per-unit
  cost, and a recipe into a per-sale product cost.

CRITICAL INVARIANTS:
  1. Unit cost is NEVER persisted. Batch cost and batch quantity can be
     edited independently, so any cached per-unit value goes stale. Every
     read recomputes from current ingredient state.
  2. A batch's full cost is never attributed to a single sale. A batch
     costing C for quantity Q contributes exactly C * (q/Q) to a recipe
     using q of it, independent of Q's magnitude.
  3. A zero or absent batch quantity yields unit cost 0 rather than a
     division error, keeping display paths total. Save-time validation
     (catalog.go) separately requires a positive batch quantity when cost
     is tracked.

SEE ALSO:
  - types.go: Ingredient and CostLine
  - register.go: captures cost snapshots before deduction
*/
package pos

import "github.com/shopspring/decimal"

// UnitCost returns the current per-unit cost of an ingredient: total batch
// cost over remaining batch quantity. Returns 0 for pure-quantity
// ingredients and for a zero/negative divisor.
func UnitCost(ing Ingredient) decimal.Decimal {
	if !ing.TrackCost || !ing.TotalQuantity.IsPositive() {
		return decimal.Zero
	}
	return ing.TotalCost.Div(ing.TotalQuantity)
}

// ProductCost returns the cost of producing one unit from the recipe, using
// current ingredient state. Missing ingredient references contribute 0;
// callers needing strict validation check referential integrity separately.
func ProductCost(recipe []RecipeLine, ingredients map[IngredientID]Ingredient) decimal.Decimal {
	total := decimal.Zero
	for _, line := range recipe {
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			continue
		}
		total = total.Add(UnitCost(ing).Mul(line.Quantity))
	}
	return total
}

// BuildCostSnapshot captures the immutable ingredient-cost lines for a sale
// of qty units, evaluated against ingredient state BEFORE deduction so the
// recorded cost reflects the moment of sale. Missing references are skipped,
// consistent with ProductCost.
func BuildCostSnapshot(recipe []RecipeLine, ingredients map[IngredientID]Ingredient, qty int) []CostLine {
	lines := make([]CostLine, 0, len(recipe))
	for _, rl := range recipe {
		ing, ok := ingredients[rl.IngredientID]
		if !ok {
			continue
		}
		used := rl.Quantity.Mul(decimal.NewFromInt(int64(qty)))
		unitCost := UnitCost(ing)
		lines = append(lines, CostLine{
			IngredientID:   ing.ID,
			IngredientName: ing.Name,
			Quantity:       used,
			Unit:           ing.Unit,
			UnitCost:       unitCost,
			TotalCost:      unitCost.Mul(used),
		})
	}
	return lines
}
