/*
inventory.go - Stock gating, deduction and restoration

PURPOSE:
  Tracks per-ingredient remaining quantity and gates stock-affecting
  operations. A sale only succeeds when every recipe ingredient has
  sufficient remaining quantity; deduction happens on sale, restoration on
  undo. Remaining quantity must never go negative.

MUTATION DISCIPLINE:
  Read current state, validate, then write within the same logical step.
  Deduct must only run after a passing stock check; a would-be-negative
  result is treated as a logic error and rejected rather than clamped
  silently (it is unreachable after the check, but defended anyway).

SEE ALSO:
  - register.go: runs check -> deduct -> record as one critical section
  - costing.go: snapshot built from the same pre-deduction state
*/
package pos

import (
	"context"

	"github.com/shopspring/decimal"
)

// Inventory executes stock-affecting operations against a Store. Bind it to
// the transactional store view inside Register's WithTx to keep deduction
// and sale append atomic.
type Inventory struct {
	store Store
}

func NewInventory(store Store) *Inventory {
	return &Inventory{store: store}
}

// CanSell reports whether qty units of the product can be sold right now:
// false if the product is missing or inactive, or if any recipe ingredient
// (including a dangling reference) cannot cover recipeQty * qty.
func (inv *Inventory) CanSell(ctx context.Context, productID ProductID, qty int) (bool, error) {
	if qty < 1 {
		return false, nil
	}
	product, err := inv.store.GetProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	if product == nil || !product.Active {
		return false, nil
	}
	ingredients, err := ingredientMap(ctx, inv.store)
	if err != nil {
		return false, err
	}
	return checkStock(product.Recipe, qty, ingredients) == nil, nil
}

// Deduct subtracts entry.Quantity * qty from each recipe ingredient's
// remaining quantity. Missing references and would-be-negative results are
// rejected with *InsufficientStockError.
func (inv *Inventory) Deduct(ctx context.Context, recipe []RecipeLine, qty int) error {
	return inv.apply(ctx, recipe, qty, false)
}

// Restore is the inverse of Deduct: adds back entry.Quantity * qty for each
// ingredient. Ingredients deleted since the sale are skipped - there is no
// stock record left to restore into.
func (inv *Inventory) Restore(ctx context.Context, recipe []RecipeLine, qty int) error {
	return inv.apply(ctx, recipe, qty, true)
}

func (inv *Inventory) apply(ctx context.Context, recipe []RecipeLine, qty int, restore bool) error {
	factor := decimal.NewFromInt(int64(qty))
	for _, line := range recipe {
		ing, err := inv.store.GetIngredient(ctx, line.IngredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			if restore {
				continue
			}
			return &InsufficientStockError{
				IngredientID: line.IngredientID,
				Required:     line.Quantity.Mul(factor),
				Remaining:    decimal.Zero,
			}
		}
		delta := line.Quantity.Mul(factor)
		if restore {
			ing.TotalQuantity = ing.TotalQuantity.Add(delta)
		} else {
			next := ing.TotalQuantity.Sub(delta)
			if next.IsNegative() {
				return &InsufficientStockError{
					IngredientID:   ing.ID,
					IngredientName: ing.Name,
					Required:       delta,
					Remaining:      ing.TotalQuantity,
				}
			}
			ing.TotalQuantity = next
		}
		if err := inv.store.SaveIngredient(ctx, *ing); err != nil {
			return err
		}
	}
	return nil
}

// LowStock returns the ingredients whose threshold is set and whose
// remaining quantity is at or below it.
func (inv *Inventory) LowStock(ctx context.Context) ([]Ingredient, error) {
	all, err := inv.store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	var low []Ingredient
	for _, ing := range all {
		if ing.LowStock() {
			low = append(low, ing)
		}
	}
	return low, nil
}

// AdjustStock applies a signed delta to one ingredient's remaining quantity
// and returns the new quantity. A result below zero is rejected.
func (inv *Inventory) AdjustStock(ctx context.Context, id IngredientID, delta decimal.Decimal) (decimal.Decimal, error) {
	ing, err := inv.store.GetIngredient(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if ing == nil {
		return decimal.Zero, ErrIngredientNotFound
	}
	next := ing.TotalQuantity.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, &InsufficientStockError{
			IngredientID:   ing.ID,
			IngredientName: ing.Name,
			Required:       delta.Neg(),
			Remaining:      ing.TotalQuantity,
		}
	}
	ing.TotalQuantity = next
	if err := inv.store.SaveIngredient(ctx, *ing); err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

// Restock sets an ingredient's remaining quantity to target, or to the
// batch quantity recorded at creation when target is nil. The target must
// be positive.
func (inv *Inventory) Restock(ctx context.Context, id IngredientID, target *decimal.Decimal) (decimal.Decimal, error) {
	ing, err := inv.store.GetIngredient(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if ing == nil {
		return decimal.Zero, ErrIngredientNotFound
	}
	goal := ing.BatchQuantity
	if target != nil {
		goal = *target
	}
	if !goal.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "target", Reason: "restock target must be positive"}
	}
	ing.TotalQuantity = goal
	if err := inv.store.SaveIngredient(ctx, *ing); err != nil {
		return decimal.Zero, err
	}
	return goal, nil
}

// SnapshotStock records the current quantities of all ingredients and
// returns the captured levels.
func (inv *Inventory) SnapshotStock(ctx context.Context) ([]StockLevel, error) {
	all, err := inv.store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	levels := make([]StockLevel, 0, len(all))
	for _, ing := range all {
		levels = append(levels, StockLevel{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Quantity:     ing.TotalQuantity,
		})
	}
	if err := inv.store.SaveStockSnapshot(ctx, levels); err != nil {
		return nil, err
	}
	return levels, nil
}

// StockChanges compares current quantities against the last snapshot and
// yields per-ingredient (old, new, signed change) rows. Ingredients created
// after the snapshot show an old quantity of zero.
func (inv *Inventory) StockChanges(ctx context.Context) ([]StockChange, error) {
	snapshot, err := inv.store.StockSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	old := make(map[IngredientID]decimal.Decimal, len(snapshot))
	for _, lvl := range snapshot {
		old[lvl.IngredientID] = lvl.Quantity
	}
	all, err := inv.store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	changes := make([]StockChange, 0, len(all))
	for _, ing := range all {
		prev := old[ing.ID] // zero when absent
		changes = append(changes, StockChange{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Old:          prev,
			New:          ing.TotalQuantity,
			Change:       ing.TotalQuantity.Sub(prev),
		})
	}
	return changes, nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// ingredientMap loads all ingredients keyed by ID for costing and stock
// checks against one consistent read.
func ingredientMap(ctx context.Context, store Store) (map[IngredientID]Ingredient, error) {
	all, err := store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[IngredientID]Ingredient, len(all))
	for _, ing := range all {
		m[ing.ID] = ing
	}
	return m, nil
}

// checkStock returns the first shortfall of selling qty units of the
// recipe, or nil when stock covers it. A dangling ingredient reference
// fails the check.
func checkStock(recipe []RecipeLine, qty int, ingredients map[IngredientID]Ingredient) *InsufficientStockError {
	factor := decimal.NewFromInt(int64(qty))
	for _, line := range recipe {
		need := line.Quantity.Mul(factor)
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			return &InsufficientStockError{
				IngredientID: line.IngredientID,
				Required:     need,
				Remaining:    decimal.Zero,
			}
		}
		if ing.TotalQuantity.LessThan(need) {
			return &InsufficientStockError{
				IngredientID:   ing.ID,
				IngredientName: ing.Name,
				Required:       need,
				Remaining:      ing.TotalQuantity,
			}
		}
	}
	return nil
}
