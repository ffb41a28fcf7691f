/*
Package pos provides the core point-of-sale and inventory engine.

PURPOSE:
  This package contains the domain types and algorithms for a small
  food/beverage booth: ingredient batches, products composed from recipes,
  sales that deplete shared ingredient stock, single-level undo, and
  revenue/cost/profit accounting for a selling session.

KEY CONCEPTS IN THIS FILE (types.go):
  - Ingredient: A purchasable stock item (batch cost + batch quantity)
  - Product: A sellable item composed of a recipe
  - Sale: An immutable record of one completed transaction
  - Event: One selling session with a fixed up-front (sunk) cost
  - Settings: Display/mode preferences persisted for the UI

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Derived, never cached: unit cost is always computed from current
     batch state, there is no stored per-unit cost field anywhere
  3. Immutability: a sale's snapshots never change after commit, even
     when the underlying ingredient/product records are edited later
  4. Type safety: strong ID types prevent mixing ingredient/product IDs

SEE ALSO:
  - costing.go: unit cost and product cost computation
  - inventory.go: stock gating, deduction and restoration
  - register.go: the sale/undo transaction flow
  - accounting.go: revenue/cost/profit rollups
*/
package pos

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type IngredientID string
type ProductID string
type SaleID string
type EventID string

// =============================================================================
// INGREDIENT - A purchasable stock item
// =============================================================================

// Ingredient describes one batch purchase. TotalQuantity is the remaining
// stock and, when TrackCost is set, the divisor for the derived unit cost.
// BatchQuantity records the size of the batch as purchased; it is the
// restock target and is never used for costing.
type Ingredient struct {
	ID   IngredientID `json:"id"`
	Name string       `json:"name"`
	Unit string       `json:"unit"`

	// TrackCost selects the costing scheme: batch costing (totalCost over
	// totalQuantity) when true, pure quantity tracking when false. In pure
	// quantity mode cost is excluded entirely and accounting is done via a
	// fixed event cost instead.
	TrackCost     bool            `json:"trackCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	BatchQuantity decimal.Decimal `json:"batchQuantity"`

	LowStockThreshold *decimal.Decimal `json:"lowStockThreshold,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LowStock reports whether a threshold is configured and remaining stock is
// at or below it.
func (i Ingredient) LowStock() bool {
	return i.LowStockThreshold != nil && i.TotalQuantity.LessThanOrEqual(*i.LowStockThreshold)
}

// =============================================================================
// PRODUCT - A sellable item composed of a recipe
// =============================================================================

// RecipeLine is one (ingredient, quantity-per-unit) pair of a recipe.
type RecipeLine struct {
	IngredientID IngredientID    `json:"ingredientId"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// Product carries no cost field. Cost is always derived from the current
// ingredient costing data at evaluation time so that ingredient cost edits
// retroactively affect yet-unsold product cost displays.
type Product struct {
	ID           ProductID       `json:"id"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Active       bool            `json:"active"`
	Recipe       []RecipeLine    `json:"recipe"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChargeFor returns the amount charged for selling qty units at once.
func (p Product) ChargeFor(qty int) decimal.Decimal {
	return p.SellingPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// =============================================================================
// SALE - Immutable record of one completed transaction
// =============================================================================

// CostLine is one entry of a sale's ingredient-cost snapshot, captured at
// the moment of sale. Quantity and TotalCost cover the whole transaction
// (already multiplied by the sale quantity).
type CostLine struct {
	IngredientID   IngredientID    `json:"ingredientId"`
	IngredientName string          `json:"ingredientName"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	TotalCost      decimal.Decimal `json:"totalCost"`
}

// Sale is created only by a successful sale commit. Snapshot fields never
// change afterwards; this is the audit-trail guarantee.
type Sale struct {
	ID          SaleID    `json:"id"`
	ProductID   ProductID `json:"productId"`
	ProductName string    `json:"productName"` // denormalized so history survives renames/deletion

	// SellingPrice is the actual charged amount (price x quantity).
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Quantity     int             `json:"quantity"`
	PaymentType  string          `json:"paymentType"`

	// CostSnapshot is present in per-unit-cost mode only.
	CostSnapshot []CostLine `json:"ingredientCostSnapshot,omitempty"`

	// RecipeSnapshot records the recipe as it was at sale time so that undo
	// restores exactly what was deducted, regardless of later recipe edits.
	RecipeSnapshot []RecipeLine `json:"recipeSnapshot,omitempty"`

	EventID   EventID   `json:"eventId,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// Units returns the unit count of the transaction, defaulting to 1 for
// records imported without a quantity.
func (s Sale) Units() int {
	if s.Quantity < 1 {
		return 1
	}
	return s.Quantity
}

// Cost returns the snapshotted ingredient cost of the whole transaction.
// Zero when no snapshot was taken (fixed-event-cost mode).
func (s Sale) Cost() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.CostSnapshot {
		total = total.Add(line.TotalCost)
	}
	return total
}

// =============================================================================
// EVENT - One selling session (fixed-cost accounting variant)
// =============================================================================

type EventStatus string

const (
	EventActive EventStatus = "active"
	EventClosed EventStatus = "closed"
)

// StockLevel is a point-in-time quantity of one ingredient.
type StockLevel struct {
	IngredientID IngredientID    `json:"ingredientId"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// StockChange is a per-ingredient delta against the last stock snapshot.
// Display only; it has no effect on correctness.
type StockChange struct {
	IngredientID IngredientID    `json:"ingredientId"`
	Name         string          `json:"name"`
	Old          decimal.Decimal `json:"old"`
	New          decimal.Decimal `json:"new"`
	Change       decimal.Decimal `json:"change"`
}

// Event wraps one selling session. FixedCost is a sunk amount paid up
// front, independent of units sold. At most one event is active at a time.
type Event struct {
	ID            EventID         `json:"id"`
	Name          string          `json:"name"`
	StartedAt     time.Time       `json:"startedAt"`
	EndedAt       *time.Time      `json:"endedAt,omitempty"`
	FixedCost     decimal.Decimal `json:"fixedCost"`
	PlannedOutput int             `json:"plannedOutput,omitempty"`
	StartingStock []StockLevel    `json:"startingStock,omitempty"`
	Status        EventStatus     `json:"status"`

	// Result holds the final summary computed at close, so history stays
	// self-contained after the sales log is cleared.
	Result *Summary `json:"result,omitempty"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings are consumed only to select the accounting/inventory-effect mode
// and UI preferences. The core never reads them as ambient state; callers
// resolve the mode and pass it in explicitly.
type Settings struct {
	Theme       string      `json:"theme"`
	DemoMode    bool        `json:"demoMode"`
	CostingMode CostingMode `json:"costingMode,omitempty"`
}
