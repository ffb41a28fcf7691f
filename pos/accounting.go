/*
accounting.go - Revenue/cost/profit rollups

PURPOSE:
  Aggregates sales into summaries under one of two mutually exclusive
  accounting models, plus per-product breakdowns.

THE TWO MODELS:
  Per-unit cost:   profit = revenue - sum of the immutable per-sale
                   ingredient-cost snapshots captured at sale time.
  Fixed event cost: profit = revenue - the event's single sunk cost. The
                   sunk cost is NOT divided per unit sold and does not vary
                   with quantity; revenue alone determines the marginal
                   contribution of each sale. Profit must never be computed
                   as (price - costPerUnit) * unitsSold in this mode.

  The mode is an explicit value passed in by the caller, never ambient
  state read from settings inside the core.

SEE ALSO:
  - register.go: records the snapshots these rollups consume
  - types.go: Sale.Cost and Sale.Units
*/
package pos

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COSTING MODE
// =============================================================================

// CostingMode selects the accounting model. It is injected by the caller.
type CostingMode string

const (
	// CostPerUnit attributes ingredient costs to each sale via snapshots.
	CostPerUnit CostingMode = "per_unit"

	// CostFixedEvent attributes a single sunk cost to the whole event.
	CostFixedEvent CostingMode = "fixed_event"
)

func (m CostingMode) Valid() bool {
	return m == CostPerUnit || m == CostFixedEvent
}

// =============================================================================
// SUMMARY
// =============================================================================

type Summary struct {
	Mode         CostingMode     `json:"mode"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	ItemsSold    int             `json:"itemsSold"`
}

// Summarize rolls the sales in scope into one summary. fixedCost is only
// consulted in fixed-event mode and is applied once, as one aggregate step.
func Summarize(sales []Sale, mode CostingMode, fixedCost decimal.Decimal) Summary {
	revenue := decimal.Zero
	cost := decimal.Zero
	items := 0
	for _, s := range sales {
		revenue = revenue.Add(s.SellingPrice)
		items += s.Units()
		if mode == CostPerUnit {
			cost = cost.Add(s.Cost())
		}
	}
	if mode == CostFixedEvent {
		cost = fixedCost
	}
	return Summary{
		Mode:         mode,
		TotalRevenue: revenue,
		TotalCost:    cost,
		NetProfit:    revenue.Sub(cost),
		ItemsSold:    items,
	}
}

// =============================================================================
// PER-PRODUCT BREAKDOWN
// =============================================================================

// ProductBreakdown aggregates sales of one product. Count sums quantities,
// not transaction counts.
type ProductBreakdown struct {
	ProductID   ProductID       `json:"productId"`
	ProductName string          `json:"productName"`
	Count       int             `json:"count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// BreakdownByProduct groups sales by product, sorted descending by revenue
// (name ascending on ties, for stable output). Names come from the
// denormalized sale records, so deleted products still show up.
func BreakdownByProduct(sales []Sale) []ProductBreakdown {
	byProduct := make(map[ProductID]*ProductBreakdown)
	for _, s := range sales {
		b, ok := byProduct[s.ProductID]
		if !ok {
			b = &ProductBreakdown{ProductID: s.ProductID, ProductName: s.ProductName, Revenue: decimal.Zero}
			byProduct[s.ProductID] = b
		}
		b.Count += s.Units()
		b.Revenue = b.Revenue.Add(s.SellingPrice)
	}
	out := make([]ProductBreakdown, 0, len(byProduct))
	for _, b := range byProduct {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out
}

// =============================================================================
// REPORTER - Store-backed reads for display
// =============================================================================

// Reporter reads the sales log and active event to serve reports. It is
// read-only and independent of the sale path.
type Reporter struct {
	store Store
}

func NewReporter(store Store) *Reporter {
	return &Reporter{store: store}
}

// Summary rolls up all sales in the current session. In fixed-event mode
// the active event's fixed cost is used; with no active event the sunk cost
// is zero so display paths stay total.
func (r *Reporter) Summary(ctx context.Context, mode CostingMode) (Summary, error) {
	sales, err := r.store.ListSales(ctx)
	if err != nil {
		return Summary{}, err
	}
	fixedCost := decimal.Zero
	if mode == CostFixedEvent {
		ev, err := r.store.ActiveEvent(ctx)
		if err != nil {
			return Summary{}, err
		}
		if ev != nil {
			fixedCost = ev.FixedCost
		}
	}
	return Summarize(sales, mode, fixedCost), nil
}

// Breakdown returns the per-product rollup of the current session.
func (r *Reporter) Breakdown(ctx context.Context) ([]ProductBreakdown, error) {
	sales, err := r.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return BreakdownByProduct(sales), nil
}
