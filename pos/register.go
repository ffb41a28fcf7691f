/*
register.go - The sale/undo transaction flow

PURPOSE:
  The transactional core. A sale is a single atomic transition: validate
  sellability, capture the immutable snapshots, deduct inventory, append
  the sale record and set the last-sale pointer - all inside one durable
  write transaction. Undo exactly reverses the last commit, once.

SALE FLOW (ProcessSale):
  1. Fixed-event-cost mode requires an active event
  2. Quantity must be >= 1 (0 defaults to 1)
  3. Stock check over the recipe
  4. (Per-unit mode) cost snapshot built BEFORE deduction
  5. Deduct
  6. Append sale, set last-sale pointer
  Steps 3-6 run inside WithTx: inventory is never left deducted without a
  corresponding sale record.

UNDO:
  Strictly single-level. Restoration uses the recipe snapshot recorded on
  the sale, not the product's current recipe, so a recipe edit between
  sale and undo cannot drift the restored quantities.

CONCURRENCY:
  The engine is single-actor by design, but Register serializes its write
  operations with a mutex so a multi-user entry point cannot race two
  sales through the same stale stock read.

SEE ALSO:
  - inventory.go: stock check / deduct / restore
  - costing.go: snapshot construction
  - accounting.go: summaries recorded on event close
*/
package pos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Register orchestrates sales, undo and the event lifecycle against a
// transactional store. The costing mode is passed per call, never read
// from ambient state.
type Register struct {
	store TxStore

	mu    sync.Mutex
	clock func() time.Time
	newID func() string
}

func NewRegister(store TxStore) *Register {
	return &Register{
		store: store,
		clock: func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// SaleInput describes one requested transaction. Quantity 0 defaults to 1.
type SaleInput struct {
	ProductID   ProductID
	Quantity    int
	PaymentType string
}

// EventInput describes a selling session to start.
type EventInput struct {
	Name          string
	FixedCost     decimal.Decimal
	PlannedOutput int
}

// =============================================================================
// SALE / UNDO
// =============================================================================

// ProcessSale commits one sale and returns the immutable record.
func (r *Register) ProcessSale(ctx context.Context, mode CostingMode, in SaleInput) (*Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	qty, err := normalizeQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}

	var sale *Sale
	err = r.store.WithTx(ctx, func(s Store) error {
		committed, err := r.buildSale(ctx, s, mode, in, qty, true)
		if err != nil {
			return err
		}
		if err := s.AppendSale(ctx, *committed); err != nil {
			return err
		}
		if err := s.SetLastSale(ctx, committed); err != nil {
			return err
		}
		sale = committed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ProcessDemoSale performs the same validation as ProcessSale and records a
// sale-like entry into the separate demo log, but skips the inventory
// deduction and does not touch the last-sale pointer. Demo entries are
// invisible to reporting and cannot be undone.
func (r *Register) ProcessDemoSale(ctx context.Context, mode CostingMode, in SaleInput) (*Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	qty, err := normalizeQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}

	var sale *Sale
	err = r.store.WithTx(ctx, func(s Store) error {
		committed, err := r.buildSale(ctx, s, mode, in, qty, false)
		if err != nil {
			return err
		}
		if err := s.AppendDemoSale(ctx, *committed); err != nil {
			return err
		}
		sale = committed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// buildSale validates the request and assembles the sale record. When
// deduct is set it also performs the inventory deduction; the cost snapshot
// is always evaluated before any deduction.
func (r *Register) buildSale(ctx context.Context, s Store, mode CostingMode, in SaleInput, qty int, deduct bool) (*Sale, error) {
	var eventID EventID
	if mode == CostFixedEvent {
		ev, err := s.ActiveEvent(ctx)
		if err != nil {
			return nil, err
		}
		if ev == nil || ev.Status != EventActive {
			return nil, ErrNoActiveEvent
		}
		eventID = ev.ID
	}

	product, err := s.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.Active {
		return nil, ErrProductInactive
	}

	ingredients, err := ingredientMap(ctx, s)
	if err != nil {
		return nil, err
	}
	if short := checkStock(product.Recipe, qty, ingredients); short != nil {
		return nil, short
	}

	var snapshot []CostLine
	if mode == CostPerUnit {
		snapshot = BuildCostSnapshot(product.Recipe, ingredients, qty)
	}

	if deduct {
		if err := NewInventory(s).Deduct(ctx, product.Recipe, qty); err != nil {
			return nil, err
		}
	}

	return &Sale{
		ID:             SaleID(r.newID()),
		ProductID:      product.ID,
		ProductName:    product.Name,
		SellingPrice:   product.ChargeFor(qty),
		Quantity:       qty,
		PaymentType:    in.PaymentType,
		CostSnapshot:   snapshot,
		RecipeSnapshot: cloneRecipe(product.Recipe),
		EventID:        eventID,
		CreatedAt:      r.clock(),
	}, nil
}

// UndoLastSale reverses the most recent commit: restores the deducted
// stock, removes the sale from the log and clears the last-sale pointer.
// After one undo the pointer is empty and a second undo fails, even though
// earlier sales remain in the log.
func (r *Register) UndoLastSale(ctx context.Context) (*Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, err := r.store.LastSale(ctx)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, ErrNothingToUndo
	}

	err = r.store.WithTx(ctx, func(s Store) error {
		recipe := last.RecipeSnapshot
		if len(recipe) == 0 {
			// Sales imported from older exports carry no recipe snapshot;
			// fall back to the product's current recipe when it still exists.
			product, err := s.GetProduct(ctx, last.ProductID)
			if err != nil {
				return err
			}
			if product != nil {
				recipe = product.Recipe
			}
		}
		if err := NewInventory(s).Restore(ctx, recipe, last.Units()); err != nil {
			return err
		}
		if err := s.DeleteSale(ctx, last.ID); err != nil {
			return err
		}
		return s.SetLastSale(ctx, nil)
	})
	if err != nil {
		return nil, err
	}
	return last, nil
}

// =============================================================================
// EVENT LIFECYCLE
// =============================================================================

// StartEvent opens a selling session: clears the current sales and demo
// logs, takes a starting-inventory snapshot and fills the active-event
// slot. Fails while another event is active.
func (r *Register) StartEvent(ctx context.Context, in EventInput) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if in.FixedCost.IsNegative() {
		return nil, &ValidationError{Field: "fixedCost", Reason: "must not be negative"}
	}

	var event *Event
	err := r.store.WithTx(ctx, func(s Store) error {
		current, err := s.ActiveEvent(ctx)
		if err != nil {
			return err
		}
		if current != nil && current.Status == EventActive {
			return ErrEventActive
		}
		if err := s.ClearSales(ctx); err != nil {
			return err
		}
		if err := s.ClearDemoSales(ctx); err != nil {
			return err
		}
		if err := s.SetLastSale(ctx, nil); err != nil {
			return err
		}
		levels, err := NewInventory(s).SnapshotStock(ctx)
		if err != nil {
			return err
		}
		event = &Event{
			ID:            EventID(r.newID()),
			Name:          in.Name,
			StartedAt:     r.clock(),
			FixedCost:     in.FixedCost,
			PlannedOutput: in.PlannedOutput,
			StartingStock: levels,
			Status:        EventActive,
		}
		return s.SaveActiveEvent(ctx, *event)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// EndEvent finalizes the active session: computes the totals under the
// given mode, appends the closed event to the append-only history and
// clears the active-event slot. The sales log is left in place until the
// next StartEvent or ResetSession.
func (r *Register) EndEvent(ctx context.Context, mode CostingMode) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var event *Event
	err := r.store.WithTx(ctx, func(s Store) error {
		current, err := s.ActiveEvent(ctx)
		if err != nil {
			return err
		}
		if current == nil || current.Status != EventActive {
			return ErrNoActiveEvent
		}
		sales, err := s.ListSales(ctx)
		if err != nil {
			return err
		}
		summary := Summarize(sales, mode, current.FixedCost)
		now := r.clock()
		current.Status = EventClosed
		current.EndedAt = &now
		current.Result = &summary
		if err := s.ClearActiveEvent(ctx); err != nil {
			return err
		}
		if err := s.AppendEventHistory(ctx, *current); err != nil {
			return err
		}
		event = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ResetSession clears all sales, the demo log and the last-sale pointer.
// The active event, if any, is untouched.
func (r *Register) ResetSession(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.WithTx(ctx, func(s Store) error {
		if err := s.ClearSales(ctx); err != nil {
			return err
		}
		if err := s.ClearDemoSales(ctx); err != nil {
			return err
		}
		return s.SetLastSale(ctx, nil)
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func normalizeQuantity(qty int) (int, error) {
	if qty == 0 {
		return 1, nil
	}
	if qty < 1 {
		return 0, ErrInvalidQuantity
	}
	return qty, nil
}

func cloneRecipe(recipe []RecipeLine) []RecipeLine {
	out := make([]RecipeLine, len(recipe))
	copy(out, recipe)
	return out
}
