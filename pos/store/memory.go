// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/stallworks/booth-engine/pos"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type state struct {
	ingredients   map[pos.IngredientID]pos.Ingredient
	products      map[pos.ProductID]pos.Product
	sales         []pos.Sale
	demoSales     []pos.Sale
	lastSale      *pos.Sale
	activeEvent   *pos.Event
	history       []pos.Event
	stockSnapshot []pos.StockLevel
	settings      pos.Settings
}

type Memory struct {
	mu sync.RWMutex
	state
}

func NewMemory() *Memory {
	return &Memory{state: state{
		ingredients: make(map[pos.IngredientID]pos.Ingredient),
		products:    make(map[pos.ProductID]pos.Product),
	}}
}

// =============================================================================
// INGREDIENTS
// =============================================================================

func (m *Memory) SaveIngredient(_ context.Context, ing pos.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingredients[ing.ID] = ing
	return nil
}

func (m *Memory) GetIngredient(_ context.Context, id pos.IngredientID) (*pos.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ing, ok := m.ingredients[id]
	if !ok {
		return nil, nil
	}
	return &ing, nil
}

func (m *Memory) ListIngredients(_ context.Context) ([]pos.Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pos.Ingredient, 0, len(m.ingredients))
	for _, ing := range m.ingredients {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteIngredient(_ context.Context, id pos.IngredientID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ingredients, id)
	return nil
}

func (m *Memory) ReplaceIngredients(_ context.Context, ings []pos.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingredients = make(map[pos.IngredientID]pos.Ingredient, len(ings))
	for _, ing := range ings {
		m.ingredients[ing.ID] = ing
	}
	return nil
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (m *Memory) SaveProduct(_ context.Context, p pos.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *Memory) GetProduct(_ context.Context, id pos.ProductID) (*pos.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) ListProducts(_ context.Context) ([]pos.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pos.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteProduct(_ context.Context, id pos.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *Memory) ReplaceProducts(_ context.Context, ps []pos.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = make(map[pos.ProductID]pos.Product, len(ps))
	for _, p := range ps {
		m.products[p.ID] = p
	}
	return nil
}

// =============================================================================
// SALES
// =============================================================================

func (m *Memory) AppendSale(_ context.Context, s pos.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, s)
	return nil
}

func (m *Memory) ListSales(_ context.Context) ([]pos.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pos.Sale, len(m.sales))
	copy(out, m.sales)
	return out, nil
}

func (m *Memory) DeleteSale(_ context.Context, id pos.SaleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sales {
		if s.ID == id {
			m.sales = append(m.sales[:i], m.sales[i+1:]...)
			return nil
		}
	}
	return pos.ErrSaleNotFound
}

func (m *Memory) ClearSales(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = nil
	return nil
}

func (m *Memory) ReplaceSales(_ context.Context, ss []pos.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = make([]pos.Sale, len(ss))
	copy(m.sales, ss)
	return nil
}

func (m *Memory) AppendDemoSale(_ context.Context, s pos.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.demoSales = append(m.demoSales, s)
	return nil
}

func (m *Memory) ListDemoSales(_ context.Context) ([]pos.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pos.Sale, len(m.demoSales))
	copy(out, m.demoSales)
	return out, nil
}

func (m *Memory) ClearDemoSales(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.demoSales = nil
	return nil
}

func (m *Memory) SetLastSale(_ context.Context, s *pos.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil {
		m.lastSale = nil
		return nil
	}
	cp := *s
	m.lastSale = &cp
	return nil
}

func (m *Memory) LastSale(_ context.Context) (*pos.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastSale == nil {
		return nil, nil
	}
	cp := *m.lastSale
	return &cp, nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (m *Memory) SaveActiveEvent(_ context.Context, ev pos.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeEvent = &ev
	return nil
}

func (m *Memory) ActiveEvent(_ context.Context) (*pos.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.activeEvent == nil {
		return nil, nil
	}
	cp := *m.activeEvent
	return &cp, nil
}

func (m *Memory) ClearActiveEvent(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeEvent = nil
	return nil
}

func (m *Memory) AppendEventHistory(_ context.Context, ev pos.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, ev)
	return nil
}

func (m *Memory) ListEventHistory(_ context.Context) ([]pos.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pos.Event, len(m.history))
	copy(out, m.history)
	return out, nil
}

// =============================================================================
// STOCK SNAPSHOT / SETTINGS
// =============================================================================

func (m *Memory) SaveStockSnapshot(_ context.Context, levels []pos.StockLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stockSnapshot = make([]pos.StockLevel, len(levels))
	copy(m.stockSnapshot, levels)
	return nil
}

func (m *Memory) StockSnapshot(_ context.Context) ([]pos.StockLevel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pos.StockLevel, len(m.stockSnapshot))
	copy(out, m.stockSnapshot)
	return out, nil
}

func (m *Memory) SaveSettings(_ context.Context, s pos.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

func (m *Memory) GetSettings(_ context.Context) (pos.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn against a view sharing this store's state. On error
// the pre-transaction state is restored from a deep snapshot; on success
// the view's state (including replaced map/slice headers) is adopted.
func (m *Memory) WithTx(_ context.Context, fn func(pos.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.deepCopy()
	view := &Memory{state: m.state}

	if err := fn(view); err != nil {
		m.state = snapshot
		return err
	}
	m.state = view.state
	return nil
}

func (s state) deepCopy() state {
	cp := state{
		ingredients:   make(map[pos.IngredientID]pos.Ingredient, len(s.ingredients)),
		products:      make(map[pos.ProductID]pos.Product, len(s.products)),
		sales:         append([]pos.Sale(nil), s.sales...),
		demoSales:     append([]pos.Sale(nil), s.demoSales...),
		history:       append([]pos.Event(nil), s.history...),
		stockSnapshot: append([]pos.StockLevel(nil), s.stockSnapshot...),
		settings:      s.settings,
	}
	for k, v := range s.ingredients {
		cp.ingredients[k] = v
	}
	for k, v := range s.products {
		cp.products[k] = v
	}
	if s.lastSale != nil {
		last := *s.lastSale
		cp.lastSale = &last
	}
	if s.activeEvent != nil {
		ev := *s.activeEvent
		cp.activeEvent = &ev
	}
	return cp
}
