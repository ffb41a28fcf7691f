/*
store.go - Persistence interface for the booth's record sets

PURPOSE:
  Defines the interface between the domain logic and durable storage.
  Each record set from the data model is independently addressable:
  ingredients, products, sales, demo sales, the last-sale slot, the
  active-event slot, the append-only event history, the stock snapshot,
  and settings. Pure storage - no business rules.

ATOMICITY:
  TxStore.WithTx ensures the sale commit (deduct + append + last-sale) is
  a single durable write transaction: inventory is never left deducted
  without a corresponding sale record.

DEMO SALES:
  Dry-run sales live in a logically separate log so reporting is never
  contaminated by test transactions.

IMPLEMENTATIONS:
  - pos/store/memory.go: in-memory (tests, dev)
  - store/sqlite/sqlite.go: durable SQLite

SEE ALSO:
  - register.go: the only writer of sales/last-sale/events
  - export.go: wholesale replace on import
*/
package pos

import "context"

// Store persists the booth's record sets. Implementations report storage
// failures as *PersistenceError.
type Store interface {
	// Ingredients
	SaveIngredient(ctx context.Context, ing Ingredient) error
	GetIngredient(ctx context.Context, id IngredientID) (*Ingredient, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	DeleteIngredient(ctx context.Context, id IngredientID) error
	ReplaceIngredients(ctx context.Context, ings []Ingredient) error

	// Products
	SaveProduct(ctx context.Context, p Product) error
	GetProduct(ctx context.Context, id ProductID) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	DeleteProduct(ctx context.Context, id ProductID) error
	ReplaceProducts(ctx context.Context, ps []Product) error

	// Sales (current session, chronological)
	AppendSale(ctx context.Context, s Sale) error
	ListSales(ctx context.Context) ([]Sale, error)
	DeleteSale(ctx context.Context, id SaleID) error
	ClearSales(ctx context.Context) error
	ReplaceSales(ctx context.Context, ss []Sale) error

	// Demo sales (separate dry-run log)
	AppendDemoSale(ctx context.Context, s Sale) error
	ListDemoSales(ctx context.Context) ([]Sale, error)
	ClearDemoSales(ctx context.Context) error

	// Last-sale slot (nil clears)
	SetLastSale(ctx context.Context, s *Sale) error
	LastSale(ctx context.Context) (*Sale, error)

	// Active event slot and append-only history
	SaveActiveEvent(ctx context.Context, ev Event) error
	ActiveEvent(ctx context.Context) (*Event, error)
	ClearActiveEvent(ctx context.Context) error
	AppendEventHistory(ctx context.Context, ev Event) error
	ListEventHistory(ctx context.Context) ([]Event, error)

	// Stock snapshot (display-only deltas)
	SaveStockSnapshot(ctx context.Context, levels []StockLevel) error
	StockSnapshot(ctx context.Context) ([]StockLevel, error)

	// Settings
	SaveSettings(ctx context.Context, s Settings) error
	GetSettings(ctx context.Context) (Settings, error)
}

// TxStore wraps Store with transaction support. If fn returns an error the
// transaction is rolled back, otherwise committed.
type TxStore interface {
	Store

	WithTx(ctx context.Context, fn func(Store) error) error
}
