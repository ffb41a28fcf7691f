/*
Package sqlite provides the SQLite-backed implementation of pos.TxStore.

PURPOSE:
  Durable persistence for every record set the engine addresses:
  ingredients, products, the sales and demo-sales logs, the event slot and
  history, and the singleton slots (last sale, stock snapshot, settings).

KEY TABLES:
  ingredients:  batch purchases with remaining quantity
  products:     sellable items; recipe stored as JSON
  sales:        sale log; a demo flag separates the dry-run log
  events:       active slot (status='active') and closed history
  slots:        key/value JSON for singleton records

DERIVED VALUES:
  Unit cost and product cost are never stored. There is deliberately no
  column for them; they are recomputed from ingredient state on every read.

TRANSACTIONS:
  WithTx runs fn against a view bound to one database transaction, so the
  sale commit (deduct + append + last-sale) is a single durable write.

WAL MODE:
  Opened with WAL and foreign keys on. The connection pool is capped at one
  connection: SQLite allows a single writer and the engine serializes its
  write paths anyway. The cap also makes ":memory:" databases safe to use
  in tests.

ERRORS:
  Failures are wrapped in *pos.PersistenceError, which unwraps to
  pos.ErrPersistence so callers can tell storage trouble apart from
  business-rule rejections.

USAGE:
  store, err := sqlite.New("./data/booth.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  register := pos.NewRegister(store)

SEE ALSO:
  - pos/store.go: interface definitions
  - pos/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/stallworks/booth-engine/pos"
)

// dbq is the querying surface common to *sql.DB and *sql.Tx.
type dbq interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements pos.TxStore using SQLite.
type Store struct {
	db *sql.DB
	q  dbq
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, q: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		track_cost INTEGER NOT NULL DEFAULT 0,
		total_cost TEXT NOT NULL DEFAULT '0',
		total_quantity TEXT NOT NULL DEFAULT '0',
		batch_quantity TEXT NOT NULL DEFAULT '0',
		low_stock_threshold TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		selling_price TEXT NOT NULL DEFAULT '0',
		active INTEGER NOT NULL DEFAULT 1,
		recipe_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		demo INTEGER NOT NULL DEFAULT 0,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		selling_price TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		payment_type TEXT NOT NULL DEFAULT '',
		cost_snapshot_json TEXT,
		recipe_json TEXT,
		event_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_demo_created
		ON sales(demo, created_at);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT,
		fixed_cost TEXT NOT NULL DEFAULT '0',
		planned_output INTEGER NOT NULL DEFAULT 0,
		starting_stock_json TEXT,
		status TEXT NOT NULL,
		result_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);

	CREATE TABLE IF NOT EXISTS slots (
		key TEXT PRIMARY KEY,
		value_json TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INGREDIENTS
// =============================================================================

func (s *Store) SaveIngredient(ctx context.Context, ing pos.Ingredient) error {
	query := `
		INSERT INTO ingredients
		(id, name, unit, track_cost, total_cost, total_quantity, batch_quantity,
		 low_stock_threshold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			unit = excluded.unit,
			track_cost = excluded.track_cost,
			total_cost = excluded.total_cost,
			total_quantity = excluded.total_quantity,
			batch_quantity = excluded.batch_quantity,
			low_stock_threshold = excluded.low_stock_threshold,
			updated_at = excluded.updated_at
	`
	var threshold *string
	if ing.LowStockThreshold != nil {
		t := ing.LowStockThreshold.String()
		threshold = &t
	}
	_, err := s.q.ExecContext(ctx, query,
		ing.ID, ing.Name, ing.Unit, ing.TrackCost,
		ing.TotalCost.String(), ing.TotalQuantity.String(), ing.BatchQuantity.String(),
		threshold,
		ing.CreatedAt.Format(time.RFC3339Nano),
		ing.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return &pos.PersistenceError{Op: "save ingredient", Err: err}
	}
	return nil
}

func (s *Store) GetIngredient(ctx context.Context, id pos.IngredientID) (*pos.Ingredient, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, name, unit, track_cost, total_cost, total_quantity, batch_quantity,
		       low_stock_threshold, created_at, updated_at
		FROM ingredients WHERE id = ?`, id)
	ing, err := scanIngredient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &pos.PersistenceError{Op: "get ingredient", Err: err}
	}
	return ing, nil
}

func (s *Store) ListIngredients(ctx context.Context) ([]pos.Ingredient, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, unit, track_cost, total_cost, total_quantity, batch_quantity,
		       low_stock_threshold, created_at, updated_at
		FROM ingredients ORDER BY name, id`)
	if err != nil {
		return nil, &pos.PersistenceError{Op: "list ingredients", Err: err}
	}
	defer rows.Close()

	var out []pos.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, &pos.PersistenceError{Op: "list ingredients", Err: err}
		}
		out = append(out, *ing)
	}
	if err := rows.Err(); err != nil {
		return nil, &pos.PersistenceError{Op: "list ingredients", Err: err}
	}
	return out, nil
}

func (s *Store) DeleteIngredient(ctx context.Context, id pos.IngredientID) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM ingredients WHERE id = ?", id); err != nil {
		return &pos.PersistenceError{Op: "delete ingredient", Err: err}
	}
	return nil
}

func (s *Store) ReplaceIngredients(ctx context.Context, ings []pos.Ingredient) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM ingredients"); err != nil {
		return &pos.PersistenceError{Op: "replace ingredients", Err: err}
	}
	for _, ing := range ings {
		if err := s.SaveIngredient(ctx, ing); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(r rowScanner) (*pos.Ingredient, error) {
	var (
		ing                  pos.Ingredient
		totalCost, totalQty  string
		batchQty             string
		threshold            sql.NullString
		createdAt, updatedAt string
	)
	err := r.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.TrackCost,
		&totalCost, &totalQty, &batchQty, &threshold, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	ing.TotalCost = parseDecimal(totalCost)
	ing.TotalQuantity = parseDecimal(totalQty)
	ing.BatchQuantity = parseDecimal(batchQty)
	if threshold.Valid {
		t := parseDecimal(threshold.String)
		ing.LowStockThreshold = &t
	}
	ing.CreatedAt = parseTime(createdAt)
	ing.UpdatedAt = parseTime(updatedAt)
	return &ing, nil
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (s *Store) SaveProduct(ctx context.Context, p pos.Product) error {
	recipeJSON, err := json.Marshal(p.Recipe)
	if err != nil {
		return &pos.PersistenceError{Op: "save product", Err: err}
	}
	query := `
		INSERT INTO products (id, name, selling_price, active, recipe_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			selling_price = excluded.selling_price,
			active = excluded.active,
			recipe_json = excluded.recipe_json,
			updated_at = excluded.updated_at
	`
	_, err = s.q.ExecContext(ctx, query,
		p.ID, p.Name, p.SellingPrice.String(), p.Active, string(recipeJSON),
		p.CreatedAt.Format(time.RFC3339Nano), p.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return &pos.PersistenceError{Op: "save product", Err: err}
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id pos.ProductID) (*pos.Product, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, name, selling_price, active, recipe_json, created_at, updated_at
		FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &pos.PersistenceError{Op: "get product", Err: err}
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]pos.Product, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, selling_price, active, recipe_json, created_at, updated_at
		FROM products ORDER BY name, id`)
	if err != nil {
		return nil, &pos.PersistenceError{Op: "list products", Err: err}
	}
	defer rows.Close()

	var out []pos.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, &pos.PersistenceError{Op: "list products", Err: err}
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, &pos.PersistenceError{Op: "list products", Err: err}
	}
	return out, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id pos.ProductID) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return &pos.PersistenceError{Op: "delete product", Err: err}
	}
	return nil
}

func (s *Store) ReplaceProducts(ctx context.Context, ps []pos.Product) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return &pos.PersistenceError{Op: "replace products", Err: err}
	}
	for _, p := range ps {
		if err := s.SaveProduct(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func scanProduct(r rowScanner) (*pos.Product, error) {
	var (
		p                    pos.Product
		price, recipeJSON    string
		createdAt, updatedAt string
	)
	if err := r.Scan(&p.ID, &p.Name, &price, &p.Active, &recipeJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.SellingPrice = parseDecimal(price)
	if err := json.Unmarshal([]byte(recipeJSON), &p.Recipe); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// =============================================================================
// SALES
// =============================================================================

func (s *Store) AppendSale(ctx context.Context, sale pos.Sale) error {
	return s.appendSale(ctx, sale, false)
}

func (s *Store) AppendDemoSale(ctx context.Context, sale pos.Sale) error {
	return s.appendSale(ctx, sale, true)
}

func (s *Store) appendSale(ctx context.Context, sale pos.Sale, demo bool) error {
	snapshotJSON, err := json.Marshal(sale.CostSnapshot)
	if err != nil {
		return &pos.PersistenceError{Op: "append sale", Err: err}
	}
	recipeJSON, err := json.Marshal(sale.RecipeSnapshot)
	if err != nil {
		return &pos.PersistenceError{Op: "append sale", Err: err}
	}
	query := `
		INSERT INTO sales
		(id, demo, product_id, product_name, selling_price, quantity, payment_type,
		 cost_snapshot_json, recipe_json, event_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.q.ExecContext(ctx, query,
		sale.ID, demo, sale.ProductID, sale.ProductName,
		sale.SellingPrice.String(), sale.Quantity, sale.PaymentType,
		string(snapshotJSON), string(recipeJSON), sale.EventID,
		sale.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return &pos.PersistenceError{Op: "append sale", Err: err}
	}
	return nil
}

func (s *Store) ListSales(ctx context.Context) ([]pos.Sale, error) {
	return s.listSales(ctx, false)
}

func (s *Store) ListDemoSales(ctx context.Context) ([]pos.Sale, error) {
	return s.listSales(ctx, true)
}

func (s *Store) listSales(ctx context.Context, demo bool) ([]pos.Sale, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, product_id, product_name, selling_price, quantity, payment_type,
		       cost_snapshot_json, recipe_json, event_id, created_at
		FROM sales WHERE demo = ?
		ORDER BY created_at ASC, rowid ASC`, demo)
	if err != nil {
		return nil, &pos.PersistenceError{Op: "list sales", Err: err}
	}
	defer rows.Close()

	var out []pos.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, &pos.PersistenceError{Op: "list sales", Err: err}
		}
		out = append(out, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, &pos.PersistenceError{Op: "list sales", Err: err}
	}
	return out, nil
}

func (s *Store) DeleteSale(ctx context.Context, id pos.SaleID) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM sales WHERE id = ? AND demo = 0", id)
	if err != nil {
		return &pos.PersistenceError{Op: "delete sale", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pos.ErrSaleNotFound
	}
	return nil
}

func (s *Store) ClearSales(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM sales WHERE demo = 0"); err != nil {
		return &pos.PersistenceError{Op: "clear sales", Err: err}
	}
	return nil
}

func (s *Store) ClearDemoSales(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM sales WHERE demo = 1"); err != nil {
		return &pos.PersistenceError{Op: "clear demo sales", Err: err}
	}
	return nil
}

func (s *Store) ReplaceSales(ctx context.Context, ss []pos.Sale) error {
	if err := s.ClearSales(ctx); err != nil {
		return err
	}
	for _, sale := range ss {
		if err := s.AppendSale(ctx, sale); err != nil {
			return err
		}
	}
	return nil
}

func scanSale(r rowScanner) (*pos.Sale, error) {
	var (
		sale                     pos.Sale
		price                    string
		snapshotJSON, recipeJSON sql.NullString
		createdAt                string
	)
	err := r.Scan(&sale.ID, &sale.ProductID, &sale.ProductName, &price,
		&sale.Quantity, &sale.PaymentType, &snapshotJSON, &recipeJSON,
		&sale.EventID, &createdAt)
	if err != nil {
		return nil, err
	}
	sale.SellingPrice = parseDecimal(price)
	if err := unmarshalNullable(snapshotJSON, &sale.CostSnapshot); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(recipeJSON, &sale.RecipeSnapshot); err != nil {
		return nil, err
	}
	sale.CreatedAt = parseTime(createdAt)
	return &sale, nil
}

// =============================================================================
// SLOTS - last sale, stock snapshot, settings
// =============================================================================

const (
	slotLastSale      = "last_sale"
	slotStockSnapshot = "stock_snapshot"
	slotSettings      = "settings"
)

func (s *Store) setSlot(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &pos.PersistenceError{Op: "set " + key, Err: err}
	}
	query := `
		INSERT INTO slots (key, value_json) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json
	`
	if _, err := s.q.ExecContext(ctx, query, key, string(data)); err != nil {
		return &pos.PersistenceError{Op: "set " + key, Err: err}
	}
	return nil
}

// getSlot reports whether the slot was present.
func (s *Store) getSlot(ctx context.Context, key string, out any) (bool, error) {
	var data string
	err := s.q.QueryRowContext(ctx, "SELECT value_json FROM slots WHERE key = ?", key).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, &pos.PersistenceError{Op: "get " + key, Err: err}
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, &pos.PersistenceError{Op: "get " + key, Err: err}
	}
	return true, nil
}

func (s *Store) clearSlot(ctx context.Context, key string) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", key); err != nil {
		return &pos.PersistenceError{Op: "clear " + key, Err: err}
	}
	return nil
}

func (s *Store) SetLastSale(ctx context.Context, sale *pos.Sale) error {
	if sale == nil {
		return s.clearSlot(ctx, slotLastSale)
	}
	return s.setSlot(ctx, slotLastSale, sale)
}

func (s *Store) LastSale(ctx context.Context) (*pos.Sale, error) {
	var sale pos.Sale
	ok, err := s.getSlot(ctx, slotLastSale, &sale)
	if err != nil || !ok {
		return nil, err
	}
	return &sale, nil
}

func (s *Store) SaveStockSnapshot(ctx context.Context, levels []pos.StockLevel) error {
	return s.setSlot(ctx, slotStockSnapshot, levels)
}

func (s *Store) StockSnapshot(ctx context.Context) ([]pos.StockLevel, error) {
	var levels []pos.StockLevel
	if _, err := s.getSlot(ctx, slotStockSnapshot, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings pos.Settings) error {
	return s.setSlot(ctx, slotSettings, settings)
}

func (s *Store) GetSettings(ctx context.Context) (pos.Settings, error) {
	var settings pos.Settings
	if _, err := s.getSlot(ctx, slotSettings, &settings); err != nil {
		return pos.Settings{}, err
	}
	return settings, nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) SaveActiveEvent(ctx context.Context, ev pos.Event) error {
	return s.saveEvent(ctx, ev)
}

func (s *Store) AppendEventHistory(ctx context.Context, ev pos.Event) error {
	return s.saveEvent(ctx, ev)
}

// saveEvent upserts by id, so closing an event moves the same row from the
// active slot into history via its status column.
func (s *Store) saveEvent(ctx context.Context, ev pos.Event) error {
	stockJSON, err := json.Marshal(ev.StartingStock)
	if err != nil {
		return &pos.PersistenceError{Op: "save event", Err: err}
	}
	var resultJSON *string
	if ev.Result != nil {
		data, err := json.Marshal(ev.Result)
		if err != nil {
			return &pos.PersistenceError{Op: "save event", Err: err}
		}
		r := string(data)
		resultJSON = &r
	}
	var endedAt *string
	if ev.EndedAt != nil {
		e := ev.EndedAt.Format(time.RFC3339Nano)
		endedAt = &e
	}
	query := `
		INSERT INTO events
		(id, name, started_at, ended_at, fixed_cost, planned_output,
		 starting_stock_json, status, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			ended_at = excluded.ended_at,
			fixed_cost = excluded.fixed_cost,
			planned_output = excluded.planned_output,
			starting_stock_json = excluded.starting_stock_json,
			status = excluded.status,
			result_json = excluded.result_json
	`
	_, err = s.q.ExecContext(ctx, query,
		ev.ID, ev.Name, ev.StartedAt.Format(time.RFC3339Nano), endedAt,
		ev.FixedCost.String(), ev.PlannedOutput, string(stockJSON), ev.Status, resultJSON)
	if err != nil {
		return &pos.PersistenceError{Op: "save event", Err: err}
	}
	return nil
}

func (s *Store) ActiveEvent(ctx context.Context) (*pos.Event, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, name, started_at, ended_at, fixed_cost, planned_output,
		       starting_stock_json, status, result_json
		FROM events WHERE status = ? LIMIT 1`, pos.EventActive)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &pos.PersistenceError{Op: "get active event", Err: err}
	}
	return ev, nil
}

func (s *Store) ClearActiveEvent(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM events WHERE status = ?", pos.EventActive); err != nil {
		return &pos.PersistenceError{Op: "clear active event", Err: err}
	}
	return nil
}

func (s *Store) ListEventHistory(ctx context.Context) ([]pos.Event, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, started_at, ended_at, fixed_cost, planned_output,
		       starting_stock_json, status, result_json
		FROM events WHERE status = ?
		ORDER BY ended_at ASC, rowid ASC`, pos.EventClosed)
	if err != nil {
		return nil, &pos.PersistenceError{Op: "list event history", Err: err}
	}
	defer rows.Close()

	var out []pos.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, &pos.PersistenceError{Op: "list event history", Err: err}
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &pos.PersistenceError{Op: "list event history", Err: err}
	}
	return out, nil
}

func scanEvent(r rowScanner) (*pos.Event, error) {
	var (
		ev                    pos.Event
		startedAt             string
		endedAt               sql.NullString
		fixedCost             string
		stockJSON, resultJSON sql.NullString
	)
	err := r.Scan(&ev.ID, &ev.Name, &startedAt, &endedAt, &fixedCost,
		&ev.PlannedOutput, &stockJSON, &ev.Status, &resultJSON)
	if err != nil {
		return nil, err
	}
	ev.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		t := parseTime(endedAt.String)
		ev.EndedAt = &t
	}
	ev.FixedCost = parseDecimal(fixedCost)
	if err := unmarshalNullable(stockJSON, &ev.StartingStock); err != nil {
		return nil, err
	}
	if resultJSON.Valid && resultJSON.String != "" {
		var result pos.Summary
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return nil, err
		}
		ev.Result = &result
	}
	return &ev, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn against a view of this store bound to one database
// transaction. Commit on nil, rollback on error.
func (s *Store) WithTx(ctx context.Context, fn func(pos.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &pos.PersistenceError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &pos.PersistenceError{Op: "commit transaction", Err: err}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func unmarshalNullable(src sql.NullString, out any) error {
	if !src.Valid || src.String == "" || src.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(src.String), out)
}
