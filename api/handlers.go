/*
handlers.go - HTTP API handlers for the booth engine

PURPOSE:
  Exposes the point-of-sale engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Ingredients:
    GET    /api/ingredients              List all ingredients
    POST   /api/ingredients              Create ingredient
    GET    /api/ingredients/{id}         Get ingredient
    PUT    /api/ingredients/{id}         Update ingredient
    DELETE /api/ingredients/{id}         Delete (409 while referenced)
    POST   /api/ingredients/{id}/adjust  Signed stock adjustment
    POST   /api/ingredients/{id}/restock Top up to target / batch quantity
    GET    /api/ingredients/low-stock    Ingredients at or below threshold

  Products:
    GET/POST /api/products, GET/PUT/DELETE /api/products/{id}
    GET      /api/products/{id}/cost     Derived cost, computed on demand

  Sales:
    GET    /api/sales                    Session log (demo log in demo mode)
    POST   /api/sales                    Process sale (demo path in demo mode)
    POST   /api/sales/demo               Explicit dry-run sale
    POST   /api/sales/undo               Undo the last sale, single level

  Reports:
    GET /api/reports/summary | /breakdown | /stock-changes

  Events:
    GET  /api/events | /api/events/active
    POST /api/events/start | /api/events/end | /api/events/reset

  Settings / backup:
    GET/PUT /api/settings
    GET /api/export, POST /api/import

COSTING MODE:
  Handlers resolve the mode per request: an explicit ?mode= query wins,
  then the stored settings, then the server default. The resolved value is
  passed into the domain as an argument; the core never reads settings.

ERROR HANDLING:
  Domain errors map to HTTP status via writeDomainError:
  - 400: Validation errors, invalid quantity, malformed bodies
  - 404: Ingredient/product/sale not found
  - 409: Insufficient stock, nothing to undo, referenced ingredient,
         event lifecycle conflicts, inactive product
  - 500: Persistence failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stallworks/booth-engine/pos"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    pos.TxStore
	Register *pos.Register
	Catalog  *pos.Catalog
	Reporter *pos.Reporter
	Log      *zap.SugaredLogger

	// DefaultMode applies when settings carry no costing mode.
	DefaultMode pos.CostingMode
}

// NewHandler creates a handler wired to the given store.
func NewHandler(store pos.TxStore, log *zap.SugaredLogger, defaultMode pos.CostingMode) *Handler {
	if !defaultMode.Valid() {
		defaultMode = pos.CostPerUnit
	}
	return &Handler{
		Store:       store,
		Register:    pos.NewRegister(store),
		Catalog:     pos.NewCatalog(store),
		Reporter:    pos.NewReporter(store),
		Log:         log,
		DefaultMode: defaultMode,
	}
}

// resolveMode picks the costing mode for one request: explicit query
// parameter, then stored settings, then the server default.
func (h *Handler) resolveMode(r *http.Request) pos.CostingMode {
	if q := pos.CostingMode(r.URL.Query().Get("mode")); q.Valid() {
		return q
	}
	settings, err := h.Store.GetSettings(r.Context())
	if err == nil && settings.CostingMode.Valid() {
		return settings.CostingMode
	}
	return h.DefaultMode
}

func (h *Handler) demoMode(r *http.Request) bool {
	settings, err := h.Store.GetSettings(r.Context())
	return err == nil && settings.DemoMode
}

// =============================================================================
// INGREDIENT HANDLERS
// =============================================================================

// ListIngredients returns all ingredients with derived unit costs.
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.Store.ListIngredients(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list ingredients", err)
		return
	}
	writeJSON(w, http.StatusOK, toIngredientDTOs(ingredients))
}

// CreateIngredient creates an ingredient batch.
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ing, err := h.Catalog.AddIngredient(r.Context(), toIngredientInput(req))
	if err != nil {
		h.writeDomainError(w, "Failed to create ingredient", err)
		return
	}
	writeJSON(w, http.StatusCreated, toIngredientDTO(*ing))
}

// GetIngredient returns a single ingredient.
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id := pos.IngredientID(chi.URLParam(r, "id"))
	ing, err := h.Store.GetIngredient(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get ingredient", err)
		return
	}
	if ing == nil {
		writeError(w, http.StatusNotFound, "Ingredient not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toIngredientDTO(*ing))
}

// UpdateIngredient edits an ingredient.
func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id := pos.IngredientID(chi.URLParam(r, "id"))
	var req IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ing, err := h.Catalog.UpdateIngredient(r.Context(), id, toIngredientInput(req))
	if err != nil {
		h.writeDomainError(w, "Failed to update ingredient", err)
		return
	}
	writeJSON(w, http.StatusOK, toIngredientDTO(*ing))
}

// DeleteIngredient removes an ingredient. Returns 409 with the referencing
// product names while any recipe still uses it.
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id := pos.IngredientID(chi.URLParam(r, "id"))
	if err := h.Catalog.DeleteIngredient(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete ingredient", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdjustStock applies a signed quantity delta to one ingredient.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id := pos.IngredientID(chi.URLParam(r, "id"))
	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	newQty, err := pos.NewInventory(h.Store).AdjustStock(r.Context(), id, decimal.NewFromFloat(req.Delta))
	if err != nil {
		h.writeDomainError(w, "Failed to adjust stock", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totalQuantity": f64(newQty)})
}

// Restock tops an ingredient back up to the target quantity, defaulting to
// its recorded batch quantity.
func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	id := pos.IngredientID(chi.URLParam(r, "id"))
	var req RestockRequest
	if r.Body != nil {
		// Empty body means "restock to batch quantity".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	var target *decimal.Decimal
	if req.Target != nil {
		t := decimal.NewFromFloat(*req.Target)
		target = &t
	}
	newQty, err := pos.NewInventory(h.Store).Restock(r.Context(), id, target)
	if err != nil {
		h.writeDomainError(w, "Failed to restock", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totalQuantity": f64(newQty)})
}

// ListLowStock returns ingredients at or below their low-stock threshold.
func (h *Handler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	low, err := pos.NewInventory(h.Store).LowStock(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list low stock", err)
		return
	}
	writeJSON(w, http.StatusOK, toIngredientDTOs(low))
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns all products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list products", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(products))
}

// CreateProduct creates a product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	p, err := h.Catalog.AddProduct(r.Context(), toProductInput(req))
	if err != nil {
		h.writeDomainError(w, "Failed to create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(*p))
}

// GetProduct returns a single product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := pos.ProductID(chi.URLParam(r, "id"))
	p, err := h.Store.GetProduct(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get product", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*p))
}

// UpdateProduct edits a product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := pos.ProductID(chi.URLParam(r, "id"))
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	p, err := h.Catalog.UpdateProduct(r.Context(), id, toProductInput(req))
	if err != nil {
		h.writeDomainError(w, "Failed to update product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*p))
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := pos.ProductID(chi.URLParam(r, "id"))
	if err := h.Catalog.DeleteProduct(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProductCost returns the product's per-unit ingredient cost, derived
// from current ingredient state at request time.
func (h *Handler) GetProductCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := pos.ProductID(chi.URLParam(r, "id"))

	p, err := h.Store.GetProduct(ctx, id)
	if err != nil {
		h.writeDomainError(w, "Failed to get product", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	ingredients, err := h.Store.ListIngredients(ctx)
	if err != nil {
		h.writeDomainError(w, "Failed to list ingredients", err)
		return
	}
	byID := make(map[pos.IngredientID]pos.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}
	lines := pos.BuildCostSnapshot(p.Recipe, byID, 1)
	writeJSON(w, http.StatusOK, ProductCostDTO{
		ProductID: string(p.ID),
		Cost:      f64(pos.ProductCost(p.Recipe, byID)),
		Lines:     toCostLineDTOs(lines),
	})
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

// ListSales returns the current session's sale log. In demo mode the demo
// log is returned instead, flagged as such.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	demo := h.demoMode(r)
	var (
		sales []pos.Sale
		err   error
	)
	if demo {
		sales, err = h.Store.ListDemoSales(r.Context())
	} else {
		sales, err = h.Store.ListSales(r.Context())
	}
	if err != nil {
		h.writeDomainError(w, "Failed to list sales", err)
		return
	}
	dtos := make([]SaleDTO, len(sales))
	for i, s := range sales {
		dtos[i] = toSaleDTO(s, demo)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ProcessSale commits one sale. When demo mode is on the sale runs through
// the dry-run path: same validation, no inventory deduction, separate log.
func (h *Handler) ProcessSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	in := pos.SaleInput{
		ProductID:   pos.ProductID(req.ProductID),
		Quantity:    req.Quantity,
		PaymentType: req.PaymentType,
	}
	mode := h.resolveMode(r)
	demo := h.demoMode(r)

	var (
		sale *pos.Sale
		err  error
	)
	if demo {
		sale, err = h.Register.ProcessDemoSale(r.Context(), mode, in)
	} else {
		sale, err = h.Register.ProcessSale(r.Context(), mode, in)
	}
	if err != nil {
		h.writeDomainError(w, "Failed to process sale", err)
		return
	}
	h.Log.Infow("sale processed",
		"saleId", sale.ID, "product", sale.ProductName,
		"quantity", sale.Units(), "demo", demo)
	writeJSON(w, http.StatusCreated, toSaleDTO(*sale, demo))
}

// ProcessDemoSale records a dry-run sale regardless of the demo setting.
func (h *Handler) ProcessDemoSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	sale, err := h.Register.ProcessDemoSale(r.Context(), h.resolveMode(r), pos.SaleInput{
		ProductID:   pos.ProductID(req.ProductID),
		Quantity:    req.Quantity,
		PaymentType: req.PaymentType,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to process demo sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(*sale, true))
}

// UndoLastSale reverses the most recent sale. Returns 409 when there is
// nothing to undo.
func (h *Handler) UndoLastSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.Register.UndoLastSale(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to undo sale", err)
		return
	}
	h.Log.Infow("sale undone", "saleId", sale.ID, "product", sale.ProductName)
	writeJSON(w, http.StatusOK, toSaleDTO(*sale, false))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetSummary returns the session rollup under the resolved costing mode.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Reporter.Summary(r.Context(), h.resolveMode(r))
	if err != nil {
		h.writeDomainError(w, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// GetBreakdown returns the per-product rollup of the session.
func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.Reporter.Breakdown(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute breakdown", err)
		return
	}
	dtos := make([]BreakdownDTO, len(breakdown))
	for i, b := range breakdown {
		dtos[i] = BreakdownDTO{
			ProductID:   string(b.ProductID),
			ProductName: b.ProductName,
			Count:       b.Count,
			Revenue:     f64(b.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStockChanges returns per-ingredient deltas against the last snapshot.
func (h *Handler) GetStockChanges(w http.ResponseWriter, r *http.Request) {
	changes, err := pos.NewInventory(h.Store).StockChanges(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to compute stock changes", err)
		return
	}
	dtos := make([]StockChangeDTO, len(changes))
	for i, c := range changes {
		dtos[i] = StockChangeDTO{
			IngredientID: string(c.IngredientID),
			Name:         c.Name,
			OldQuantity:  f64(c.Old),
			NewQuantity:  f64(c.New),
			Change:       f64(c.Change),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// ListEvents returns the closed-event history.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	history, err := h.Store.ListEventHistory(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list events", err)
		return
	}
	dtos := make([]EventDTO, len(history))
	for i, ev := range history {
		dtos[i] = toEventDTO(ev)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetActiveEvent returns the active event, or 404 when none is running.
func (h *Handler) GetActiveEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Store.ActiveEvent(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to get active event", err)
		return
	}
	if ev == nil {
		writeError(w, http.StatusNotFound, "No active event", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(*ev))
}

// StartEvent opens a selling session.
func (h *Handler) StartEvent(w http.ResponseWriter, r *http.Request) {
	var req StartEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ev, err := h.Register.StartEvent(r.Context(), pos.EventInput{
		Name:          req.Name,
		FixedCost:     decimal.NewFromFloat(req.FixedCost),
		PlannedOutput: req.PlannedOutput,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to start event", err)
		return
	}
	h.Log.Infow("event started", "eventId", ev.ID, "name", ev.Name)
	writeJSON(w, http.StatusCreated, toEventDTO(*ev))
}

// EndEvent closes the active session and records its final summary.
func (h *Handler) EndEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Register.EndEvent(r.Context(), h.resolveMode(r))
	if err != nil {
		h.writeDomainError(w, "Failed to end event", err)
		return
	}
	h.Log.Infow("event ended", "eventId", ev.ID, "name", ev.Name)
	writeJSON(w, http.StatusOK, toEventDTO(*ev))
}

// ResetSession clears the sales and demo logs without touching the
// catalogs or the active event.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Register.ResetSession(r.Context()); err != nil {
		h.writeDomainError(w, "Failed to reset session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the stored settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{
		Theme:       settings.Theme,
		DemoMode:    settings.DemoMode,
		CostingMode: string(settings.CostingMode),
	})
}

// UpdateSettings stores new settings. An unrecognized costing mode is
// rejected; an empty one falls back to the server default at read time.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	mode := pos.CostingMode(req.CostingMode)
	if req.CostingMode != "" && !mode.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown costing mode", nil)
		return
	}
	settings := pos.Settings{
		Theme:       req.Theme,
		DemoMode:    req.DemoMode,
		CostingMode: mode,
	}
	if err := h.Store.SaveSettings(r.Context(), settings); err != nil {
		h.writeDomainError(w, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// EXPORT / IMPORT HANDLERS
// =============================================================================

// ExportData returns the full lossless snapshot of ingredients, products
// and sales. This bypasses the float64 DTO layer on purpose.
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	snap, err := pos.Export(r.Context(), h.Store)
	if err != nil {
		h.writeDomainError(w, "Failed to export", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ImportData overwrites the stored record sets with the posted snapshot.
// Record sets absent from the payload are left untouched.
func (h *Handler) ImportData(w http.ResponseWriter, r *http.Request) {
	var snap pos.ExportSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := pos.Import(r.Context(), h.Store, snap); err != nil {
		h.writeDomainError(w, "Failed to import", err)
		return
	}
	h.Log.Infow("data imported",
		"ingredients", len(snap.Ingredients),
		"products", len(snap.Products),
		"sales", len(snap.Sales))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// writeDomainError maps domain errors onto HTTP statuses and codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var (
		stockErr    *pos.InsufficientStockError
		danglingErr *pos.DanglingReferenceError
		valErr      *pos.ValidationError
	)
	switch {
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: stockErr.Error(),
			Code:  "insufficient_stock",
			Details: map[string]any{
				"ingredientId":   string(stockErr.IngredientID),
				"ingredientName": stockErr.IngredientName,
				"required":       f64(stockErr.Required),
				"remaining":      f64(stockErr.Remaining),
			},
		})
	case errors.As(err, &danglingErr):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   danglingErr.Error(),
			Code:    "ingredient_referenced",
			Details: map[string]any{"products": danglingErr.Products},
		})
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   valErr.Error(),
			Code:    "validation",
			Details: map[string]any{"field": valErr.Field},
		})
	case errors.Is(err, pos.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "Quantity must be at least 1", err)
	case errors.Is(err, pos.ErrIngredientNotFound),
		errors.Is(err, pos.ErrProductNotFound),
		errors.Is(err, pos.ErrSaleNotFound):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, pos.ErrNothingToUndo),
		errors.Is(err, pos.ErrNoActiveEvent),
		errors.Is(err, pos.ErrEventActive),
		errors.Is(err, pos.ErrProductInactive),
		errors.Is(err, pos.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err.Error(), nil)
	default:
		h.Log.Errorw(message, "error", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
