/*
handlers_test.go - HTTP-level tests for the API surface

Tests for:
- Sale processing, undo and error statuses over HTTP
- Demo-mode routing of POST /api/sales
- Ingredient deletion guard (409 while referenced)
- Derived product cost endpoint
- Settings and export/import round trip
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stallworks/booth-engine/api"
	"github.com/stallworks/booth-engine/pkg/logger"
	"github.com/stallworks/booth-engine/pos"
	"github.com/stallworks/booth-engine/pos/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testServer struct {
	router http.Handler
	store  *store.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mem := store.NewMemory()
	handler := api.NewHandler(mem, logger.Nop(), pos.CostPerUnit)
	return &testServer{router: api.NewRouter(handler), store: mem}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

// createWaffleStand posts a flour ingredient and a waffle product, returning
// their ids.
func (ts *testServer) createWaffleStand(t *testing.T) (ingredientID, productID string) {
	t.Helper()
	rec := ts.do(t, "POST", "/api/ingredients", map[string]any{
		"name": "Flour", "unit": "g", "trackCost": true,
		"totalCost": 7.80, "totalQuantity": 1000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ing := decodeJSON[api.IngredientDTO](t, rec)

	rec = ts.do(t, "POST", "/api/products", map[string]any{
		"name": "Waffle", "sellingPrice": 3.50,
		"recipe": []map[string]any{{"ingredientId": ing.ID, "quantity": 100}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decodeJSON[api.ProductDTO](t, rec)
	return ing.ID, p.ID
}

// =============================================================================
// SALES OVER HTTP
// =============================================================================

func TestAPI_ProcessSale_And_Undo(t *testing.T) {
	// GIVEN: A seeded waffle stand
	// WHEN: Selling one waffle and undoing it over HTTP
	// THEN: 201 with snapshot cost, then 200 undo, then 409 on second undo

	ts := newTestServer(t)
	ingID, productID := ts.createWaffleStand(t)

	rec := ts.do(t, "POST", "/api/sales", map[string]any{"productId": productID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decodeJSON[api.SaleDTO](t, rec)
	assert.InDelta(t, 0.78, sale.Cost, 0.0001)
	assert.InDelta(t, 3.50, sale.SellingPrice, 0.0001)
	assert.False(t, sale.Demo)

	rec = ts.do(t, "GET", "/api/ingredients/"+ingID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ing := decodeJSON[api.IngredientDTO](t, rec)
	assert.InDelta(t, 900, ing.TotalQuantity, 0.0001)

	rec = ts.do(t, "POST", "/api/sales/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, "POST", "/api/sales/undo", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "second undo has nothing to reverse")
}

func TestAPI_ProcessSale_InsufficientStock_409(t *testing.T) {
	ts := newTestServer(t)
	_, productID := ts.createWaffleStand(t)

	rec := ts.do(t, "POST", "/api/sales", map[string]any{"productId": productID, "quantity": 11})
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeJSON[api.ErrorResponse](t, rec)
	assert.Equal(t, "insufficient_stock", resp.Code)
}

func TestAPI_ProcessSale_BadRequests(t *testing.T) {
	ts := newTestServer(t)
	_, productID := ts.createWaffleStand(t)

	rec := ts.do(t, "POST", "/api/sales", map[string]any{"productId": productID, "quantity": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, "POST", "/api/sales", map[string]any{"productId": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_DemoModeSetting_RoutesSalesToDemoLog(t *testing.T) {
	// GIVEN: Demo mode switched on via settings
	// WHEN: Posting to the normal sales endpoint
	// THEN: The sale is flagged demo, inventory stays put

	ts := newTestServer(t)
	ingID, productID := ts.createWaffleStand(t)

	rec := ts.do(t, "PUT", "/api/settings", map[string]any{"demoMode": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, "POST", "/api/sales", map[string]any{"productId": productID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decodeJSON[api.SaleDTO](t, rec)
	assert.True(t, sale.Demo)

	rec = ts.do(t, "GET", "/api/ingredients/"+ingID, nil)
	ing := decodeJSON[api.IngredientDTO](t, rec)
	assert.InDelta(t, 1000, ing.TotalQuantity, 0.0001)

	// The demo log serves the sale list while demo mode is on.
	rec = ts.do(t, "GET", "/api/sales", nil)
	sales := decodeJSON[[]api.SaleDTO](t, rec)
	require.Len(t, sales, 1)
	assert.True(t, sales[0].Demo)
}

// =============================================================================
// CATALOG OVER HTTP
// =============================================================================

func TestAPI_DeleteIngredient_409WhileReferenced(t *testing.T) {
	ts := newTestServer(t)
	ingID, productID := ts.createWaffleStand(t)

	rec := ts.do(t, "DELETE", "/api/ingredients/"+ingID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeJSON[api.ErrorResponse](t, rec)
	assert.Equal(t, "ingredient_referenced", resp.Code)

	rec = ts.do(t, "DELETE", "/api/products/"+productID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, "DELETE", "/api/ingredients/"+ingID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAPI_GetProductCost_DerivedOnDemand(t *testing.T) {
	// GIVEN: A waffle costing 0.78 from current state
	// WHEN: The flour batch is re-priced and cost is fetched again
	// THEN: The derived cost moves with the new state

	ts := newTestServer(t)
	ingID, productID := ts.createWaffleStand(t)

	rec := ts.do(t, "GET", fmt.Sprintf("/api/products/%s/cost", productID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cost := decodeJSON[api.ProductCostDTO](t, rec)
	assert.InDelta(t, 0.78, cost.Cost, 0.0001)

	rec = ts.do(t, "PUT", "/api/ingredients/"+ingID, map[string]any{
		"name": "Flour", "unit": "g", "trackCost": true,
		"totalCost": 15.60, "totalQuantity": 1000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, "GET", fmt.Sprintf("/api/products/%s/cost", productID), nil)
	cost = decodeJSON[api.ProductCostDTO](t, rec)
	assert.InDelta(t, 1.56, cost.Cost, 0.0001)
}

func TestAPI_CreateIngredient_Validation400(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, "POST", "/api/ingredients", map[string]any{
		"name": "", "totalQuantity": 10,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[api.ErrorResponse](t, rec)
	assert.Equal(t, "validation", resp.Code)
}

func TestAPI_LowStock(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, "POST", "/api/ingredients", map[string]any{
		"name": "Sugar", "trackCost": true,
		"totalCost": 2.0, "totalQuantity": 50, "lowStockThreshold": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, "GET", "/api/ingredients/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	low := decodeJSON[[]api.IngredientDTO](t, rec)
	require.Len(t, low, 1)
	assert.True(t, low[0].LowStock)
}

// =============================================================================
// EVENTS AND REPORTS OVER HTTP
// =============================================================================

func TestAPI_EventLifecycle(t *testing.T) {
	ts := newTestServer(t)
	_, productID := ts.createWaffleStand(t)

	rec := ts.do(t, "GET", "/api/events/active", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, "POST", "/api/events/start", map[string]any{
		"name": "Fair", "fixedCost": 50.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, "POST", "/api/events/start", map[string]any{
		"name": "Second", "fixedCost": 1.0,
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "one event at a time")

	rec = ts.do(t, "POST", "/api/sales?mode=fixed_event", map[string]any{"productId": productID, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, "GET", "/api/reports/summary?mode=fixed_event", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeJSON[api.SummaryDTO](t, rec)
	assert.InDelta(t, 7.00, summary.TotalRevenue, 0.0001)
	assert.InDelta(t, 50.0, summary.TotalCost, 0.0001)
	assert.InDelta(t, -43.0, summary.NetProfit, 0.0001)

	rec = ts.do(t, "POST", "/api/events/end?mode=fixed_event", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	closed := decodeJSON[api.EventDTO](t, rec)
	assert.Equal(t, "closed", closed.Status)
	require.NotNil(t, closed.Result)
	assert.InDelta(t, -43.0, closed.Result.NetProfit, 0.0001)

	rec = ts.do(t, "GET", "/api/events", nil)
	history := decodeJSON[[]api.EventDTO](t, rec)
	assert.Len(t, history, 1)
}

func TestAPI_StockChanges(t *testing.T) {
	ts := newTestServer(t)
	_, productID := ts.createWaffleStand(t)

	rec := ts.do(t, "POST", "/api/events/start", map[string]any{"name": "Fair", "fixedCost": 0.0})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, "POST", "/api/sales", map[string]any{"productId": productID, "quantity": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, "GET", "/api/reports/stock-changes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	changes := decodeJSON[[]api.StockChangeDTO](t, rec)
	require.Len(t, changes, 1)
	assert.InDelta(t, -300, changes[0].Change, 0.0001)
}

// =============================================================================
// EXPORT / IMPORT OVER HTTP
// =============================================================================

func TestAPI_ExportImport_RoundTrip(t *testing.T) {
	ts := newTestServer(t)
	ts.createWaffleStand(t)

	rec := ts.do(t, "GET", "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decodeJSON[map[string]any](t, rec)
	require.Contains(t, snapshot, "ingredients")
	require.Contains(t, snapshot, "exportDate")

	fresh := newTestServer(t)
	rec = fresh.do(t, "POST", "/api/import", snapshot)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = fresh.do(t, "GET", "/api/ingredients", nil)
	ings := decodeJSON[[]api.IngredientDTO](t, rec)
	require.Len(t, ings, 1)
	assert.Equal(t, "Flour", ings[0].Name)
	assert.InDelta(t, 7.80, ings[0].TotalCost, 0.0001)

	rec = fresh.do(t, "GET", "/api/products", nil)
	products := decodeJSON[[]api.ProductDTO](t, rec)
	assert.Len(t, products, 1)
}
