/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zap logger: Structured request logging
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/ingredients/*   Ingredient catalog and stock operations
  /api/products/*      Product catalog and derived costs
  /api/sales/*         Sale processing, demo sales, undo
  /api/reports/*       Summaries, breakdowns, stock changes
  /api/events/*        Event lifecycle and history
  /api/settings        Theme, demo mode, costing mode
  /api/export|import   Full-snapshot backup and restore

SECURITY NOTE:
  No authentication middleware. The engine targets a single operator on a
  trusted local network.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Ingredient routes
		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", h.ListIngredients)
			r.Post("/", h.CreateIngredient)
			r.Get("/low-stock", h.ListLowStock)
			r.Get("/{id}", h.GetIngredient)
			r.Put("/{id}", h.UpdateIngredient)
			r.Delete("/{id}", h.DeleteIngredient)
			r.Post("/{id}/adjust", h.AdjustStock)
			r.Post("/{id}/restock", h.Restock)
		})

		// Product routes
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
			r.Get("/{id}/cost", h.GetProductCost)
		})

		// Sale routes
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.ProcessSale)
			r.Post("/demo", h.ProcessDemoSale)
			r.Post("/undo", h.UndoLastSale)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/breakdown", h.GetBreakdown)
			r.Get("/stock-changes", h.GetStockChanges)
		})

		// Event routes
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/active", h.GetActiveEvent)
			r.Post("/start", h.StartEvent)
			r.Post("/end", h.EndEvent)
			r.Post("/reset", h.ResetSession)
		})

		// Settings
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		// Backup
		r.Get("/export", h.ExportData)
		r.Post("/import", h.ImportData)
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"requestId", middleware.GetReqID(r.Context()),
			)
		})
	}
}
