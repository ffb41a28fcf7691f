/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND QUANTITIES:
  The domain computes with decimals; the API speaks float64, converted at
  this boundary only. Export/import bypass the DTO layer entirely and use
  the domain's lossless snapshot format.

DERIVED VALUES:
  IngredientDTO.UnitCost and ProductCostDTO are computed on conversion,
  never read from storage. There is nothing stored to read.

SEE ALSO:
  - handlers.go: Uses these types
  - pos/costing.go: UnitCost / ProductCost
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stallworks/booth-engine/pos"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// IngredientDTO represents an ingredient batch in API responses. UnitCost
// is derived from the current totals on every conversion.
type IngredientDTO struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Unit              string   `json:"unit,omitempty"`
	TrackCost         bool     `json:"trackCost"`
	TotalCost         float64  `json:"totalCost"`
	TotalQuantity     float64  `json:"totalQuantity"`
	BatchQuantity     float64  `json:"batchQuantity"`
	UnitCost          float64  `json:"unitCost"`
	LowStock          bool     `json:"lowStock"`
	LowStockThreshold *float64 `json:"lowStockThreshold,omitempty"`
	CreatedAt         string   `json:"createdAt,omitempty"`
	UpdatedAt         string   `json:"updatedAt,omitempty"`
}

// IngredientRequest is the request to create or update an ingredient.
type IngredientRequest struct {
	Name              string   `json:"name"`
	Unit              string   `json:"unit"`
	TrackCost         bool     `json:"trackCost"`
	TotalCost         float64  `json:"totalCost"`
	TotalQuantity     float64  `json:"totalQuantity"`
	BatchQuantity     *float64 `json:"batchQuantity,omitempty"`
	LowStockThreshold *float64 `json:"lowStockThreshold,omitempty"`
}

// AdjustStockRequest applies a signed quantity delta to one ingredient.
type AdjustStockRequest struct {
	Delta float64 `json:"delta"`
}

// RestockRequest tops an ingredient back up. A nil target means the
// recorded batch quantity.
type RestockRequest struct {
	Target *float64 `json:"target,omitempty"`
}

// RecipeLineDTO is one ingredient requirement of a product.
type RecipeLineDTO struct {
	IngredientID string  `json:"ingredientId"`
	Quantity     float64 `json:"quantity"`
}

// ProductDTO represents a product in API responses.
type ProductDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SellingPrice float64         `json:"sellingPrice"`
	Active       bool            `json:"active"`
	Recipe       []RecipeLineDTO `json:"recipe"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
}

// ProductRequest is the request to create or update a product. Active
// defaults to true when omitted.
type ProductRequest struct {
	Name         string          `json:"name"`
	SellingPrice float64         `json:"sellingPrice"`
	Active       *bool           `json:"active,omitempty"`
	Recipe       []RecipeLineDTO `json:"recipe"`
}

// CostLineDTO is one ingredient's contribution to a cost.
type CostLineDTO struct {
	IngredientID   string  `json:"ingredientId"`
	IngredientName string  `json:"ingredientName"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit,omitempty"`
	UnitCost       float64 `json:"unitCost"`
	TotalCost      float64 `json:"totalCost"`
}

// ProductCostDTO is the derived per-unit ingredient cost of a product.
type ProductCostDTO struct {
	ProductID string        `json:"productId"`
	Cost      float64       `json:"cost"`
	Lines     []CostLineDTO `json:"lines"`
}

// SaleDTO represents a committed sale.
type SaleDTO struct {
	ID           string        `json:"id"`
	ProductID    string        `json:"productId"`
	ProductName  string        `json:"productName"`
	SellingPrice float64       `json:"sellingPrice"`
	Quantity     int           `json:"quantity"`
	PaymentType  string        `json:"paymentType,omitempty"`
	Cost         float64       `json:"cost"`
	CostSnapshot []CostLineDTO `json:"ingredientCostSnapshot,omitempty"`
	EventID      string        `json:"eventId,omitempty"`
	Demo         bool          `json:"demo,omitempty"`
	Timestamp    string        `json:"timestamp"`
}

// SaleRequest is the request to process a sale. Quantity 0 defaults to 1.
type SaleRequest struct {
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity,omitempty"`
	PaymentType string `json:"paymentType,omitempty"`
}

// SummaryDTO is the revenue/cost/profit rollup under one costing mode.
type SummaryDTO struct {
	Mode         string  `json:"mode"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalCost    float64 `json:"totalCost"`
	NetProfit    float64 `json:"netProfit"`
	ItemsSold    int     `json:"itemsSold"`
}

// BreakdownDTO aggregates sales of one product.
type BreakdownDTO struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Count       int     `json:"count"`
	Revenue     float64 `json:"revenue"`
}

// StockChangeDTO is one ingredient's delta against the last snapshot.
type StockChangeDTO struct {
	IngredientID string  `json:"ingredientId"`
	Name         string  `json:"name"`
	OldQuantity  float64 `json:"oldQuantity"`
	NewQuantity  float64 `json:"newQuantity"`
	Change       float64 `json:"change"`
}

// EventDTO represents a selling session.
type EventDTO struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	StartedAt     string      `json:"startedAt"`
	EndedAt       *string     `json:"endedAt,omitempty"`
	FixedCost     float64     `json:"fixedCost"`
	PlannedOutput int         `json:"plannedOutput,omitempty"`
	Status        string      `json:"status"`
	Result        *SummaryDTO `json:"result,omitempty"`
}

// StartEventRequest opens a selling session.
type StartEventRequest struct {
	Name          string  `json:"name"`
	FixedCost     float64 `json:"fixedCost"`
	PlannedOutput int     `json:"plannedOutput,omitempty"`
}

// SettingsDTO mirrors pos.Settings on the wire.
type SettingsDTO struct {
	Theme       string `json:"theme,omitempty"`
	DemoMode    bool   `json:"demoMode"`
	CostingMode string `json:"costingMode,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func f64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toIngredientDTO(ing pos.Ingredient) IngredientDTO {
	dto := IngredientDTO{
		ID:            string(ing.ID),
		Name:          ing.Name,
		Unit:          ing.Unit,
		TrackCost:     ing.TrackCost,
		TotalCost:     f64(ing.TotalCost),
		TotalQuantity: f64(ing.TotalQuantity),
		BatchQuantity: f64(ing.BatchQuantity),
		UnitCost:      f64(pos.UnitCost(ing)),
		LowStock:      ing.LowStock(),
		CreatedAt:     ing.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     ing.UpdatedAt.Format(time.RFC3339),
	}
	if ing.LowStockThreshold != nil {
		t := f64(*ing.LowStockThreshold)
		dto.LowStockThreshold = &t
	}
	return dto
}

func toIngredientDTOs(ings []pos.Ingredient) []IngredientDTO {
	dtos := make([]IngredientDTO, len(ings))
	for i, ing := range ings {
		dtos[i] = toIngredientDTO(ing)
	}
	return dtos
}

func toProductDTO(p pos.Product) ProductDTO {
	recipe := make([]RecipeLineDTO, len(p.Recipe))
	for i, line := range p.Recipe {
		recipe[i] = RecipeLineDTO{
			IngredientID: string(line.IngredientID),
			Quantity:     f64(line.Quantity),
		}
	}
	return ProductDTO{
		ID:           string(p.ID),
		Name:         p.Name,
		SellingPrice: f64(p.SellingPrice),
		Active:       p.Active,
		Recipe:       recipe,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}

func toProductDTOs(ps []pos.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(ps))
	for i, p := range ps {
		dtos[i] = toProductDTO(p)
	}
	return dtos
}

func toCostLineDTOs(lines []pos.CostLine) []CostLineDTO {
	if len(lines) == 0 {
		return nil
	}
	dtos := make([]CostLineDTO, len(lines))
	for i, line := range lines {
		dtos[i] = CostLineDTO{
			IngredientID:   string(line.IngredientID),
			IngredientName: line.IngredientName,
			Quantity:       f64(line.Quantity),
			Unit:           line.Unit,
			UnitCost:       f64(line.UnitCost),
			TotalCost:      f64(line.TotalCost),
		}
	}
	return dtos
}

func toSaleDTO(s pos.Sale, demo bool) SaleDTO {
	return SaleDTO{
		ID:           string(s.ID),
		ProductID:    string(s.ProductID),
		ProductName:  s.ProductName,
		SellingPrice: f64(s.SellingPrice),
		Quantity:     s.Units(),
		PaymentType:  s.PaymentType,
		Cost:         f64(s.Cost()),
		CostSnapshot: toCostLineDTOs(s.CostSnapshot),
		EventID:      string(s.EventID),
		Demo:         demo,
		Timestamp:    s.CreatedAt.Format(time.RFC3339),
	}
}

func toSummaryDTO(s pos.Summary) SummaryDTO {
	return SummaryDTO{
		Mode:         string(s.Mode),
		TotalRevenue: f64(s.TotalRevenue),
		TotalCost:    f64(s.TotalCost),
		NetProfit:    f64(s.NetProfit),
		ItemsSold:    s.ItemsSold,
	}
}

func toEventDTO(ev pos.Event) EventDTO {
	dto := EventDTO{
		ID:            string(ev.ID),
		Name:          ev.Name,
		StartedAt:     ev.StartedAt.Format(time.RFC3339),
		FixedCost:     f64(ev.FixedCost),
		PlannedOutput: ev.PlannedOutput,
		Status:        string(ev.Status),
	}
	if ev.EndedAt != nil {
		e := ev.EndedAt.Format(time.RFC3339)
		dto.EndedAt = &e
	}
	if ev.Result != nil {
		r := toSummaryDTO(*ev.Result)
		dto.Result = &r
	}
	return dto
}

func toRecipe(lines []RecipeLineDTO) []pos.RecipeLine {
	recipe := make([]pos.RecipeLine, len(lines))
	for i, line := range lines {
		recipe[i] = pos.RecipeLine{
			IngredientID: pos.IngredientID(line.IngredientID),
			Quantity:     decimal.NewFromFloat(line.Quantity),
		}
	}
	return recipe
}

func toIngredientInput(req IngredientRequest) pos.IngredientInput {
	in := pos.IngredientInput{
		Name:          req.Name,
		Unit:          req.Unit,
		TrackCost:     req.TrackCost,
		TotalCost:     decimal.NewFromFloat(req.TotalCost),
		TotalQuantity: decimal.NewFromFloat(req.TotalQuantity),
	}
	if req.BatchQuantity != nil {
		b := decimal.NewFromFloat(*req.BatchQuantity)
		in.BatchQuantity = &b
	}
	if req.LowStockThreshold != nil {
		t := decimal.NewFromFloat(*req.LowStockThreshold)
		in.LowStockThreshold = &t
	}
	return in
}

func toProductInput(req ProductRequest) pos.ProductInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return pos.ProductInput{
		Name:         req.Name,
		SellingPrice: decimal.NewFromFloat(req.SellingPrice),
		Active:       active,
		Recipe:       toRecipe(req.Recipe),
	}
}
