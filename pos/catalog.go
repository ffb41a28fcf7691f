/*
catalog.go - Ingredient and product CRUD with save-time validation

PURPOSE:
  The write path for the two catalogs. Enforces the save-time rules the
  costing and inventory code relies on: a positive batch quantity whenever
  cost is tracked (so unit cost is well defined), non-empty recipes whose
  references exist, and the referential delete guard - an ingredient cannot
  be deleted while any product recipe references it.

SEE ALSO:
  - costing.go: the zero-divisor convention this validation keeps rare
  - errors.go: ValidationError, DanglingReferenceError
*/
package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog manages ingredient and product records.
type Catalog struct {
	store TxStore
	clock func() time.Time
	newID func() string
}

func NewCatalog(store TxStore) *Catalog {
	return &Catalog{
		store: store,
		clock: func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// IngredientInput carries the editable fields of an ingredient.
// BatchQuantity, when set on update, re-records the original batch size
// (e.g. after a re-purchase); on create the initial quantity is the batch.
type IngredientInput struct {
	Name              string
	Unit              string
	TrackCost         bool
	TotalCost         decimal.Decimal
	TotalQuantity     decimal.Decimal
	BatchQuantity     *decimal.Decimal
	LowStockThreshold *decimal.Decimal
}

func (in IngredientInput) validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if in.TotalQuantity.IsNegative() {
		return &ValidationError{Field: "totalQuantity", Reason: "must not be negative"}
	}
	if in.TrackCost {
		if !in.TotalQuantity.IsPositive() {
			return &ValidationError{Field: "totalQuantity", Reason: "must be positive when cost is tracked"}
		}
		if in.TotalCost.IsNegative() {
			return &ValidationError{Field: "totalCost", Reason: "must not be negative"}
		}
	}
	if in.LowStockThreshold != nil && in.LowStockThreshold.IsNegative() {
		return &ValidationError{Field: "lowStockThreshold", Reason: "must not be negative"}
	}
	if in.BatchQuantity != nil && !in.BatchQuantity.IsPositive() {
		return &ValidationError{Field: "batchQuantity", Reason: "must be positive"}
	}
	return nil
}

// AddIngredient creates an ingredient. The created quantity is recorded as
// the batch quantity unless one is supplied explicitly.
func (c *Catalog) AddIngredient(ctx context.Context, in IngredientInput) (*Ingredient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := c.clock()
	batch := in.TotalQuantity
	if in.BatchQuantity != nil {
		batch = *in.BatchQuantity
	}
	ing := Ingredient{
		ID:                IngredientID(c.newID()),
		Name:              in.Name,
		Unit:              in.Unit,
		TrackCost:         in.TrackCost,
		TotalCost:         in.TotalCost,
		TotalQuantity:     in.TotalQuantity,
		BatchQuantity:     batch,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if !ing.TrackCost {
		ing.TotalCost = decimal.Zero
	}
	if err := c.store.SaveIngredient(ctx, ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

// UpdateIngredient edits an existing ingredient. The batch quantity is kept
// unless the input re-records it.
func (c *Catalog) UpdateIngredient(ctx context.Context, id IngredientID, in IngredientInput) (*Ingredient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	ing, err := c.store.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, ErrIngredientNotFound
	}
	ing.Name = in.Name
	ing.Unit = in.Unit
	ing.TrackCost = in.TrackCost
	ing.TotalCost = in.TotalCost
	ing.TotalQuantity = in.TotalQuantity
	ing.LowStockThreshold = in.LowStockThreshold
	if in.BatchQuantity != nil {
		ing.BatchQuantity = *in.BatchQuantity
	}
	if !ing.TrackCost {
		ing.TotalCost = decimal.Zero
	}
	ing.UpdatedAt = c.clock()
	if err := c.store.SaveIngredient(ctx, *ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// DeleteIngredient removes an ingredient, refusing while any product recipe
// references it.
func (c *Catalog) DeleteIngredient(ctx context.Context, id IngredientID) error {
	return c.store.WithTx(ctx, func(s Store) error {
		ing, err := s.GetIngredient(ctx, id)
		if err != nil {
			return err
		}
		if ing == nil {
			return ErrIngredientNotFound
		}
		products, err := s.ListProducts(ctx)
		if err != nil {
			return err
		}
		var referencing []string
		for _, p := range products {
			for _, line := range p.Recipe {
				if line.IngredientID == id {
					referencing = append(referencing, p.Name)
					break
				}
			}
		}
		if len(referencing) > 0 {
			return &DanglingReferenceError{IngredientID: id, Products: referencing}
		}
		return s.DeleteIngredient(ctx, id)
	})
}

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name         string
	SellingPrice decimal.Decimal
	Active       bool
	Recipe       []RecipeLine
}

func (c *Catalog) validateProduct(ctx context.Context, in ProductInput) error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if in.SellingPrice.IsNegative() {
		return &ValidationError{Field: "sellingPrice", Reason: "must not be negative"}
	}
	if len(in.Recipe) == 0 {
		return &ValidationError{Field: "recipe", Reason: "must not be empty"}
	}
	ingredients, err := ingredientMap(ctx, c.store)
	if err != nil {
		return err
	}
	for _, line := range in.Recipe {
		if !line.Quantity.IsPositive() {
			return &ValidationError{Field: "recipe", Reason: "quantities must be positive"}
		}
		if _, ok := ingredients[line.IngredientID]; !ok {
			return &ValidationError{Field: "recipe", Reason: "unknown ingredient " + string(line.IngredientID)}
		}
	}
	return nil
}

// AddProduct creates a product. Recipe references are checked at save time.
func (c *Catalog) AddProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := c.validateProduct(ctx, in); err != nil {
		return nil, err
	}
	now := c.clock()
	p := Product{
		ID:           ProductID(c.newID()),
		Name:         in.Name,
		SellingPrice: in.SellingPrice,
		Active:       in.Active,
		Recipe:       cloneRecipe(in.Recipe),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.store.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct edits an existing product.
func (c *Catalog) UpdateProduct(ctx context.Context, id ProductID, in ProductInput) (*Product, error) {
	if err := c.validateProduct(ctx, in); err != nil {
		return nil, err
	}
	p, err := c.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	p.Name = in.Name
	p.SellingPrice = in.SellingPrice
	p.Active = in.Active
	p.Recipe = cloneRecipe(in.Recipe)
	p.UpdatedAt = c.clock()
	if err := c.store.SaveProduct(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product. No inventory side effects.
func (c *Catalog) DeleteProduct(ctx context.Context, id ProductID) error {
	p, err := c.store.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	return c.store.DeleteProduct(ctx, id)
}
