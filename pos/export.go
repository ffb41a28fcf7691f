/*
export.go - Full-snapshot backup and restore

PURPOSE:
  Exports {ingredients, products, sales, exportDate} as one JSON-shaped
  snapshot and imports the same shape wholesale - record sets present in
  the snapshot overwrite the stored ones completely, with no merge
  semantics. The round-trip is lossless for every persisted field.
*/
package pos

import (
	"context"
	"time"
)

// ExportSnapshot is the backup format. A nil slice means the record set was
// absent from the payload and is left untouched on import; an empty
// non-nil slice overwrites with nothing.
type ExportSnapshot struct {
	Ingredients []Ingredient `json:"ingredients"`
	Products    []Product    `json:"products"`
	Sales       []Sale       `json:"sales"`
	ExportDate  time.Time    `json:"exportDate"`
}

// Export captures the current ingredients, products and sales.
func Export(ctx context.Context, store Store) (*ExportSnapshot, error) {
	ingredients, err := store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	products, err := store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := store.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportSnapshot{
		Ingredients: ingredients,
		Products:    products,
		Sales:       sales,
		ExportDate:  time.Now().UTC(),
	}, nil
}

// Import overwrites the stored record sets with the snapshot's, atomically.
// The last-sale pointer is cleared whenever sales are replaced: the
// imported log has no "most recent commit" to undo.
func Import(ctx context.Context, store TxStore, snap ExportSnapshot) error {
	return store.WithTx(ctx, func(s Store) error {
		if snap.Ingredients != nil {
			if err := s.ReplaceIngredients(ctx, snap.Ingredients); err != nil {
				return err
			}
		}
		if snap.Products != nil {
			if err := s.ReplaceProducts(ctx, snap.Products); err != nil {
				return err
			}
		}
		if snap.Sales != nil {
			if err := s.ReplaceSales(ctx, snap.Sales); err != nil {
				return err
			}
			if err := s.SetLastSale(ctx, nil); err != nil {
				return err
			}
		}
		return nil
	})
}
