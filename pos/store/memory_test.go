package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stallworks/booth-engine/pos"
	"github.com/stallworks/booth-engine/pos/store"
)

func flour(qty string) pos.Ingredient {
	q, _ := decimal.NewFromString(qty)
	return pos.Ingredient{
		ID: "flour", Name: "Flour", TrackCost: true,
		TotalCost: decimal.NewFromInt(7), TotalQuantity: q, BatchQuantity: q,
	}
}

func TestMemory_WithTx_RollsBackOnError(t *testing.T) {
	// GIVEN: A store holding 1000g of flour
	// WHEN: A transaction mutates it and then fails
	// THEN: The mutation is rolled back completely

	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.SaveIngredient(ctx, flour("1000")))

	boom := errors.New("boom")
	err := mem.WithTx(ctx, func(s pos.Store) error {
		if err := s.SaveIngredient(ctx, flour("1")); err != nil {
			return err
		}
		if err := s.AppendSale(ctx, pos.Sale{ID: "s1", ProductID: "p", Quantity: 1}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ing, err := mem.GetIngredient(ctx, "flour")
	require.NoError(t, err)
	assert.True(t, ing.TotalQuantity.Equal(decimal.NewFromInt(1000)))

	sales, err := mem.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestMemory_WithTx_CommitsOnSuccess(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.SaveIngredient(ctx, flour("1000")))

	err := mem.WithTx(ctx, func(s pos.Store) error {
		// Replace* swaps the whole map header; commit must adopt it.
		return s.ReplaceIngredients(ctx, []pos.Ingredient{flour("250")})
	})
	require.NoError(t, err)

	ing, err := mem.GetIngredient(ctx, "flour")
	require.NoError(t, err)
	assert.True(t, ing.TotalQuantity.Equal(decimal.NewFromInt(250)))
}

func TestMemory_DeleteSale_NotFound(t *testing.T) {
	mem := store.NewMemory()
	assert.ErrorIs(t, mem.DeleteSale(context.Background(), "nope"), pos.ErrSaleNotFound)
}

func TestMemory_LastSale_ReturnsCopy(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	sale := pos.Sale{ID: "s1", ProductName: "Waffle"}
	require.NoError(t, mem.SetLastSale(ctx, &sale))

	got, err := mem.LastSale(ctx)
	require.NoError(t, err)
	got.ProductName = "Changed"

	again, err := mem.LastSale(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Waffle", again.ProductName)
}
