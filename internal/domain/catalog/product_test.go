package catalog

import (
	"testing"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("Coffee Beans", decimal.NewFromFloat(12.50), 40)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "Coffee Beans", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(12.50)))
		assert.Equal(t, int64(40), product.Stock)
		assert.NotEmpty(t, product.ID)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("  ", decimal.NewFromInt(1), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("Coffee Beans", decimal.NewFromInt(-1), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Price cannot be negative")
	})

	t.Run("fails with negative stock", func(t *testing.T) {
		_, err := NewProduct("Coffee Beans", decimal.NewFromInt(1), -5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Stock cannot be negative")
	})
}

func TestProductStock(t *testing.T) {
	newProduct := func(stock int64) *Product {
		product, err := NewProduct("Tea", decimal.NewFromInt(3), stock)
		require.NoError(t, err)
		return product
	}

	t.Run("removes stock within availability", func(t *testing.T) {
		product := newProduct(10)
		require.NoError(t, product.RemoveStock(3))
		assert.Equal(t, int64(7), product.Stock)
	})

	t.Run("removes exactly the available stock", func(t *testing.T) {
		product := newProduct(10)
		require.NoError(t, product.RemoveStock(10))
		assert.Equal(t, int64(0), product.Stock)
	})

	t.Run("rejects oversell", func(t *testing.T) {
		product := newProduct(10)
		err := product.RemoveStock(11)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(10), product.Stock)
	})

	t.Run("rejects negative removal", func(t *testing.T) {
		product := newProduct(10)
		require.Error(t, product.RemoveStock(-1))
	})

	t.Run("adds stock back", func(t *testing.T) {
		product := newProduct(2)
		require.NoError(t, product.AddStock(5))
		assert.Equal(t, int64(7), product.Stock)
	})

	t.Run("applies signed deltas", func(t *testing.T) {
		product := newProduct(10)
		require.NoError(t, product.ApplyStockDelta(4))
		assert.Equal(t, int64(6), product.Stock)

		require.NoError(t, product.ApplyStockDelta(-2))
		assert.Equal(t, int64(8), product.Stock)

		err := product.ApplyStockDelta(9)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(8), product.Stock)
	})
}

func TestProductUpdate(t *testing.T) {
	product, err := NewProduct("Tea", decimal.NewFromInt(3), 5)
	require.NoError(t, err)

	require.NoError(t, product.Update("Green Tea", decimal.NewFromFloat(3.5), 8))
	assert.Equal(t, "Green Tea", product.Name)
	assert.True(t, product.Price.Equal(decimal.NewFromFloat(3.5)))
	assert.Equal(t, int64(8), product.Stock)

	require.Error(t, product.Update("", decimal.NewFromInt(1), 1))
	require.Error(t, product.Update("Green Tea", decimal.NewFromInt(-1), 1))
	require.Error(t, product.Update("Green Tea", decimal.NewFromInt(1), -1))
}
