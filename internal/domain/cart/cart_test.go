package cart

import (
	"testing"

	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	userID := uuid.New()
	c := NewCart(userID)

	assert.Equal(t, userID, c.UserID)
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.TotalItems)
	assert.True(t, c.TotalPrice.IsZero())
	assert.Equal(t, 1, c.GetVersion())
}

func TestCartAddItem(t *testing.T) {
	productID := uuid.New()

	t.Run("adds a new line", func(t *testing.T) {
		c := NewCart(uuid.New())
		err := c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250))
		require.NoError(t, err)

		require.Len(t, c.Items, 1)
		assert.Equal(t, 2, c.TotalItems)
		assert.True(t, c.TotalPrice.Equal(decimal.NewFromInt(500)))
		assert.False(t, c.Items[0].AddedAt.IsZero())
	})

	t.Run("same product and size merges into one line", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250)))
		require.NoError(t, c.AddItem(productID, 3, "5kg", decimal.NewFromInt(250)))

		require.Len(t, c.Items, 1)
		assert.Equal(t, 5, c.Items[0].Quantity)
		assert.Equal(t, 5, c.TotalItems)
		assert.True(t, c.TotalPrice.Equal(decimal.NewFromInt(1250)))
	})

	t.Run("same product with different sizes stays separate", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, 1, "5kg", decimal.NewFromInt(250)))
		require.NoError(t, c.AddItem(productID, 1, "10kg", decimal.NewFromInt(450)))

		require.Len(t, c.Items, 2)
		assert.Equal(t, 2, c.TotalItems)
		assert.True(t, c.TotalPrice.Equal(decimal.NewFromInt(700)))
	})

	t.Run("rejects quantity below 1", func(t *testing.T) {
		c := NewCart(uuid.New())
		err := c.AddItem(productID, 0, "", decimal.NewFromInt(100))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 1")
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		c := NewCart(uuid.New())
		err := c.AddItem(productID, 1, "", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestCartUpdateItemQuantity(t *testing.T) {
	productID := uuid.New()

	t.Run("sets quantity and recomputes totals", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250)))

		require.NoError(t, c.UpdateItemQuantity(productID, "5kg", 7))
		assert.Equal(t, 7, c.TotalItems)
		assert.True(t, c.TotalPrice.Equal(decimal.NewFromInt(1750)))
	})

	t.Run("quantity zero removes the line", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250)))

		require.NoError(t, c.UpdateItemQuantity(productID, "5kg", 0))
		assert.True(t, c.IsEmpty())
		assert.True(t, c.TotalPrice.IsZero())
	})

	t.Run("negative quantity removes the line", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250)))

		require.NoError(t, c.UpdateItemQuantity(productID, "5kg", -3))
		assert.True(t, c.IsEmpty())
	})

	t.Run("missing line returns item not found", func(t *testing.T) {
		c := NewCart(uuid.New())
		err := c.UpdateItemQuantity(productID, "5kg", 2)
		assert.ErrorIs(t, err, shared.ErrItemNotFound)
	})

	t.Run("size must match", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250)))

		err := c.UpdateItemQuantity(productID, "10kg", 3)
		assert.ErrorIs(t, err, shared.ErrItemNotFound)
	})
}

func TestCartRemoveItem(t *testing.T) {
	productID := uuid.New()

	t.Run("removes matching line", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250)))
		require.NoError(t, c.AddItem(uuid.New(), 1, "", decimal.NewFromInt(99)))

		c.RemoveItem(productID, "5kg")
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.TotalItems)
		assert.True(t, c.TotalPrice.Equal(decimal.NewFromInt(99)))
	})

	t.Run("no-op when line is absent", func(t *testing.T) {
		c := NewCart(uuid.New())
		require.NoError(t, c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250)))

		c.RemoveItem(uuid.New(), "5kg")
		assert.Len(t, c.Items, 1)
		assert.Equal(t, 2, c.TotalItems)
	})
}

func TestCartClear(t *testing.T) {
	c := NewCart(uuid.New())
	require.NoError(t, c.AddItem(uuid.New(), 2, "", decimal.NewFromInt(100)))
	require.NoError(t, c.AddItem(uuid.New(), 3, "1kg", decimal.NewFromInt(50)))

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.TotalItems)
	assert.True(t, c.TotalPrice.IsZero())
}

func TestCartTotalsAlwaysConsistent(t *testing.T) {
	// Derived totals must equal the recomputation from lines after any mutation
	c := NewCart(uuid.New())
	p1, p2 := uuid.New(), uuid.New()

	require.NoError(t, c.AddItem(p1, 2, "5kg", decimal.NewFromFloat(19.99)))
	require.NoError(t, c.AddItem(p2, 1, "", decimal.NewFromInt(450)))
	require.NoError(t, c.UpdateItemQuantity(p1, "5kg", 4))
	c.RemoveItem(p2, "")

	wantItems := 0
	wantPrice := decimal.Zero
	for i := range c.Items {
		wantItems += c.Items[i].Quantity
		wantPrice = wantPrice.Add(c.Items[i].LineTotal())
	}
	assert.Equal(t, wantItems, c.TotalItems)
	assert.True(t, c.TotalPrice.Equal(wantPrice))
}

func TestCartFindItem(t *testing.T) {
	c := NewCart(uuid.New())
	productID := uuid.New()
	require.NoError(t, c.AddItem(productID, 2, "5kg", decimal.NewFromInt(250)))

	item := c.FindItem(productID, "5kg")
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity)

	assert.Nil(t, c.FindItem(productID, "10kg"))
	assert.Nil(t, c.FindItem(uuid.New(), "5kg"))
}
