package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/choco-delisias/internal/money"
	"github.com/MikeMC777/choco-delisias/internal/order"
)

var trufa = Item{ProductID: 7, Name: "Trufa de café", UnitPrice: 1250, Image: "trufa.png"}

func TestCart_AddMergesByProduct(t *testing.T) {
	var c Cart
	c.Add(trufa, 1)
	c.Add(trufa, 1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, money.Minor(2500), c.Total())
}

func TestCart_AddDefaultsToOne(t *testing.T) {
	var c Cart
	c.Add(trufa, 0)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestCart_SetQuantityAndRemove(t *testing.T) {
	var c Cart
	c.Add(trufa, 1)
	c.Add(Item{ProductID: 9, Name: "Bombón", UnitPrice: 300}, 2)

	c.SetQuantity(7, 3)
	assert.Equal(t, money.Minor(3*1250+2*300), c.Total())
	assert.Equal(t, 5, c.Count())

	c.SetQuantity(7, 0)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(9), c.Lines[0].ProductID)

	c.SetQuantity(42, 5)
	require.Len(t, c.Lines, 1)

	c.Remove(9)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, money.Zero, c.Total())
}

func TestCart_KeepsInsertionOrder(t *testing.T) {
	var c Cart
	c.Add(Item{ProductID: 3}, 1)
	c.Add(Item{ProductID: 1}, 1)
	c.Add(Item{ProductID: 3}, 1)

	assert.Equal(t, []order.Line{{ProductID: 3, Quantity: 2}, {ProductID: 1, Quantity: 1}}, c.OrderLines())
}

func TestCart_ClearAndView(t *testing.T) {
	var c Cart
	c.Add(trufa, 2)
	v := c.View()
	assert.Equal(t, 2, v.Count)
	assert.Equal(t, money.Minor(2500), v.Total)

	c.Clear()
	v = c.View()
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.Items)
	assert.Equal(t, money.Zero, v.Total)
}

func TestCart_QuantityIsCapped(t *testing.T) {
	var c Cart
	c.Add(trufa, order.MaxQuantity)
	c.Add(trufa, 5)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, order.MaxQuantity, c.Lines[0].Quantity)

	c.SetQuantity(7, 1<<40)
	assert.Equal(t, order.MaxQuantity, c.Lines[0].Quantity)

	c.SetQuantity(7, 3)
	assert.Equal(t, 3, c.Lines[0].Quantity)
}
