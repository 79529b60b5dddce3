package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/money"
)

// --- Mock implementations ---

type mapPricer struct {
	prices map[int64]money.Minor
	calls  [][]int64
	err    error
}

func (m *mapPricer) Prices(_ context.Context, ids []int64) (map[int64]money.Minor, error) {
	m.calls = append(m.calls, ids)
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]money.Minor)
	for _, id := range ids {
		if p, ok := m.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestReprice_TotalIsSubtotalPlusShipping(t *testing.T) {
	p := &mapPricer{prices: map[int64]money.Minor{7: 1250, 9: 300}}

	q, err := Reprice(context.Background(), p, []Line{{ProductID: 7, Quantity: 2}, {ProductID: 9, Quantity: 1}}, 500)
	require.NoError(t, err)

	assert.Equal(t, money.Minor(2800), q.Subtotal)
	assert.Equal(t, money.Minor(500), q.ShippingCost)
	assert.Equal(t, q.Subtotal+q.ShippingCost, q.Total)
	require.Len(t, q.Items, 2)
	assert.Equal(t, money.Minor(1250), q.Items[0].Price)

	var sum money.Minor
	for _, it := range q.Items {
		sum += it.Price.Times(it.Quantity)
	}
	assert.Equal(t, q.Subtotal, sum)
}

func TestReprice_DeduplicatesLookup(t *testing.T) {
	p := &mapPricer{prices: map[int64]money.Minor{7: 100}}

	q, err := Reprice(context.Background(), p, []Line{{ProductID: 7, Quantity: 1}, {ProductID: 7, Quantity: 2}}, 0)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(300), q.Total)
	require.Len(t, p.calls, 1)
	assert.Equal(t, []int64{7}, p.calls[0])
}

func TestReprice_Errors(t *testing.T) {
	p := &mapPricer{prices: map[int64]money.Minor{7: 100}}
	ctx := context.Background()

	_, err := Reprice(ctx, p, nil, 0)
	assert.ErrorIs(t, err, ErrEmptyItems)

	_, err = Reprice(ctx, p, []Line{{ProductID: 7, Quantity: 0}}, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Reprice(ctx, p, []Line{{ProductID: 7, Quantity: 1}}, -1)
	assert.ErrorIs(t, err, ErrNegativeShippingCost)

	_, err = Reprice(ctx, p, []Line{{ProductID: 8, Quantity: 1}}, 0)
	var nf *ProductNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(8), nf.ProductID)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	boom := errors.New("db down")
	_, err = Reprice(ctx, &mapPricer{err: boom}, []Line{{ProductID: 7, Quantity: 1}}, 0)
	assert.ErrorIs(t, err, boom)
}

func TestReprice_RejectsOversizedOrders(t *testing.T) {
	ctx := context.Background()
	p := &mapPricer{prices: map[int64]money.Minor{7: 4, 8: money.Max}}

	for name, lines := range map[string][]Line{
		"quantity past cap":  {{ProductID: 7, Quantity: MaxQuantity + 1}},
		"quantity near 2^62": {{ProductID: 7, Quantity: 1<<62 + 1}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Reprice(ctx, p, lines, 0)
			assert.ErrorIs(t, err, ErrInvalidQuantity)
		})
	}

	_, err := Reprice(ctx, p, []Line{{ProductID: 8, Quantity: 2}}, 0)
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	_, err = Reprice(ctx, p, []Line{{ProductID: 8, Quantity: 1}}, 1)
	assert.ErrorIs(t, err, ErrAmountTooLarge, "shipping pushes the total past the column limit")

	_, err = Reprice(ctx, p, []Line{{ProductID: 7, Quantity: 1}}, money.Max+1)
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	q, err := Reprice(ctx, p, []Line{{ProductID: 7, Quantity: MaxQuantity}}, 0)
	require.NoError(t, err)
	assert.Equal(t, money.Minor(4*MaxQuantity), q.Total)
}
