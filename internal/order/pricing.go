package order

import (
	"context"
	"fmt"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/money"
)

// MaxQuantity is the most units of one product a single order line may carry.
const MaxQuantity = 999

var (
	ErrEmptyItems           = apperr.New(apperr.KindValidation, "empty_cart", "order has no items")
	ErrInvalidQuantity      = apperr.New(apperr.KindValidation, "invalid_quantity", "quantity must be between 1 and 999")
	ErrNegativeShippingCost = apperr.New(apperr.KindValidation, "invalid_shipping_cost", "shippingCost must not be negative")
	ErrAmountTooLarge       = apperr.New(apperr.KindValidation, "amount_too_large", "order total exceeds the maximum amount")
)

// ProductNotFoundError indicates a requested product does not exist or is inactive.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) ErrorKind() apperr.Kind { return apperr.KindValidation }
func (e *ProductNotFoundError) ErrorCode() string      { return "product_not_found" }
func (e *ProductNotFoundError) Details() map[string]any {
	return map[string]any{"productId": e.ProductID}
}

// Pricer looks up current prices. Absent ids are missing from the map.
type Pricer interface {
	Prices(ctx context.Context, ids []int64) (map[int64]money.Minor, error)
}

// Quote is a priced set of lines.
type Quote struct {
	Items        []Item
	Subtotal     money.Minor
	ShippingCost money.Minor
	Total        money.Minor
}

// Reprice prices lines against the current catalog. The ledger calls it inside
// its transaction and checkout calls it for the card charge amount.
func Reprice(ctx context.Context, p Pricer, lines []Line, shipping money.Minor) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyItems
	}
	if shipping.IsNegative() {
		return nil, ErrNegativeShippingCost
	}
	if shipping > money.Max {
		return nil, ErrAmountTooLarge
	}

	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 || l.Quantity > MaxQuantity {
			return nil, ErrInvalidQuantity
		}
		if _, ok := seen[l.ProductID]; !ok {
			seen[l.ProductID] = struct{}{}
			ids = append(ids, l.ProductID)
		}
	}

	prices, err := p.Prices(ctx, ids)
	if err != nil {
		return nil, err
	}

	q := &Quote{Items: make([]Item, 0, len(lines)), ShippingCost: shipping}
	for _, l := range lines {
		price, ok := prices[l.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: l.ProductID}
		}
		line, ok := price.Mul(l.Quantity)
		if !ok {
			return nil, ErrAmountTooLarge
		}
		if q.Subtotal, ok = q.Subtotal.Add(line); !ok {
			return nil, ErrAmountTooLarge
		}
		q.Items = append(q.Items, Item{ProductID: l.ProductID, Quantity: l.Quantity, Price: price})
	}
	total, ok := q.Subtotal.Add(q.ShippingCost)
	if !ok {
		return nil, ErrAmountTooLarge
	}
	q.Total = total
	return q, nil
}
