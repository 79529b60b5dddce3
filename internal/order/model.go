package order

import (
	"time"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/money"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var ErrInvalidStatus = apperr.New(apperr.KindValidation, "invalid_status", "status must be one of pending, processing, completed, cancelled")

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// transitions: pending -> processing -> completed, and pending|processing -> cancelled.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// predecessors lists the states from which next can be reached.
func predecessors(next Status) []string {
	var out []string
	for from, tos := range transitions {
		for _, to := range tos {
			if to == next {
				out = append(out, string(from))
			}
		}
	}
	return out
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

var ErrInvalidPaymentMethod = apperr.New(apperr.KindValidation, "invalid_payment_method", "paymentMethod must be one of cash, card, transfer")

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return m, nil
	}
	return "", ErrInvalidPaymentMethod
}

type PaymentStatus string

const (
	PaymentUnset    PaymentStatus = "unset"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is an immutable record of what was bought and at which price.
// swagger:model
type Order struct {
	ID                   string        `json:"id"`
	UserID               string        `json:"userId"`
	AddressID            *string       `json:"addressId"`
	Items                []Item        `json:"items,omitempty"`
	Subtotal             money.Minor   `json:"subtotal"      swaggertype:"string" example:"25.00"`
	ShippingCost         money.Minor   `json:"shippingCost"  swaggertype:"string" example:"5.00"`
	Total                money.Minor   `json:"total"         swaggertype:"string" example:"30.00"`
	PaymentMethod        PaymentMethod `json:"paymentMethod" example:"cash"`
	PaymentStatus        PaymentStatus `json:"paymentStatus" example:"unset"`
	Status               Status        `json:"status"        example:"pending"`
	PaymentReference     string        `json:"paymentReference,omitempty"     example:"chr_live_3f9a"`
	PaymentReferenceCode string        `json:"paymentReferenceCode,omitempty" example:"REF8842"`
	Notes                string        `json:"notes,omitempty"`
	IdempotencyKey       string        `json:"-"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// Item is one order line with the price captured at purchase time.
type Item struct {
	ID        string      `json:"id"`
	OrderID   string      `json:"orderId"`
	ProductID int64       `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     money.Minor `json:"priceAtTimeOfOrder" swaggertype:"string" example:"12.50"`
}

// Line is a requested (product, quantity) pair before pricing.
type Line struct {
	ProductID int64
	Quantity  int
}
