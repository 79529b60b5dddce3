package order

import "github.com/MikeMC777/choco-delisias/internal/money"

// CreateOrderItem payload de ítem.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"       example:"7"`
	Quantity  int   `json:"quantity"  binding:"required,gte=1,lte=999" example:"2"`
}

// CreateOrderRequest payload de checkout. When items is omitted the
// server-side cart is used.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items           []CreateOrderItem `json:"items"           binding:"omitempty,dive"`
	AddressID       string            `json:"addressId"       example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	PaymentMethod   string            `json:"paymentMethod"   example:"cash"`
	ShippingCost    money.Minor       `json:"shippingCost"    swaggertype:"string" example:"5.00"`
	CardSourceToken string            `json:"cardSourceToken" example:"tkn_test_x1Y2"`
	CustomerEmail   string            `json:"customerEmail"   example:"ana@example.pe"`
	CustomerName    string            `json:"customerName"    example:"Ana Quispe"`
	Notes           string            `json:"notes"           example:"Tocar el timbre"`
}

// Lines converts the requested items to ledger lines.
func (r CreateOrderRequest) Lines() []Line {
	out := make([]Line, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// CreateOrderResponse is returned by POST /orders.
// swagger:model CreateOrderResponse
type CreateOrderResponse struct {
	OrderID     string      `json:"orderId"     example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	TotalAmount money.Minor `json:"totalAmount" swaggertype:"string" example:"30.00"`
}

// ChargeRequest payload de cobro con tarjeta. Email and name default to the
// account's when omitted.
// swagger:model ChargeRequest
type ChargeRequest struct {
	Token         string            `json:"token"         example:"tkn_test_x1Y2"`
	Items         []CreateOrderItem `json:"items"         binding:"omitempty,dive"`
	AddressID     string            `json:"addressId"     example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	ShippingCost  money.Minor       `json:"shippingCost"  swaggertype:"string" example:"5.00"`
	CustomerEmail string            `json:"customerEmail" example:"ana@example.pe"`
	CustomerName  string            `json:"customerName"  example:"Ana Quispe"`
	Notes         string            `json:"notes"`
}

// Request maps a charge payload onto the generic checkout payload.
func (r ChargeRequest) Request() CreateOrderRequest {
	return CreateOrderRequest{
		Items:           r.Items,
		AddressID:       r.AddressID,
		PaymentMethod:   string(PaymentCard),
		ShippingCost:    r.ShippingCost,
		CardSourceToken: r.Token,
		CustomerEmail:   r.CustomerEmail,
		CustomerName:    r.CustomerName,
		Notes:           r.Notes,
	}
}

// ChargeResponse is returned by POST /payments/charge.
// swagger:model ChargeResponse
type ChargeResponse struct {
	OrderID   string `json:"orderId"   example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	PaymentID string `json:"paymentId" example:"chr_live_3f9a"`
}

// UpdateStatusRequest payload de cambio de estado.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"cancelled"`
}
