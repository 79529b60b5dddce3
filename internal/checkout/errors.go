package checkout

import (
	"fmt"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
)

var (
	ErrEmptyCart            = apperr.New(apperr.KindValidation, "empty_cart", "cart is empty")
	ErrMissingAddress       = apperr.New(apperr.KindValidation, "missing_address", "a delivery address is required")
	ErrMissingPaymentMethod = apperr.New(apperr.KindValidation, "missing_payment_method", "a payment method is required")
	ErrMissingCardToken     = apperr.New(apperr.KindValidation, "missing_card_token", "card payments require a card source token")
	ErrMissingOwner         = apperr.New(apperr.KindAuth, "unauthenticated", "authentication required")
)

// DeclinedError carries the provider's decline message verbatim.
type DeclinedError struct {
	Reason   string
	Code     string
	ChargeID string
}

func (e *DeclinedError) Error() string          { return e.Reason }
func (e *DeclinedError) ErrorKind() apperr.Kind { return apperr.KindGateway }
func (e *DeclinedError) ErrorCode() string      { return "payment_declined" }
func (e *DeclinedError) Details() map[string]any {
	d := map[string]any{}
	if e.Code != "" {
		d["declineCode"] = e.Code
	}
	return d
}

// UnreachableError reports that the provider could not confirm the charge.
// The idempotency key lets the client retry without double charging.
type UnreachableError struct {
	IdempotencyKey string
	Err            error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("payment provider unreachable (idempotency key %s): %v", e.IdempotencyKey, e.Err)
}
func (e *UnreachableError) Unwrap() error          { return e.Err }
func (e *UnreachableError) ErrorKind() apperr.Kind { return apperr.KindGatewayUnavailable }
func (e *UnreachableError) ErrorCode() string      { return "gateway_unreachable" }
func (e *UnreachableError) Details() map[string]any {
	return map[string]any{"idempotencyKey": e.IdempotencyKey}
}

// ReconciliationError means the card was charged but the order was not
// recorded. Support uses ChargeID to refund or recreate the order.
type ReconciliationError struct {
	ChargeID       string
	ReferenceCode  string
	IdempotencyKey string
	Err            error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("charge %s succeeded but order was not saved: %v", e.ChargeID, e.Err)
}
func (e *ReconciliationError) Unwrap() error          { return e.Err }
func (e *ReconciliationError) ErrorKind() apperr.Kind { return apperr.KindPersistence }
func (e *ReconciliationError) ErrorCode() string      { return "order_not_recorded" }
func (e *ReconciliationError) Details() map[string]any {
	return map[string]any{"chargeId": e.ChargeID, "idempotencyKey": e.IdempotencyKey}
}
