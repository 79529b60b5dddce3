// Package checkout turns a cart into an order, charging the card first when
// the customer pays by card.
package checkout

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MikeMC777/choco-delisias/internal/address"
	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/cart"
	"github.com/MikeMC777/choco-delisias/internal/money"
	"github.com/MikeMC777/choco-delisias/internal/order"
	"github.com/MikeMC777/choco-delisias/internal/payment"
)

// Command is one checkout attempt. UserID always comes from the authenticated
// session, never from the request body.
type Command struct {
	UserID          string
	Lines           []order.Line
	AddressID       string
	PaymentMethod   string
	ShippingCost    money.Minor
	CardSourceToken string
	CustomerEmail   string
	CustomerName    string
	Notes           string
	IdempotencyKey  string
}

type Result struct {
	Order     *order.Order
	OrderID   string
	Total     money.Minor
	PaymentID string
	// Replayed is set when an earlier attempt with the same idempotency key
	// already produced this order.
	Replayed bool
}

type Orders interface {
	Create(ctx context.Context, p order.CreateParams) (*order.Order, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*order.Order, error)
}

type Addresses interface {
	Get(ctx context.Context, id, userID string) (*address.Address, error)
}

type Options struct {
	Currency       string
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

type Service struct {
	orders    Orders
	prices    order.Pricer
	addresses Addresses
	gateway   payment.Gateway
	carts     cart.Store
	currency  string

	tracer   trace.Tracer
	attempts metric.Int64Counter
}

func NewService(orders Orders, prices order.Pricer, addresses Addresses, gateway payment.Gateway, carts cart.Store, opts Options) (*Service, error) {
	if opts.Currency == "" {
		opts.Currency = "PEN"
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = otel.GetMeterProvider()
	}

	attempts, err := opts.MeterProvider.Meter("checkout").Int64Counter("checkout.attempts",
		metric.WithDescription("Checkout attempts by payment method and outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create checkout counter")
	}

	return &Service{
		orders:    orders,
		prices:    prices,
		addresses: addresses,
		gateway:   gateway,
		carts:     carts,
		currency:  opts.Currency,
		tracer:    opts.TracerProvider.Tracer("checkout"),
		attempts:  attempts,
	}, nil
}

func (s *Service) Checkout(ctx context.Context, cmd Command) (res *Result, err error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Checkout",
		trace.WithAttributes(attribute.String("payment.method", cmd.PaymentMethod)))
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = apperr.CodeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		s.attempts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("payment.method", cmd.PaymentMethod),
			attribute.String("outcome", outcome),
		))
		span.End()
	}()

	if cmd.UserID == "" {
		return nil, ErrMissingOwner
	}
	lg := zctx.From(ctx).With(zap.String("user_id", cmd.UserID))

	lines := cmd.Lines
	if len(lines) == 0 && s.carts != nil {
		c, err := s.carts.Load(ctx, cmd.UserID)
		if err != nil {
			return nil, errors.Wrap(err, "load cart")
		}
		lines = c.OrderLines()
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(cmd.AddressID) == "" {
		return nil, ErrMissingAddress
	}
	if strings.TrimSpace(cmd.PaymentMethod) == "" {
		return nil, ErrMissingPaymentMethod
	}
	method, err := order.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if cmd.ShippingCost.IsNegative() {
		return nil, order.ErrNegativeShippingCost
	}
	if method == order.PaymentCard && strings.TrimSpace(cmd.CardSourceToken) == "" {
		return nil, ErrMissingCardToken
	}

	if cmd.IdempotencyKey != "" {
		if prev, err := s.replay(ctx, cmd.UserID, cmd.IdempotencyKey); err != nil || prev != nil {
			return prev, err
		}
	}

	params := order.CreateParams{
		UserID:         cmd.UserID,
		AddressID:      cmd.AddressID,
		Lines:          lines,
		ShippingCost:   cmd.ShippingCost,
		PaymentMethod:  method,
		PaymentStatus:  order.PaymentUnset,
		Status:         order.StatusPending,
		Notes:          strings.TrimSpace(cmd.Notes),
		IdempotencyKey: cmd.IdempotencyKey,
	}

	var charge *payment.ChargeResult
	if method == order.PaymentCard {
		if params.IdempotencyKey == "" {
			params.IdempotencyKey = uuid.NewString()
		}
		span.SetAttributes(attribute.String("idempotency.key", params.IdempotencyKey))

		if _, err := s.addresses.Get(ctx, cmd.AddressID, cmd.UserID); err != nil {
			if errors.Is(err, address.ErrNotFound) {
				return nil, order.ErrInvalidAddress
			}
			return nil, errors.Wrap(err, "check address")
		}
		quote, err := order.Reprice(ctx, s.prices, lines, cmd.ShippingCost)
		if err != nil {
			return nil, err
		}
		charge, err = s.charge(ctx, cmd, quote.Total, params.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		params.Status = order.StatusProcessing
		params.PaymentStatus = order.PaymentPaid
		params.ExpectedTotal = quote.Total
		params.PaymentReference = charge.ChargeID
		params.PaymentReferenceCode = charge.ReferenceCode
	}

	o, err := s.orders.Create(ctx, params)
	if err != nil {
		if errors.Is(err, order.ErrDuplicateIdempotency) {
			if prev, rerr := s.replay(ctx, cmd.UserID, params.IdempotencyKey); rerr == nil && prev != nil {
				return prev, nil
			}
		}
		if charge != nil {
			rec := &ReconciliationError{
				ChargeID:       charge.ChargeID,
				ReferenceCode:  charge.ReferenceCode,
				IdempotencyKey: params.IdempotencyKey,
				Err:            err,
			}
			lg.Error("Order not recorded after successful charge",
				zap.String("charge_id", charge.ChargeID),
				zap.String("reference_code", charge.ReferenceCode),
				zap.String("idempotency_key", params.IdempotencyKey),
				zap.Error(err),
			)
			return nil, rec
		}
		return nil, err
	}

	s.clearCart(ctx, lg, cmd.UserID)
	lg.Info("Order placed",
		zap.String("order_id", o.ID),
		zap.String("payment_method", string(method)),
		zap.Stringer("total", o.Total),
	)

	res = &Result{Order: o, OrderID: o.ID, Total: o.Total}
	if charge != nil {
		res.PaymentID = charge.ChargeID
	}
	return res, nil
}

// charge runs the card payment. An unreachable provider gets exactly one
// reconciliation lookup by idempotency key before giving up.
func (s *Service) charge(ctx context.Context, cmd Command, amount money.Minor, key string) (*payment.ChargeResult, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.charge")
	defer span.End()

	req := payment.ChargeRequest{
		Amount:         amount,
		Currency:       s.currency,
		Email:          cmd.CustomerEmail,
		CustomerName:   cmd.CustomerName,
		Description:    "Pedido Choco Delisias",
		SourceToken:    cmd.CardSourceToken,
		IdempotencyKey: key,
		Metadata:       map[string]string{"user_id": cmd.UserID},
	}

	res, err := s.gateway.Charge(ctx, req)
	if errors.Is(err, payment.ErrGatewayUnreachable) {
		lg := zctx.From(ctx)
		lg.Warn("Payment provider unreachable, reconciling", zap.String("idempotency_key", key), zap.Error(err))
		rec, lerr := s.gateway.Lookup(ctx, key)
		if lerr != nil {
			if !errors.Is(lerr, payment.ErrChargeNotFound) {
				lg.Warn("Reconciliation lookup failed", zap.String("idempotency_key", key), zap.Error(lerr))
			}
			return nil, &UnreachableError{IdempotencyKey: key, Err: err}
		}
		res, err = rec, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "charge card")
	}
	if !res.Success {
		return nil, &DeclinedError{Reason: res.Reason, Code: res.Code, ChargeID: res.ChargeID}
	}
	span.SetAttributes(attribute.String("charge.id", res.ChargeID))
	return res, nil
}

func (s *Service) replay(ctx context.Context, userID, key string) (*Result, error) {
	prev, err := s.orders.GetByIdempotencyKey(ctx, userID, key)
	if errors.Is(err, order.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "lookup idempotent order")
	}
	return &Result{
		Order:     prev,
		OrderID:   prev.ID,
		Total:     prev.Total,
		PaymentID: prev.PaymentReference,
		Replayed:  true,
	}, nil
}

// clearCart is best effort: the order already exists.
func (s *Service) clearCart(ctx context.Context, lg *zap.Logger, userID string) {
	if s.carts == nil {
		return
	}
	if err := s.carts.Delete(ctx, userID); err != nil {
		lg.Warn("Clear cart failed", zap.Error(err))
	}
}
