package payment

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/order"
)

var (
	ErrMalformedEvent = apperr.New(apperr.KindValidation, "malformed_event", "event payload must be a JSON object with object and id")
)

// Event is the part of a provider notification the storefront acts on.
type Event struct {
	Object   string
	ID       string
	Type     string
	ChargeID string
}

// eventStatus maps provider event types to the payment status they imply.
var eventStatus = map[string]order.PaymentStatus{
	"charge.creation.succeeded": order.PaymentPaid,
	"charge.succeeded":          order.PaymentPaid,
	"charge.creation.failed":    order.PaymentFailed,
	"charge.failed":             order.PaymentFailed,
	"refund.creation.succeeded": order.PaymentRefunded,
	"charge.refunded":           order.PaymentRefunded,
}

// PaymentStatusSetter is the ledger operation webhooks drive.
type PaymentStatusSetter interface {
	SetPaymentStatusByReference(ctx context.Context, reference string, st order.PaymentStatus) (bool, error)
}

type WebhookHandler struct {
	orders PaymentStatusSetter
}

func NewWebhookHandler(orders PaymentStatusSetter) *WebhookHandler {
	return &WebhookHandler{orders: orders}
}

// Handle parses payload and applies the payment status it implies.
// Unknown event types and unknown charges are logged and acknowledged.
func (h *WebhookHandler) Handle(ctx context.Context, payload []byte) (*Event, error) {
	ev, err := ParseEvent(payload)
	if err != nil {
		return nil, err
	}
	lg := zctx.From(ctx).With(
		zap.String("event_id", ev.ID),
		zap.String("event_type", ev.Type),
		zap.String("charge_id", ev.ChargeID),
	)

	st, ok := eventStatus[ev.Type]
	if !ok {
		lg.Info("Ignoring payment event")
		return ev, nil
	}
	if ev.ChargeID == "" {
		lg.Warn("Payment event without charge id")
		return ev, nil
	}

	matched, err := h.orders.SetPaymentStatusByReference(ctx, ev.ChargeID, st)
	if err != nil {
		return nil, errors.Wrap(err, "apply payment event")
	}
	if !matched {
		lg.Warn("No order for charge", zap.String("payment_status", string(st)))
		return ev, nil
	}
	lg.Info("Payment status updated", zap.String("payment_status", string(st)))
	return ev, nil
}

// ParseEvent decodes a provider notification. The data member may be an
// object or a JSON-encoded string holding one.
func ParseEvent(payload []byte) (*Event, error) {
	ev := &Event{}
	d := jx.DecodeBytes(payload)
	if d.Next() != jx.Object {
		return nil, ErrMalformedEvent
	}
	var data []byte
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "object", "id", "type":
			if d.Next() != jx.String {
				return d.Skip()
			}
			v, err := d.Str()
			if err != nil {
				return err
			}
			switch key {
			case "object":
				ev.Object = v
			case "id":
				ev.ID = v
			default:
				ev.Type = v
			}
			return nil
		case "data":
			switch d.Next() {
			case jx.String:
				v, err := d.Str()
				data = []byte(v)
				return err
			case jx.Object:
				raw, err := d.Raw()
				data = append([]byte(nil), raw...)
				return err
			default:
				return d.Skip()
			}
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, errors.Wrap(ErrMalformedEvent, err.Error())
	}
	if ev.Object == "" || ev.ID == "" {
		return nil, ErrMalformedEvent
	}
	if len(data) > 0 {
		ev.ChargeID = chargeIDFrom(ev.Type, data)
	}
	return ev, nil
}

// chargeIDFrom picks the charge id out of the event data. Refund objects
// reference their charge through charge_id.
func chargeIDFrom(eventType string, data []byte) string {
	var id, chargeID string
	_ = jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if (key != "id" && key != "charge_id") || d.Next() != jx.String {
			return d.Skip()
		}
		v, err := d.Str()
		if key == "id" {
			id = v
		} else {
			chargeID = v
		}
		return err
	})
	if chargeID != "" && (eventType == "refund.creation.succeeded" || id == "") {
		return chargeID
	}
	return id
}
