package payment

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/choco-delisias/internal/order"
)

// --- Mock implementations ---

type recordingSetter struct {
	ref     string
	status  order.PaymentStatus
	calls   int
	matched bool
	err     error
}

func (r *recordingSetter) SetPaymentStatusByReference(_ context.Context, ref string, st order.PaymentStatus) (bool, error) {
	r.calls++
	r.ref, r.status = ref, st
	return r.matched, r.err
}

func TestWebhook_DispatchesKnownTypes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		ref     string
		status  order.PaymentStatus
	}{
		{
			name:    "charge succeeded",
			payload: `{"object":"event","id":"evt_1","type":"charge.creation.succeeded","data":{"object":"charge","id":"chr_1"}}`,
			ref:     "chr_1", status: order.PaymentPaid,
		},
		{
			name:    "charge failed with stringified data",
			payload: `{"object":"event","id":"evt_2","type":"charge.creation.failed","data":"{\"object\":\"charge\",\"id\":\"chr_2\"}"}`,
			ref:     "chr_2", status: order.PaymentFailed,
		},
		{
			name:    "refund",
			payload: `{"object":"event","id":"evt_3","type":"refund.creation.succeeded","data":{"object":"refund","id":"ref_9","charge_id":"chr_3"}}`,
			ref:     "chr_3", status: order.PaymentRefunded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setter := &recordingSetter{matched: true}
			ev, err := NewWebhookHandler(setter).Handle(context.Background(), []byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, 1, setter.calls)
			assert.Equal(t, tt.ref, setter.ref)
			assert.Equal(t, tt.status, setter.status)
			assert.Equal(t, tt.ref, ev.ChargeID)
		})
	}
}

func TestWebhook_UnknownTypeIsIgnored(t *testing.T) {
	setter := &recordingSetter{}
	ev, err := NewWebhookHandler(setter).Handle(context.Background(),
		[]byte(`{"object":"event","id":"evt_9","type":"order.status.changed","data":{"id":"ord_1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "order.status.changed", ev.Type)
	assert.Zero(t, setter.calls)
}

func TestWebhook_UnmatchedChargeIsAcknowledged(t *testing.T) {
	setter := &recordingSetter{matched: false}
	_, err := NewWebhookHandler(setter).Handle(context.Background(),
		[]byte(`{"object":"event","id":"evt_1","type":"charge.succeeded","data":{"id":"chr_x"}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, setter.calls)
}

func TestWebhook_Malformed(t *testing.T) {
	for _, payload := range []string{
		``,
		`[]`,
		`{"id":"evt_1","type":"charge.succeeded"}`,
		`{"object":"event","type":"charge.succeeded"}`,
		`{"object":"event","id":`,
	} {
		_, err := NewWebhookHandler(&recordingSetter{}).Handle(context.Background(), []byte(payload))
		assert.ErrorIs(t, err, ErrMalformedEvent, "payload %q", payload)
	}
}

func TestWebhook_StoreFailure(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewWebhookHandler(&recordingSetter{err: boom}).Handle(context.Background(),
		[]byte(`{"object":"event","id":"evt_1","type":"charge.succeeded","data":{"id":"chr_1"}}`))
	assert.ErrorIs(t, err, boom)
}
