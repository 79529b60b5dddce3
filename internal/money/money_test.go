package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Minor
		wantErr bool
	}{
		{in: "12.50", want: 1250},
		{in: "0.01", want: 1},
		{in: "30", want: 3000},
		{in: "5.00", want: 500},
		{in: "1.234", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinor_StringAndDecimal(t *testing.T) {
	m := Minor(3000)
	assert.Equal(t, "30.00", m.String())
	assert.True(t, m.Decimal().Equal(decimal.RequireFromString("30")))
	assert.Equal(t, Minor(1250), FromDecimal(decimal.RequireFromString("12.5")))
	assert.Equal(t, Minor(2500), Minor(1250).Times(2))
}

func TestMinor_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Minor `json:"total"`
	}{Total: 1999})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"19.99"}`, string(b))

	var in struct {
		A Minor `json:"a"`
		B Minor `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"5.00","b":12.5}`), &in))
	assert.Equal(t, Minor(500), in.A)
	assert.Equal(t, Minor(1250), in.B)
}

func TestMinor_CheckedArithmetic(t *testing.T) {
	got, ok := Minor(1250).Mul(3)
	require.True(t, ok)
	assert.Equal(t, Minor(3750), got)

	_, ok = Minor(4).Mul(1<<62 + 1)
	assert.False(t, ok, "product past Max")

	_, ok = Max.Mul(2)
	assert.False(t, ok)

	got, ok = Max.Mul(1)
	require.True(t, ok)
	assert.Equal(t, Max, got)

	_, ok = Minor(-1).Mul(1)
	assert.False(t, ok)

	got, ok = Minor(100).Add(250)
	require.True(t, ok)
	assert.Equal(t, Minor(350), got)

	_, ok = Max.Add(1)
	assert.False(t, ok)
}
