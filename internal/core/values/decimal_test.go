package values

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestExtractDecimal(t *testing.T) {
	tests := []struct {
		name  string
		data  map[string]interface{}
		field string
		want  decimal.Decimal
		ok    bool
	}{
		{name: "empty field name", data: map[string]interface{}{"value": 1}, field: "", ok: false},
		{name: "missing field", data: map[string]interface{}{"value": 1}, field: "missing", ok: false},
		{name: "float64", data: map[string]interface{}{"value": 12.5}, field: "value", want: decimal.RequireFromString("12.5"), ok: true},
		{name: "int", data: map[string]interface{}{"value": 7}, field: "value", want: decimal.NewFromInt(7), ok: true},
		{name: "json number", data: map[string]interface{}{"value": json.Number("3.10")}, field: "value", want: decimal.RequireFromString("3.1"), ok: true},
		{name: "numeric string", data: map[string]interface{}{"value": " 199.99 "}, field: "value", want: decimal.RequireFromString("199.99"), ok: true},
		{name: "non numeric string", data: map[string]interface{}{"value": "abc"}, field: "value", ok: false},
		{name: "bool rejected", data: map[string]interface{}{"value": true}, field: "value", ok: false},
		{name: "positive infinity rejected", data: map[string]interface{}{"value": math.Inf(1)}, field: "value", ok: false},
		{name: "NaN rejected", data: map[string]interface{}{"value": math.NaN()}, field: "value", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDecimal(tt.data, tt.field)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			}
		})
	}
}

func TestIsNumber(t *testing.T) {
	require.True(t, IsNumber(float64(1)))
	require.True(t, IsNumber(json.Number("1")))
	require.False(t, IsNumber("1"))
	require.False(t, IsNumber(true))
	require.False(t, IsNumber(math.Inf(-1)))
}

func TestFloat(t *testing.T) {
	f, ok := Float(decimal.RequireFromString("42.5"))
	require.True(t, ok)
	require.Equal(t, 42.5, f)

	_, ok = Float(decimal.RequireFromString("1e400"))
	require.False(t, ok)
}

func TestInt64(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
		ok   bool
	}{
		{name: "small", in: "42", want: 42, ok: true},
		{name: "max int64", in: "9223372036854775807", want: math.MaxInt64, ok: true},
		{name: "min int64", in: "-9223372036854775808", want: math.MinInt64, ok: true},
		{name: "overflow", in: "18446744073709551617", ok: false},
		{name: "negative overflow", in: "-9223372036854775809", ok: false},
		{name: "fractional", in: "3.5", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Int64(decimal.RequireFromString(tt.in))
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}
