package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹ 0"},
		{"999", "₹ 999"},
		{"1000", "₹ 1,000"},
		{"82110", "₹ 82,110"},
		{"850000", "₹ 8,50,000"},
		{"12345678.9", "₹ 1,23,45,678.90"},
		{"37699.999623", "₹ 37,700"},
		{"0.125", "₹ 0.13"},
		{"-1500", "₹ -1,500"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatINR(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "69%", FormatPercent(decimal.RequireFromString("0.69")))
	assert.Equal(t, "7.5%", FormatPercent(decimal.RequireFromString("0.075")))
	assert.Equal(t, "100%", FormatPercent(decimal.NewFromInt(1)))
}
