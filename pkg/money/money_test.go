package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestVND(t *testing.T) {
	cases := map[string]string{
		"0":        "0 VND",
		"999":      "999 VND",
		"1000":     "1,000 VND",
		"1234567":  "1,234,567 VND",
		"-2500000": "-2,500,000 VND",
		"1499.6":   "1,500 VND",
	}
	for in, want := range cases {
		assert.Equal(t, want, VND(decimal.RequireFromString(in)), in)
	}
}
