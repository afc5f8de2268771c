package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"5", "5"},
		{"999", "999"},
		{"1000", "1,000"},
		{"1250.5", "1,250.5"},
		{"1250.50", "1,250.50"},
		{"123456789", "123,456,789"},
		{"1234567.89", "1,234,567.89"},
		{"-1250.75", "-1,250.75"},
		{"-999", "-999"},
		{"0.05", "0.05"},
	}

	for _, tc := range cases {
		got := FormatMoney(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got, "input %s", tc.in)
	}
}
