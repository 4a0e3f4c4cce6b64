package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatINR renders an amount with the rupee sign and Indian digit grouping
// (12,34,567.89). Whole amounts drop the paise.
func FormatINR(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole, paise, _ := strings.Cut(rounded.StringFixed(2), ".")
	out := "₹ " + sign + groupIndian(whole)
	if paise != "00" {
		out += "." + paise
	}
	return out
}

// FormatPercent renders a fraction such as 0.075 as "7.5%".
func FormatPercent(fraction decimal.Decimal) string {
	return fraction.Mul(hundred).Round(2).String() + "%"
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
