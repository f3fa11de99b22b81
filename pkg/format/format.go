// Package format renders numbers the way the dashboard displays them.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes BDT amounts.
const CurrencySymbol = "৳ "

var printer = message.NewPrinter(language.English)

// Int formats n with comma thousands separators.
func Int(n int64) string {
	return printer.Sprintf("%d", n)
}

// Number groups the integer part of d in thousands and keeps the fraction as is.
func Number(d decimal.Decimal) string {
	raw := d.String()
	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign, raw = "-", raw[1:]
	}
	whole, frac, hasFrac := strings.Cut(raw, ".")

	if intPart := d.Abs().Truncate(0); intPart.LessThanOrEqual(maxInt64) {
		whole = Int(intPart.IntPart())
	} else {
		whole = groupDigits(whole)
	}

	if hasFrac {
		return sign + whole + "." + frac
	}
	return sign + whole
}

// Currency renders amount in taka.
func Currency(amount decimal.Decimal) string {
	return CurrencySymbol + Number(amount)
}

// Percent renders d with the given number of decimal places and a percent sign.
func Percent(d decimal.Decimal, places int32) string {
	return d.StringFixed(places) + "%"
}

var maxInt64 = decimal.NewFromInt(1<<63 - 1)

func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
