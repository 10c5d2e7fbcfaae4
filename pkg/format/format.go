// Package format renders and parses numbers in the es-CO convention used
// across the product: "." groups thousands and "," marks decimals.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency renders a monetary value with thousands separators and no
// decimals, e.g. 3800000 -> "3.800.000".
func Currency(value float64) string {
	return Number(value, 0)
}

// Number renders a value with the given number of decimals,
// e.g. Number(1234.56, 2) -> "1.234,56".
func Number(value float64, decimals int) string {
	d := decimal.NewFromFloat(value)
	neg := d.IsNegative()
	if neg {
		d = d.Abs()
	}

	fixed := d.StringFixed(int32(decimals))
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(intPart))
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// Percent renders a percentage value, e.g. Percent(19, 1) -> "19,0%".
func Percent(value float64, decimals int) string {
	d := decimal.NewFromFloat(value)
	out := strings.ReplaceAll(d.StringFixed(int32(decimals)), ".", ",")
	return out + "%"
}

// Parse converts a locale-formatted string back to a float. Malformed
// input yields 0.0; user-typed numbers must never fault the caller.
func Parse(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0.0
	}

	hasComma := strings.Contains(text, ",")
	hasDot := strings.Contains(text, ".")

	switch {
	case hasComma && hasDot:
		// The rightmost separator is the decimal mark.
		if strings.LastIndex(text, ",") > strings.LastIndex(text, ".") {
			text = strings.ReplaceAll(text, ".", "")
			text = strings.ReplaceAll(text, ",", ".")
		} else {
			text = strings.ReplaceAll(text, ",", "")
		}
	case hasComma:
		text = normalizeSingleSeparator(text, ",")
	case hasDot:
		text = normalizeSingleSeparator(text, ".")
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0.0
	}
	f, _ := d.Float64()
	return f
}

// normalizeSingleSeparator decides whether a lone "." or "," is a decimal
// mark or a thousands separator: at most two trailing digits means decimal.
func normalizeSingleSeparator(text, sep string) string {
	parts := strings.Split(text, sep)
	if len(parts) == 2 && len(parts[1]) <= 2 {
		return strings.Replace(text, sep, ".", 1)
	}
	return strings.ReplaceAll(text, sep, "")
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	first := n % 3
	if first > 0 {
		b.WriteString(digits[:first])
	}
	for i := first; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
