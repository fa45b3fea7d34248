package reports

import (
	"math"
	"strconv"
	"strings"
)

// Rounding policy: two decimal places, half away from zero. Monetary
// totals computed inside PostgreSQL use ROUND(numeric, 2), which follows
// the same rule on exact decimals. Go-side derived values (percentages,
// averages) go through Round2, which rounds the shortest decimal
// representation of the float so that a value printed as 10.005 rounds
// to 10.01 rather than on its binary approximation.

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	s := roundDecimalString(strconv.FormatFloat(v, 'f', -1, 64), 2)
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	return r
}

// FormatAmount renders a monetary or percentage value with exactly two
// decimal places.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// roundDecimalString rounds a plain decimal string ("-123.456") to the
// given number of fractional digits, half away from zero.
func roundDecimalString(s string, places int) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) <= places {
		out := intPart
		if fracPart != "" {
			out += "." + fracPart
		}
		if neg {
			out = "-" + out
		}
		return out
	}

	digits := []byte(intPart + fracPart[:places])
	if fracPart[places] >= '5' {
		i := len(digits) - 1
		for i >= 0 {
			if digits[i] < '9' {
				digits[i]++
				break
			}
			digits[i] = '0'
			i--
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		}
	}

	cut := len(digits) - places
	out := string(digits[:cut])
	if places > 0 {
		out += "." + string(digits[cut:])
	}
	if neg && strings.Trim(out, "0.") != "" {
		out = "-" + out
	}
	return out
}
