package currency

import (
	"fmt"
	"math"
	"strings"
)

// FormatGBP renders an amount as "£1,234.50".
func FormatGBP(amount float64) string {
	return Format(amount, "GBP")
}

// Format renders amount with the symbol for code, falling back to the code
// itself for unknown currencies ("USD 12.00" style).
func Format(amount float64, code string) string {
	rounded := math.Round(amount*100) / 100

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	str := fmt.Sprintf("%.2f", rounded)
	intPart, frac, _ := strings.Cut(str, ".")
	formatted := addThousandsSeparator(intPart, ",") + "." + frac

	result := symbol(code) + formatted
	if negative {
		result = "-" + result
	}

	return result
}

func symbol(code string) string {
	switch strings.ToUpper(code) {
	case "", "GBP":
		return "£"
	case "EUR":
		return "€"
	case "USD":
		return "$"
	default:
		return strings.ToUpper(code) + " "
	}
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
