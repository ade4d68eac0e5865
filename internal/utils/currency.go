package utils

import (
	"fmt"
	"math"
	"strings"
)

// ToMinorUnits converts a decimal amount to cents, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(cents int64) float64 {
	return float64(cents) / 100
}

func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func FormatCurrency(amount float64, currencyCode string) string {
	switch strings.ToUpper(currencyCode) {
	case "EUR", "":
		return fmt.Sprintf("%.2f€", amount)
	case "USD":
		return fmt.Sprintf("$%.2f", amount)
	case "GBP":
		return fmt.Sprintf("£%.2f", amount)
	default:
		return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(currencyCode))
	}
}
