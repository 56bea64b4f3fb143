package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with English digit grouping.
var printer = message.NewPrinter(language.English)

// FormatKg formats a CO2 mass in kilograms to four decimals.
func FormatKg(kg float64) string {
	return printer.Sprintf("%.4f", kg)
}

// FormatGrams formats a sheet weight in grams to two decimals.
func FormatGrams(grams float64) string {
	return printer.Sprintf("%.2f", grams)
}

// formatTenths formats an equivalency figure to one decimal.
func formatTenths(v float64) string {
	return printer.Sprintf("%.1f", v)
}
