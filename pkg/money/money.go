// Package money formatea montos en VND con separador de miles.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer usa el formato en-US: separador de miles "," y sin decimales para N0.
var printer = message.NewPrinter(language.AmericanEnglish)

// N0 formatea el monto redondeado a entero con separador de miles (1234567 -> "1,234,567").
func N0(d decimal.Decimal) string {
	r := d.Round(0)
	if r.IsInteger() && r.Abs().LessThan(decimal.New(1, 18)) {
		return printer.Sprintf("%d", r.IntPart())
	}
	return printer.Sprintf("%.0f", r.InexactFloat64())
}

// VND formatea el monto como "1,234,567 VND".
func VND(d decimal.Decimal) string {
	return N0(d) + " VND"
}
