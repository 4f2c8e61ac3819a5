package services

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formata centavos como moeda brasileira (R$ 1.234,56)
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, brl.Sprintf("%d", cents/100), cents%100)
}
