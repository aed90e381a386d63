package i18n

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func tagFor(l Locale) language.Tag {
	if l == Chinese {
		return language.SimplifiedChinese
	}
	return language.AmericanEnglish
}

func currencyFor(l Locale) currency.Unit {
	if l == Chinese {
		return currency.CNY
	}
	return currency.USD
}

// FormatNumber groups digits the way l expects ("1,234,567.5").
func FormatNumber(v float64, l Locale) string {
	p := message.NewPrinter(tagFor(l))
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatCurrency renders an amount in the locale's currency (USD or CNY).
func FormatCurrency(amount float64, l Locale) string {
	p := message.NewPrinter(tagFor(l))
	return p.Sprintf("%v", currency.Symbol(currencyFor(l).Amount(amount)))
}
