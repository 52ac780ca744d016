// Currency conversion and display formatting.
//
// Amounts are stored in a single base unit (USD). Conversion uses a static
// rate table; no rates are ever fetched. The display locale is tied 1:1 to
// the selected currency and is not independently configurable.
package core

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is one of the five supported display currencies.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	NGN Currency = "NGN"
)

// BaseCurrency is the unit amounts are stored in.
const BaseCurrency = USD

type currencyInfo struct {
	rate     float64 // units of this currency per base unit
	tag      language.Tag
	symbol   string
	decimals int
	suffix   bool // symbol placed after the number
}

var currencies = map[Currency]currencyInfo{
	USD: {rate: 1, tag: language.MustParse("en-US"), symbol: "$", decimals: 2},
	EUR: {rate: 0.92, tag: language.MustParse("de-DE"), symbol: "€", decimals: 2, suffix: true},
	GBP: {rate: 0.79, tag: language.MustParse("en-GB"), symbol: "£", decimals: 2},
	JPY: {rate: 147.20, tag: language.MustParse("ja-JP"), symbol: "¥", decimals: 0},
	NGN: {rate: 1530, tag: language.MustParse("en-NG"), symbol: "₦", decimals: 2},
}

// Currencies returns the supported currency codes.
func Currencies() []Currency {
	return []Currency{USD, EUR, GBP, JPY, NGN}
}

// FormatCurrency converts a stored amount to the given currency and renders
// it with that currency's conventional decimals, grouping and symbol
// placement. Non-numeric input formats as zero in the base currency.
func FormatCurrency(amount string, cur Currency) string {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return formatIn(0, BaseCurrency)
	}
	return formatIn(v, cur)
}

// FormatCurrencyValue renders an exact decimal amount, converted like
// FormatCurrency. Used for aggregated figures.
func FormatCurrencyValue(amount decimal.Decimal, cur Currency) string {
	v, _ := amount.Float64()
	return formatIn(v, cur)
}

func formatIn(baseValue float64, cur Currency) string {
	info, ok := currencies[cur]
	if !ok {
		info = currencies[BaseCurrency]
	}
	converted := baseValue * info.rate

	p := message.NewPrinter(info.tag)
	n := p.Sprint(number.Decimal(converted,
		number.Scale(info.decimals),
		number.MinFractionDigits(info.decimals)))

	if info.suffix {
		return n + " " + info.symbol
	}
	return info.symbol + n
}
