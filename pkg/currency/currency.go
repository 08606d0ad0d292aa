// Package currency форматирует денежные суммы для отображения.
// Чистые функции без I/O; результат только для показа, обратно не парсится.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Suffix - фиксированное обозначение валюты, добавляется после суммы
const Suffix = "so'm"

var printer = message.NewPrinter(language.Uzbek)

// Format форматирует сумму с группировкой разрядов по узбекской локали
// и суффиксом валюты: 1234567 -> "1 234 567 so'm"
func Format(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return printer.Sprintf("%v %s", number.Decimal(f, number.MaxFractionDigits(2)), Suffix)
}

// FormatInt - вариант для целых сумм (so'm не имеет дробной части в обиходе)
func FormatInt(amount int64) string {
	return printer.Sprintf("%v %s", number.Decimal(amount), Suffix)
}
