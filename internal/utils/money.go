package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 美式千分位格式，所有玩家可见的金额都走这里
var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatMoney 格式化金额为美元显示（带千分位分组）
func FormatMoney(amount float64) string {
	if amount < 0 {
		return moneyPrinter.Sprintf("-$%.2f", -amount)
	}
	return moneyPrinter.Sprintf("$%.2f", amount)
}
