package core

import "github.com/shopspring/decimal"

// CategoryShare is one slice of the expense breakdown.
type CategoryShare struct {
	Category Category
	Amount   decimal.Decimal
	Percent  decimal.Decimal // 0-100, rounded to one decimal
}

// Summary is the aggregate view shown on the analysis screen.
type Summary struct {
	Count      int
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Balance    decimal.Decimal // Income - Expense
	ByCategory []CategoryShare
}
