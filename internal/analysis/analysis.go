// Package analysis filters and aggregates a snapshot of transactions.
// Every function is a pure, single pass over its input.
package analysis

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

var hundred = decimal.NewFromInt(100)

// FilterByType returns the transactions of the given type, in order.
// The comparison ignores case. No match yields an empty, non-nil slice.
func FilterByType(txs []core.Transaction, t core.TransactionType) []core.Transaction {
	want := strings.TrimSpace(string(t))
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if strings.EqualFold(string(tx.Type), want) {
			out = append(out, tx)
		}
	}
	return out
}

// FilterByCategory returns the transactions whose category equals c exactly.
func FilterByCategory(txs []core.Transaction, c core.Category) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if tx.Category == c {
			out = append(out, tx)
		}
	}
	return out
}

// TotalByType sums the amounts of the given type. Empty input sums to zero.
func TotalByType(txs []core.Transaction, t core.TransactionType) decimal.Decimal {
	want := strings.TrimSpace(string(t))
	total := decimal.Zero
	for _, tx := range txs {
		if strings.EqualFold(string(tx.Type), want) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// GroupExpenseByCategory sums expense amounts per category. The map is
// empty when there are no expenses.
func GroupExpenseByCategory(txs []core.Transaction) map[core.Category]decimal.Decimal {
	groups := make(map[core.Category]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		groups[tx.Category] = groups[tx.Category].Add(tx.Amount)
	}
	return groups
}

// Breakdown orders the groups by amount, largest first (ties by name), and
// computes each one's share in percent. Shares are taken of the positive
// group totals only: a category whose amounts net to zero or below gets 0%,
// so percentages never exceed 100 when negative amounts are recorded.
func Breakdown(groups map[core.Category]decimal.Decimal) []core.CategoryShare {
	total := decimal.Zero
	shares := make([]core.CategoryShare, 0, len(groups))
	for c, amt := range groups {
		if amt.IsPositive() {
			total = total.Add(amt)
		}
		shares = append(shares, core.CategoryShare{Category: c, Amount: amt})
	}
	sort.Slice(shares, func(i, j int) bool {
		if cmp := shares[i].Amount.Cmp(shares[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return shares[i].Category < shares[j].Category
	})
	for i := range shares {
		if total.IsZero() || !shares[i].Amount.IsPositive() {
			shares[i].Percent = decimal.Zero
			continue
		}
		shares[i].Percent = shares[i].Amount.Mul(hundred).Div(total).Round(1)
	}
	return shares
}

// Summarize computes the totals shown on the analysis screen.
func Summarize(txs []core.Transaction) core.Summary {
	income := TotalByType(txs, core.Income)
	expense := TotalByType(txs, core.Expense)
	return core.Summary{
		Count:      len(txs),
		Income:     income,
		Expense:    expense,
		Balance:    income.Sub(expense),
		ByCategory: Breakdown(GroupExpenseByCategory(txs)),
	}
}
