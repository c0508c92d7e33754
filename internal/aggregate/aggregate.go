// Package aggregate derives presentation views from expense snapshots.
// Every function is pure: same input, same output, no state.
package aggregate

import (
	"sort"

	"expensetracker/internal/core"
)

// ChartEntry is one labeled slice of the spending distribution.
type ChartEntry struct {
	Label string
	Value float64
}

// Placeholder entries keep the chart widget from rendering an empty pie.
var placeholderLabels = []string{"Category1", "Category2", "Category3"}

const placeholderValue = 10

// GroupByCategory partitions expenses by category name. Expenses with a
// blank category reference land in the Uncategorized bucket.
func GroupByCategory(expenses []core.Expense) map[string][]core.Expense {
	groups := make(map[string][]core.Expense)
	for _, e := range expenses {
		name := e.CategoryOrDefault()
		groups[name] = append(groups[name], e)
	}
	return groups
}

// TotalsByCategory sums amounts per category. Categories without expenses
// do not appear in the result.
func TotalsByCategory(expenses []core.Expense) map[string]core.Money {
	totals := make(map[string]core.Money)
	for _, e := range expenses {
		name := e.CategoryOrDefault()
		totals[name] = totals[name].Add(e.Amount)
	}
	return totals
}

// ChartEntries converts totals into chart data points, dropping excluded
// categories. Entries are sorted by label. An empty result is replaced by
// three fixed placeholder entries so the chart always has something to draw.
func ChartEntries(totals map[string]core.Money, excluded map[string]struct{}) []ChartEntry {
	entries := make([]ChartEntry, 0, len(totals))
	for name, total := range totals {
		if _, skip := excluded[name]; skip {
			continue
		}
		entries = append(entries, ChartEntry{Label: name, Value: total.Euros()})
	}
	if len(entries) == 0 {
		return placeholderEntries()
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Label < entries[j].Label })
	return entries
}

func placeholderEntries() []ChartEntry {
	entries := make([]ChartEntry, 0, len(placeholderLabels))
	for _, label := range placeholderLabels {
		entries = append(entries, ChartEntry{Label: label, Value: placeholderValue})
	}
	return entries
}
