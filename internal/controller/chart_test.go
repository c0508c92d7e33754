package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/aggregate"
)

func TestChartEntriesFollowRepository(t *testing.T) {
	repo := newRepo(t)
	addExpense(t, repo, "Food", 1250)

	c := NewChart(repo, NewExclusions(), Options{})
	defer c.Close()

	addExpense(t, repo, "Food", 750)
	addExpense(t, repo, "Travel", 300)

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, aggregate.ChartEntry{Label: "Food", Value: 20}, entries[0])
	assert.Equal(t, aggregate.ChartEntry{Label: "Travel", Value: 3}, entries[1])
}

func TestChartPlaceholderWhenEmpty(t *testing.T) {
	repo := newRepo(t)
	c := NewChart(repo, NewExclusions(), Options{})
	defer c.Close()

	entries := c.Entries()
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, float64(10), e.Value)
	}
}

// The chart and the list read the same exclusion set: hiding a category on
// one screen hides it on the other.
func TestExclusionsSharedBetweenChartAndList(t *testing.T) {
	repo := newRepo(t)
	addExpense(t, repo, "Food", 100)
	addExpense(t, repo, "Travel", 200)

	excl := NewExclusions()
	chart := NewChart(repo, excl, Options{})
	defer chart.Close()
	list := NewList(repo, excl, Options{})
	defer list.Close()

	chart.Exclude("Travel")
	list.recompute()

	require.Len(t, chart.Entries(), 1)
	assert.Equal(t, "Food", chart.Entries()[0].Label)
	assert.Equal(t, []string{"Food"}, list.CategoriesWithExpenses())

	chart.Include("Travel")
	list.recompute()
	assert.Len(t, chart.Entries(), 2)
	assert.Equal(t, []string{"Food", "Travel"}, list.CategoriesWithExpenses())
}
