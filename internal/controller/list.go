package controller

import (
	"context"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/repository"
)

// List backs the grouped expense list: categories that actually have
// expenses, minus the shared exclusions, each expandable into its entries.
type List struct {
	repo   *repository.Repository
	excl   *Exclusions
	logger *log.Logger
	deb    *debouncer
	cancel func()

	mu                     sync.Mutex
	categoriesWithExpenses []string
}

func NewList(repo *repository.Repository, excl *Exclusions, opts Options) *List {
	c := &List{
		repo:   repo,
		excl:   excl,
		logger: opts.logger(),
	}
	c.deb = newDebouncer(opts.DebounceWindow, c.recompute)
	c.recompute()
	c.cancel = repo.Subscribe(c.deb.Trigger)
	return c
}

// Close unsubscribes from change notifications.
func (c *List) Close() {
	c.cancel()
	c.deb.Stop()
}

func (c *List) recompute() {
	groups := c.repo.ExpensesByCategory()
	var out []string
	for _, category := range c.repo.Categories() {
		if len(groups[category]) == 0 || c.excl.Has(category) {
			continue
		}
		out = append(out, category)
	}

	c.mu.Lock()
	c.categoriesWithExpenses = out
	c.mu.Unlock()
}

// CategoriesWithExpenses returns the categories currently shown, sorted
// ascending like the repository's category list.
func (c *List) CategoriesWithExpenses() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.categoriesWithExpenses))
	copy(out, c.categoriesWithExpenses)
	return out
}

// Expenses returns the entries for one category.
func (c *List) Expenses(category string) []core.Expense {
	return c.repo.ExpensesByCategory()[category]
}

// DeleteExpense removes a single expense.
func (c *List) DeleteExpense(ctx context.Context, id string) error {
	if err := c.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}
	c.recompute()
	return nil
}

// DeleteCategory removes the category with all its expenses and refreshes
// the visible list right away, without waiting for the debounced
// notification.
func (c *List) DeleteCategory(ctx context.Context, name string) error {
	if err := c.repo.DeleteCategory(ctx, name); err != nil {
		return err
	}
	c.recompute()
	return nil
}
