package controller

import (
	"context"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/repository"
)

// Entry backs the expense entry form: a category picker, an amount field
// and a description field.
type Entry struct {
	repo   *repository.Repository
	logger *log.Logger
	deb    *debouncer
	cancel func()

	mu          sync.Mutex
	categories  []string
	selected    string
	amountText  string
	description string
}

func NewEntry(repo *repository.Repository, opts Options) *Entry {
	c := &Entry{
		repo:   repo,
		logger: opts.logger(),
	}
	c.deb = newDebouncer(opts.DebounceWindow, c.recompute)
	c.recompute()
	c.cancel = repo.Subscribe(c.deb.Trigger)
	return c
}

// Close unsubscribes from change notifications.
func (c *Entry) Close() {
	c.cancel()
	c.deb.Stop()
}

// recompute refreshes the category list and keeps the selection valid:
// when the current selection disappears or nothing is selected yet, it
// resets to the first available category.
func (c *Entry) recompute() {
	categories := c.repo.Categories()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = categories
	if c.selected == "" || !contains(categories, c.selected) {
		if len(categories) > 0 {
			c.selected = categories[0]
		} else {
			c.selected = ""
		}
	}
}

func (c *Entry) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Entry) SelectedCategory() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// SelectCategory picks a category from the current list.
func (c *Entry) SelectCategory(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !contains(c.categories, name) {
		c.logger.Warn("cannot select unknown category",
			log.FieldOperation, log.OpValidate, log.FieldCategory, name)
		return core.ErrCategoryNotFound
	}
	c.selected = name
	return nil
}

func (c *Entry) SetAmount(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.amountText = text
}

func (c *Entry) Amount() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amountText
}

func (c *Entry) SetDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.description = text
}

func (c *Entry) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.description
}

// Submit validates the form and records the expense. On success the amount
// and description fields are cleared; the category selection persists for
// the next entry.
func (c *Entry) Submit(ctx context.Context) error {
	c.mu.Lock()
	selected := c.selected
	amountText := c.amountText
	description := c.description
	c.mu.Unlock()

	if selected == "" {
		c.logger.Warn("no category selected, cannot save expense",
			log.FieldOperation, log.OpValidate)
		return core.ErrNoCategorySelected
	}

	amount, err := core.ParseMoney(amountText)
	if err != nil {
		c.logger.Warn("invalid amount",
			log.FieldOperation, log.OpValidate, "amount", amountText)
		return err
	}

	if _, err := c.repo.AddExpense(ctx, amount, selected, description); err != nil {
		return err
	}

	c.mu.Lock()
	c.amountText = ""
	c.description = ""
	c.mu.Unlock()
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
