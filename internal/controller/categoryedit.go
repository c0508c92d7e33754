package controller

import (
	"context"
	"strings"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/repository"
)

// CategoryEdit backs the category management screen: two independent text
// inputs, one for adding and one for deleting a category.
type CategoryEdit struct {
	repo   *repository.Repository
	logger *log.Logger
	deb    *debouncer
	cancel func()

	mu           sync.Mutex
	categories   []string
	nameToAdd    string
	nameToDelete string
}

func NewCategoryEdit(repo *repository.Repository, opts Options) *CategoryEdit {
	c := &CategoryEdit{
		repo:   repo,
		logger: opts.logger(),
	}
	c.deb = newDebouncer(opts.DebounceWindow, c.recompute)
	c.recompute()
	c.cancel = repo.Subscribe(c.deb.Trigger)
	return c
}

// Close unsubscribes from change notifications.
func (c *CategoryEdit) Close() {
	c.cancel()
	c.deb.Stop()
}

func (c *CategoryEdit) recompute() {
	categories := c.repo.Categories()
	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()
}

func (c *CategoryEdit) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *CategoryEdit) SetNameToAdd(name string)    { c.setField(&c.nameToAdd, name) }
func (c *CategoryEdit) SetNameToDelete(name string) { c.setField(&c.nameToDelete, name) }

func (c *CategoryEdit) NameToAdd() string    { return c.getField(&c.nameToAdd) }
func (c *CategoryEdit) NameToDelete() string { return c.getField(&c.nameToDelete) }

func (c *CategoryEdit) setField(field *string, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*field = value
}

func (c *CategoryEdit) getField(field *string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *field
}

// AddCategory validates the add input and creates the category. Adding an
// existing name is rejected before any store call. The input is cleared on
// success only.
func (c *CategoryEdit) AddCategory(ctx context.Context) error {
	name := strings.TrimSpace(c.NameToAdd())
	if name == "" {
		c.logger.Warn("category name cannot be empty",
			log.FieldOperation, log.OpValidate)
		return core.ErrEmptyCategory
	}
	if c.repo.HasCategory(name) {
		c.logger.Warn("category already exists",
			log.FieldOperation, log.OpValidate, log.FieldCategory, name)
		return core.ErrCategoryExists
	}

	if err := c.repo.AddCategory(ctx, name); err != nil {
		return err
	}

	c.setField(&c.nameToAdd, "")
	return nil
}

// DeleteCategory validates the delete input and removes the category,
// cascading to its expenses. The input is cleared on success only.
func (c *CategoryEdit) DeleteCategory(ctx context.Context) error {
	name := strings.TrimSpace(c.NameToDelete())
	if name == "" {
		c.logger.Warn("no category to delete specified",
			log.FieldOperation, log.OpValidate)
		return core.ErrEmptyCategory
	}
	if !c.repo.HasCategory(name) {
		c.logger.Warn("category not found",
			log.FieldOperation, log.OpValidate, log.FieldCategory, name)
		return core.ErrCategoryNotFound
	}

	if err := c.repo.DeleteCategory(ctx, name); err != nil {
		return err
	}

	c.setField(&c.nameToDelete, "")
	return nil
}
