package core

import (
	"errors"
	"strings"
)

// Uncategorized is the bucket for expenses whose category reference is
// missing. There is exactly one spelling of this sentinel.
const Uncategorized = "Uncategorized"

// DefaultCategories is the fallback set used when categories cannot be read
// from the store.
var DefaultCategories = []string{"Personal", "Business", "Entertainment", "Home"}

type (
	// Expense is a single recorded expense. Immutable after creation
	// except for deletion.
	Expense struct {
		ID          string
		Amount      Money
		Description string
		Category    string
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category name")
	ErrCategoryExists     = errors.New("category already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrNoCategorySelected = errors.New("no category selected")
	ErrExpenseNotFound    = errors.New("expense not found")
)

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// CategoryOrDefault returns the expense's category, or the Uncategorized
// sentinel when the reference is blank.
func (e Expense) CategoryOrDefault() string {
	if strings.TrimSpace(e.Category) == "" {
		return Uncategorized
	}
	return e.Category
}
