// Package store defines the boundary to the embedded persistence engine.
package store

import (
	"context"

	"expensetracker/internal/core"
)

// Store is the embedded transactional object store. Every mutating call
// commits a single transaction; subscribers are notified after each commit.
type Store interface {
	ExpenseStore
	CategoryStore

	// Subscribe registers fn to run after every committed write. The
	// returned cancel removes the subscription.
	Subscribe(fn func()) (cancel func())

	Close() error
}

type (
	ExpenseStore interface {
		// ListExpenses returns all persisted expenses.
		ListExpenses(ctx context.Context) ([]core.Expense, error)

		// AddExpense persists e, creating its category first if it does
		// not exist yet. Category lookup and expense insert commit as one
		// transaction.
		AddExpense(ctx context.Context, e core.Expense) error

		// DeleteExpense removes the expense with the given id.
		DeleteExpense(ctx context.Context, id string) error
	}

	CategoryStore interface {
		// ListCategories returns all category names.
		ListCategories(ctx context.Context) ([]string, error)

		// AddCategory creates the category if absent. Adding an existing
		// name is a storage-level no-op.
		AddCategory(ctx context.Context, name string) error

		// DeleteCategory removes the category and every expense that
		// references it, in one transaction. Returns false when no such
		// category exists.
		DeleteCategory(ctx context.Context, name string) (bool, error)
	}
)
