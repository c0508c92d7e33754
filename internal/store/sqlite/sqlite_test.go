package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "expenses.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndListExpenses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := core.Expense{
		ID:          uuid.NewString(),
		Amount:      core.Money{Cents: 1250},
		Description: "lunch",
		Category:    "Food",
	}
	require.NoError(t, s.AddExpense(ctx, e))

	items, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, e, items[0])

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food"}, cats)
}

func TestAddExpenseRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.AddExpense(ctx, core.Expense{ID: uuid.NewString(), Category: "Food"})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	err = s.AddExpense(ctx, core.Expense{ID: uuid.NewString(), Amount: core.Money{Cents: 10}})
	assert.ErrorIs(t, err, core.ErrEmptyCategory)
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AddExpense(ctx, core.Expense{
			ID:       uuid.NewString(),
			Amount:   core.Money{Cents: 100},
			Category: "Food",
		}))
	}
	require.NoError(t, s.AddExpense(ctx, core.Expense{
		ID:       uuid.NewString(),
		Amount:   core.Money{Cents: 100},
		Category: "Travel",
	}))

	found, err := s.DeleteCategory(ctx, "Food")
	require.NoError(t, err)
	assert.True(t, found)

	items, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Travel", items[0].Category)

	found, err = s.DeleteCategory(ctx, "Food")
	require.NoError(t, err)
	assert.False(t, found)
}

// Two concurrent inserts naming the same fresh category must leave exactly
// one category row. Guards the find-or-create/insert transaction.
func TestConcurrentAddExpenseSingleCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.AddExpense(ctx, core.Expense{
				ID:          uuid.NewString(),
				Amount:      core.Money{Cents: 100},
				Description: fmt.Sprintf("writer %d", i),
				Category:    "Brand New",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brand New"}, cats)

	items, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, items, writers)
}

func TestSubscribeFiresAfterCommit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var fired int
	cancel := s.Subscribe(func() { fired++ })
	defer cancel()

	require.NoError(t, s.AddCategory(ctx, "Food"))
	assert.Equal(t, 1, fired)

	// Duplicate insert does not commit a change.
	require.NoError(t, s.AddCategory(ctx, "Food"))
	assert.Equal(t, 1, fired)
}
