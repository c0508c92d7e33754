package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	"expensetracker/internal/store/memory"
)

// faultyStore fails every read and write.
type faultyStore struct{}

var errBroken = errors.New("store broken")

func (faultyStore) ListExpenses(context.Context) ([]core.Expense, error) { return nil, errBroken }
func (faultyStore) ListCategories(context.Context) ([]string, error)    { return nil, errBroken }
func (faultyStore) AddExpense(context.Context, core.Expense) error      { return errBroken }
func (faultyStore) DeleteExpense(context.Context, string) error         { return errBroken }
func (faultyStore) AddCategory(context.Context, string) error           { return errBroken }
func (faultyStore) DeleteCategory(context.Context, string) (bool, error) {
	return false, errBroken
}
func (faultyStore) Subscribe(func()) func() { return func() {} }
func (faultyStore) Close() error            { return nil }

func TestAddExpenseScenario(t *testing.T) {
	repo := New(memory.New(), nil)
	ctx := context.Background()

	e, err := repo.AddExpense(ctx, core.Money{Cents: 1250}, "Food", "lunch")
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)

	assert.Equal(t, []string{"Food"}, repo.Categories())

	groups := repo.ExpensesByCategory()
	require.Len(t, groups["Food"], 1)
	assert.Equal(t, int64(1250), groups["Food"][0].Amount.Cents)

	require.NoError(t, repo.DeleteCategory(ctx, "Food"))
	assert.Empty(t, repo.Categories())
	_, ok := repo.ExpensesByCategory()["Food"]
	assert.False(t, ok)
}

func TestAddExpenseValidation(t *testing.T) {
	repo := New(memory.New(), nil)
	ctx := context.Background()

	_, err := repo.AddExpense(ctx, core.Money{}, "Food", "x")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = repo.AddExpense(ctx, core.Money{Cents: 100}, "  ", "x")
	assert.ErrorIs(t, err, core.ErrEmptyCategory)
}

func TestExpensesByCategoryPartitions(t *testing.T) {
	repo := New(memory.New(), nil)
	ctx := context.Background()

	ids := make(map[string]bool)
	for _, tc := range []struct {
		cat   string
		cents int64
	}{
		{"Food", 100}, {"Food", 200}, {"Travel", 300}, {"Home", 400},
	} {
		e, err := repo.AddExpense(ctx, core.Money{Cents: tc.cents}, tc.cat, "")
		require.NoError(t, err)
		ids[e.ID] = false
	}

	groups := repo.ExpensesByCategory()
	total := 0
	for _, group := range groups {
		for _, e := range group {
			seen, ok := ids[e.ID]
			require.True(t, ok, "unknown expense %s", e.ID)
			require.False(t, seen, "expense %s in two groups", e.ID)
			ids[e.ID] = true
			total++
		}
	}
	assert.Equal(t, len(ids), total)
}

func TestFetchFailureDegrades(t *testing.T) {
	repo := New(faultyStore{}, nil)
	repo.Refresh(context.Background())

	assert.Empty(t, repo.Expenses())
	assert.ElementsMatch(t, core.DefaultCategories, repo.Categories())
}

func TestWriteFailureLeavesCacheUntouched(t *testing.T) {
	mem := memory.New()
	repo := New(mem, nil)
	ctx := context.Background()

	_, err := repo.AddExpense(ctx, core.Money{Cents: 100}, "Food", "")
	require.NoError(t, err)
	before := repo.Expenses()

	// Swap in a broken store underneath the same cache.
	repo.store = faultyStore{}
	_, err = repo.AddExpense(ctx, core.Money{Cents: 200}, "Travel", "")
	require.Error(t, err)

	assert.Equal(t, before, repo.Expenses())
}

func TestDeleteCategoryMissingIsNoop(t *testing.T) {
	repo := New(memory.New(), nil)
	require.NoError(t, repo.DeleteCategory(context.Background(), "Nope"))
}

func TestNotificationsInRegistrationOrder(t *testing.T) {
	repo := New(memory.New(), nil)

	var order []int
	repo.Subscribe(func() { order = append(order, 1) })
	repo.Subscribe(func() { order = append(order, 2) })
	repo.Subscribe(func() { order = append(order, 3) })

	repo.Refresh(context.Background())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	repo := New(memory.New(), nil)

	var fired int
	cancel := repo.Subscribe(func() { fired++ })
	repo.Refresh(context.Background())
	require.Equal(t, 1, fired)

	cancel()
	repo.Refresh(context.Background())
	assert.Equal(t, 1, fired)
}

func TestCategoriesNormalized(t *testing.T) {
	mem := memory.New("Travel", "Food", "Food", "  ")
	repo := New(mem, nil)
	repo.Refresh(context.Background())

	assert.Equal(t, []string{"Food", "Travel"}, repo.Categories())
}

// An external writer commits directly to the store; the repository must
// pick the change up through the store's commit hook.
func TestExternalWriteRefreshesSnapshot(t *testing.T) {
	mem := memory.New()
	repo := New(mem, nil)
	ctx := context.Background()

	require.NoError(t, repo.Start(ctx))
	defer repo.Stop(ctx)

	require.NoError(t, mem.AddExpense(ctx, core.Expense{
		ID:       "ext-1",
		Amount:   core.Money{Cents: 500},
		Category: "Food",
	}))

	require.Eventually(t, func() bool {
		return len(repo.Expenses()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Food"}, repo.Categories())
}

func TestStartTwiceFails(t *testing.T) {
	repo := New(memory.New(), nil)
	ctx := context.Background()
	require.NoError(t, repo.Start(ctx))
	defer repo.Stop(ctx)
	assert.Error(t, repo.Start(ctx))
}
