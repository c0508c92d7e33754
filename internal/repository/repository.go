// Package repository owns the in-memory snapshot of expenses and categories
// and mediates every store access. All snapshot mutation and all subscriber
// notification happen on a single dispatch goroutine, so subscribers observe
// a consistent, serialized view of state. Store I/O runs on the caller's
// goroutine and only its results are marshaled onto the dispatch loop.
package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/store"
)

type Repository struct {
	store  store.Store
	logger *log.Logger

	// Lifecycle management
	mu          sync.Mutex
	running     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	jobs        chan job
	cancelStore func()

	// Snapshot, written only by the dispatch loop
	stateMu    sync.RWMutex
	expenses   []core.Expense
	categories []string

	// Subscribers, notified in registration order on the dispatch loop
	subMu  sync.Mutex
	nextID int
	subs   []subscription

	fetches singleflight.Group
}

type job struct {
	fn   func()
	done chan struct{}
}

type subscription struct {
	id int
	fn func()
}

type snapshot struct {
	expenses   []core.Expense
	categories []string
}

func New(st store.Store, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.New(log.ComponentRepository, log.Config{})
	}
	return &Repository{
		store:  st,
		logger: logger.WithComponent(log.ComponentRepository),
	}
}

// Start begins the dispatch loop, subscribes to store change notifications
// and loads the initial snapshot. Returns an error if already running.
func (r *Repository) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("repository is already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.jobs = make(chan job, 16)
	r.mu.Unlock()

	go r.runLoop()

	// External writers reach us through the store's commit hook. The hook
	// fires on the writer's goroutine, so the refresh is scheduled, never
	// run inline. Notification storms coalesce into one store round-trip.
	r.cancelStore = r.store.Subscribe(func() {
		go func() {
			v, _, _ := r.fetches.Do("refresh", func() (any, error) {
				return r.fetch(context.Background()), nil
			})
			r.apply(v.(snapshot))
		}()
	})

	r.Refresh(ctx)

	r.logger.Info("repository started")
	return nil
}

// Stop unsubscribes from the store and drains the dispatch loop.
func (r *Repository) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	if r.cancelStore != nil {
		r.cancelStore()
		r.cancelStore = nil
	}

	close(r.stopCh)

	select {
	case <-r.doneCh:
		r.logger.Info("repository stopped")
	case <-ctx.Done():
		r.logger.Warn("repository stop timed out")
		return ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	return nil
}

func (r *Repository) runLoop() {
	defer close(r.doneCh)
	for {
		select {
		case <-r.stopCh:
			return
		case j := <-r.jobs:
			j.fn()
			if j.done != nil {
				close(j.done)
			}
		}
	}
}

// dispatch runs fn on the loop goroutine and waits for it. Subscriber
// callbacks already run on the loop and must not call back into mutating
// repository methods.
func (r *Repository) dispatch(fn func()) {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		// Degraded synchronous mode, used before Start and in tests that
		// never spin up the loop.
		fn()
		return
	}
	done := make(chan struct{})
	select {
	case r.jobs <- job{fn: fn, done: done}:
		select {
		case <-done:
		case <-r.stopCh:
		}
	case <-r.stopCh:
	}
}

// Refresh re-reads both record kinds from the store, replaces the snapshot
// and fans out one change notification. Read failures never propagate: the
// expense list degrades to empty and categories to the default set.
// Mutators call this after their write commits, so it always fetches fresh
// instead of joining an older in-flight fetch.
func (r *Repository) Refresh(ctx context.Context) {
	r.apply(r.fetch(ctx))
}

func (r *Repository) apply(snap snapshot) {
	r.dispatch(func() {
		r.stateMu.Lock()
		r.expenses = snap.expenses
		r.categories = snap.categories
		r.stateMu.Unlock()
		r.notify()
	})
}

func (r *Repository) fetch(ctx context.Context) snapshot {
	var snap snapshot

	expenses, err := r.store.ListExpenses(ctx)
	if err != nil {
		r.logger.Error("failed to fetch expenses", log.FieldOperation, log.OpFetch, log.FieldError, err)
		expenses = nil
	}
	snap.expenses = expenses

	categories, err := r.store.ListCategories(ctx)
	if err != nil {
		r.logger.Error("failed to fetch categories, using defaults",
			log.FieldOperation, log.OpFetch, log.FieldError, err)
		categories = append([]string(nil), core.DefaultCategories...)
	}
	snap.categories = normalizeCategories(categories)

	return snap
}

func normalizeCategories(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Subscribe registers a payload-less change listener. Listeners run on the
// dispatch goroutine in registration order.
func (r *Repository) Subscribe(fn func()) (cancel func()) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, subscription{id: id, fn: fn})
	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		for i, sub := range r.subs {
			if sub.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

func (r *Repository) notify() {
	r.subMu.Lock()
	subs := make([]subscription, len(r.subs))
	copy(subs, r.subs)
	r.subMu.Unlock()
	for _, sub := range subs {
		sub.fn()
	}
}

// Expenses returns a copy of the cached expense list.
func (r *Repository) Expenses() []core.Expense {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	out := make([]core.Expense, len(r.expenses))
	copy(out, r.expenses)
	return out
}

// Categories returns a copy of the cached, sorted category list.
func (r *Repository) Categories() []string {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// HasCategory reports whether name is in the cached category list.
func (r *Repository) HasCategory(name string) bool {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	for _, c := range r.categories {
		if c == name {
			return true
		}
	}
	return false
}

// ExpensesByCategory groups the cached expenses by category name.
func (r *Repository) ExpensesByCategory() map[string][]core.Expense {
	return groupByCategory(r.Expenses())
}

func groupByCategory(expenses []core.Expense) map[string][]core.Expense {
	groups := make(map[string][]core.Expense)
	for _, e := range expenses {
		name := e.CategoryOrDefault()
		groups[name] = append(groups[name], e)
	}
	return groups
}

// AddExpense creates and persists a new expense, resolving or creating the
// category in the same store transaction. The cache is only updated after
// the write is confirmed.
func (r *Repository) AddExpense(ctx context.Context, amount core.Money, category, description string) (core.Expense, error) {
	e := core.Expense{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: description,
		Category:    strings.TrimSpace(category),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := r.store.AddExpense(ctx, e); err != nil {
		r.logger.Error("failed to add expense",
			log.FieldOperation, log.OpAddExpense,
			log.FieldCategory, e.Category,
			log.FieldError, err)
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	r.Refresh(ctx)
	return e, nil
}

// AddCategory persists a new category.
func (r *Repository) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}

	if err := r.store.AddCategory(ctx, name); err != nil {
		r.logger.Error("failed to add category",
			log.FieldOperation, log.OpAddCategory,
			log.FieldCategory, name,
			log.FieldError, err)
		return fmt.Errorf("add category: %w", err)
	}

	r.Refresh(ctx)
	return nil
}

// DeleteExpense removes the expense with the given id.
func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	if err := r.store.DeleteExpense(ctx, id); err != nil {
		r.logger.Error("failed to delete expense",
			log.FieldOperation, log.OpDeleteExpense,
			log.FieldExpenseID, id,
			log.FieldError, err)
		return fmt.Errorf("delete expense: %w", err)
	}

	r.Refresh(ctx)
	return nil
}

// DeleteCategory removes the category and every expense referencing it.
// Deleting an absent category is a no-op.
func (r *Repository) DeleteCategory(ctx context.Context, name string) error {
	found, err := r.store.DeleteCategory(ctx, name)
	if err != nil {
		r.logger.Error("failed to delete category",
			log.FieldOperation, log.OpDeleteCategory,
			log.FieldCategory, name,
			log.FieldError, err)
		return fmt.Errorf("delete category: %w", err)
	}
	if !found {
		r.logger.Warn("category not found, nothing deleted",
			log.FieldOperation, log.OpDeleteCategory,
			log.FieldCategory, name)
		return nil
	}

	r.Refresh(ctx)
	return nil
}
