// Package memory implements the store ports in process memory. It backs
// tests and the memory backend.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"expensetracker/internal/core"
)

type Store struct {
	mu     sync.Mutex
	cats   map[string]struct{}
	items  []core.Expense
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func()
}

func New(seedCategories ...string) *Store {
	s := &Store{cats: make(map[string]struct{})}
	for _, c := range seedCategories {
		c = strings.TrimSpace(c)
		if c != "" {
			s.cats[c] = struct{}{}
		}
	}
	return s
}

func (s *Store) Close() error { return nil }

// Subscribe registers fn to run after every committed write.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notifyLocked() []subscription {
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	return subs
}

func fire(subs []subscription) {
	for _, sub := range subs {
		sub.fn()
	}
}

// ListExpenses returns a copy of all stored expenses.
func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

// ListCategories returns all category names sorted ascending.
func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.cats))
	for c := range s.cats {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// AddExpense stores the expense, creating its category if needed. Both
// happen under one lock, the in-memory equivalent of a transaction.
func (s *Store) AddExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cats[e.Category] = struct{}{}
	s.items = append(s.items, e)
	subs := s.notifyLocked()
	s.mu.Unlock()
	fire(subs)
	return nil
}

// DeleteExpense removes the expense with the given id.
func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, e := range s.items {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return core.ErrExpenseNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	subs := s.notifyLocked()
	s.mu.Unlock()
	fire(subs)
	return nil
}

// AddCategory creates the category if absent.
func (s *Store) AddCategory(_ context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return core.ErrEmptyCategory
	}
	s.mu.Lock()
	if _, ok := s.cats[name]; ok {
		s.mu.Unlock()
		return nil
	}
	s.cats[name] = struct{}{}
	subs := s.notifyLocked()
	s.mu.Unlock()
	fire(subs)
	return nil
}

// DeleteCategory removes the category and every expense referencing it.
func (s *Store) DeleteCategory(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	if _, ok := s.cats[name]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.cats, name)
	kept := s.items[:0]
	for _, e := range s.items {
		if e.Category != name {
			kept = append(kept, e)
		}
	}
	s.items = kept
	subs := s.notifyLocked()
	s.mu.Unlock()
	fire(subs)
	return true, nil
}
