package controller

import (
	"sync"

	"expensetracker/internal/aggregate"
	"expensetracker/internal/log"
	"expensetracker/internal/repository"
)

// Chart backs the pie chart: labeled per-category totals, recomputed on
// every (debounced) change notification. It shares the exclusion set with
// the list controller.
type Chart struct {
	repo   *repository.Repository
	excl   *Exclusions
	logger *log.Logger
	deb    *debouncer
	cancel func()

	mu      sync.Mutex
	entries []aggregate.ChartEntry
}

func NewChart(repo *repository.Repository, excl *Exclusions, opts Options) *Chart {
	c := &Chart{
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
func (c *Chart) Close() {
	c.cancel()
	c.deb.Stop()
}

func (c *Chart) recompute() {
	totals := aggregate.TotalsByCategory(c.repo.Expenses())
	entries := aggregate.ChartEntries(totals, c.excl.Snapshot())

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
}

// Entries returns the current chart data points.
func (c *Chart) Entries() []aggregate.ChartEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]aggregate.ChartEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Exclude hides a category from the chart and the list.
func (c *Chart) Exclude(name string) {
	c.excl.Add(name)
	c.recompute()
}

// Include shows a previously excluded category again.
func (c *Chart) Include(name string) {
	c.excl.Remove(name)
	c.recompute()
}
