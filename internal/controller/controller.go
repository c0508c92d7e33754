// Package controller holds the projection controllers: view-model style
// components that expose UI-ready slices of repository state and relay user
// actions back into it. Each controller subscribes to the repository's
// change notification at construction and recomputes its slice through a
// shared debouncer, so bursts of chained notifications collapse into one
// recompute. The debounce policy is uniform across all controllers.
package controller

import (
	"time"

	"expensetracker/internal/log"
)

// Options configures a projection controller.
type Options struct {
	// DebounceWindow collapses notification bursts before recomputing.
	// Zero recomputes immediately.
	DebounceWindow time.Duration

	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger.WithComponent(log.ComponentController)
	}
	return log.New(log.ComponentController, log.Config{})
}
