// Command expensetracker is a terminal front-end for the expense tracking
// core: it wires the configured store into the repository and drives the
// projection controllers the way the mobile screens would.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/config"
	"expensetracker/internal/controller"
	"expensetracker/internal/log"
	"expensetracker/internal/repository"
	"expensetracker/internal/store"
	"expensetracker/internal/store/memory"
	"expensetracker/internal/store/sqlite"
)

type app struct {
	cfg    *config.Config
	logger *log.Logger
	store  store.Store
	repo   *repository.Repository
	excl   *controller.Exclusions
}

func newApp() (*app, error) {
	// Load .env for local development, ignore when absent.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.New(log.ComponentApp, log.Config{Level: logLevel(cfg.LogLevel)})
	log.SetDefault(logger)

	var st store.Store
	switch cfg.Backend {
	case "sqlite":
		var err error
		st, err = sqlite.New(cfg.SQLiteDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("initialized sqlite store", "db_path", cfg.SQLiteDBPath)
	default:
		st = memory.New()
		logger.Info("initialized memory store")
	}

	repo := repository.New(st, logger)
	if err := repo.Start(context.Background()); err != nil {
		st.Close()
		return nil, fmt.Errorf("start repository: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  st,
		repo:   repo,
		excl:   controller.NewExclusions(),
	}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.repo.Stop(ctx); err != nil {
		a.logger.Warn("repository stop", log.FieldError, err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close", log.FieldError, err)
	}
}

func (a *app) options() controller.Options {
	return controller.Options{
		DebounceWindow: a.cfg.DebounceWindow,
		Logger:         a.logger,
	}
}

// Controllers driving an action directly recompute without waiting for the
// debounced notification, so one-shot commands see their own writes.
func immediate(a *app) controller.Options {
	return controller.Options{Logger: a.logger}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "expensetracker",
		Short:         "Track personal expenses by category",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAddCmd())
	root.AddCommand(newCategoriesCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newChartCmd())
	root.AddCommand(newWatchCmd())
	return root
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add AMOUNT CATEGORY [DESCRIPTION...]",
		Short: "Record an expense",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			entry := controller.NewEntry(a.repo, immediate(a))
			defer entry.Close()

			if err := a.repo.AddCategory(cmd.Context(), args[1]); err != nil {
				return err
			}
			if err := entry.SelectCategory(args[1]); err != nil {
				return err
			}
			entry.SetAmount(args[0])
			entry.SetDescription(strings.Join(args[2:], " "))
			if err := entry.Submit(cmd.Context()); err != nil {
				return err
			}

			cmd.Printf("recorded %s in %s\n", args[0], args[1])
			return nil
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	categories := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	categories.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			for _, c := range a.repo.Categories() {
				cmd.Println(c)
			}
			return nil
		},
	})

	categories.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			edit := controller.NewCategoryEdit(a.repo, immediate(a))
			defer edit.Close()
			edit.SetNameToAdd(args[0])
			if err := edit.AddCategory(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("added category %s\n", args[0])
			return nil
		},
	})

	categories.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a category and all its expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			edit := controller.NewCategoryEdit(a.repo, immediate(a))
			defer edit.Close()
			edit.SetNameToDelete(args[0])
			if err := edit.DeleteCategory(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("removed category %s\n", args[0])
			return nil
		},
	})

	return categories
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "List expenses grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			list := controller.NewList(a.repo, a.excl, immediate(a))
			defer list.Close()

			for _, category := range list.CategoriesWithExpenses() {
				cmd.Printf("%s\n", category)
				for _, e := range list.Expenses(category) {
					desc := e.Description
					if desc == "" {
						desc = "-"
					}
					cmd.Printf("  %s  %s  %s\n", e.Amount, desc, e.ID)
				}
			}
			return nil
		},
	}
}

func newChartCmd() *cobra.Command {
	var excluded []string
	chart := &cobra.Command{
		Use:   "chart",
		Short: "Show the spending distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			for _, name := range excluded {
				a.excl.Add(name)
			}

			c := controller.NewChart(a.repo, a.excl, immediate(a))
			defer c.Close()

			entries := c.Entries()
			var total float64
			for _, e := range entries {
				total += e.Value
			}
			for _, e := range entries {
				cmd.Printf("%-20s %10.2f  %5.1f%%\n", e.Label, e.Value, 100*e.Value/total)
			}
			return nil
		},
	}
	chart.Flags().StringArrayVar(&excluded, "exclude", nil, "category to hide from the chart")
	return chart
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a line whenever the data changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			chart := controller.NewChart(a.repo, a.excl, a.options())
			defer chart.Close()

			changes := make(chan struct{}, 1)
			cancel := a.repo.Subscribe(func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
			defer cancel()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-changes:
						for _, e := range chart.Entries() {
							cmd.Printf("%-20s %10.2f\n", e.Label, e.Value)
						}
						cmd.Println("---")
					}
				}
			})

			a.logger.Info("watching for changes, Ctrl+C to stop")
			return g.Wait()
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", log.FieldError, err)
		os.Exit(1)
	}
}
