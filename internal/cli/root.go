// Package cli implements the bilancio command-line reporting tool. It
// reads the same SQLite database as the server and runs the aggregation
// engine in-process, so reports work without a running server.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bilancio/internal/config"
	"bilancio/internal/export"
	"bilancio/internal/report"
	"bilancio/internal/storage"
)

type app struct {
	cfg  *config.Config
	repo *storage.SQLiteRepository

	owner string
	mode  string
	month string
	week  string
	year  string
	start string
	end   string
}

// NewRootCmd builds the CLI command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bilancio-cli",
		Short:         "Household ledger reports from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			a.cfg = config.Load()
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			repo, err := storage.NewSQLiteRepository(a.cfg.SQLiteDBPath)
			if err != nil {
				return fmt.Errorf("open database %s: %w", a.cfg.SQLiteDBPath, err)
			}
			a.repo = repo
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.repo != nil {
				_ = a.repo.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.owner, "owner", "o", "", "owner filter ('all' for every owner)")
	root.PersistentFlags().StringVar(&a.mode, "mode", "", "window mode: range, month, week, year, all")
	root.PersistentFlags().StringVarP(&a.month, "month", "m", "", "calendar month (2006-01)")
	root.PersistentFlags().StringVarP(&a.week, "week", "w", "", "ISO week (2006-W02)")
	root.PersistentFlags().StringVarP(&a.year, "year", "y", "", "calendar year (2006)")
	root.PersistentFlags().StringVar(&a.start, "start", "", "range start (2006-01-02)")
	root.PersistentFlags().StringVar(&a.end, "end", "", "range end (2006-01-02)")

	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.budgetCmd())
	root.AddCommand(a.netWorthCmd())
	root.AddCommand(a.exportCmd())

	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) engine() *report.Engine {
	return report.NewEngine(a.repo, a.repo, a.repo, a.repo, report.Options{
		DefaultOwner:           a.cfg.DefaultOwner,
		LargeDailyExpenseCents: a.cfg.LargeDailyExpenseCents,
		MaxTrendBuckets:        a.cfg.MaxTrendBuckets,
	})
}

func (a *app) request() report.Request {
	return report.Request{
		Owner: a.owner,
		Window: report.WindowRequest{
			Mode:  report.WindowMode(a.mode),
			Start: a.start,
			End:   a.end,
			Month: a.month,
			Week:  a.week,
			Year:  a.year,
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Income, expense and net for a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := a.engine().Dashboard(cmd.Context(), a.request())
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), dash)
			return nil
		},
	}
}

func (a *app) budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Budget rollup against the window's plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := a.engine()
			budget, err := eng.Budget(cmd.Context(), a.request())
			if err != nil {
				return err
			}
			renderBudget(cmd.OutOrStdout(), budget)
			return nil
		},
	}
}

func (a *app) netWorthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networth",
		Short: "Net worth as of the window end, with the bucketed series",
		RunE: func(cmd *cobra.Command, args []string) error {
			nw, err := a.engine().NetWorth(cmd.Context(), a.request())
			if err != nil {
				return err
			}
			renderNetWorth(cmd.OutOrStdout(), nw)
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the window's entries to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			exporter := export.NewExporter(a.repo, a.cfg.DefaultOwner)
			if err := exporter.WriteWorkbook(cmd.Context(), a.request(), f); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exported to", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "bilancio.xlsx", "output file path")
	return cmd
}
