package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkordes/tripboard/internal/app"
	"github.com/pkordes/tripboard/internal/config"
)

func (c *cli) newFlightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flights",
		Short: "Look up and maintain flights",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "lookup <airline-code> <number>",
		Short: "Look up a flight and add every match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Flights.Lookup(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "found %d, added %d\n", res.Found, len(res.Added))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Refresh every flight from the status provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Flights.RefreshAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %d, failed %d, skipped %d\n", res.Updated, res.Failed, res.Skipped)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate flights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Flights.Dedupe(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", n)
				return nil
			})
		},
	})
	return cmd
}

func (c *cli) newBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Inspect the budget",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "total",
		Short: "Print the budget total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				total, err := a.Budget.Total(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), total.StringFixed(2))
				return nil
			})
		},
	})
	return cmd
}

func (c *cli) newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "List and apply trip presets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				names, err := a.Presets.List(ctx)
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "apply <name>",
		Short: "Apply a preset and print the step report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := a.Presets.Apply(ctx, args[0])
				if err != nil {
					return err
				}
				for _, step := range report.Steps {
					status := "ok"
					if step.Error != "" {
						status = "error: " + step.Error
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-40s %s\n", step.Command, step.Detail, status)
				}
				if report.Failed() {
					return fmt.Errorf("preset %s: some steps failed", report.Preset)
				}
				return nil
			})
		},
	})
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the trip export as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				rows, err := a.Export.Export(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, rows)
			})
		},
	}
}

var errMigrateBackend = errors.New("migrate needs the postgres backend")

func (c *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if a.Config.StoreBackend != config.BackendPostgres {
					return errMigrateBackend
				}
				results, err := app.Migrate(ctx, a.Pool)
				if err != nil {
					return err
				}
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", r.Source.Path)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", len(results))
				return nil
			})
		},
	}
}
