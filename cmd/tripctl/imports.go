package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/tripboard/internal/app"
	"github.com/pkordes/tripboard/internal/importer"
	"github.com/pkordes/tripboard/internal/service"
)

func (c *cli) newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bookings and itineraries from files",
	}
	cmd.AddCommand(c.newImportEMLCmd())
	cmd.AddCommand(c.newImportMarkdownCmd())
	cmd.AddCommand(c.newImportKMLCmd())
	return cmd
}

func (c *cli) newImportEMLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eml <file>",
		Short: "Import a stay from a booking confirmation email",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().String("name", "", "Stay name used when the email has none.")
	cmd.Flags().String("address", "", "Address used when the email has none.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		data, err := readFile(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		address, _ := cmd.Flags().GetString("address")
		return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Stays.ImportEML(ctx, string(data), importer.StayDefaults{Name: name, Address: address})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Notice())
			return nil
		})
	}
	return cmd
}

func (c *cli) newImportMarkdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markdown <file>",
		Short: "Import itinerary stops from a Markdown outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFile(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Itinerary.ImportMarkdown(ctx, string(data))
				if err != nil {
					return err
				}
				printImport(cmd, res)
				return nil
			})
		},
	}
}

func (c *cli) newImportKMLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kml <file>",
		Short: "Import itinerary stops from KML placemarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFile(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Itinerary.ImportKML(ctx, data)
				if err != nil {
					return err
				}
				printImport(cmd, res)
				return nil
			})
		},
	}
}

func printImport(cmd *cobra.Command, res service.ItineraryImport) {
	fmt.Fprintf(cmd.OutOrStdout(), "added %d stops, skipped %d\n", res.Added, res.Skipped)
}

func (c *cli) newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Manage the imported map",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file|url>",
		Short: "Replace the map with a KML file or a My Maps link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				var n int
				if _, statErr := os.Stat(src); statErr == nil {
					data, err := readFile(src)
					if err != nil {
						return err
					}
					fc, err := a.Maps.ImportKML(ctx, data, true)
					if err != nil {
						return err
					}
					n = len(fc.Features)
				} else {
					fc, err := a.Maps.ImportMyMaps(ctx, src)
					if err != nil {
						return err
					}
					n = len(fc.Features)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d features\n", n)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "legend",
		Short: "Print the map legend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				legend, err := a.Maps.Legend(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, legend)
			})
		},
	})
	return cmd
}
