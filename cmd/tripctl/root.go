package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkordes/tripboard/internal/app"
	"github.com/pkordes/tripboard/internal/config"
	"github.com/pkordes/tripboard/internal/logutil"
)

// cli carries the viper instance shared by every subcommand. Flags bind
// to the same keys as the environment variables the API server reads.
type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}
	// Humans read the CLI's logs.
	c.v.SetDefault("LOG_FORMAT", "pretty")

	cmd := &cobra.Command{
		Use:          "tripctl",
		Short:        "Import and maintain trip board data",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	cmd.PersistentFlags().String("log-level", "info", "Logging level: debug|info|warn|error.")
	cmd.PersistentFlags().String("log-format", "pretty", "Logging format: pretty|text|json.")
	cmd.PersistentFlags().Bool("log-add-source", false, "Include source file:line in logs.")
	cmd.PersistentFlags().String("backend", "memory", "Store backend: memory|postgres|redis.")

	_ = c.v.BindPFlag("CONFIG_FILE", cmd.PersistentFlags().Lookup("config"))
	_ = c.v.BindPFlag("LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))
	_ = c.v.BindPFlag("LOG_FORMAT", cmd.PersistentFlags().Lookup("log-format"))
	_ = c.v.BindPFlag("LOG_ADD_SOURCE", cmd.PersistentFlags().Lookup("log-add-source"))
	_ = c.v.BindPFlag("STORE_BACKEND", cmd.PersistentFlags().Lookup("backend"))

	cmd.AddCommand(c.newImportCmd())
	cmd.AddCommand(c.newMapCmd())
	cmd.AddCommand(c.newFlightsCmd())
	cmd.AddCommand(c.newBudgetCmd())
	cmd.AddCommand(c.newPresetCmd())
	cmd.AddCommand(c.newExportCmd())
	cmd.AddCommand(c.newMigrateCmd())
	return cmd
}

// withApp loads configuration, wires an App and runs fn with it. Logs go
// to stderr so stdout stays clean for command output.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.FromViper(c.v)
	if err != nil {
		return err
	}
	logger, err := logutil.New(cmd.ErrOrStderr(), logutil.LoggerConfigFromReader(c.v))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}()
	return fn(ctx, a)
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
