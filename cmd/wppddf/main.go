package main

import (
	"context"
	"fmt"
	"os"

	"wppddf/app"
	"wppddf/internal/config"
	"wppddf/internal/container"
	"wppddf/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "wppddf",
		Short: "Convert the UN World Population Prospects workbook into a DDF dataset",
		Long: `Convert the annual demographic indicators workbook of the UN World
Population Prospects into DDF csv files: concepts, country entities, one
datapoint file per indicator, footnotes and the ddf--index.csv file.

All settings come from the environment (or a .env file):
- WPP_SOURCE_PATH, WPP_OUTPUT_DIR, WPP_INDEX_FILE
- WPP_SHEET_ESTIMATES, WPP_SHEET_MEDIUM, WPP_SHEET_NOTES, WPP_SKIP_ROWS
- WPP_OUTPUT_ENCODING (utf8|utf8-bom), WPP_WRITE_WORKERS
- WPP_CATALOG_DRIVER (sqlite|postgres), WPP_CATALOG_DSN
- LOG_LEVEL`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		newConvertCmd(),
		newIndexCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "Run the full conversion and regenerate the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context())
		},
	}
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index [dir]",
		Short: "Regenerate ddf--index.csv of an existing output directory",
		Long: `Regenerate the index file over the ddf--*.csv files of a directory.

The directory defaults to WPP_OUTPUT_DIR.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}

			c, err := container.New(cfg, dir)
			if err != nil {
				return err
			}
			_, err = app.RegenerateIndex(cmd.Context(), c.Indexer, cfg.Output.IndexFile)
			return err
		},
	}
}

func runConvert(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	c, err := container.New(cfg, "")
	if err != nil {
		return err
	}
	defer c.Shutdown()

	if err := c.InitConverter(ctx); err != nil {
		return err
	}
	_, err = c.Converter.Convert(ctx)
	return err
}
