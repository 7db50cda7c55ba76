// Package main provides the CLI entry point for exsheet.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ukaji3/exsheet-go/pkg/exsheet"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/config"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/storage"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/view"
)

type app struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "exsheet",
		Short: "A local spreadsheet in the terminal",
		Long: `exsheet is a single-user spreadsheet: a grid of cells with formulas,
multiple sheets, undo/redo, and import/export of CSV, JSON, xlsx and xls.

The workbook is kept in a local SQLite database. Run without arguments to
open the interactive grid.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runView,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		a.importCmd(),
		a.exportCmd(),
		a.evalCmd(),
		a.showCmd(),
		a.sheetsCmd(),
		a.chartCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Storage.Path = a.dbPath
	}
	a.cfg = cfg

	logger, err := newLogger(cfg, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// newLogger builds a production logger writing to the configured log file,
// keeping the terminal free for the grid.
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	if cfg.Logging.File == "" {
		return zap.NewNop(), nil
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.Logging.File}
	zc.ErrorOutputPaths = []string{cfg.Logging.File}
	return zc.Build()
}

func (a *app) options() exsheet.Options {
	return exsheet.Options{
		Rows:         a.cfg.Grid.Rows,
		Cols:         a.cfg.Grid.Cols,
		HistoryLimit: a.cfg.History.Limit,
		Logger:       a.logger,
	}
}

// open opens the local store and the workbook saved in it. The caller closes
// the store.
func (a *app) open(ctx context.Context) (*storage.SQLiteStore, *exsheet.Workbook, error) {
	store, err := storage.OpenSQLite(a.cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	wb, err := exsheet.Open(ctx, store, a.options())
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load workbook: %w", err)
	}
	return store, wb, nil
}

func (a *app) runView(cmd *cobra.Command, args []string) error {
	store, wb, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	a.logger.Info("starting view", zap.String("db", store.Path()))
	return view.Run(wb, view.Options{
		Store:          store,
		ExportDir:      a.cfg.Export.Dir,
		ExportFilename: a.cfg.Export.Filename,
		Logger:         a.logger,
	})
}
