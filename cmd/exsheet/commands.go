package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/exsheet-go/pkg/exsheet"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/formula"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/grid"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/output"
	"github.com/ukaji3/exsheet-go/pkg/exsheet/transfer"
)

// selectSheet activates the 1-based sheet n. Zero keeps the first sheet.
func selectSheet(wb *exsheet.Workbook, n int) error {
	if n == 0 {
		return nil
	}
	if err := wb.SwitchSheet(n - 1); err != nil {
		return fmt.Errorf("sheet %d: %w", n, err)
	}
	return nil
}

func (a *app) importCmd() *cobra.Command {
	var sheet int

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace a sheet with the content of a CSV, JSON, xlsx or xls file",
		Long: `Reads the file, replaces the data of the target sheet with it and saves
the workbook. The format follows the file extension. The sheet's styles and
layout metadata are cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			store, wb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := selectSheet(wb, sheet); err != nil {
				return err
			}
			if err := wb.Import(filepath.Base(path), data); err != nil {
				return err
			}
			if err := wb.Save(cmd.Context(), store); err != nil {
				return fmt.Errorf("failed to save workbook: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s (%dx%d)\n",
				path, output.SheetName(wb.CurrentIndex()), wb.Rows(), wb.Cols())
			return nil
		},
	}

	cmd.Flags().IntVar(&sheet, "sheet", 0, "Target sheet number (default: first sheet)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		format     string
		outputPath string
		download   bool
		sheet      int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a sheet's raw values as CSV, JSON or xlsx",
		Long: `Writes the raw cell values of a sheet (formulas are not evaluated).
Without --format the format follows the --output extension, falling back to
CSV. Without --output the result goes to stdout. --download writes CSV to the
configured export directory and file name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, wb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := selectSheet(wb, sheet); err != nil {
				return err
			}

			if download {
				path, err := wb.DownloadFile(a.cfg.Export.Dir, a.cfg.Export.Filename)
				if err != nil {
					return fmt.Errorf("failed to write download: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			f, err := exportFormat(format, outputPath)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer file.Close()
				out = file
			}
			if err := wb.Export(out, f); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: csv, json, xlsx")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&download, "download", false, "Write CSV to the configured export file")
	cmd.Flags().IntVar(&sheet, "sheet", 0, "Sheet number (default: first sheet)")
	return cmd
}

// exportFormat picks the export format from --format, then the output
// extension, and rejects formats Export cannot write before any file is
// created.
func exportFormat(format, outputPath string) (transfer.Format, error) {
	var f transfer.Format
	switch {
	case format != "":
		f = transfer.Format(strings.ToLower(format))
	case outputPath != "":
		detected, err := transfer.DetectFormat(outputPath)
		if err != nil {
			return "", err
		}
		f = detected
	default:
		return transfer.FormatCSV, nil
	}
	switch f {
	case transfer.FormatCSV, transfer.FormatJSON, transfer.FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: export %q", transfer.ErrUnsupportedFormat, f)
}

func (a *app) chartCmd() *cobra.Command {
	var (
		chartType string
		cellRange string
		save      bool
		pretty    bool
		sheet     int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print a chart over a range of a sheet",
		Long: `Reads a chart over a range of a saved sheet and prints its labels and
series as JSON. The first row of the range gives the labels and every
further row one series; non-numeric cells count as 0. --save records the
chart in the sheet so that xlsx exports draw it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := models.ParseRange(cellRange)
			if err != nil {
				return fmt.Errorf("invalid --range: %w", err)
			}

			store, wb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := selectSheet(wb, sheet); err != nil {
				return err
			}
			chart, err := wb.Chart(chartType, r)
			if err != nil {
				return err
			}
			if save {
				if err := wb.InsertChart(chartType, r); err != nil {
					return err
				}
				if err := wb.Save(cmd.Context(), store); err != nil {
					return fmt.Errorf("failed to save workbook: %w", err)
				}
			}

			jsonData, err := output.ChartToJSON(&chart, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}

	cmd.Flags().StringVar(&chartType, "type", models.ChartBar, "Chart type: "+strings.Join(models.ChartTypes, ", "))
	cmd.Flags().StringVar(&cellRange, "range", models.DefaultChartRange.String(), "Charted range")
	cmd.Flags().BoolVar(&save, "save", false, "Record the chart in the sheet")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().IntVar(&sheet, "sheet", 0, "Sheet number (default: first sheet)")
	return cmd
}

func (a *app) evalCmd() *cobra.Command {
	var sheet int

	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate a formula against a saved sheet",
		Long: `Evaluates a formula such as "=SUM(A1:A3)*2" and prints the result.
References read the literal values of the saved sheet. The leading "=" is
optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, wb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := selectSheet(wb, sheet); err != nil {
				return err
			}
			s, err := wb.ActiveSheet()
			if err != nil {
				return err
			}

			expr := strings.TrimPrefix(strings.TrimSpace(args[0]), "=")
			v, err := formula.Evaluate(expr, formula.SheetResolver(&s))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formula.FormatNumber(v))
			return nil
		},
	}

	cmd.Flags().IntVar(&sheet, "sheet", 0, "Sheet number (default: first sheet)")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var (
		asJSON bool
		pretty bool
		sheet  int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a sheet's computed values",
		Long: `Prints the computed values of a sheet up to the last non-empty cell,
one row per line with tab-separated cells. --json prints the whole saved
workbook in its storage form instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, wb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if asJSON {
				snap, err := wb.Snapshot()
				if err != nil {
					return err
				}
				jsonData, err := output.ToJSON(&snap, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
				return nil
			}

			if err := selectSheet(wb, sheet); err != nil {
				return err
			}
			s, err := wb.ActiveSheet()
			if err != nil {
				return err
			}
			used, ok := grid.UsedRange(&s)
			if !ok {
				return nil
			}
			display := wb.Recompute()
			for r := 0; r < used.R2; r++ {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(display[r][:used.C2], "\t"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the workbook as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().IntVar(&sheet, "sheet", 0, "Sheet number (default: first sheet)")
	return cmd
}

func (a *app) sheetsCmd() *cobra.Command {
	var (
		asJSON bool
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List the saved sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, wb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := wb.Snapshot()
			if err != nil {
				return err
			}
			summaries := output.Summarize(&snap)

			if asJSON {
				jsonData, err := output.SummariesToJSON(summaries, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
				return nil
			}

			for _, s := range summaries {
				used := s.UsedRange
				if used == "" {
					used = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %4dx%-3d used %-8s cells %d\n",
					s.Name, s.Rows, s.Cols, used, s.Cells)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print summaries as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}
