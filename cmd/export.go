package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/report"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export statistics and matches as JSON, CSV or XLSX",
	Long: `Write a snapshot of the statistics to a file or stdout.

  json  statistics, player statistics and data-quality warnings
  csv   one row per match (re-importable with 'matches import')
  xlsx  workbook with Overview, Matches, Opponents, Scorers and Players sheets

The format defaults to the --out file extension, then json.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "json, csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format := exportFormat
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(exportOut)), ".")
	}
	switch format {
	case "":
		format = report.FormatJSON
	case report.FormatJSON, report.FormatCSV, report.FormatXLSX:
	default:
		return fmt.Errorf("unknown export format %q (want json, csv or xlsx)", format)
	}
	if format == report.FormatXLSX && exportOut == "" {
		return fmt.Errorf("xlsx export needs --out")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	exp, err := newService(db, nil).ExportStatistics(ctx)
	if err != nil {
		return fmt.Errorf("export statistics: %w", err)
	}
	matches, err := matchChain(db).GetAllMatches(ctx)
	if err != nil {
		return fmt.Errorf("load matches: %w", err)
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}
	if err := report.WriteExport(w, format, exp, matches); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	for _, issue := range exp.DataQuality {
		logger.Warn().Str("issue", issue.String()).Msg("data quality")
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Exported %d matches (%s) to %s\n", len(matches), format, exportOut)
	}
	return nil
}
