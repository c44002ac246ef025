package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/report"
)

var (
	statsPeriod  string
	statsRefresh bool
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show match statistics",
	Long: `Aggregate every saved match into overview, form, opponent and goal statistics.

Matches come from --endpoint when configured, otherwise from the match in
progress, otherwise from the locally saved list.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsPeriod, "period", "all", "all, today, week or month")
	statsCmd.Flags().BoolVar(&statsRefresh, "refresh", false, "ignore the cached result")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON instead of tables")
}

func runStats(cmd *cobra.Command, args []string) error {
	period, err := aggregator.ParsePeriod(statsPeriod)
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := newService(db, nil)
	ctx := cmd.Context()

	var st *aggregator.MatchStatistics
	if period == aggregator.PeriodAll {
		st, err = svc.GetStatistics(ctx, statsRefresh)
	} else {
		st, err = svc.GetStatisticsForPeriod(ctx, period)
	}
	if err != nil {
		return fmt.Errorf("calculate statistics: %w", err)
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	fmt.Fprintf(os.Stdout, "%s  |  period: %s  |  matches: %d\n", appCfg.Team.Name, period, st.TotalMatches)
	report.PrintStatistics(os.Stdout, st)
	return nil
}
