package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/report"
)

var playersJSON bool

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Show per-player statistics for the roster",
	Long:  "Cross-reference the roster with attendance and goal records of every saved match.",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func init() {
	playersCmd.Flags().BoolVar(&playersJSON, "json", false, "print JSON instead of a table")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	ps, err := newService(db, nil).CalculatePlayerStatistics(ctx)
	if err != nil {
		return fmt.Errorf("calculate player statistics: %w", err)
	}

	if playersJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ps)
	}
	report.PrintPlayers(os.Stdout, ps)
	return nil
}
