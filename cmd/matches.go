package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/report"
	"github.com/pable/go-match-stats/internal/source"
)

var matchesRemote bool

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List, import or delete saved matches",
}

var matchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the matches statistics are computed from",
	Args:  cobra.NoArgs,
	RunE:  runMatchesList,
}

var matchesImportCmd = &cobra.Command{
	Use:   "import <file.json|file.csv>",
	Short: "Append matches from a JSON array or CSV file",
	Long: `Append matches to the local saved list, or upload them to --endpoint with --remote.

JSON files hold an array of match records as the tracker saves them. CSV files
need at least an opponent column; date, venue, score_for, score_against,
minutes and notes are read when present.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatchesImport,
}

var matchesDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete the match at a list index",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatchesDelete,
}

func init() {
	matchesImportCmd.Flags().BoolVar(&matchesRemote, "remote", false, "upload to --endpoint instead of the local list")
	matchesDeleteCmd.Flags().BoolVar(&matchesRemote, "remote", false, "delete from --endpoint instead of the local list")

	matchesCmd.AddCommand(matchesListCmd)
	matchesCmd.AddCommand(matchesImportCmd)
	matchesCmd.AddCommand(matchesDeleteCmd)
}

func runMatchesList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := matchChain(db).GetAllMatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("load matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches saved yet. Run 'matchstats matches import <file>' to add some.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	report.PrintScoreIssues(os.Stderr, aggregator.ScoreIssues(matches))
	return nil
}

func runMatchesImport(cmd *cobra.Command, args []string) error {
	matches, err := readMatchesFile(args[0])
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches in file.")
		return nil
	}
	now := time.Now().UnixMilli()
	for i := range matches {
		if matches[i].SavedAt == 0 {
			matches[i].SavedAt = now
		}
	}

	if matchesRemote {
		cl := cloudClient()
		if cl == nil {
			return errors.New("--remote needs --endpoint and --token")
		}
		for i, m := range matches {
			saved, err := cl.SaveMatch(cmd.Context(), m)
			if err != nil {
				return fmt.Errorf("upload match %d (%s): %w", i, m.Opponent(), err)
			}
			logger.Debug().Str("id", saved.ID).Str("opponent", saved.Opponent()).Msg("uploaded")
		}
		fmt.Fprintf(os.Stdout, "Uploaded %d matches to %s\n", len(matches), endpoint)
		return nil
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	all, err := source.AppendLocalMatches(cmd.Context(), localState(db), matches...)
	if err != nil {
		return fmt.Errorf("save matches: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d matches (%d saved).\n", len(matches), len(all))
	report.PrintScoreIssues(os.Stderr, aggregator.ScoreIssues(matches))
	return nil
}

func readMatchesFile(path string) ([]model.MatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return report.ReadMatchesCSV(f)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var matches []model.MatchRecord
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return matches, nil
}

func runMatchesDelete(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 0 {
		return fmt.Errorf("invalid index %q", args[0])
	}

	if matchesRemote {
		cl := cloudClient()
		if cl == nil {
			return errors.New("--remote needs --endpoint and --token")
		}
		if err := cl.DeleteMatch(cmd.Context(), "", index); err != nil {
			return fmt.Errorf("delete match %d: %w", index, err)
		}
		fmt.Fprintf(os.Stdout, "Deleted match %d from %s\n", index, endpoint)
		return nil
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := source.DeleteLocalMatch(cmd.Context(), localState(db), index)
	if err != nil {
		return err
	}
	ours, theirs := removed.Scores()
	fmt.Fprintf(os.Stdout, "Deleted match %d: vs %s %d-%d\n", index, removed.Opponent(), ours, theirs)
	return nil
}
