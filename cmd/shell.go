package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/report"
	"github.com/pable/go-match-stats/internal/roster"
	"github.com/pable/go-match-stats/internal/stats"
	"github.com/pable/go-match-stats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Statistics are cached for the session; type 'refresh' to recompute.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// session holds what the REPL keeps between commands.
type session struct {
	db     *storage.DB
	svc    *stats.Service
	roster *roster.Manager
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	rm := roster.NewManager(db, userID)
	s := &session{db: db, svc: newService(db, rm), roster: rm}
	ctx := cmd.Context()

	cGreeting.Printf("matchstats shell  (%s)\n", appCfg.Team.Name)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("matchstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "stats":
			period := ""
			if len(args) > 0 {
				period = args[0]
			}
			s.stats(ctx, period, false)
		case "refresh":
			s.stats(ctx, "", true)
		case "players":
			s.players(ctx)
		case "matches":
			s.matches(ctx)
		case "roster":
			s.showRoster(ctx)
		case "add":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: add <player name>")
				continue
			}
			s.addPlayer(ctx, strings.Join(args, " "))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"stats [all|today|week|month]", "match statistics (cached for the session)"},
		{"refresh", "recompute statistics from the source"},
		{"players", "per-player statistics for the roster"},
		{"matches", "list the matches statistics are computed from"},
		{"roster", "list roster players"},
		{"add <name>", "add a player to the roster"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-32s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *session) stats(ctx context.Context, rawPeriod string, refresh bool) {
	period, err := aggregator.ParsePeriod(rawPeriod)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	var st *aggregator.MatchStatistics
	if period == aggregator.PeriodAll {
		st, err = s.svc.GetStatistics(ctx, refresh)
	} else {
		st, err = s.svc.GetStatisticsForPeriod(ctx, period)
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- %s: %d matches (%s) ---\n", appCfg.Team.Name, st.TotalMatches, period)
	report.PrintStatistics(os.Stdout, st)
}

func (s *session) players(ctx context.Context) {
	ps, err := s.svc.CalculatePlayerStatistics(ctx)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintPlayers(os.Stdout, ps)
}

func (s *session) matches(ctx context.Context) {
	matches, err := matchChain(s.db).GetAllMatches(ctx)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches saved yet.")
		return
	}
	report.PrintMatchList(os.Stdout, matches)
	for _, issue := range aggregator.ScoreIssues(matches) {
		cWarn.Fprintf(os.Stderr, "warning: %s\n", issue)
	}
}

func (s *session) showRoster(ctx context.Context) {
	players, err := s.roster.GetRoster(ctx)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintRoster(os.Stdout, players)
}

func (s *session) addPlayer(ctx context.Context, name string) {
	p, err := s.roster.AddPlayer(ctx, name, nil)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cMuted.Printf("added %s\n", p.Name)
}
