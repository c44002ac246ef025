package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/report"
	"github.com/pable/go-match-stats/internal/roster"
)

var (
	rosterNumber int
	rosterForce  bool
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the team roster",
	Long:  "Player statistics only count names on the roster; goals and attendance for other names are ignored.",
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roster players",
	Args:  cobra.NoArgs,
	RunE: withRoster(func(cmd *cobra.Command, m *roster.Manager, args []string) error {
		players, err := m.GetRoster(cmd.Context())
		if err != nil {
			return err
		}
		report.PrintRoster(os.Stdout, players)
		return nil
	}),
}

var rosterAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a player",
	Args:  cobra.MinimumNArgs(1),
	RunE: withRoster(func(cmd *cobra.Command, m *roster.Manager, args []string) error {
		p, err := m.AddPlayer(cmd.Context(), strings.Join(args, " "), numberFlag(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Added %s\n", p.Name)
		return nil
	}),
}

var rosterRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a player",
	Args:  cobra.MinimumNArgs(1),
	RunE: withRoster(func(cmd *cobra.Command, m *roster.Manager, args []string) error {
		name := strings.Join(args, " ")
		if err := m.RemovePlayer(cmd.Context(), name); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed %s\n", name)
		return nil
	}),
}

var rosterRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a player or change their shirt number",
	Long:  "Rename a player. Pass the same name twice with --number to only change the shirt number; without --number the current number is kept.",
	Args:  cobra.ExactArgs(2),
	RunE: withRoster(func(cmd *cobra.Command, m *roster.Manager, args []string) error {
		number := numberFlag(cmd)
		if !cmd.Flags().Changed("number") {
			players, err := m.GetRoster(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range players {
				if strings.EqualFold(p.Name, strings.TrimSpace(args[0])) {
					number = p.ShirtNumber
				}
			}
		}
		p, err := m.UpdatePlayer(cmd.Context(), args[0], args[1], number)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Updated %s\n", p.Name)
		return nil
	}),
}

var rosterImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Add one player per line from a file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: withRoster(func(cmd *cobra.Command, m *roster.Manager, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		var names []string
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			names = append(names, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return err
		}
		added, err := m.ImportNames(cmd.Context(), names)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Added %d new players.\n", added)
		return nil
	}),
}

var rosterClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every player",
	Args:  cobra.NoArgs,
	RunE: withRoster(func(cmd *cobra.Command, m *roster.Manager, args []string) error {
		if !rosterForce {
			fmt.Fprintln(os.Stderr, "This removes every roster player. Re-run with --force to confirm.")
			return nil
		}
		if err := m.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Roster cleared.")
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{rosterAddCmd, rosterRenameCmd} {
		c.Flags().IntVarP(&rosterNumber, "number", "n", 0, fmt.Sprintf("shirt number (0-%d)", roster.MaxShirtNumber))
	}
	rosterClearCmd.Flags().BoolVarP(&rosterForce, "force", "f", false, "skip confirmation prompt")

	rosterCmd.AddCommand(rosterListCmd, rosterAddCmd, rosterRemoveCmd, rosterRenameCmd, rosterImportCmd, rosterClearCmd)
}

// withRoster opens the store and hands the user's roster manager to fn.
func withRoster(fn func(*cobra.Command, *roster.Manager, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(cmd, roster.NewManager(db, userID), args)
	}
}

// numberFlag returns --number when it was given.
func numberFlag(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("number") {
		return nil
	}
	n := rosterNumber
	return &n
}
