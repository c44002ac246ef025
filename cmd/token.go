package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/auth"
)

var tokenLegacy bool

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue bearer tokens for the endpoints",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <user-id> <email>",
	Short: "Print a signed token valid for 24 hours",
	Long:  "Print a token signed with TOKEN_SECRET. --legacy prints an unsigned token, only accepted when ALLOW_LEGACY_TOKENS is on.",
	Args:  cobra.ExactArgs(2),
	RunE:  runTokenIssue,
}

func init() {
	tokenIssueCmd.Flags().BoolVar(&tokenLegacy, "legacy", false, "issue an unsigned legacy token")
	tokenCmd.AddCommand(tokenIssueCmd)
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	if tokenLegacy {
		fmt.Fprintln(os.Stdout, auth.LegacyToken(args[0], args[1], time.Now()))
		return nil
	}
	if cfg.TokenSecret == "" {
		return errors.New("TOKEN_SECRET is not set")
	}
	tok, err := auth.NewVerifier(cfg.TokenSecret, false).Issue(args[0], args[1])
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Fprintln(os.Stdout, tok)
	return nil
}
