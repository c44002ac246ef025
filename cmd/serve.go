package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/auth"
	"github.com/pable/go-match-stats/internal/config"
	"github.com/pable/go-match-stats/internal/functions"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the user-matches, user-stats and teams endpoints",
	Long: `Serve the HTTP endpoints. Inside AWS Lambda (AWS_LAMBDA_FUNCTION_NAME set) the
router is handed to the Lambda runtime; otherwise it listens on --addr until
interrupted.

Requires TOKEN_SECRET. Uses POSTGRES_DSN when set, otherwise the --db file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (env ADDR, default :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.TokenSecret == "" {
		return errors.New("TOKEN_SECRET is not set")
	}
	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := functions.NewServer(db, auth.NewVerifier(cfg.TokenSecret, cfg.AllowLegacyTokens), functions.Options{
		StatsTTL:    cfg.StatsTTL,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	if cfg.AllowLegacyTokens {
		logger.Warn().Msg("legacy unsigned tokens are accepted")
	}

	if config.InLambda() {
		functions.ServeLambda(srv.Routes(), logger)
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return functions.ListenAndServe(ctx, addr, srv.Routes(), logger.With().Str("dialect", string(db.Dialect())).Logger())
}
