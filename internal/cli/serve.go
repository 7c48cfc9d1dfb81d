package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ppiankov/sentinel/internal/pipeline"
	"github.com/ppiankov/sentinel/internal/server"
	"github.com/ppiankov/sentinel/internal/session"
)

var (
	serveAddr      string
	sessionBackend string
	sessionDB      string
	sessionTTL     time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the contract analysis HTTP API",
	Long:  `Serve exposes the analyzer over HTTP:
  GET    /health             liveness and session count
  POST   /analyze-contract   multipart upload (field "file")
  GET    /session/:id        stored analysis (refreshes the session)
  GET    /session/:id/info   session timestamps
  DELETE /session/:id        forget an analysis

Sessions expire after --session-ttl of inactivity.

Example:
  sentinel serve
  sentinel serve --addr :8080 --session-backend sqlite --session-db sessions.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :5000)")
	serveCmd.Flags().StringVar(&sessionBackend, "session-backend", "", "session store: memory or sqlite")
	serveCmd.Flags().StringVar(&sessionDB, "session-db", "", "SQLite database path for the sqlite backend")
	serveCmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "session inactivity timeout (default 30m)")
	addAnalysisFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalysisFlags(cmd, cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if sessionBackend != "" {
		cfg.Session.Backend = sessionBackend
	}
	if sessionDB != "" {
		cfg.Session.DBPath = sessionDB
	}
	if sessionTTL > 0 {
		cfg.Session.TTL = sessionTTL
	}
	logger := newLogger()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("initialize analyzer: %w", err)
	}

	store, err := session.New(cfg.Session)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: close session store: %v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Contract Sentinel API on %s (sessions: %s, ttl %v, AI: %v)\n",
		cfg.Server.Addr, cfg.Session.Backend, cfg.Session.TTL, p.AdvisorEnabled())

	srv := server.New(p, store, cfg.Server, server.WithLogger(logger))
	return srv.Run(ctx, cfg.Server.Addr)
}
