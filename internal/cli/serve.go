package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Huzaifa1910/openaibot/internal/agent"
	"github.com/Huzaifa1910/openaibot/internal/config"
	"github.com/Huzaifa1910/openaibot/internal/gateway"
	"github.com/Huzaifa1910/openaibot/internal/llm"
	"github.com/Huzaifa1910/openaibot/internal/logging"
	"github.com/Huzaifa1910/openaibot/internal/sheets"
	"github.com/Huzaifa1910/openaibot/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the coaching gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}
			if logLevel == "" {
				log = logging.New(nil, cfg.Logging.Level, cfg.Logging.ConsoleStyle)
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// Session store (SQLite or in-memory)
			var sessions agent.SessionStore
			if cfg.Session.Store == "sqlite" {
				dbPath := filepath.Join(paths.Data, "salescoach.db")
				db, err := store.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				sessions = store.NewSQLiteSessionStore(db)
				log.Info().Str("path", dbPath).Msg("using SQLite session store")
			} else {
				sessions = agent.NewMemorySessionStore()
				log.Info().Msg("using in-memory session store")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Audit logger (Google Sheets, if configured)
			var audit sheets.AuditLogger = sheets.Disabled{}
			if sheetsConfigured(cfg.Sheets) {
				client, err := sheets.New(ctx, cfg.Sheets, log)
				if err != nil {
					return fmt.Errorf("initializing sheets client: %w", err)
				}
				audit = client
				log.Info().Msg("google sheets audit logging enabled")
			} else {
				log.Warn().Msg("google sheets not configured — daily log and transcripts are disabled")
			}

			openAI := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)

			coach := agent.New(openAI, sessions, audit, log, agent.Options{
				Model:          cfg.OpenAI.Model,
				MaxTokens:      cfg.OpenAI.MaxTokens,
				Temperature:    cfg.OpenAI.Temperature,
				IdleTTL:        time.Duration(cfg.Session.IdleMinutes) * time.Minute,
				MaxStoredTurns: cfg.Session.MaxStored,
			})

			return gateway.New(cfg.Gateway, coach, log).Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}

func sheetsConfigured(cfg config.SheetsConfig) bool {
	hasCreds := cfg.CredentialsFile != "" || cfg.CredentialsJSON != ""
	hasSheet := cfg.DailyLogSpreadsheetID != "" || cfg.SessionLogSpreadsheetID != ""
	return hasCreds && hasSheet
}
