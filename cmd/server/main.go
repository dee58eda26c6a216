package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agenda-escolar/internal/accounts"
	"agenda-escolar/internal/catalog"
	"agenda-escolar/internal/config"
	"agenda-escolar/internal/database"
	"agenda-escolar/internal/export"
	"agenda-escolar/internal/handlers"
	"agenda-escolar/internal/logging"
	"agenda-escolar/internal/notify"
	"agenda-escolar/internal/server"
	"agenda-escolar/internal/workflow"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agenda",
		Short: "Agendamentos da escola",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initDBCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Sobe o servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Cria as tabelas e os dados iniciais",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitDB(cmd.Context())
		},
	}
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}
	return cfg, logging.New(cfg.LogLevel, !cfg.IsProduction()), nil
}

func runInitDB(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	users := database.DefaultUsers(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail)
	if err := database.Seed(ctx, db, users, logger); err != nil {
		return err
	}
	logger.Info().Msg("database initialized")
	return nil
}

func runServer(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	st := database.NewStore(db)

	accountSvc := accounts.NewService(st.Accounts(), logger)
	catalogSvc := catalog.NewService(st.Catalog(), logger)

	var notifier workflow.HandoffNotifier
	if cfg.SMTP.Enabled() {
		notifier = notify.NewMailer(cfg.SMTP, accountSvc, logger)
	} else {
		logger.Info().Msg("SMTP_HOST not set, handoff e-mails disabled")
	}
	apptSvc := workflow.NewService(st.Appointments(), notifier, logger)

	var archiver export.Archiver
	if cfg.Reports.Enabled() {
		s3a, err := export.NewS3Archiver(ctx, export.S3Options{
			Bucket:          cfg.Reports.Bucket,
			Endpoint:        cfg.Reports.Endpoint,
			PublicURL:       cfg.Reports.PublicURL,
			AccessKeyID:     cfg.Reports.AccessKeyID,
			SecretAccessKey: cfg.Reports.SecretAccessKey,
		})
		if err != nil {
			return err
		}
		archiver = s3a
	}

	h := handlers.New(handlers.Deps{
		Appointments: apptSvc,
		Catalog:      catalogSvc,
		Accounts:     accountSvc,
		Audit:        st,
		DB:           st,
		PDF:          export.ChromePDF{Timeout: cfg.ChromeTimeout},
		Archive:      archiver,
		Log:          logger,
	})

	r, err := server.NewRouter(cfg, h, st, logger)
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
