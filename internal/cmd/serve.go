package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Wangkaiwei233/word-fetcher/internal/observability"
	"github.com/Wangkaiwei233/word-fetcher/internal/server"
	"github.com/Wangkaiwei233/word-fetcher/internal/server/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "Override server host")
	serveCmd.Flags().Int("port", 0, "Override server port")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	logger := observability.ServerLogger
	defer observability.Sync()

	application, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}

	h := &handlers.Handlers{
		Store:          application.store,
		Runner:         application.runner,
		Marks:          application.marks,
		Query:          application.query,
		Lexicon:        application.lexicon,
		Logger:         logger,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		Version:        Version,
	}

	srv := server.New(cfg.Server, cfg.Upload, h, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
