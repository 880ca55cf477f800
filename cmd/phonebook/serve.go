package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/phonebook/internal/phonebook"
	"github.com/JonMunkholm/phonebook/internal/store"
	"github.com/JonMunkholm/phonebook/internal/web"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve phone book generation over HTTP",
		Long: `Start an HTTP server.

  POST /api/phonebook   multipart upload (field "file") -> .tex download
  GET  /api/phonebook   document for the stored contact list
  GET  /healthz         health check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *options) error {
	cfg := opts.cfg

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"db_configured", cfg.Database.HasDatabase(),
		"upload_max_file_size", cfg.Upload.MaxFileSize,
	)

	// The database is optional; without it only uploads are served.
	var contacts web.ContactLister
	if cfg.Database.HasDatabase() {
		st, err := store.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.EnsureSchema(ctx); err != nil {
			return err
		}
		contacts = st
	}

	server := web.NewServer(cfg, phonebook.NewService(cfg.Phonebook), contacts)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	slog.Info("server stopped")
	return nil
}
