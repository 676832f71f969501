package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"imagenet-web/internal/classify"
	"imagenet-web/internal/config"
	"imagenet-web/internal/handlers"
	"imagenet-web/internal/storage"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port       string
		address    string
		hosts      []string
		uploadsDir string
		topN       int
		provider   string
		model      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the image classification web server",
		Long: `Starts the upload form and classification pipeline on the specified port.

Requests are only served when their Host header matches one of the
configured allow-list entries. With no --host flags, localhost and
127.0.0.1 on the listen port are allowed.`,
		Example: `  # Start server on default port 8086, allowing localhost
  imagenet-web serve

  # Allow an external hostname and use OpenAI for classification
  imagenet-web serve --host classify.example.com:8086 --provider openai`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(hosts) == 0 {
				hosts = []string{"localhost:" + port, "127.0.0.1:" + port}
			}

			cfg := config.Config{
				Address:      address,
				Port:         port,
				AllowedHosts: config.NewHostSet(hosts),
				UploadsDir:   uploadsDir,
				TopN:         topN,
				Provider:     provider,
				Model:        model,
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := storage.New(cfg.UploadsDir)
			if err != nil {
				return err
			}

			classifier, err := classify.New(cfg.Provider, cfg.Model)
			if err != nil {
				return err
			}

			// Provision model artifacts before the first request. Only the
			// Ollama engine holds anything locally.
			if o, ok := classifier.(*classify.Ollama); ok {
				slog.Info("Ensuring Ollama model is available")
				if err := o.EnsureModel(cmd.Context()); err != nil {
					return fmt.Errorf("failed to provision model: %w", err)
				}
			}

			handler := handlers.New(store, classifier, cfg.TopN)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/", handler.HandleIndex)
			mux.HandleFunc("/upload", handler.HandleUpload)
			mux.HandleFunc("/uploads/", handler.HandleUploads)
			mux.HandleFunc("/healthcheck", handler.HandleHealthcheck)

			server := &http.Server{
				Addr:    cfg.Addr(),
				Handler: handlers.HostGuard(cfg.AllowedHosts, mux),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Classification interface available",
					"addr", cfg.Addr(),
					"allowed_hosts", cfg.AllowedHosts.List(),
					"provider", cfg.Provider)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8086", "Port to listen on")
	cmd.Flags().StringVar(&address, "address", "0.0.0.0", "IP address the server should listen on")
	cmd.Flags().StringArrayVar(&hosts, "host", nil, "host:port allowed in request Host headers (repeatable)")
	cmd.Flags().StringVar(&uploadsDir, "uploads-dir", "uploads", "Directory to store uploaded images in")
	cmd.Flags().IntVar(&topN, "top-n", 5, "Number of predictions to display")
	cmd.Flags().StringVar(&provider, "provider", "ollama", "Classification engine: ollama, openai, or gemini")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to the provider's default)")

	return cmd
}
