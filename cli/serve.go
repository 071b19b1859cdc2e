package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redline-backend/cache"
	"redline-backend/database"
	"redline-backend/handlers"
	"redline-backend/llm"
	"redline-backend/logger"
	"redline-backend/parser"
	"redline-backend/repository"
	"redline-backend/service"
	"redline-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// ExecuteServe runs the serve command with the process arguments as its flags
func ExecuteServe() {
	rootCmd.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	Execute()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			return err
		}
	}

	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	defer db.Close()

	fileStorage, err := storage.NewStorage(storage.Config{
		Type:         storage.Type(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized (%s)", cfg.Storage.Type)

	client, err := llm.NewClient(ctx, llm.Settings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize %s client: %w", cfg.LLM.Provider, err)
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}
	logger.Info("LLM client initialized (%s)", cfg.LLM.Provider)

	resultCache, err := cache.NewLRU(cfg.Cache.Capacity)
	if err != nil {
		return err
	}

	documentRepo := repository.NewDocumentRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)

	analysisService := service.NewAnalysisService(
		service.WithLLMClient(llm.NewRetryingClient(client,
			llm.WithMaxAttempts(cfg.LLM.MaxAttempts),
			llm.WithBackoff(llm.ExponentialBackoff(cfg.LLM.InitialBackoff)),
			llm.WithAttemptTimeout(cfg.LLM.Timeout),
		)),
		service.WithCache(resultCache),
		service.WithParser(parser.NewParser()),
		service.WithAnalysisStore(analysisRepo),
		service.WithDocumentStore(documentRepo),
	)
	documentService := service.NewDocumentService(
		service.DocumentWithStore(documentRepo),
		service.DocumentWithStorage(fileStorage),
		service.DocumentWithMaxFileSize(cfg.Upload.MaxFileSize),
	)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	handlers.RegisterRoutes(r,
		handlers.NewAnalysisHandler(analysisService),
		handlers.NewDocumentHandler(documentService),
	)

	port := servePort
	if port == "" {
		port = cfg.Server.Port
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting on port %s", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
