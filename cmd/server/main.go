package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"casedesk/internal/config"
	"casedesk/internal/handler"
	"casedesk/internal/metrics"
	"casedesk/internal/middleware"
	"casedesk/internal/recognition"
	_ "casedesk/internal/recognition/claude"
	_ "casedesk/internal/recognition/gemini"
	_ "casedesk/internal/recognition/openai"
	"casedesk/internal/repository/postgres"
	"casedesk/internal/router"
	"casedesk/internal/service"
	s3storage "casedesk/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	clientRepo := postgres.NewClientRepo(db)
	documentRepo := postgres.NewDocumentRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	m := metrics.New()

	// Initialize recognition
	recognizer, err := recognition.NewClientFromConfig(&cfg.Recognition, m)
	if err != nil {
		return fmt.Errorf("failed to initialize recognition: %w", err)
	}
	log.Printf("recognition: primary=%s/%s fallback=%s",
		cfg.Recognition.Primary.Provider, cfg.Recognition.Primary.Model, fallbackLabel(&cfg.Recognition))

	// Initialize services
	clientSvc := service.NewClientService(clientRepo, documentRepo, s3Client, &cfg.S3)
	documentSvc := service.NewDocumentService(documentRepo, clientRepo, s3Client, &cfg.S3)
	recognitionSvc := service.NewRecognitionService(clientRepo, documentRepo, s3Client, recognizer, m, &cfg.S3)

	validator, err := handler.NewExtractedDataValidator()
	if err != nil {
		return err
	}

	// Setup router
	r := router.Setup(router.Handlers{
		Client:    handler.NewClientHandler(clientSvc, validator),
		Document:  handler.NewDocumentHandler(documentSvc),
		Recognize: handler.NewRecognizeHandler(recognitionSvc),
		Health:    handler.NewHealthHandler(db),
	}, router.Options{
		Validator:      middleware.NewTokenValidator(cfg.Auth),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		HTTPObserver:   m,
		MetricsHandler: m.Handler(),
	})
	if !cfg.Auth.Enabled() {
		log.Printf("warning: no API key or JWT secret configured, write endpoints are open")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func fallbackLabel(cfg *config.RecognitionConfig) string {
	fb := cfg.FallbackConfig()
	if fb == nil {
		return "none"
	}
	return fb.Provider + "/" + fb.Model
}
