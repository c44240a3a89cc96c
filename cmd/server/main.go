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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sahara/internal/config"
	"sahara/internal/domain"
	"sahara/internal/handler"
	"sahara/internal/heuristics"
	"sahara/internal/langdetect"
	"sahara/internal/logging"
	"sahara/internal/ocr"
	"sahara/internal/port"
	"sahara/internal/provider"
	"sahara/internal/router"
	"sahara/internal/service"
	s3storage "sahara/internal/storage/s3"
	"sahara/internal/structuring"

	// Register AI provider factories
	_ "sahara/internal/provider/claude"
	_ "sahara/internal/provider/gemini"
	_ "sahara/internal/provider/openai"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize AI providers
	orchestrator, aiProviders := buildOrchestrator(&cfg.AI, logger)

	// Initialize OCR engine
	ocrEngine := ""
	ocrProvider, err := newOCRProvider(&cfg.OCR)
	if err != nil {
		logger.Warn().Err(err).Str("engine", cfg.OCR.Provider).Msg("OCR engine not available")
		ocrProvider = &ocr.Unavailable{Engine: cfg.OCR.Provider, Err: err}
	} else {
		ocrEngine = ocrProvider.Name()
	}

	// Initialize storage
	var images port.ImageSource
	if cfg.S3.Enabled() {
		src, err := s3storage.NewImageSource(&cfg.S3, cfg.OCR.MaxImageMB)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 image source: %w", err)
		}
		images = src
	}

	// Initialize rule-based components
	engine := structuring.New(structuring.DefaultVocabulary(), cfg.Heuristics.Version)
	detector := langdetect.New(langdetect.Config{
		Default:   domain.Language(cfg.Heuristics.DefaultLanguage),
		Threshold: cfg.Heuristics.ScriptThreshold,
	})
	assessor := heuristics.NewAssessor(nil)

	// Initialize services
	documentSvc := service.NewDocumentService(ocrProvider, images, engine, detector, &cfg.OCR, logger)
	chatSvc := service.NewChatService(orchestrator, detector, logger)
	healthSvc, err := service.NewHealthService(orchestrator, assessor, detector, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize health service: %w", err)
	}
	wellnessSvc, err := service.NewWellnessService(orchestrator, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize wellness service: %w", err)
	}

	// Initialize handlers
	statusH := handler.NewStatusHandler(aiProviders, ocrEngine)
	ocrH := handler.NewOCRHandler(documentSvc, cfg.OCR.MaxImageMB)
	documentH := handler.NewDocumentHandler(documentSvc)
	chatH := handler.NewChatHandler(chatSvc)
	healthH := handler.NewHealthHandler(healthSvc)
	wellnessH := handler.NewWellnessHandler(wellnessSvc)

	// Setup router
	r := router.Setup(logger, cfg.CORS.AllowedOrigins, statusH, ocrH, documentH, chatH, healthH, wellnessH)

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
		logger.Info().
			Str("addr", cfg.Server.Port).
			Strs("ai_providers", aiProviders).
			Str("ocr_engine", ocrEngine).
			Bool("s3_images", images != nil).
			Str("heuristic_version", engine.Version()).
			Msg("server starting")
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

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// buildOrchestrator creates the primary and fallback backends. When the
// primary cannot be built the fallback is promoted; when neither can, the
// orchestrator runs on an Unavailable provider so every call fails with 503.
func buildOrchestrator(cfg *config.AIConfig, logger zerolog.Logger) (*provider.Orchestrator, []string) {
	var backends []provider.Backend
	var names []string
	var firstErr error
	for _, pc := range []*config.ProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig()} {
		if pc == nil {
			continue
		}
		p, err := provider.NewProvider(pc)
		if err != nil {
			logger.Warn().Err(err).Str("provider", pc.Provider).Msg("AI provider not available")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		backends = append(backends, provider.Backend{Name: pc.Provider, Provider: p, Timeout: pc.Timeout()})
		names = append(names, pc.Provider)
	}

	defaults := provider.Options{}
	if pc := cfg.PrimaryConfig(); pc != nil {
		defaults = provider.Options{Temperature: provider.Temperature(pc.Temperature), MaxTokens: pc.MaxTokens}
	}

	switch len(backends) {
	case 0:
		if firstErr == nil {
			firstErr = errors.New("no AI provider configured")
		}
		u := provider.Backend{Name: "none", Provider: &provider.Unavailable{Name: "AI provider", Err: firstErr}}
		return provider.NewOrchestrator(u, nil, defaults, logger), nil
	case 1:
		return provider.NewOrchestrator(backends[0], nil, defaults, logger), names
	default:
		return provider.NewOrchestrator(backends[0], &backends[1], defaults, logger), names
	}
}
