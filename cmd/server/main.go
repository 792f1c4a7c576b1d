package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"jarvis/internal/config"
	"jarvis/internal/handler"
	"jarvis/internal/locale"
	"jarvis/internal/middleware"
	"jarvis/internal/service/persona"
	"jarvis/internal/service/relay"
	"jarvis/internal/service/relay/providers/gemini"
	"jarvis/internal/service/relay/providers/scripted"

	domainrelay "jarvis/internal/domain/services/relay"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("relay starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"model", cfg.Model,
		"api_key", cfg.MaskedAPIKey(),
	)

	// Message bundle and persona engine
	bundle, err := locale.NewBundle(cfg.DefaultLanguage)
	if err != nil {
		log.Fatalf("Failed to load message bundle: %v", err)
	}
	engine := persona.NewEngine(cfg.DefaultLanguage)

	// Select the upstream provider. Without a credential the service fast-
	// fails every call; in dev a scripted provider stands in so the full
	// pipeline stays exercisable locally.
	ctx := context.Background()
	var provider domainrelay.Provider
	credential := cfg.GeminiAPIKey
	switch {
	case cfg.GeminiAPIKey != "":
		geminiProvider, err := gemini.NewProvider(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			log.Fatalf("Failed to create gemini provider: %v", err)
		}
		defer geminiProvider.Close()
		provider = geminiProvider
	case cfg.Environment == "dev" && cfg.Debug:
		logger.Warn("DEBUG MODE: no API key configured, using scripted provider")
		provider = scripted.NewProvider(scripted.DefaultScript...)
		credential = "scripted" // marks the deployment as configured
	default:
		logger.Warn("no API key configured, all relay calls will fail fast")
		provider = scripted.NewProvider()
	}

	// Relay service
	assembler := relay.NewAssembler(engine, bundle, cfg.HistoryWindow, logger)
	classifier := relay.NewClassifier(bundle)
	relayService := relay.NewService(credential, provider, assembler, classifier, engine, bundle, logger)

	relayHandler := handler.NewRelayHandler(relayService, logger)

	logger.Info("services initialized", "provider", provider.Name())

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("POST /api/jarvis", relayHandler.Ask)
	mux.HandleFunc("POST /api/translate", relayHandler.Translate)

	// Build middleware chain: CORS → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived response streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("relay listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
