package main

import (
	"database/sql"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"telemed-ai/internal/assistant"
	"telemed-ai/internal/config"
	"telemed-ai/internal/consultation"
	"telemed-ai/internal/entity"
	"telemed-ai/internal/inference"
	"telemed-ai/internal/interview"
	"telemed-ai/internal/notify"
	"telemed-ai/internal/patient"
	"telemed-ai/internal/pdf"
	"telemed-ai/internal/platform/telegram"
	"telemed-ai/internal/report"
	"telemed-ai/internal/speech"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		errLogger := zerolog.New(os.Stderr)
		errLogger.Fatal().Err(err).Msg("load config")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// 2. Infrastructure
	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			break
		}
		logger.Info().Int("attempt", i+1).Msg("waiting for database")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to database")
	}
	logger.Info().Msg("connected to database")

	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("migration init failed")
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Fatal().Err(err).Msg("migration up failed")
	}
	logger.Info().Msg("migrations applied")

	// 3. Clients
	llm := inference.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
	gateway := inference.NewGateway(llm, logger)
	transcriber := speech.NewWhisperClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqWhisperModel)
	renderer := pdf.NewRenderer()

	var notifier consultation.Notifier
	if cfg.TelegramBotToken != "" && cfg.DoctorChatID != 0 {
		tg := telegram.NewClient(cfg.TelegramBotToken)
		notifier = notify.NewService(tg, renderer, cfg.DoctorChatID, logger)
	} else {
		logger.Warn().Msg("telegram not configured, doctor notifications disabled")
	}

	// 4. Services
	assembler := patient.NewAssembler(patient.NewStore(db))
	entitySvc := entity.NewService(gateway)
	engine := interview.NewEngine(gateway, entitySvc, cfg.InterviewTurnCap, logger)
	pipeline := consultation.NewPipeline(transcriber, gateway, notifier, cfg.MinTranscriptChars, logger)
	reportSvc := report.NewService(gateway, transcriber)
	assistantSvc := assistant.NewService(llm)

	// 5. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"telemed-ai"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		interview.RegisterRoutes(r, interview.NewHandler(engine, assembler, logger))
		entity.RegisterRoutes(r, entity.NewHandler(entitySvc, logger))
		consultation.RegisterRoutes(r, consultation.NewHandler(pipeline, assembler, renderer, cfg.MaxUploadBytes, logger))
		report.RegisterRoutes(r, report.NewHandler(reportSvc, report.PlainTextExtractor{}, cfg.MaxUploadBytes, logger))
		assistant.RegisterRoutes(r, assistant.NewHandler(assistantSvc, assembler, logger))
	})

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// corsMiddleware echoes the request origin when it is in the allowed set;
// the header only accepts a single origin (or "*") per response.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
			continue
		}
		if o != "" {
			allowed[o] = true
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == http.MethodOptions {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
