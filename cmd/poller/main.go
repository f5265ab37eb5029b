package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openclaw/reward-poller/internal/config"
	"github.com/openclaw/reward-poller/internal/display"
	"github.com/openclaw/reward-poller/internal/handler"
	"github.com/openclaw/reward-poller/internal/jobs"
	"github.com/openclaw/reward-poller/internal/metrics"
	"github.com/openclaw/reward-poller/internal/middleware"
	"github.com/openclaw/reward-poller/internal/repository"
	"github.com/openclaw/reward-poller/internal/rewards"
	"github.com/openclaw/reward-poller/internal/sse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	credentials, err := config.LoadAccounts(cfg.AccountsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.AccountsPath).Msg("failed to load accounts")
	}
	log.Info().Int("accounts", len(credentials)).Msg("accounts loaded")

	store := repository.NewAccountStateRepository(credentials)
	client := rewards.NewClient(cfg.RewardBaseURL, cfg.RequestTimeout())

	broker := sse.NewBroker()
	defer broker.Close()

	schedulers := make([]*jobs.ClaimScheduler, 0, len(credentials))
	for _, cred := range credentials {
		schedulers = append(schedulers, jobs.NewClaimScheduler(cred, client, store, jobs.DefaultBackoffPolicy))
	}

	renderer := display.NewRenderer(os.Stdout, display.IsInteractive(cfg.DisplayMode, os.Stdout))
	renderJob := jobs.NewRenderJob(store, renderer, broker, cfg.RenderInterval())
	runner := jobs.NewRunner(schedulers, renderJob)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var server *http.Server
	if cfg.HTTPEnabled {
		server = &http.Server{
			Addr:         cfg.Addr(),
			Handler:      newRouter(store, broker),
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: 0,
			IdleTimeout:  config.ServerIdleTimeout,
		}

		go func() {
			log.Info().Str("addr", cfg.Addr()).Msg("starting server")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("server error")
			}
		}()
	}

	if err := runner.Run(ctx); err != nil {
		log.Error().Err(err).Msg("runner stopped with error")
	}
	log.Info().Msg("shutting down")

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
		defer shutdownCancel()

		// Open event streams only end once the broker closes them.
		broker.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	}

	log.Info().Msg("poller stopped")
}

func newRouter(store repository.AccountStateRepository, broker *sse.Broker) http.Handler {
	statusHandler := handler.NewStatusHandler(store)
	eventsHandler := handler.NewEventsHandler(broker, store)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(config.OperatorRateLimit, config.OperatorBurst)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware.Handler)

		r.Route("/status", func(r chi.Router) {
			r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
			r.Mount("/", statusHandler.Routes())
		})
		r.Get("/events", eventsHandler.ServeHTTP)
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
