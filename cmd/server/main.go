package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dashql/dashql/internal/application/operators"
	"github.com/dashql/dashql/internal/infrastructure/adapters"
	"github.com/dashql/dashql/internal/infrastructure/api/rest"
	"github.com/dashql/dashql/internal/infrastructure/config"
	"github.com/dashql/dashql/internal/infrastructure/frontend/ws"
	"github.com/dashql/dashql/internal/infrastructure/insight"
	"github.com/dashql/dashql/internal/infrastructure/logger"
	"github.com/dashql/dashql/internal/infrastructure/storage"
	"github.com/dashql/dashql/pkg/workflow"
)

func main() {
	var (
		port       = flag.String("port", "", "Server port (overrides config)")
		enableCORS = flag.Bool("cors", true, "Enable CORS")
		apiKeys    = flag.String("api-keys", "", "Comma-separated API keys for authentication")
		noAuth     = flag.Bool("no-auth", false, "Disable JWT auth on the websocket upgrade (local dev only)")
	)
	flag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	log := logger.Setup(cfg.LogLevel)
	log.Info().Str("port", cfg.Port).Bool("cors", *enableCORS).Msg("starting dashql server")

	sessionStore, storeKind := newSessionStore(cfg, log)
	log.Info().Str("session_store", storeKind).Msg("session store initialized")

	database := adapters.NewMemoryDatabase()
	runtime := adapters.NewLocalRuntime()

	ops := []operators.Operator{
		&operators.CreateTableOperator{},
		&operators.ImportOperator{},
		&operators.LoadOperator{},
		&operators.DeclareOperator{},
		&operators.SetOperator{},
		operators.NewDropTableOperator(),
		operators.NewDropVizOperator(),
		operators.NewDropInputOperator(),
		operators.NewDropImportOperator(),
	}
	if cfg.OpenAIAPIKey != "" {
		ops = append(ops, &operators.VizOperator{Insight: insight.NewOpenAIGenerator(cfg.OpenAIAPIKey, "")})
		log.Info().Msg("visualization insight generation enabled")
	} else {
		ops = append(ops, &operators.VizOperator{})
	}
	registry := operators.NewRegistry(ops...)

	api := workflow.NewAPI(adapters.ParseProgram, database, runtime, registry, log, cfg.MaxParallelTasks)

	hub := ws.NewHub(log)
	go hub.Run()

	var authenticator ws.Authenticator
	var jwtAuth *ws.JWTAuth
	if *noAuth {
		authenticator = ws.NewNoAuth()
		log.Warn().Msg("websocket auth disabled; do not use in production")
	} else {
		jwtAuth = ws.NewJWTAuth(cfg.JWTSecret)
		authenticator = jwtAuth
	}
	wsHandler := ws.NewHandler(hub, authenticator, log)

	serverConfig := rest.ServerConfig{
		EnableCORS:      *enableCORS,
		EnableRateLimit: false,
		RateLimitMax:    100,
		RateLimitWindow: time.Minute,
		APIKeys:         splitAPIKeys(*apiKeys),
	}
	srv := rest.NewServer(api, hub, wsHandler, jwtAuth, sessionStore, log, serverConfig)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server exited gracefully")
}

// newSessionStore picks a Postgres-backed SessionStore when
// DASHQL_DATABASE_DSN is set, otherwise an in-process MemorySessionStore
// (see SPEC_FULL.md §2.3).
func newSessionStore(cfg *config.Config, log zerolog.Logger) (storage.AuditStore, string) {
	if cfg.DatabaseDSN == "" {
		return storage.NewMemorySessionStore(), "memory"
	}
	store := storage.NewSessionStore(cfg.DatabaseDSN)
	if err := store.InitSchema(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to initialize session schema, falling back to memory session store")
		return storage.NewMemorySessionStore(), "memory"
	}
	return store, "postgres"
}

func splitAPIKeys(keys string) []string {
	if keys == "" {
		return nil
	}
	var out []string
	for _, key := range strings.Split(keys, ",") {
		if key = strings.TrimSpace(key); key != "" {
			out = append(out, key)
		}
	}
	return out
}
