package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	difyclient "difybridge/clients/dify"
	slackclient "difybridge/clients/slack"
	"difybridge/config"
	"difybridge/db"
	"difybridge/handlers"
	"difybridge/middleware"
	"difybridge/store"
	"difybridge/usecases/bridge"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "difybridge",
	})

	conversationStore, cleanup, err := newConversationStore(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	slackClient := slackclient.NewSlackClient(cfg.SlackConfig.BotToken)
	if identity, err := slackClient.AuthTest(); err != nil {
		log.Printf("⚠️ Slack auth test failed: %v", err)
	} else {
		log.Printf("🤖 Connected to Slack as bot user %s (team %s)", identity.UserID, identity.TeamID)
	}

	difyClient := difyclient.NewDifyClient(cfg.DifyConfig.BaseURL, cfg.DifyConfig.APIKey)

	bridgeUseCase := bridge.NewBridgeUseCase(slackClient, difyClient, conversationStore)
	slackHandler := handlers.NewSlackEventsHandler(
		cfg.SlackConfig.SigningSecret,
		cfg.SlackConfig.AllowRetry,
		cfg.SlackConfig.IgnoredSubtypes,
		bridgeUseCase,
	)

	router := mux.NewRouter()
	slackHandler.SetupEndpoints(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

// newConversationStore builds the configured store backend and returns a
// cleanup func for its underlying connection.
func newConversationStore(
	ctx context.Context,
	cfg *config.AppConfig,
) (store.ConversationStore, func(), error) {
	switch cfg.StoreConfig.Backend {
	case config.StoreBackendMemory:
		log.Printf("⚠️ Using in-memory conversation store - continuity is lost on restart")
		return store.NewMemoryStore(), func() {}, nil

	case config.StoreBackendRedis:
		redisStore, err := store.NewRedisStore(ctx, cfg.StoreConfig.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redisStore, func() {
			if err := redisStore.Close(); err != nil {
				log.Printf("❌ Failed to close redis connection: %v", err)
			}
		}, nil

	case config.StoreBackendPostgres:
		dbConn, err := db.NewConnection(ctx, cfg.StoreConfig.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo := db.NewPostgresConversationsRepository(dbConn, cfg.StoreConfig.DatabaseSchema)
		return repo, func() {
			if err := dbConn.Close(); err != nil {
				log.Printf("❌ Failed to close database connection: %v", err)
			}
		}, nil

	default:
		// unreachable once config validation has run
		log.Printf("⚠️ Unknown store backend %q, falling back to memory", cfg.StoreConfig.Backend)
		return store.NewMemoryStore(), func() {}, nil
	}
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
