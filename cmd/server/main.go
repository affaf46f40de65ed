package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatwire/chatwire/internal/config"
	"github.com/chatwire/chatwire/internal/database"
	"github.com/chatwire/chatwire/internal/handlers"
	"github.com/chatwire/chatwire/internal/logging"
	"github.com/chatwire/chatwire/internal/middleware"
	"github.com/chatwire/chatwire/internal/services"
	"github.com/chatwire/chatwire/internal/store"
	"github.com/chatwire/chatwire/internal/ws"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level := logging.ParseLevel(lvl)
		logger.SetLevel(level)
		logging.SetDefaultLevel(level)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("Starting Chatwire server...")

	// Document store
	var st store.Store
	switch cfg.Store.Backend {
	case "postgres":
		logger.Info("Connecting to PostgreSQL", map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
		})
		db, err := database.NewPostgresDB(cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer db.Close()

		logger.Info("Running database migrations...")
		migrator, err := database.NewMigrator(cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}
		if err := migrator.Up(); err != nil {
			_ = migrator.Close()
			return fmt.Errorf("running migrations: %w", err)
		}
		_ = migrator.Close()
		logger.Info("Migrations completed")

		st = store.NewPostgresStore(db.Pool)
	default:
		logger.Info("Using file store", map[string]interface{}{"dir": cfg.Store.DataDir})
		fs, err := store.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return fmt.Errorf("opening file store: %w", err)
		}
		st = fs
	}
	defer func() { _ = st.Close() }()

	// Session store
	var sessions services.SessionStore
	var redisDB *database.RedisDB
	if cfg.Session.Backend == "redis" {
		logger.Info("Connecting to Redis", map[string]interface{}{"addr": cfg.Redis.Addr()})
		redisDB, err = database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisDB.Close() }()
		sessions = services.NewRedisSessionStore(redisDB.Client)
	} else {
		logger.Warn("Using in-memory sessions; they will not survive a restart")
		sessions = services.NewMemorySessionStore()
	}

	// Services. The hub doubles as the event publisher for friend and group
	// activity.
	userService := services.NewUserService(st)
	authService := services.NewAuthService(st, sessions, cfg.Chat.MinPasswordLength)
	hub := ws.NewHub(userService, logger)
	friendService := services.NewFriendService(st, hub)
	groupService := services.NewGroupService(st, hub)
	notificationService := services.NewNotificationService(st)

	// Handlers
	healthHandler := handlers.NewHealthHandler(
		handlers.HealthCheckFunc(st.Ping),
		handlers.HealthCheckFunc(sessions.Ping),
	)
	authHandler := handlers.NewAuthHandler(authService, cfg.Server.Secure)
	userHandler := handlers.NewUserHandler(userService)
	friendHandler := handlers.NewFriendHandler(friendService)
	groupHandler := handlers.NewGroupHandler(groupService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := ws.NewHandler(hub, friendService, groupService, logger)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	requestLogger := middleware.NewRequestLogger(logger)

	requireAuth := authMiddleware.RequireAuth

	// Login and signup get a stricter per-IP limit when Redis is around.
	limitAuth := func(next http.Handler) http.Handler { return next }
	if redisDB != nil {
		limitAuth = middleware.NewAuthRateLimiter(redisDB.Client).Limit
	}

	mux := http.NewServeMux()

	// Health endpoints (no auth)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Auth endpoints
	mux.Handle("POST /api/auth/register", limitAuth(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", limitAuth(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))

	// User directory
	mux.Handle("GET /api/users", requireAuth(http.HandlerFunc(userHandler.List)))

	// Friend endpoints
	mux.Handle("GET /api/friends", requireAuth(http.HandlerFunc(friendHandler.List)))
	mux.Handle("GET /api/friends/requests", requireAuth(http.HandlerFunc(friendHandler.Requests)))
	mux.Handle("POST /api/friends/requests", requireAuth(http.HandlerFunc(friendHandler.Send)))
	mux.Handle("POST /api/friends/requests/cancel", requireAuth(http.HandlerFunc(friendHandler.Cancel)))
	mux.Handle("POST /api/friends/requests/accept", requireAuth(http.HandlerFunc(friendHandler.Accept)))
	mux.Handle("POST /api/friends/requests/reject", requireAuth(http.HandlerFunc(friendHandler.Reject)))
	mux.Handle("POST /api/friends/messages", requireAuth(http.HandlerFunc(friendHandler.SendMessage)))
	mux.Handle("GET /api/friends/messages", requireAuth(http.HandlerFunc(friendHandler.Messages)))

	// Group endpoints
	mux.Handle("GET /api/groups", requireAuth(http.HandlerFunc(groupHandler.List)))
	mux.Handle("POST /api/groups", requireAuth(http.HandlerFunc(groupHandler.Create)))
	mux.Handle("POST /api/groups/join", requireAuth(http.HandlerFunc(groupHandler.Join)))
	mux.Handle("GET /api/groups/requests", requireAuth(http.HandlerFunc(groupHandler.Requests)))
	mux.Handle("POST /api/groups/requests", requireAuth(http.HandlerFunc(groupHandler.Resolve)))
	mux.Handle("POST /api/groups/messages", requireAuth(http.HandlerFunc(groupHandler.PostMessage)))
	mux.Handle("GET /api/groups/messages", requireAuth(http.HandlerFunc(groupHandler.Messages)))

	// Notification endpoints
	mux.Handle("GET /api/notifications", requireAuth(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("POST /api/notifications/read", requireAuth(http.HandlerFunc(notificationHandler.MarkRead)))
	mux.Handle("POST /api/notifications/delete", requireAuth(http.HandlerFunc(notificationHandler.Delete)))

	// Realtime
	mux.Handle("GET /ws", requireAuth(http.HandlerFunc(wsHandler.ServeWS)))

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WebSocket connections are long-lived; per-message deadlines are
		// enforced by the client pumps instead of a server-wide write timeout.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{"addr": addr})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
