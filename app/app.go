// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-todo-api/config"
	"go-todo-api/db"
	"go-todo-api/handler"
	"go-todo-api/logger"
	"go-todo-api/repository"
	"go-todo-api/router"
	"go-todo-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func buildTokenService(revocations service.IRevocationList) (*service.TokenService, error) {
	jwtCfg := config.AppConfig.JWT
	return service.NewTokenService(service.TokenConfig{
		SecretKey:  jwtCfg.SecretKey,
		Algorithm:  jwtCfg.Algorithm,
		AccessTTL:  jwtCfg.AccessTTL,
		RefreshTTL: jwtCfg.RefreshTTL,
	}, revocations)
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	// Repositories, then services, then handlers; the revocation list and
	// the rate limiter share the redis client.

	revocations := service.NewRedisRevocationList(redisClient)
	tokenService, err := buildTokenService(revocations)
	if err != nil {
		logger.Log.Fatalf("Invalid token configuration: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	authService := service.NewAuthService(userRepo, tokenService, revocations, config.AppConfig.JWT.RotateRefresh)
	authHandler := handler.NewAuthHandler(authService, tokenService)

	todoRepo := repository.NewTodoRepository(database)
	todoService := service.NewTodoService(todoRepo, redisClient)
	todoHandler := handler.NewTodoHandler(todoService)

	authMW := handler.NewAuthMiddleware(authService)
	limiter := handler.NewRateLimiter(redisClient)

	r := router.NewRouter(authHandler, todoHandler, authMW, limiter)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// TestApp bundles the fully wired router and the services integration tests
// need direct access to.
type TestApp struct {
	Router       http.Handler
	AuthService  *service.AuthService
	TokenService *service.TokenService
	Revocations  service.IRevocationList
}

// NewTestApp wires the application against an externally managed database
// and redis client. Configuration must already be loaded.
func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	revocations := service.NewRedisRevocationList(redisClient)
	tokenService, err := buildTokenService(revocations)
	if err != nil {
		logger.Log.Fatalf("Invalid token configuration: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	authService := service.NewAuthService(userRepo, tokenService, revocations, config.AppConfig.JWT.RotateRefresh)
	authHandler := handler.NewAuthHandler(authService, tokenService)

	todoRepo := repository.NewTodoRepository(database)
	todoService := service.NewTodoService(todoRepo, redisClient)
	todoHandler := handler.NewTodoHandler(todoService)

	authMW := handler.NewAuthMiddleware(authService)
	limiter := handler.NewRateLimiter(redisClient)

	return &TestApp{
		Router:       router.NewRouter(authHandler, todoHandler, authMW, limiter),
		AuthService:  authService,
		TokenService: tokenService,
		Revocations:  revocations,
	}
}
