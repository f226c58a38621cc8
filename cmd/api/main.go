package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/kingscode/ecommerce-api/internal/auth"
	"github.com/kingscode/ecommerce-api/internal/config"
	"github.com/kingscode/ecommerce-api/internal/database"
	"github.com/kingscode/ecommerce-api/internal/email"
	httpServer "github.com/kingscode/ecommerce-api/internal/http"
	"github.com/kingscode/ecommerce-api/internal/logging"
	"github.com/kingscode/ecommerce-api/internal/mailqueue"
	"github.com/kingscode/ecommerce-api/internal/ratelimit"
	"github.com/kingscode/ecommerce-api/internal/token"
	"github.com/kingscode/ecommerce-api/internal/user"
)

// @title           Ecommerce API
// @version         1.0
// @description     Authentication and account lifecycle API with email verification, password reset, and a durable email queue.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := database.Connect(cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize token backend
	tokenService, err := newTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("token backend initialized", "backend", cfg.Auth.TokenBackend)

	// Initialize email queue
	queueStore := mailqueue.NewRedisStore(redisClient)
	producer := mailqueue.NewProducer(queueStore, cfg.Queue.Name, logger)
	sender := email.NewSMTPSender(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		logger,
	)
	consumer := mailqueue.NewConsumer(
		queueStore,
		sender,
		cfg.Queue.Name,
		cfg.Queue.MaxRetries,
		cfg.Queue.PollInterval,
		logger,
	)
	dispatcher := email.NewDispatcher(producer, cfg.Email.BaseURL, cfg.Email.FrontendURL, cfg.Email.CompanyName)

	// Initialize services
	userService := user.NewService(user.NewRepository(db), token.NewGenerator(), logger)
	authService := auth.NewService(userService, tokenService, dispatcher, logger, cfg.Auth.AccessTokenDuration)

	// Initialize rate limiter
	rateLimiter := ratelimit.NewLimiter(redisClient)

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(
		authService,
		rateLimiter,
		logger,
		cfg.Server.IsProduction(),
		cfg.Auth.AccessTokenDuration,
		cfg.Auth.RefreshTokenDuration,
	)
	authMiddleware := auth.NewMiddleware(tokenService)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start the email queue consumer
	consumer.Start(context.Background())
	defer consumer.Stop()

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received shutdown signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newTokenService builds the configured session token backend
func newTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenBackend == "paseto" {
		return auth.NewPasetoService(cfg.PasetoKey, cfg.AccessTokenDuration, cfg.RefreshTokenDuration)
	}
	return auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenDuration, cfg.RefreshTokenDuration)
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
