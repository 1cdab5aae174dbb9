package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/adapter/ai/gemini"
	"github.com/vaani-ai/vaani/internal/adapter/cache"
	"github.com/vaani-ai/vaani/internal/adapter/http/fiber/handlers"
	"github.com/vaani-ai/vaani/internal/adapter/http/fiber/middleware"
	"github.com/vaani-ai/vaani/internal/adapter/media/cloudinary"
	"github.com/vaani-ai/vaani/internal/adapter/queue"
	"github.com/vaani-ai/vaani/internal/adapter/storage/postgres"
	"github.com/vaani-ai/vaani/internal/adapter/vault"
	wsAdapter "github.com/vaani-ai/vaani/internal/adapter/websocket"
	"github.com/vaani-ai/vaani/internal/observability/telemetry"
	"github.com/vaani-ai/vaani/internal/ports"
	"github.com/vaani-ai/vaani/internal/service/assistant"
	"github.com/vaani-ai/vaani/internal/service/auth"
	"github.com/vaani-ai/vaani/internal/service/email"
	"github.com/vaani-ai/vaani/internal/service/health"
	"github.com/vaani-ai/vaani/pkg/config"
)

const (
	serviceName    = "vaani"
	serviceVersion = "v1.0.0"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("starting vaani",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Vault overrides file and env secrets when enabled. Each secret falls
	// back to the configured value when Vault cannot serve it.
	if cfg.Vault.Enabled {
		loadVaultSecrets(cfg, logger)
	}

	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.JaegerEndpoint)
		if err != nil {
			logger.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var cacheStore ports.Cache
	if cfg.Redis.URL != "" {
		cacheStore, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
	} else {
		logger.Warn("no Redis URL configured, using in-memory cache")
		cacheStore = cache.NewLocalCache(time.Minute, logger)
	}
	defer cacheStore.Close()

	var messageQueue queue.MessageQueue
	if cfg.Queue.Driver != "" {
		messageQueue, err = queue.New(cfg.Queue.Driver, cfg.Queue.URL, logger)
		if err != nil {
			logger.Warn("message queue unavailable, command events disabled", zap.Error(err))
			messageQueue = nil
		} else {
			defer messageQueue.Close()
		}
	}

	userRepo := postgres.NewUserRepository(db, logger)
	historyRepo := postgres.NewHistoryRepository(db, logger)

	var emailService ports.EmailService
	if cfg.Email.Enabled {
		svc, err := email.NewService(&email.Config{
			Provider:       "sendgrid",
			FromEmail:      cfg.Email.FromEmail,
			FromName:       cfg.Email.FromName,
			SendGridAPIKey: cfg.Email.SendGridAPIKey,
		}, logger)
		if err != nil {
			logger.Warn("email service disabled", zap.Error(err))
		} else {
			emailService = svc
		}
	}

	authService := auth.NewService(userRepo, cacheStore, emailService, cfg.JWT.Secret, cfg.JWT.TokenDuration, logger)

	classifier := gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout, logger)
	assistantService := assistant.NewService(
		userRepo, historyRepo, classifier, cacheStore, messageQueue,
		cfg.Assistant.DefaultName, logger,
	)

	uploader := cloudinary.NewUploader(
		cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret,
		cfg.Cloudinary.Folder, logger,
	)

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		BodyLimit:             10 << 20,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(serviceName, logger))
	}

	healthService := health.NewService(serviceName, serviceVersion, logger)
	healthService.Register("database", health.DatabaseChecker(db))
	healthService.Register("cache", health.CacheChecker(cacheStore))
	if messageQueue != nil {
		healthService.Register("queue", health.QueueChecker(messageQueue))
	} else {
		healthService.Register("queue", nil)
	}
	health.NewFiberHandler(healthService).RegisterRoutes(app)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	authRequired := middleware.AuthRequired(authService, cfg.JWT.CookieName)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWT.CookieName, cfg.JWT.TokenDuration, cfg.JWT.CookieSecure, logger)
	userHandler := handlers.NewUserHandler(assistantService, uploader, cfg.Assistant.HistoryLimit, logger)
	assistantHandler := handlers.NewAssistantHandler(assistantService, logger)

	api := app.Group("/api")
	api.Post("/auth/signup", authHandler.SignUp)
	api.Post("/auth/signin", authHandler.SignIn)
	api.Get("/auth/logout", authHandler.Logout)

	user := api.Group("/user", authRequired)
	user.Get("/current", userHandler.Current)
	user.Post("/update", userHandler.Update)
	user.Post("/customize", userHandler.Customize)
	user.Post("/asktoassistant", assistantHandler.Ask)
	user.Get("/history", userHandler.History)

	sessionHandler := wsAdapter.NewSessionHandler(assistantService, cfg.Assistant.WatchdogInterval, logger)
	wsAdapter.SetupSessionRoutes(app, sessionHandler, authRequired)

	if messageQueue != nil {
		go startCommandEventWorker(messageQueue, logger)
	}

	go func() {
		logger.Info("starting HTTP server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func loadVaultSecrets(cfg *config.Config, logger *zap.Logger) {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		logger.Warn("vault unavailable, using configured secrets", zap.Error(err))
		return
	}
	if url, err := sm.GetDatabaseURL(); err == nil {
		cfg.Database.URL = url
	} else {
		logger.Debug("vault database secret not used", zap.Error(err))
	}
	if secret, err := sm.GetJWTSecret(); err == nil {
		cfg.JWT.Secret = secret
	} else {
		logger.Debug("vault jwt secret not used", zap.Error(err))
	}
	if key, err := sm.GetGeminiAPIKey(); err == nil {
		cfg.Gemini.APIKey = key
	} else {
		logger.Debug("vault gemini secret not used", zap.Error(err))
	}
	if secret, err := sm.GetCloudinarySecret(); err == nil {
		cfg.Cloudinary.APISecret = secret
	} else {
		logger.Debug("vault cloudinary secret not used", zap.Error(err))
	}
}

// startCommandEventWorker drains the command event stream. Today it only
// surfaces the events in the logs; downstream consumers attach to the same
// subject.
func startCommandEventWorker(mq queue.MessageQueue, logger *zap.Logger) {
	err := mq.Subscribe("assistant.commands", func(msg []byte) error {
		logger.Info("command event", zap.ByteString("event", msg))
		return nil
	})
	if err != nil {
		logger.Warn("command event worker failed to subscribe", zap.Error(err))
	}
}
