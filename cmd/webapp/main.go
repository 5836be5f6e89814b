package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authController "game2048_backend/internal/auth/controller"
	authRepository "game2048_backend/internal/auth/repository"
	authUsecase "game2048_backend/internal/auth/usecase"
	gameController "game2048_backend/internal/game/controller"
	gameRepository "game2048_backend/internal/game/repository"
	gameUsecase "game2048_backend/internal/game/usecase"
	"game2048_backend/internal/service/config"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/mailer"
	"game2048_backend/internal/service/metrics"
	"game2048_backend/internal/service/middleware"
	"game2048_backend/internal/service/oauth"
	"game2048_backend/internal/service/router"
	signupController "game2048_backend/internal/signup/controller"
	signupUsecase "game2048_backend/internal/signup/usecase"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitLoggers(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize loggers: %v", err)
	}
	defer func() {
		_ = logger.SyncLoggers()
	}()

	db, err := middleware.DbConnect(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB: %v", err)
	}
	defer sqlDB.Close()

	jwtToken, err := middleware.NewJwtToken(cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Failed to create JWT token: %v", err)
	}

	var limiter middleware.Limiter
	if cfg.Redis.Enabled() {
		redisClient, err := middleware.InitRedis(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Window, cfg.RateLimit.Max)
	} else {
		limiter = middleware.NewMemoryLimiter(cfg.RateLimit.Window, cfg.RateLimit.Max)
	}

	var sender mailer.Sender = mailer.LogSender{}
	if cfg.Mail.User != "" {
		sender = mailer.NewSMTPSender(cfg.Mail)
	} else {
		logger.MailLogger.Warn("MAIL_USER not set, OTP mails will only be logged")
	}

	cookies := middleware.CookiePolicy{Production: cfg.IsProduction()}

	userRepository := authRepository.NewUserRepository(db)
	authUseCase := authUsecase.NewAuthUsecase(userRepository, oauth.NewGoogleExchanger(cfg.Google))
	authHandler := authController.NewAuthHandler(authUseCase, jwtToken, cookies)

	signupUseCase := signupUsecase.NewSignupUsecase(userRepository, sender)
	signupHandler := signupController.NewSignupHandler(signupUseCase)

	gameRepository := gameRepository.NewGameRepository(db)
	gameUseCase := gameUsecase.NewGameUsecase(gameRepository)
	gameHandler := gameController.NewGameHandler(gameUseCase)

	mainRouter := router.SetUpRoutes(router.Handlers{
		Auth:   authHandler,
		Signup: signupHandler,
		Game:   gameHandler,
	}, router.Deps{
		Tokens:  jwtToken,
		Users:   userRepository,
		Limiter: limiter,
		Metrics: metrics.NewRecorder(),
		DB:      sqlDB,

		TrustProxy: cfg.App.TrustProxy,
	})

	handler := middleware.EnableCORS(cfg.App.FrontendURL)(middleware.RequestIDMiddleware(mainRouter))

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.AccessLogger.Info("Starting HTTP server", zap.String("addr", server.Addr), zap.String("env", cfg.App.Env))
		log.Printf("Starting HTTP server on address %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error on starting server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.AccessLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.AccessLogger.Info("Server stopped")
}
