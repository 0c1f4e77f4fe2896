package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"loan-advisor/internal/advisor"
	"loan-advisor/internal/config"
	apihttp "loan-advisor/internal/http"
	"loan-advisor/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	client := advisor.NewHTTPClient(cfg.AdvisorBaseURL, nil)
	predictSvc := service.NewPredictService(client)
	chatSvc := service.NewChatService(client, predictSvc, logger)
	sessions := service.NewMemorySessionStore()

	var limiter service.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, time.Duration(cfg.RateLimitWindow)*time.Second, cfg.RateLimitMax)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.SessionSecret, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	if !jwtSvc.Enabled() {
		logger.Warn("session secret not configured, session auth disabled")
	}

	chatHandler := apihttp.NewChatHandler(logger, chatSvc, sessions, jwtSvc)
	formHandler := apihttp.NewFormHandler(logger, predictSvc)
	router := apihttp.NewRouter(logger, chatHandler, formHandler, jwtSvc, limiter)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("advisor_base_url", cfg.AdvisorBaseURL),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
