package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flightbooking/internal/apiclient"
	"github.com/dharmasatrya/flightbooking/internal/auth"
	"github.com/dharmasatrya/flightbooking/internal/cache"
	"github.com/dharmasatrya/flightbooking/internal/config"
	"github.com/dharmasatrya/flightbooking/internal/handler"
	"github.com/dharmasatrya/flightbooking/internal/page"
	"github.com/dharmasatrya/flightbooking/internal/ratelimit"
	"github.com/dharmasatrya/flightbooking/internal/session"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.NewWithWriter(os.Stdout, cfg.AppEnv, cfg.LogLevel)
	logger.SetDefault(log)

	var redisClient *redis.Client
	if cfg.Session.Store == "redis" || cfg.Cache.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Error("Failed to connect to Redis", "addr", cfg.Redis.Addr, "error", err.Error())
			os.Exit(1)
		}
		log.Info("Connected to Redis", "addr", cfg.Redis.Addr)
		defer redisClient.Close()
	}

	var searchCache cache.Cache
	if cfg.Cache.Enabled {
		searchCache = cache.NewRedisCacheWithClient(redisClient, cfg.Cache.TTL)
		log.Info("Search cache enabled", "ttl", cfg.Cache.TTL.String())
	} else {
		searchCache = cache.NewNoOpCache()
		log.Info("Search cache disabled")
	}

	limiter := ratelimit.NewEndpointLimiterWithDefaults()
	limiter.SetLimit(ratelimit.EndpointSearch, cfg.RateLimit.SearchRPS, cfg.RateLimit.Burst)
	limiter.SetLimit(ratelimit.EndpointBooking, cfg.RateLimit.BookingRPS, cfg.RateLimit.Burst)
	limiter.SetLimit(ratelimit.EndpointAuth, cfg.RateLimit.AuthRPS, cfg.RateLimit.Burst)
	limiter.SetLimit(ratelimit.EndpointContact, cfg.RateLimit.ContactRPS, cfg.RateLimit.Burst)

	api := apiclient.New(apiclient.Config{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		OAuthBrokerURL: cfg.API.OAuthBrokerURL,
		MaxRetries:     cfg.API.MaxRetries,
	}, limiter, searchCache, log)

	var store session.Store
	if cfg.Session.Store == "redis" {
		store = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		store = session.NewMemoryStore(cfg.Session.TTL)
		log.Warn("Using in-memory session store; sessions are lost on restart")
	}

	if cfg.IsProduction() && cfg.Session.Secret == "change-me-in-production" {
		log.Error("SESSION_SECRET must be set in production")
		os.Exit(1)
	}
	signer := auth.NewCookieSigner(cfg.Session.Secret, cfg.Session.TTL)

	h := handler.New(handler.Deps{
		Pages:     page.NewController(api, api, store, log),
		Searcher:  api,
		Auth:      auth.NewService(api, store, log),
		Contact:   api,
		OAuth:     api,
		Calendars: store,
		Logger:    log,
		PublicURL: cfg.PublicURL,
	})

	renderer, err := handler.NewTemplateRenderer()
	if err != nil {
		log.Error("Failed to load templates", "error", err.Error())
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	e.Server.IdleTimeout = cfg.IdleTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(handler.RequestLogger(log))
	e.Use(handler.NewSessionManager(signer, cfg.Session.CookieName, cfg.Session.Secure).Middleware)

	h.Mount(e)

	go func() {
		log.Info("Starting flight booking server", "addr", cfg.GetServerAddress(), "env", cfg.AppEnv)
		if err := e.Start(cfg.GetServerAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", "error", err.Error())
	}
}
