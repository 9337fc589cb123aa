package main // API server entry point

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/arlen/devconnector/internal/config"
	"github.com/arlen/devconnector/internal/database"
	"github.com/arlen/devconnector/internal/github"
	"github.com/arlen/devconnector/internal/handler"
	"github.com/arlen/devconnector/internal/logging"
	appmw "github.com/arlen/devconnector/internal/middleware"
	"github.com/arlen/devconnector/internal/queue"
	"github.com/arlen/devconnector/internal/repository"
	"github.com/arlen/devconnector/internal/router"
	"github.com/arlen/devconnector/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	logger := logging.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the response cache and rate limiter
	// pass through and GitHub responses are fetched every time.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	posts := repository.NewPostRepo(db)

	events := service.NewPublisher(os.Getenv("RABBITMQ_URL"), logger)
	go queue.StartConsumer(os.Getenv("RABBITMQ_URL"), logger)

	gh := github.New(cfg.GitHubToken, rdb,
		time.Duration(cfg.GitHubCacheTTL)*time.Minute, logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger, cfg.Production())

	mw := router.Middlewares{
		Auth:      appmw.JWTAuth(cfg.JWTSecret, users),
		Cache:     appmw.NewResponseCache(config.LoadCacheConfig(), rdb),
		RateLimit: appmw.NewLoginRateLimit(config.LoadRateLimitConfig(), rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterUsers(e, handler.NewAuthHandler(cfg, users, events, logger), mw)
	router.RegisterProfile(e, handler.NewProfileHandler(profiles, posts, users, logger),
		handler.NewGitHubHandler(gh), mw)
	router.RegisterPosts(e, handler.NewPostHandler(posts, events, logger), mw)

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
