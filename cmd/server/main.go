package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/smartintruesdell/CubeCobra/internal/api"
	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/config"
	"github.com/smartintruesdell/CubeCobra/internal/logger"
	"github.com/smartintruesdell/CubeCobra/internal/recommend"
	"github.com/smartintruesdell/CubeCobra/internal/repository/postgres"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"github.com/smartintruesdell/CubeCobra/internal/websocket"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sugar, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer sugar.Sync()

	logLevel := gormLogger.Warn
	if cfg.IsProduction() {
		logLevel = gormLogger.Error
	}
	db, err := postgres.NewConnection(cfg.DatabaseURL, logLevel)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}

	repos := postgres.NewRepositories(db)

	var cards carddb.Index = carddb.NewRepoIndex(repos.Card)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalw("invalid redis url", "error", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sugar.Warnw("redis unreachable, card lookups will skip the cache until it recovers", "error", err)
		}
		cards = carddb.NewCachedIndex(cards, rdb, cfg.CardCacheTTL, sugar.Named("carddb"))
	}

	recommender := recommend.NewClient(cfg.RecommenderURL, cfg.RecommenderTimeout, cfg.RecommenderRPS, sugar.Named("recommend"))

	hub := websocket.NewHub(sugar.Named("ws"))
	go hub.Run()

	services := service.NewServices(repos, cards, recommender, cfg, sugar)
	services.Draft.SetNotifier(hub)

	router := api.NewRouter(services, hub, sugar.Named("http"))

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("server forced to shutdown", "error", err)
	}
	hub.Stop()

	sugar.Info("server stopped")
}
