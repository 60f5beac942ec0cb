package main // Entry point package

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/devfolio/backend/internal/config"
	"github.com/devfolio/backend/internal/database"
	"github.com/devfolio/backend/internal/handler"
	"github.com/devfolio/backend/internal/queue"
	"github.com/devfolio/backend/internal/repository"
	"github.com/devfolio/backend/internal/router"
	"github.com/devfolio/backend/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Env == "prod" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// One client for the whole process; a dead database is fatal at startup.
	store, err := database.Open(context.Background(), cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logrus.WithError(err).Fatal("mongodb connection failed")
	}

	// Redis is optional; nil disables rate limiting and response caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable, rate limiting and caching disabled")
	}

	s3, err := storage.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("object storage client failed")
	}
	if s3 == nil {
		logrus.Info("object storage not configured, uploads disabled")
	}

	events := queue.NewPublisher(cfg.AMQPURL, cfg.EventsQueueName)
	if events != nil && cfg.EventsConsumer {
		go queue.StartConsumer(cfg.AMQPURL, cfg.EventsQueueName)
	}

	e := router.New(router.Deps{
		Cfg:        cfg,
		Health:     &handler.HealthHandler{DB: store},
		Items:      handler.NewItemHandler(repository.NewItemRepo(store.Items()), events),
		Auth:       handler.NewAuthHandler(cfg, repository.NewUserRepo(store.Users())),
		Resumes:    handler.NewResumeHandler(repository.NewResumeRepo(store.Resumes()), events),
		Portfolios: handler.NewPortfolioHandler(repository.NewPortfolioRepo(store.Portfolios()), events),
		Uploads:    handler.NewUploadHandler(storageOrNil(s3)),
		Redis:      rdb,
	})

	go func() {
		addr := ":" + cfg.Port
		logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil {
			logrus.WithError(err).Info("server stopped")
		}
	}()

	// Acquire-on-start, release-on-stop: close the listener first, the
	// database last.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("server shutdown failed")
	}
	if err := store.Close(ctx); err != nil {
		logrus.WithError(err).Warn("mongodb disconnect failed")
	}
}

// storageOrNil keeps the typed-nil *storage.Client from masquerading as a
// non-nil Presigner inside the handler.
func storageOrNil(s *storage.Client) handler.Presigner {
	if s == nil {
		return nil
	}
	return s
}
