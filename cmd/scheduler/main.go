// cmd/scheduler/main.go
//
// The standalone polling scheduler. Default mode runs a poll pass on a
// fixed tick; -once runs a single pass and waits for its timers to
// settle, matching invocation from an external cron.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/truesoul/offerengine-backend/internal/config"
	"github.com/truesoul/offerengine-backend/internal/db"
	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/repository"
	"github.com/truesoul/offerengine-backend/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single poll pass and exit after armed timers settle")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer zlog.Sync()

	conn, err := db.Open(cfg.DSN())
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	jobRepo := &repository.JobRepository{DB: conn}
	sched := scheduler.New(jobRepo, zlog, cfg.APIBaseURL, cfg.DispatchTimeout, cfg.FetchHorizon)

	ctx := context.Background()

	if *once {
		zlog.Info("loading scheduled jobs")
		if err := sched.RunOnce(ctx); err != nil {
			zlog.Fatal("poll pass failed", zap.Error(err))
		}
		sched.Wait()
		return
	}

	c := cron.New()
	_, err = c.AddFunc("@every "+cfg.PollInterval.String(), func() {
		if err := sched.RunOnce(ctx); err != nil {
			zlog.Error("poll pass failed", zap.Error(err))
		}
	})
	if err != nil {
		zlog.Fatal("failed to register poll tick", zap.Error(err))
	}

	zlog.Info("scheduler running", zap.Duration("poll_interval", cfg.PollInterval))
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down, waiting for in-flight jobs")
	<-c.Stop().Done()
	sched.Wait()
}
