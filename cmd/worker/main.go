// cmd/worker/main.go
//
// RabbitMQ dispatch worker: consumes job IDs from the durable dispatch
// queue and runs the dispatcher in-process. Used for operator-triggered
// re-dispatch alongside the HTTP path the scheduler uses.
package main

import (
	"context"
	"encoding/json"
	"log"

	"go.uber.org/zap"

	"github.com/truesoul/offerengine-backend/internal/config"
	"github.com/truesoul/offerengine-backend/internal/content"
	"github.com/truesoul/offerengine-backend/internal/db"
	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/mailer"
	"github.com/truesoul/offerengine-backend/internal/queue"
	"github.com/truesoul/offerengine-backend/internal/repository"
	"github.com/truesoul/offerengine-backend/internal/service"
)

const maxRequeues = 3

func main() {
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

	gmailSender, err := mailer.NewGmailSender(cfg.GoogleServiceAccountKey)
	if err != nil {
		zlog.Fatal("failed to build gmail sender", zap.Error(err))
	}

	dispatchService := &service.DispatchService{
		JobRepo:      &repository.JobRepository{DB: conn},
		SenderRepo:   &repository.SenderRepository{DB: conn},
		SettingsRepo: &repository.SettingsRepository{DB: conn},
		LogRepo:      &repository.LogRepository{DB: conn},
		Renderer:     content.NewRenderer(),
		Mailer:       gmailSender,
		Logger:       zlog,
	}

	q, err := queue.NewAMQPQueue(cfg.AMQPURL)
	if err != nil {
		zlog.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer q.Close()

	msgs, err := q.Consume()
	if err != nil {
		zlog.Fatal("failed to register consumer", zap.Error(err))
	}

	zlog.Info("worker running, waiting for messages")
	ctx := context.Background()

	for d := range msgs {
		var msg queue.JobMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			zlog.Warn("invalid job message, dropping", zap.Error(err))
			d.Ack(false)
			continue
		}

		_, err := dispatchService.Dispatch(ctx, msg.JobID)
		if err != nil {
			zlog.Warn("dispatch failed", zap.Int64("job_id", msg.JobID), zap.Error(err))

			// requeue a bounded number of times, then drop; the job
			// row already carries the failure
			var retryCount int32
			if v, ok := d.Headers["x-retry-count"].(int32); ok {
				retryCount = v
			}
			if retryCount < maxRequeues {
				d.Nack(false, true)
				continue
			}
		}

		d.Ack(false)
	}
}
