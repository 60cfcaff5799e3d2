package tasks

import (
	"voicedesk/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt returns the asynq Redis connection settings from configuration.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}
}

// StartWorker runs the background task worker. It returns the server so the
// caller can shut it down gracefully.
func StartWorker(logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingConfirmation, HandleBookingConfirmationTask(logger))

	go func() {
		logger.Info("starting background task worker")
		if err := srv.Run(mux); err != nil {
			logger.Error("task worker stopped", zap.Error(err))
		}
	}()
	return srv
}
