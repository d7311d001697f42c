package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/di"
	"lodge/internal/domains/task/model/dto"
	"lodge/shared/logger"
)

const defaultDailyTasksCron = "0 6 * * *"

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	taskService := di.InitializeTaskService()

	cronExpr := cfg.Scheduler.DailyTasksCron
	if cronExpr == "" {
		cronExpr = defaultDailyTasksCron
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx := context.Background()

			res, err := taskService.GenerateDailyTasks(ctx, dto.GenerateTasksRequest{})
			if err != nil {
				log.Error().Err(err).Msg("Daily task generation failed")
			} else {
				log.Info().Str("date", res.Date).Int("created", res.Created).Msg("Daily task generation completed")
			}

			created, err := taskService.GenerateMaintenanceTasks(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Maintenance task generation failed")

				return
			}

			log.Info().Int("created", created).Msg("Maintenance task generation completed")
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register daily task generation job")
	}

	log.Info().Str("cron", cronExpr).Msg("Starting up task scheduler.")

	scheduler.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info().Msg("Received SIGTERM. Shutting down scheduler.")

	if err := scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Failed to shut down scheduler cleanly")
	}
}
