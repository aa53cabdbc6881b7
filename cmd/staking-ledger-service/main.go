package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/termvault/staking-ledger-service/cmd/staking-ledger-service/cli"
	"github.com/termvault/staking-ledger-service/internal/api"
	"github.com/termvault/staking-ledger-service/internal/config"
	"github.com/termvault/staking-ledger-service/internal/db/model"
	"github.com/termvault/staking-ledger-service/internal/observability/healthcheck"
	"github.com/termvault/staking-ledger-service/internal/observability/metrics"
	"github.com/termvault/staking-ledger-service/internal/queue"
	"github.com/termvault/staking-ledger-service/internal/services"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	err = model.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger db model")
	}
	services, err := services.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger services layer")
	}

	// Start the event queue publishers
	queues := queue.New(&cfg.Queue)
	services.Events = queues

	if err := healthcheck.StartHealthCheckCron(ctx, services, queues, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up staking ledger service")
	}
	if err = apiServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("error while starting staking ledger service")
	}
}
