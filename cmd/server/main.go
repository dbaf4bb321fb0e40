package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/devaa4522/Vortex-Engine/internal/api"
	app "github.com/devaa4522/Vortex-Engine/internal/app/engine"
	snapshotv1 "github.com/devaa4522/Vortex-Engine/internal/domain/snapshot/v1"
	"github.com/devaa4522/Vortex-Engine/internal/usecase/orderbook"
	"github.com/devaa4522/Vortex-Engine/internal/usecase/orderfeed"
	"github.com/devaa4522/Vortex-Engine/internal/usecase/snapshot"
	"github.com/devaa4522/Vortex-Engine/internal/usecase/tradefeed"
	"github.com/devaa4522/Vortex-Engine/pkg/config"
	"github.com/devaa4522/Vortex-Engine/pkg/logger"
	"github.com/devaa4522/Vortex-Engine/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Snapshot destination: Redis when configured, the local file otherwise.
	var store snapshotv1.Store
	if cfg.RedisConfig.Addr != "" {
		redisConfig := redis.DefaultConfig()
		redisConfig.Addr = cfg.RedisConfig.Addr
		redisConfig.Password = cfg.RedisConfig.Password
		redisConfig.Username = cfg.RedisConfig.Username
		redisConfig.DB = cfg.RedisConfig.DB

		rclient := redis.NewClient(log, redisConfig)
		if err := rclient.Connect(ctx); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
			return
		}
		defer rclient.Close()
		store = snapshot.NewRedisStore(rclient, cfg.Instrument, log)
	} else {
		store = snapshot.NewFileStore(cfg.SnapshotPath, log)
	}

	var publisher app.TradePublisher
	if len(cfg.KafkaConfig.Brokers) > 0 {
		tp := tradefeed.NewPublisher(cfg.KafkaConfig, log)
		defer tp.Close()
		publisher = tp
	}

	engine := app.NewEngine(orderbook.NewOrderbook(), store, publisher, log, &app.Options{
		ExpiryInterval: cfg.ExpiryInterval,
		StopTimeout:    app.DefaultEngineOptions().StopTimeout,
	})

	// Resume from the last snapshot when one exists.
	if err := engine.Load(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "load_snapshot"})
		return
	}

	engine.Start(ctx)

	// Optional Kafka order feed alongside the REST API.
	if len(cfg.KafkaConfig.Brokers) > 0 {
		reader := orderfeed.NewReader(cfg.KafkaConfig, log)
		defer reader.Close()
		go func() {
			for {
				cmd, err := reader.ReadCommand(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				engine.Submit(cmd)
			}
		}()
	}

	server := api.NewServer(engine, log, cfg.BroadcastInterval)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(ctx, cfg.HTTPAddr)
	}()

	log.Info("vortex engine started",
		logger.Field{Key: "instrument", Value: cfg.Instrument},
		logger.Field{Key: "addr", Value: cfg.HTTPAddr},
	)

	select {
	case sig := <-sigChan:
		log.Info("received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})
	case err := <-serverErr:
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "serve_http"})
		}
	}

	cancel()
	engine.Stop()

	// Final snapshot so a restart resumes where we left off.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), app.DefaultEngineOptions().StopTimeout)
	defer saveCancel()
	if err := engine.Save(saveCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "save_snapshot"})
	}
}
