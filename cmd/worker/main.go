package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tweetsched/tweetsched/internal/dispatch"
	"github.com/tweetsched/tweetsched/internal/identity"
	"github.com/tweetsched/tweetsched/internal/publisher"
	"github.com/tweetsched/tweetsched/internal/tweet"
	"github.com/tweetsched/tweetsched/internal/worker"
	"github.com/tweetsched/tweetsched/pkg/config"
	"github.com/tweetsched/tweetsched/pkg/logger"
	"github.com/tweetsched/tweetsched/pkg/pg"
	"github.com/tweetsched/tweetsched/pkg/redis"
)

type workerConfig struct {
	PollInterval   time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"5s"`
	BatchSize      int           `env:"WORKER_BATCH_SIZE" envDefault:"10"`
	MaxConcurrent  int           `env:"WORKER_MAX_CONCURRENT" envDefault:"5"`
	PublishTimeout time.Duration `env:"WORKER_PUBLISH_TIMEOUT" envDefault:"30s"`
	SweepInterval  time.Duration `env:"WORKER_SWEEP_INTERVAL" envDefault:"1m"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCfg logger.Config
	config.MustLoad(&logCfg)

	log := logger.New(
		logger.WithConfig(logCfg),
		logger.WithService("tweetsched-worker"),
	)
	logger.SetAsDefault(log)

	var (
		pgCfg    pg.Config
		redisCfg redis.Config
		pubCfg   publisher.Config
		wrkCfg   workerConfig
	)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&pubCfg)
	config.MustLoad(&wrkCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	queue, err := dispatch.NewRedisQueue(redisClient)
	if err != nil {
		log.ErrorContext(ctx, "failed to create dispatch queue", logger.Error(err))
		os.Exit(1)
	}

	store := tweet.NewPostgresStore(pool)
	tokens := identity.NewTokenSource(identity.NewPostgresRepository(pool))
	twitter := publisher.NewTwitter(pubCfg)

	w, err := worker.New(store, queue, tokens, twitter,
		worker.WithPollInterval(wrkCfg.PollInterval),
		worker.WithBatchSize(wrkCfg.BatchSize),
		worker.WithMaxConcurrent(wrkCfg.MaxConcurrent),
		worker.WithPublishTimeout(wrkCfg.PublishTimeout),
		worker.WithLogger(log),
	)
	if err != nil {
		log.ErrorContext(ctx, "failed to create worker", logger.Error(err))
		os.Exit(1)
	}

	reconciler, err := worker.NewReconciler(store, queue,
		worker.WithSweepInterval(wrkCfg.SweepInterval),
		worker.WithReconcilerLogger(log),
	)
	if err != nil {
		log.ErrorContext(ctx, "failed to create reconciler", logger.Error(err))
		os.Exit(1)
	}

	errCh := make(chan error, 2)
	go func() { errCh <- w.Run(ctx)() }()
	go func() { errCh <- reconciler.Run(ctx)() }()

	for range 2 {
		if err := <-errCh; err != nil {
			log.ErrorContext(ctx, "worker exited with error", logger.Error(err))
			stop()
		}
	}
}
