package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tweetsched/tweetsched/internal/api"
	"github.com/tweetsched/tweetsched/internal/dispatch"
	"github.com/tweetsched/tweetsched/internal/identity"
	"github.com/tweetsched/tweetsched/internal/tweet"
	"github.com/tweetsched/tweetsched/pkg/config"
	"github.com/tweetsched/tweetsched/pkg/httpserver"
	"github.com/tweetsched/tweetsched/pkg/logger"
	"github.com/tweetsched/tweetsched/pkg/pg"
	"github.com/tweetsched/tweetsched/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCfg logger.Config
	config.MustLoad(&logCfg)

	log := logger.New(
		logger.WithConfig(logCfg),
		logger.WithService("tweetsched-api"),
	)
	logger.SetAsDefault(log)

	var (
		pgCfg    pg.Config
		redisCfg redis.Config
		httpCfg  httpserver.Config
		apiCfg   api.Config
		oauthCfg identity.OAuthConfig
	)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&apiCfg)
	config.MustLoad(&oauthCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "failed to apply migrations", logger.Error(err))
		os.Exit(1)
	}

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
	svc, err := tweet.NewService(store, queue, tweet.WithLogger(log))
	if err != nil {
		log.ErrorContext(ctx, "failed to create tweet service", logger.Error(err))
		os.Exit(1)
	}

	users := identity.NewPostgresRepository(pool)
	oauth := identity.NewOAuthService(oauthCfg, users, log)

	router := api.NewRouter(api.RouterOptions{
		Handler: api.NewHandler(svc, log),
		OAuth:   oauth,
		Health: httpserver.HealthCheckHandler(ctx, log,
			pg.Healthcheck(pool),
			redis.Healthcheck(redisClient),
		),
		CORS: apiCfg.CORSAllowedOrigins,
	})

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, router); err != nil {
		log.ErrorContext(ctx, "http server exited with error", logger.Error(err))
		os.Exit(1)
	}
}
