//go:generate go tool swag init -g main.go -o api_specs --outputTypes json,yaml

// @title						Debate Match API
// @version					1.0
// @description				Accounts, values questionnaire, news feed and topic catalog. Matchmaking runs over the /ws websocket.
// @BasePath					/
// @securityDefinitions.apikey	AuthToken
// @in							header
// @name						x-auth-token
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"debatematch/internal/config"
	"debatematch/internal/database/db_client"
	"debatematch/internal/database/migrations"
	"debatematch/internal/debate"
	"debatematch/internal/http/http_server"
	"debatematch/internal/redis/redis_client"
	"debatematch/internal/redis/redis_functions"
	"debatematch/internal/reportsync"
	"debatematch/internal/services/headlines"
	"debatematch/internal/services/identity"
	"debatematch/internal/services/topics"
	"debatematch/internal/services/values"
	"debatematch/internal/topicsync"
	"debatematch/internal/ws"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	var err error
	var cfg *config.Config
	var redisClient *redis.Client

	// 1. Load configuration
	cfg, err = config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully",
		zap.Uint16("http_port", cfg.HttpServerPort),
		zap.Int("match_partitions", cfg.MatchPartitions),
		zap.Duration("match_wait_timeout", cfg.MatchWaitTimeout),
	)

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis
	redisClient, err = redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort), cfg.RedisPassword)
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// Load the Redis Functions lua
	if err := redis_functions.LoadAll(ctx, redisClient); err != nil {
		Log.Fatal("load-redis-funcs", zap.Error(err))
	}

	// 4. Postgres db client + schema
	if cfg.RunMigrations {
		m, err := migrations.New(db_client.URL("pgx5", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb))
		if err != nil {
			Log.Fatal("migrate-init", zap.Error(err))
		}
		if err := m.Up(); err != nil {
			Log.Fatal("migrate-up", zap.Error(err))
		}
		if err := m.Close(); err != nil {
			Log.Warn("migrate-close", zap.Error(err))
		}
	}
	pgDb, err := db_client.Open(db_client.URL("postgres", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb))
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	// 5. Services
	identityService := identity.NewIdentityService(pgDb, cfg.JwtSecret, cfg.TokenTTL)
	valuesService := values.NewValuesService(
		values.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIApiKey, cfg.OpenAIModel),
		redisClient, identityService, cfg.ValuesExchanges,
	)
	headlineService := headlines.NewHeadlineService(cfg.NewsApiURL, cfg.NewsApiKey, redisClient)
	topicService := topics.NewTopicService(redisClient, cfg.TopicTrendingThreshold)

	// 6. Matchmaking engine; websocket credentials are the same bearer tokens
	engine := debate.NewEngine(debate.VerifierFunc(func(ctx context.Context, token string) (debate.Identity, error) {
		claims, err := identityService.Verify(ctx, token)
		if err != nil {
			return debate.Identity{}, err
		}
		return debate.Identity{UserID: claims.UserID, Username: claims.Username}, nil
	}), debate.Options{
		Partitions:  cfg.MatchPartitions,
		WaitTimeout: cfg.MatchWaitTimeout,
	})

	// 7. Background: topic counters and report stream ➜ Postgres
	topicsync.Run(ctx, redisClient, pgDb)
	reportsync.Run(ctx, redisClient, pgDb)

	// 8. WebSockets hub + server
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, engine, topicService, reportsync.NewPublisher(redisClient))

	// 9. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, http_server.Services{
		Identity:  identityService,
		Values:    valuesService,
		Headlines: headlineService,
		Topics:    topicService,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		Log.Info("shutting down")
		engine.Stop()
		wsSrv.Dispose()
		return httpServer.Dispose()
	})
	if err := g.Wait(); err != nil {
		Log.Error("server exited", zap.Error(err))
	}
}
