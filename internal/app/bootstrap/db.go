// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/jobboard/internal/app/system/indexes"
	"github.com/dalemusser/jobboard/internal/app/system/ticker"
	"github.com/dalemusser/jobboard/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB (required) and Redis (optional) and builds the
// price cache on top of them.
//
// A Redis that cannot be reached is logged and skipped; the price cache then
// works in-process only.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisURL != "" {
		rc, err := ticker.NewRedisClient(ctx, appCfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable; price cache is per-process", zap.Error(err))
		} else {
			deps.Redis = rc
			logger.Info("connected to Redis for the shared price cache")
		}
	}

	deps.Prices = newPriceService(appCfg, deps.Redis, logger)
	deps.Refresher = ticker.NewRefresher(deps.Prices, appCfg.TickerRefreshSpec, logger)
	return deps, nil
}

// newPriceService wires the HTTP fetcher, the TTL cache and, when rc is not
// nil, the shared Redis layer.
func newPriceService(appCfg AppConfig, rc *redis.Client, logger *zap.Logger) *ticker.Service {
	fetcher := ticker.NewFetcher(&http.Client{Timeout: appCfg.TickerTimeout},
		appCfg.TickerBTCUSDURL, appCfg.TickerTRXBTCURL, appCfg.TickerTimeout)

	var opts []ticker.Option
	if rc != nil {
		opts = append(opts, ticker.WithSharedCache(ticker.NewRedisCache(rc, appCfg.TickerTTL)))
	}
	return ticker.NewService(fetcher, appCfg.TickerTTL, logger, opts...)
}

// EnsureSchema creates the collections with their validators, then indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured")
	return nil
}
