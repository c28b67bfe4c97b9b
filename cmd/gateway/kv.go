package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/conectar/console-gateway/internal/core/ports"
	"github.com/conectar/console-gateway/internal/infrastructure/config"
	"github.com/conectar/console-gateway/internal/infrastructure/db/mongo"
	"github.com/conectar/console-gateway/internal/infrastructure/db/redis"
	"github.com/conectar/console-gateway/internal/infrastructure/kv"
)

const connectMaxElapsed = 30 * time.Second

// openKV connects the configured key-value driver, retrying with exponential
// backoff while the server comes up. The returned func releases it.
func openKV(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.KVStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		client, err := retryConnect(ctx, log, "redis", func() (*goredis.Client, error) {
			return redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewKVStore(client), func() { _ = client.Close() }, nil

	case config.DriverMongo:
		db, err := retryConnect(ctx, log, "mongo", func() (*gomongo.Database, error) {
			_, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			return db, err
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Client().Disconnect(dctx)
		}
		return mongo.NewKVStore(db), closeFn, nil

	default:
		log.Warn().Msg("using in-memory store, simulated data is lost on restart")
		return kv.NewMemory(), func() {}, nil
	}
}

func retryConnect[T any](ctx context.Context, log zerolog.Logger, name string, connect func() (T, error)) (T, error) {
	eb := backoff.NewExponentialBackOff()
	eb.MaxElapsedTime = connectMaxElapsed

	res, err := backoff.RetryNotifyWithData(connect, backoff.WithContext(eb, ctx), func(err error, next time.Duration) {
		log.Warn().Err(err).Str("driver", name).Dur("retry_in", next).Msg("store connection failed, retrying")
	})
	if err != nil {
		return res, fmt.Errorf("connect %s: %w", name, err)
	}
	return res, nil
}
