package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

// ConnectMongoDB opens and pings a MongoDB connection for the configured database
func ConnectMongoDB(ctx context.Context, cfg *Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(cfg.MongoURI)),
		zap.String("database", cfg.MongoDatabase),
	)

	return client.Database(cfg.MongoDatabase), nil
}

// ConnectRedis builds a traced Redis client. It returns nil, nil when the
// cache is not configured.
func ConnectRedis(ctx context.Context, cfg *Config) (*redisclient.Client, error) {
	if !cfg.CacheEnabled() {
		logging.Logger.Info("redis cache is disabled")
		return nil, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redisclient.NewClient(redis.NewClient(opts))

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logging.Logger.Info("connected to Redis", zap.String("addr", opts.Addr))
	return client, nil
}

// redisOptions accepts either a redis:// URL or a bare host:port address
func redisOptions(cfg *Config) (*redis.Options, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.RedisURI, "redis://") || strings.HasPrefix(cfg.RedisURI, "rediss://") {
		parsed, err := redis.ParseURL(cfg.RedisURI)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URI: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.RedisURI, DB: cfg.RedisDB}
	}

	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10

	return opts, nil
}

// maskMongoURI hides credentials embedded in a MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return uri
	}
	scheme := "mongodb://"
	if strings.HasPrefix(uri, "mongodb+srv://") {
		scheme = "mongodb+srv://"
	}
	return scheme + "****:****@" + uri[at+1:]
}
