// Package db selects and connects the record store backend named in config.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/config"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/db/breaker"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/db/file"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/db/memory"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/db/mongo"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/db/redis"
	"github.com/ambassador-program/engagement-ledger/internal/infrastructure/db/sql"
)

// Backend is an opened record store plus the function releasing its
// connections.
type Backend struct {
	Name    string
	Records ports.RecordStore
	Close   func(ctx context.Context) error
}

func noopClose(context.Context) error { return nil }

// Open connects the configured backend. Network backends are wrapped in a
// circuit breaker.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	name := cfg.Storage.Backend
	log = log.With().Str("storage", name).Logger()

	breakerSettings := breaker.Settings{
		Name:        name,
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	}

	switch name {
	case config.BackendMemory:
		return &Backend{Name: name, Records: memory.NewRecordStore(), Close: noopClose}, nil

	case config.BackendFile:
		s, err := file.NewRecordStore(cfg.Storage.FileDir)
		if err != nil {
			return nil, err
		}
		return &Backend{Name: name, Records: s, Close: noopClose}, nil

	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return &Backend{
			Name:    name,
			Records: breaker.Wrap(redis.NewRecordStore(client), breakerSettings, log),
			Close:   func(context.Context) error { return client.Close() },
		}, nil

	case config.BackendMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		records := mongo.NewRecordStore(database)
		if err := records.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("mongo index creation failed")
		}
		return &Backend{
			Name:    name,
			Records: breaker.Wrap(records, breakerSettings, log),
			Close:   client.Disconnect,
		}, nil

	case config.BackendPostgres, config.BackendMySQL:
		gdb, err := sql.Open(sql.Config{Dialect: name, DSN: cfg.Storage.SQLDSN}, log)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Name:    name,
			Records: breaker.Wrap(sql.NewRecordStore(gdb), breakerSettings, log),
			Close: func(context.Context) error {
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	default:
		return nil, fmt.Errorf("db: unknown storage backend %q", name)
	}
}
