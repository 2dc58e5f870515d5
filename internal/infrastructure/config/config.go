package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=false"`

	Storage   StorageConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Ledger    LedgerConfig
	RateLimit RateLimitConfig
	Breaker   BreakerConfig
}

type StorageConfig struct {
	Backend   string `env:"STORAGE_BACKEND,    default=memory"`
	KeyPrefix string `env:"STORAGE_KEY_PREFIX, default=ambassadorApp."`
	FileDir   string `env:"FILE_STORE_DIR,     default=./data"`
	SQLDSN    string `env:"SQL_DSN"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=engagement_ledger"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type LedgerConfig struct {
	AllowSelfVote    bool          `env:"ALLOW_SELF_VOTE,        default=true"`
	LeaderboardLimit int           `env:"LEADERBOARD_LIMIT,      default=9"`
	CacheSize        int           `env:"LEADERBOARD_CACHE_SIZE, default=64"`
	CacheTTL         time.Duration `env:"LEADERBOARD_CACHE_TTL,  default=1m"`
	SeedDemoData     bool          `env:"SEED_DEMO_DATA,         default=false"`
}

type RateLimitConfig struct {
	PerSecond float64 `env:"RATE_LIMIT_PER_SECOND, default=5"`
	Burst     int     `env:"RATE_LIMIT_BURST,      default=10"`
}

type BreakerConfig struct {
	MaxFailures uint32        `env:"BREAKER_MAX_FAILURES, default=5"`
	OpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT, default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	case BackendPostgres, BackendMySQL:
		if c.Storage.SQLDSN == "" {
			return fmt.Errorf("config: SQL_DSN is required for storage backend %q", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.JWTSecret == "" && c.Env != "development" {
		return fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	return nil
}
