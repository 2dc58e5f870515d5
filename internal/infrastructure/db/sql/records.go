// Package sql stores records in a single key/value table through gorm, on
// postgres or mysql.
package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

// KVRecord is one serialized record.
type KVRecord struct {
	RecordKey string `gorm:"primaryKey;size:191"`
	Value     []byte
	UpdatedAt time.Time
}

func (KVRecord) TableName() string { return "kv_records" }

// Config selects the dialect and DSN.
type Config struct {
	Dialect string
	DSN     string
}

// Open connects with gorm, routes gorm's own logging through log and
// migrates the records table.
func Open(cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case DialectPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DialectMySQL:
		dialector = mysql.Open(ensureParam(cfg.DSN, "parseTime", "true"))
	default:
		return nil, fmt.Errorf("sql: unsupported dialect %q", cfg.Dialect)
	}

	gormLogger := logger.New(&log, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, fmt.Errorf("sql migrate: %w", err)
	}
	return db, nil
}

func ensureParam(dsn, key, val string) string {
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + key + "=" + val
}

type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec KVRecord
	err := s.db.WithContext(ctx).Where("record_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sql get %s: %w", key, err)
	}
	return rec.Value, nil
}

// Set upserts the record under key.
func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	rec := KVRecord{RecordKey: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("sql set %s: %w", key, err)
	}
	return nil
}

func (s *RecordStore) Remove(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("record_key = ?", key).Delete(&KVRecord{}).Error
	if err != nil {
		return fmt.Errorf("sql remove %s: %w", key, err)
	}
	return nil
}

func (s *RecordStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
