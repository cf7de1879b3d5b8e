package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/infrastructure/config"
	"github.com/shopsync/backend/internal/infrastructure/logger"
)

// Database pairs the gorm handle used by repositories with its connection pool.
type Database struct {
	DB   *gorm.DB
	pool *sql.DB
}

// NewDatabase connects to Postgres with SQL logged through zap at cfg.LogLevel.
// The connection is verified before returning.
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*Database, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.LogLevel)),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	d, err := wrap(gdb)
	if err != nil {
		return nil, err
	}
	d.pool.SetMaxOpenConns(cfg.MaxOpenConns)
	d.pool.SetMaxIdleConns(cfg.MaxIdleConns)
	d.pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	d.pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = d.pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return d, nil
}

// NewDatabaseFromGorm wraps an already opened connection
func NewDatabaseFromGorm(gdb *gorm.DB) (*Database, error) {
	return wrap(gdb)
}

func wrap(gdb *gorm.DB) (*Database, error) {
	pool, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("underlying sql.DB: %w", err)
	}
	return &Database{DB: gdb, pool: pool}, nil
}

func (d *Database) Close() error {
	return d.pool.Close()
}

// Ping satisfies the health handler's Pinger.
func (d *Database) Ping(ctx context.Context) error {
	return d.pool.PingContext(ctx)
}

func (d *Database) Stats() sql.DBStats {
	return d.pool.Stats()
}
