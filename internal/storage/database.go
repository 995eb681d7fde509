package storage

import (
	"context"
	"fmt"
	"time"

	"ingestion-service/internal/pkg/config"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database encapsula a conexão GORM.
type Database struct {
	DB     *gorm.DB
	logger *zap.Logger
}

func gormConfig(debug bool) *gorm.Config {
	level := gormlogger.Silent
	if debug {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(level),
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Open abre o banco configurado (PostgreSQL ou SQLite).
func Open(cfg *config.Config, logger *zap.Logger) (*Database, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return OpenSQLite(cfg.SQLitePath, logger)
	}
	return OpenPostgres(cfg.GetDatabaseURL(), !cfg.IsProduction(), logger)
}

// OpenPostgres conecta ao PostgreSQL e configura o pool.
func OpenPostgres(dsn string, debug bool, logger *zap.Logger) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("conexão com o banco estabelecida", zap.String("driver", config.DriverPostgres))
	return &Database{DB: db, logger: logger}, nil
}

// OpenSQLite abre um banco SQLite (arquivo ou memória). Uma única conexão
// serializa as gravações paralelas dos lotes.
func OpenSQLite(dsn string, logger *zap.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(false))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logger.Info("banco sqlite aberto", zap.String("dsn", dsn))
	return &Database{DB: db, logger: logger}, nil
}

// AutoMigrate cria ou ajusta as tabelas de métricas.
func (d *Database) AutoMigrate() error {
	d.logger.Info("executando migrações")
	if err := d.DB.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Ping verifica se o banco responde.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close fecha a conexão.
func (d *Database) Close() error {
	d.logger.Info("fechando conexão com o banco")
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
