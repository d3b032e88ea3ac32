package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/paulo1403/ehr-solutions-renewed/internal/model"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/config"
)

var db *gorm.DB

// InitDB connects to PostgreSQL, tunes the connection pool, and migrates the
// schema.
func InitDB(cfg *config.Config) error {
	logLevel := cfg.DB.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	// PreferSimpleProtocol disables implicit prepared statements, which
	// otherwise collide when the service sits behind a pooler like pgbouncer.
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	var err error
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	return db.AutoMigrate(&model.Clinic{}, &model.User{})
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB swaps the database instance. Used by tests.
func SetDB(d *gorm.DB) {
	db = d
}
