package db

import (
	"fmt"
	"log/slog"

	"github.com/linskybing/hpc-portal/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the Postgres connection into DB.
func Init() error {
	var err error
	DB, err = gorm.Open(postgres.Open(config.PostgresDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	slog.Info("database connected", "host", config.DbHost, "name", config.DbName)
	return nil
}
