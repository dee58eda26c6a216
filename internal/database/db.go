package database

import (
	"fmt"
	"time"

	"agenda-escolar/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Open conecta ao Postgres, tentando de novo enquanto o banco sobe.
func Open(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= maxAttempts; i++ {
		log.Info().Int("attempt", i).Int("max", maxAttempts).Msg("connecting to database")

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			log.Info().Msg("connected to database")
			return db, nil
		}

		log.Warn().Err(err).Msg("database connection failed")
		time.Sleep(retryBackoff)
	}
	return nil, fmt.Errorf("connect to database after %d attempts: %w", maxAttempts, err)
}

// Migrate cria/atualiza as tabelas.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Status{},
		&models.Channel{},
		&models.Department{},
		&models.Category{},
		&models.Appointment{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
