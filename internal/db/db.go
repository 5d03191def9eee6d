package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vanshdigitals/edutrack/internal/config"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

var log = logger.New("DB")

// Connect opens the Postgres database with the shared pool settings and runs
// the caller's migration function. TranslateError is enabled so unique
// constraint violations surface as gorm.ErrDuplicatedKey; the constraint is
// the authoritative guard against duplicate-create races, the handlers'
// pre-check reads exist only to reproduce the documented conflict messages.
func Connect(cfg *config.Config, migrate func(*gorm.DB) error) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	log.Info("Connecting to database...")

	const maxRetries = 5
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
			PrepareStmt:    true,
			TranslateError: true,
		})
		if err == nil {
			sqlDB, err := database.DB()
			if err != nil {
				return nil, log.Error("Failed to get underlying *sql.DB instance", err)
			}

			sqlDB.SetMaxOpenConns(100)
			sqlDB.SetMaxIdleConns(10)
			sqlDB.SetConnMaxLifetime(time.Hour)
			sqlDB.SetConnMaxIdleTime(30 * time.Minute)

			if migrate != nil {
				if err := migrate(database); err != nil {
					return nil, log.Error("Failed to run migrations", err)
				}
			}

			log.Success("Connected to database")
			return database, nil
		}

		lastErr = err
		log.Warn("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(5 * time.Second)
	}

	return nil, log.Error("failed to connect to database after %d attempts", lastErr, maxRetries)
}

// Close closes the underlying connection pool.
func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
