package database

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"remo-monitor/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Driver    string
	URL       string
	AccessKey string
}

func Connect(config Config) (*gorm.DB, error) {
	if config.URL == "" {
		return nil, &models.ConfigError{
			Setting: "DB_URL",
			Message: "Store connection is not configured. Please set DB_URL in your environment variables.",
		}
	}

	dialector, err := dialectorFor(config)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if config.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	slog.Info("database connected", "driver", config.Driver)
	return db, nil
}

func dialectorFor(config Config) (gorm.Dialector, error) {
	switch config.Driver {
	case "", "postgres", "postgresql":
		dsn, err := withAccessKey(config.URL, config.AccessKey)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(config.URL), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(config.URL), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (allowed: postgres, mysql, sqlite)", config.Driver)
	}
}

// withAccessKey puts the access key into a postgres URL that carries no password.
func withAccessKey(rawURL, accessKey string) (string, error) {
	if accessKey == "" || !strings.Contains(rawURL, "://") {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB_URL: %w", err)
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		return rawURL, nil
	}

	username := "postgres"
	if u.User != nil && u.User.Username() != "" {
		username = u.User.Username()
	}
	u.User = url.UserPassword(username, accessKey)
	return u.String(), nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SensorReading{}); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	slog.Info("database migration completed")
	return nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
