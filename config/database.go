package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: sqlLogLevel()},
		),
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey so the
		// lifecycle service can retry benign races on unique counters.
		TranslateError: true,
	}

	db, err := gorm.Open(mysql.Open(buildDSN()), gormConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to access connection pool:", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	DB = db
	log.Println("Database connected successfully")
}

func buildDSN() string {
	host := envOr("DB_HOST", "127.0.0.1")
	port := envOr("DB_PORT", "3306")
	name := envOr("DB_DATABASE", "editorial")
	user := os.Getenv("DB_USERNAME")
	pass := os.Getenv("DB_PASSWORD")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)
}

// sqlLogLevel suppresses SQL statement logs in production unless they are
// explicitly re-enabled via DEBUG_SQL=true.
func sqlLogLevel() logger.LogLevel {
	if strings.EqualFold(os.Getenv("ENVIRONMENT"), "production") &&
		!strings.EqualFold(os.Getenv("DEBUG_SQL"), "true") {
		return logger.Warn
	}
	return logger.Info
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
