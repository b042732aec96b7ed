package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the store selected by DB_DRIVER: sqlite (default) or mysql.
// GORM_LOG picks the SQL log level (off, error, warn, info; default warn)
// and GORM_SLOW_MS the slow query threshold.
func NewDB() (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: sqlLogger()}
	switch driver := GetEnv("DB_DRIVER", "sqlite"); driver {
	case "mysql":
		db, err := gorm.Open(mysql.Open(mysqlDSN()), cfg)
		if err != nil {
			return nil, err
		}
		return db, tunePool(db)
	case "sqlite":
		return OpenSQLite(GetEnv("SQLITE_PATH", "backoffice.db"), cfg)
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", driver)
	}
}

func sqlLogger() logger.Interface {
	levels := map[string]logger.LogLevel{
		"off":   logger.Silent,
		"error": logger.Error,
		"warn":  logger.Warn,
		"info":  logger.Info,
	}
	level, ok := levels[GetEnv("GORM_LOG", "warn")]
	if !ok {
		level = logger.Warn
	}
	slow, err := strconv.Atoi(GetEnv("GORM_SLOW_MS", "500"))
	if err != nil {
		slow = 500
	}
	return logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             time.Duration(slow) * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  GetEnv("APP_ENV", "development") != "production",
	})
}

// tunePool applies DB_MAX_OPEN / DB_MAX_IDLE to the MySQL pool.
func tunePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(GetEnv("DB_MAX_OPEN", "20")); err == nil {
		sqlDB.SetMaxOpenConns(n)
	}
	if n, err := strconv.Atoi(GetEnv("DB_MAX_IDLE", "5")); err == nil {
		sqlDB.SetMaxIdleConns(n)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// OpenSQLite opens a file database tuned for one writer and concurrent
// readers.
func OpenSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	return gorm.Open(sqlite.Open(dsn), cfg)
}

func mysqlDSN() string {
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		os.Getenv("MYSQL_USER"), os.Getenv("MYSQL_PASS"), GetEnv("MYSQL_HOST", "127.0.0.1"),
		GetEnv("MYSQL_PORT", "3306"), os.Getenv("MYSQL_DB"))
}
