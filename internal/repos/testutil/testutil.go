// Package testutil provides a shared postgres harness for repo and service
// tests. Tests are skipped unless TEST_POSTGRES_DSN points at a database the
// suite may migrate and write to; every test runs inside a transaction that
// is rolled back on cleanup.
package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

var (
	dbOnce   sync.Once
	sharedDB *gorm.DB
	dbErr    error
)

func DB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set, skipping database test")
	}
	dbOnce.Do(func() {
		sharedDB, dbErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if dbErr != nil {
			return
		}
		if dbErr = sharedDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; dbErr != nil {
			return
		}
		dbErr = sharedDB.AutoMigrate(
			&types.User{},
			&types.UserToken{},
			&types.Category{},
			&types.Quiz{},
			&types.QuizQuestion{},
			&types.QuestionOption{},
			&types.QuizOrder{},
			&types.TestSession{},
			&types.TestAnswer{},
			&types.TestUpload{},
		)
	})
	if dbErr != nil {
		t.Fatalf("failed to open test database: %v", dbErr)
	}
	return sharedDB
}

// Tx begins a transaction rolled back when the test finishes, so tests never
// leak rows into each other.
func Tx(t *testing.T) *gorm.DB {
	t.Helper()
	tx := DB(t).Begin()
	if tx.Error != nil {
		t.Fatalf("failed to begin transaction: %v", tx.Error)
	}
	t.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}

func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}
