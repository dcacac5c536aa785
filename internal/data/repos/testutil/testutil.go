package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/pylearnhq/pylearn-backend/internal/data/db"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

var (
	dbOnce   sync.Once
	sharedDB *gorm.DB
	dbErr    error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated gorm handle shared across the package's tests.
// It uses an in-memory SQLite database unless TEST_POSTGRES_DSN is set.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{
			Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
			TranslateError: true,
		}

		var err error
		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			sharedDB, err = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			// Named shared-cache DSN so every pooled connection sees
			// the same in-memory database.
			sharedDB, err = gorm.Open(sqlite.Open("file:repotest?mode=memory&cache=shared"), cfg)
		}
		if err != nil {
			dbErr = err
			return
		}

		if err := db.AutoMigrateAll(sharedDB); err != nil {
			dbErr = err
			return
		}
	})

	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return sharedDB
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    "not-a-real-hash",
		DisplayName: "Test User",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *domain.Achievement {
	tb.Helper()
	a := &domain.Achievement{
		ID:          uuid.New(),
		Name:        name,
		Description: fmt.Sprintf("%s description", name),
		Criteria:    "seeded for tests",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

func SeedAttempt(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string, correct bool) *domain.Attempt {
	tb.Helper()
	a := &domain.Attempt{
		ID:            uuid.New(),
		UserID:        userID,
		Topic:         topic,
		Question:      fmt.Sprintf("question %s", uuid.NewString()[:8]),
		UserAnswer:    "42",
		CorrectAnswer: "42",
		Correct:       correct,
		CreatedAt:     time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed attempt: %v", err)
	}
	return a
}
