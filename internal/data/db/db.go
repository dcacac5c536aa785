package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/utils"
)

type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabaseService connects to the configured database. DB_DRIVER
// selects the engine: "postgres" (default) or "sqlite" for local runs.
func NewDatabaseService(logg *logger.Logger) (*DatabaseService, error) {
	serviceLog := logg.With("service", "DatabaseService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	cfg := &gorm.Config{
		Logger: gormLog,
		// Maps duplicate-key failures to gorm.ErrDuplicatedKey on both
		// engines so the achievement grant path can absorb them.
		TranslateError: true,
	}

	driver := utils.GetEnv("DB_DRIVER", "postgres", logg)
	var (
		conn *gorm.DB
		err  error
	)
	switch driver {
	case "sqlite":
		path := utils.GetEnv("DATABASE_PATH", "pylearn.db", logg)
		conn, err = gorm.Open(sqlite.Open(path), cfg)
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", logg)
		port := utils.GetEnv("POSTGRES_PORT", "5432", logg)
		user := utils.GetEnv("POSTGRES_USER", "postgres", logg)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", logg)
		name := utils.GetEnv("POSTGRES_NAME", "pylearn", logg)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			user, password, host, port, name)
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}

	serviceLog.Info("Database connected", "driver", driver)
	return &DatabaseService{db: conn, log: serviceLog}, nil
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }

func (s *DatabaseService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserToken{},
		&domain.LoginEvent{},

		&domain.Attempt{},
		&domain.Achievement{},
		&domain.UserAchievement{},

		&domain.QuizQuestion{},
		&domain.QuizSession{},
	)
}
