package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
	"github.com/uniquiz/uniquiz-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "uniquiz", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
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
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// A session exclusively owns its answer rows.
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name  string
		table string
		ddl   string
	}{
		{"fk_user_token_user_id", `"user_token"`, `
			ALTER TABLE "user_token"
			ADD CONSTRAINT "fk_user_token_user_id"
			FOREIGN KEY ("user_id")
			REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_test_answer_session_id", `"test_answer"`, `
			ALTER TABLE "test_answer"
			ADD CONSTRAINT "fk_test_answer_session_id"
			FOREIGN KEY ("session_id")
			REFERENCES "test_session"("id")
			ON DELETE CASCADE`},
		{"fk_question_option_question_id", `"question_option"`, `
			ALTER TABLE "question_option"
			ADD CONSTRAINT "fk_question_option_question_id"
			FOREIGN KEY ("question_id")
			REFERENCES "quiz_question"("id")
			ON DELETE CASCADE`},
		{"fk_quiz_question_quiz_id", `"quiz_question"`, `
			ALTER TABLE "quiz_question"
			ADD CONSTRAINT "fk_quiz_question_quiz_id"
			FOREIGN KEY ("quiz_id")
			REFERENCES "quiz"("id")
			ON DELETE CASCADE`},
	}
	for _, c := range constraints {
		if err := s.db.Exec(fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %q`, c.table, c.name)).Error; err != nil {
			return fmt.Errorf("failed to reset constraint %s: %w", c.name, err)
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
