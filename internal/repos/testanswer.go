package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

// TestAnswerRepo is the answer ledger: append-only rows per presented
// question, id order is presentation order.
type TestAnswerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, answers []*types.TestAnswer) ([]*types.TestAnswer, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*types.TestAnswer, error)
	// GetLastBySessionQuestion returns the most recent ledger row for a
	// question within a session (duplicate presentations possible), or nil.
	GetLastBySessionQuestion(ctx context.Context, tx *gorm.DB, sessionID, questionID uint) (*types.TestAnswer, error)
	CountBySessionID(ctx context.Context, tx *gorm.DB, sessionID uint) (int64, error)
	// CountCorrectBySessionID counts rows whose selected option is correct.
	CountCorrectBySessionID(ctx context.Context, tx *gorm.DB, sessionID uint) (int64, error)
	SetSelectedOption(ctx context.Context, tx *gorm.DB, answerID uint, optionID uint) error
}

type testAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestAnswerRepo(db *gorm.DB, baseLog *logger.Logger) TestAnswerRepo {
	return &testAnswerRepo{db: db, log: baseLog.With("repo", "TestAnswerRepo")}
}

func (r *testAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.TestAnswer) ([]*types.TestAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(answers) == 0 {
		return []*types.TestAnswer{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *testAnswerRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*types.TestAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TestAnswer
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *testAnswerRepo) GetLastBySessionQuestion(ctx context.Context, tx *gorm.DB, sessionID, questionID uint) (*types.TestAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.TestAnswer
	err := transaction.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		Order("id DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *testAnswerRepo) CountBySessionID(ctx context.Context, tx *gorm.DB, sessionID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TestAnswer{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *testAnswerRepo) CountCorrectBySessionID(ctx context.Context, tx *gorm.DB, sessionID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TestAnswer{}).
		Joins("JOIN question_option ON question_option.id = test_answer.selected_option_id").
		Where("test_answer.session_id = ? AND question_option.is_correct = ?", sessionID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *testAnswerRepo) SetSelectedOption(ctx context.Context, tx *gorm.DB, answerID uint, optionID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.TestAnswer{}).
		Where("id = ?", answerID).
		Update("selected_option_id", optionID).Error; err != nil {
		return err
	}
	return nil
}
