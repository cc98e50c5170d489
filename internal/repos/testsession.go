package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

type TestSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.TestSession) ([]*types.TestSession, error)
	// GetLastByUserQuiz returns the current session for a (user, quiz)
	// pair: the row with the highest id, or nil when none exists.
	GetLastByUserQuiz(ctx context.Context, tx *gorm.DB, userID uuid.UUID, quizID uint) (*types.TestSession, error)
	// GetLastByUser returns the user's most recent session across all
	// quizzes, or nil when the user never started a test.
	GetLastByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.TestSession, error)
}

type testSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestSessionRepo(db *gorm.DB, baseLog *logger.Logger) TestSessionRepo {
	return &testSessionRepo{db: db, log: baseLog.With("repo", "TestSessionRepo")}
}

func (r *testSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.TestSession) ([]*types.TestSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessions) == 0 {
		return []*types.TestSession{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *testSessionRepo) GetLastByUserQuiz(ctx context.Context, tx *gorm.DB, userID uuid.UUID, quizID uint) (*types.TestSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.TestSession
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
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

func (r *testSessionRepo) GetLastByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.TestSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.TestSession
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
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
