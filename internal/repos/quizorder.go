package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

type QuizOrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, orders []*types.QuizOrder) ([]*types.QuizOrder, error)
	ExistsByQuizID(ctx context.Context, tx *gorm.DB, quizID uint) (bool, error)
	ExistsByUserQuiz(ctx context.Context, tx *gorm.DB, userID uuid.UUID, quizID uint) (bool, error)
}

type quizOrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizOrderRepo(db *gorm.DB, baseLog *logger.Logger) QuizOrderRepo {
	return &quizOrderRepo{db: db, log: baseLog.With("repo", "QuizOrderRepo")}
}

func (r *quizOrderRepo) Create(ctx context.Context, tx *gorm.DB, orders []*types.QuizOrder) ([]*types.QuizOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(orders) == 0 {
		return []*types.QuizOrder{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *quizOrderRepo) ExistsByQuizID(ctx context.Context, tx *gorm.DB, quizID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizOrder{}).
		Where("quiz_id = ?", quizID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *quizOrderRepo) ExistsByUserQuiz(ctx context.Context, tx *gorm.DB, userID uuid.UUID, quizID uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizOrder{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
