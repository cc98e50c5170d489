package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

type QuizQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) ([]*types.QuizQuestion, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.QuizQuestion, error)
	GetByQuizID(ctx context.Context, tx *gorm.DB, quizID uint, limit int) ([]*types.QuizQuestion, error)
	GetRandomByQuizID(ctx context.Context, tx *gorm.DB, quizID uint, n int) ([]*types.QuizQuestion, error)
	CountByQuizID(ctx context.Context, tx *gorm.DB, quizID uint) (int64, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

func (r *quizQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questions) == 0 {
		return []*types.QuizQuestion{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizQuestion
	if len(questionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizQuestionRepo) GetByQuizID(ctx context.Context, tx *gorm.DB, quizID uint, limit int) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []*types.QuizQuestion
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetRandomByQuizID samples n questions uniformly at random, with
// replacement across calls: the same question can come back on a later
// draw within one session.
func (r *quizQuestionRepo) GetRandomByQuizID(ctx context.Context, tx *gorm.DB, quizID uint, n int) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if n <= 0 {
		return []*types.QuizQuestion{}, nil
	}

	var results []*types.QuizQuestion
	if err := transaction.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("RANDOM()").
		Limit(n).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizQuestionRepo) CountByQuizID(ctx context.Context, tx *gorm.DB, quizID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizQuestion{}).
		Where("quiz_id = ?", quizID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
