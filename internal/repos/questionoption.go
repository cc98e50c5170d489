package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/uniquiz/uniquiz-backend/internal/logger"
	"github.com/uniquiz/uniquiz-backend/internal/types"
)

type QuestionOptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, options []*types.QuestionOption) ([]*types.QuestionOption, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, optionIDs []uint) ([]*types.QuestionOption, error)
	GetByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.QuestionOption, error)
	GetCorrectByQuestionID(ctx context.Context, tx *gorm.DB, questionID uint) ([]*types.QuestionOption, error)
}

type questionOptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionOptionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionOptionRepo {
	return &questionOptionRepo{db: db, log: baseLog.With("repo", "QuestionOptionRepo")}
}

func (r *questionOptionRepo) Create(ctx context.Context, tx *gorm.DB, options []*types.QuestionOption) ([]*types.QuestionOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(options) == 0 {
		return []*types.QuestionOption{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *questionOptionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, optionIDs []uint) ([]*types.QuestionOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuestionOption
	if len(optionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", optionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionOptionRepo) GetByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uint) ([]*types.QuestionOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuestionOption
	if len(questionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("question_id, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionOptionRepo) GetCorrectByQuestionID(ctx context.Context, tx *gorm.DB, questionID uint) ([]*types.QuestionOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuestionOption
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND is_correct = ?", questionID, true).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
